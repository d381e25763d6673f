package utils

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/oauth2"

	"github.com/jakechorley/store-rota/internal/config"
)

func TestTokenFileRoundTrip(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	missing, err := LoadTokenFromFile("test")
	require.NoError(t, err)
	assert.Nil(t, missing)

	token := &oauth2.Token{
		AccessToken:  "access",
		RefreshToken: "refresh",
		TokenType:    "Bearer",
		Expiry:       time.Date(2030, 1, 1, 0, 0, 0, 0, time.UTC),
	}
	require.NoError(t, SaveTokenToFile("test", token))

	info, err := os.Stat(filepath.Join(home, tokenDirName, "token-test.json"))
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(tokenFilePerms), info.Mode().Perm())

	loaded, err := LoadTokenFromFile("test")
	require.NoError(t, err)
	assert.Equal(t, "access", loaded.AccessToken)
	assert.Equal(t, "refresh", loaded.RefreshToken)
	assert.True(t, token.Expiry.Equal(loaded.Expiry))
}

func TestGetOAuthConfig(t *testing.T) {
	oauthCfg := &config.OAuthClientConfig{
		Installed: config.OAuthInstalled{
			ClientID:                "client",
			ProjectID:               "store-rota",
			AuthURI:                 "https://accounts.google.com/o/oauth2/auth",
			TokenURI:                "https://oauth2.googleapis.com/token",
			AuthProviderX509CertURL: "https://www.googleapis.com/oauth2/v1/certs",
			ClientSecret:            "secret",
			RedirectURIs:            []string{"http://localhost"},
		},
	}

	googleConfig, err := GetOAuthConfig(oauthCfg)
	require.NoError(t, err)

	assert.Equal(t, "client", googleConfig.ClientID)
	assert.Equal(t, []string{ScopeSheetsReadonly}, googleConfig.Scopes)
	assert.Equal(t, "http://localhost:3000/oauth/callback", googleConfig.RedirectURL)
}

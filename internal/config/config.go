package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/go-playground/validator/v10"
	"github.com/teambition/rrule-go"
	"gopkg.in/yaml.v3"

	"github.com/jakechorley/store-rota/pkg/core/allocator"
	"github.com/jakechorley/store-rota/pkg/core/allocator/criteria"
	"github.com/jakechorley/store-rota/pkg/core/compliance"
	"github.com/jakechorley/store-rota/pkg/core/gridvalidator"
	"github.com/jakechorley/store-rota/pkg/core/model"
)

// Default criterion weights
const (
	DefaultPreferenceWeight     = 20.0
	DefaultWeekendBalanceWeight = 10.0
)

// StaffSheet locates the staff roster spreadsheet
type StaffSheet struct {
	SheetID string `yaml:"sheetID" validate:"required_with=Tab"`
	Tab     string `yaml:"tab" validate:"required_with=SheetID"`

	// CredentialsFile is the Google OAuth client JSON used to read the roster
	CredentialsFile string `yaml:"credentialsFile,omitempty"`
}

// StaffingConstraint fixes the number of shifts for a store on a weekday
type StaffingConstraint struct {
	StoreID   string `yaml:"storeID" validate:"required"`
	Weekday   string `yaml:"weekday" validate:"required,weekday"`
	MinShifts int    `yaml:"minShifts" validate:"min=1"`
	MaxShifts int    `yaml:"maxShifts" validate:"gtefield=MinShifts"`
}

// Preference holds one employee's scheduling wishes
type Preference struct {
	EmployeeID       string   `yaml:"employeeID" validate:"required"`
	PreferredDays    []string `yaml:"preferredDays,omitempty" validate:"dive,weekday"`
	UnavailableDays  []string `yaml:"unavailableDays,omitempty" validate:"dive,weekday"`
	UnavailableDates []string `yaml:"unavailableDates,omitempty" validate:"dive,date"`
	PreferredKinds   []string `yaml:"preferredKinds,omitempty" validate:"dive,oneof=full_day opening closing middle"`
}

// Rotation tunes the rotation engine
type Rotation struct {
	TargetUtilization    float64              `yaml:"targetUtilization,omitempty" validate:"omitempty,gt=0,lte=1"`
	PreferenceWeight     *float64             `yaml:"preferenceWeight,omitempty" validate:"omitempty,gte=0"`
	WeekendBalanceWeight *float64             `yaml:"weekendBalanceWeight,omitempty" validate:"omitempty,gte=0"`
	StaffingConstraints  []StaffingConstraint `yaml:"staffingConstraints,omitempty" validate:"dive"`
	Preferences          []Preference         `yaml:"preferences,omitempty" validate:"dive"`
}

// CustomRule is an extra rest rule added to the built-in ones
type CustomRule struct {
	ID                 string  `yaml:"id" validate:"required"`
	Type               string  `yaml:"type" validate:"required,oneof=daily_rest shift_gap consecutive_days"`
	Name               string  `yaml:"name,omitempty"`
	MinRestHours       float64 `yaml:"minRestHours,omitempty" validate:"gte=0"`
	MaxConsecutiveDays int     `yaml:"maxConsecutiveDays,omitempty" validate:"gte=0"`
	Severity           string  `yaml:"severity" validate:"required,oneof=critical warning"`
	LegalReference     string  `yaml:"legalReference,omitempty"`
	Priority           int     `yaml:"priority,omitempty"`
	Active             *bool   `yaml:"active,omitempty"`
}

// Compliance overrides the statutory thresholds
type Compliance struct {
	DailyRestHours     *float64     `yaml:"dailyRestHours,omitempty" validate:"omitempty,gt=0"`
	ShiftGapHours      *float64     `yaml:"shiftGapHours,omitempty" validate:"omitempty,gt=0"`
	MaxConsecutiveDays *int         `yaml:"maxConsecutiveDays,omitempty" validate:"omitempty,min=1,max=13"`
	WeeklyRestHours    *float64     `yaml:"weeklyRestHours,omitempty" validate:"omitempty,gt=0"`
	CustomRules        []CustomRule `yaml:"customRules,omitempty" validate:"dive"`
}

// Grid overrides the grid validation settings
type Grid struct {
	Enabled                    *bool    `yaml:"enabled,omitempty"`
	MinimumStaffPerHour        *int     `yaml:"minimumStaffPerHour,omitempty" validate:"omitempty,min=1"`
	MinimumOverlapMinutes      *int     `yaml:"minimumOverlapMinutes,omitempty" validate:"omitempty,min=0"`
	AllowSinglePersonCoverage  *bool    `yaml:"allowSinglePersonCoverage,omitempty"`
	EquityThreshold            *float64 `yaml:"equityThreshold,omitempty" validate:"omitempty,gt=0"`
	CriticalGapMinutes         *int     `yaml:"criticalGapMinutes,omitempty" validate:"omitempty,min=0"`
	BoundaryToleranceMinutes   *int     `yaml:"boundaryToleranceMinutes,omitempty" validate:"omitempty,min=0"`
	RecurringUnderstaffingDays *int     `yaml:"recurringUnderstaffingDays,omitempty" validate:"omitempty,min=1,max=7"`
}

// ClosureRule closes a store (or changes its hours) on every occurrence of a recurrence rule
type ClosureRule struct {
	StoreID string `yaml:"storeID" validate:"required"`
	RRule   string `yaml:"rrule" validate:"required"`
	FullDay bool   `yaml:"fullDay"`
	Open    string `yaml:"open,omitempty" validate:"omitempty,clock"`
	Close   string `yaml:"close,omitempty" validate:"omitempty,clock"`
	Reason  string `yaml:"reason,omitempty"`
}

// Config represents the application configuration
type Config struct {
	DatabaseURL  string        `yaml:"databaseURL" validate:"required"`
	StaffSheet   StaffSheet    `yaml:"staffSheet"`
	Rotation     Rotation      `yaml:"rotation"`
	Compliance   Compliance    `yaml:"compliance"`
	Grid         Grid          `yaml:"grid"`
	ClosureRules []ClosureRule `yaml:"closureRules,omitempty" validate:"dive"`
}

// secrets are read from the environment and win over the file
type secrets struct {
	DatabaseURL     string `env:"DATABASE_URL"`
	CredentialsFile string `env:"GOOGLE_CREDENTIALS_FILE"`
}

const envPrefix = "ROTA_"

var validate *validator.Validate

func init() {
	validate = validator.New()
	validate.RegisterValidation("clock", func(fl validator.FieldLevel) bool {
		_, err := model.ParseClock(fl.Field().String())
		return err == nil
	})
	validate.RegisterValidation("date", func(fl validator.FieldLevel) bool {
		_, err := model.ParseDate(fl.Field().String())
		return err == nil
	})
	validate.RegisterValidation("weekday", func(fl validator.FieldLevel) bool {
		_, err := ParseWeekday(fl.Field().String())
		return err == nil
	})
}

// Load loads and validates the configuration from rota_config.yaml
// It looks for the config file in the current directory first, then in the user's home directory
func Load() (*Config, error) {
	return LoadWithEnv("")
}

// LoadWithEnv loads the configuration for an environment.
// For example, env="test" will look for "rota_config.test.yaml"
func LoadWithEnv(environment string) (*Config, error) {
	configPath, err := findConfigFile(environment)
	if err != nil {
		return nil, fmt.Errorf("failed to find config file: %w", err)
	}

	return LoadFromPath(configPath)
}

// LoadFromPath loads and validates the configuration from a specific path,
// applying ROTA_* environment overrides
func LoadFromPath(path string) (*Config, error) {
	return loadFromPath(path, env.ToMap(os.Environ()))
}

func loadFromPath(path string, environ map[string]string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	if err := applyEnv(&cfg, environ); err != nil {
		return nil, err
	}

	if err := Validate(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// applyEnv overlays the secrets found in environ onto the config
func applyEnv(cfg *Config, environ map[string]string) error {
	var s secrets
	if err := env.ParseWithOptions(&s, env.Options{Prefix: envPrefix, Environment: environ}); err != nil {
		aggErr := env.AggregateError{}
		if errors.As(err, &aggErr) && len(aggErr.Errors) > 0 {
			return fmt.Errorf("failed to read environment: %w", aggErr.Errors[0])
		}
		return fmt.Errorf("failed to read environment: %w", err)
	}

	if s.DatabaseURL != "" {
		cfg.DatabaseURL = s.DatabaseURL
	}
	if s.CredentialsFile != "" {
		cfg.StaffSheet.CredentialsFile = s.CredentialsFile
	}
	return nil
}

// Validate validates the configuration struct and checks rrule syntax
func Validate(cfg *Config) error {
	// Run struct validation
	if err := validate.Struct(cfg); err != nil {
		return fmt.Errorf("config validation failed: %w", err)
	}

	// Validate rrule syntax for each closure rule
	for i, rule := range cfg.ClosureRules {
		if _, err := rrule.StrToRRule(rule.RRule); err != nil {
			return fmt.Errorf("invalid rrule in closureRules[%d]: %w", i, err)
		}
		if !rule.FullDay && model.ClockMinutes(rule.Close) <= model.ClockMinutes(rule.Open) {
			return fmt.Errorf("closureRules[%d]: close %s is not after open %s", i, rule.Close, rule.Open)
		}
	}

	return nil
}

// ParseWeekday parses an English weekday name such as "monday" or "Mon"
func ParseWeekday(s string) (time.Weekday, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	if len(name) >= 3 {
		for d := time.Sunday; d <= time.Saturday; d++ {
			full := strings.ToLower(d.String())
			if name == full || name == full[:3] {
				return d, nil
			}
		}
	}
	return time.Sunday, fmt.Errorf("unknown weekday %q", s)
}

func parseWeekdays(names []string) []time.Weekday {
	days := make([]time.Weekday, 0, len(names))
	for _, name := range names {
		if d, err := ParseWeekday(name); err == nil {
			days = append(days, d)
		}
	}
	return days
}

// AllocatorConfig returns the engine tuning with the configured overrides applied
func (c *Config) AllocatorConfig() allocator.Config {
	cfg := allocator.DefaultConfig()

	if c.Rotation.TargetUtilization > 0 {
		cfg.TargetUtilization = c.Rotation.TargetUtilization
	}

	for _, sc := range c.Rotation.StaffingConstraints {
		weekday, _ := ParseWeekday(sc.Weekday)
		cfg.StaffingConstraints = append(cfg.StaffingConstraints, allocator.StaffingConstraint{
			StoreID:   sc.StoreID,
			Weekday:   weekday,
			MinShifts: sc.MinShifts,
			MaxShifts: sc.MaxShifts,
		})
	}

	for _, p := range c.Rotation.Preferences {
		kinds := make([]model.ShiftKind, 0, len(p.PreferredKinds))
		for _, kind := range p.PreferredKinds {
			kinds = append(kinds, model.ShiftKind(kind))
		}
		cfg.Preferences = append(cfg.Preferences, allocator.EmployeePreference{
			EmployeeID:       p.EmployeeID,
			PreferredDays:    parseWeekdays(p.PreferredDays),
			UnavailableDays:  parseWeekdays(p.UnavailableDays),
			UnavailableDates: p.UnavailableDates,
			PreferredKinds:   kinds,
		})
	}

	return cfg
}

// Criteria returns the allocation criteria with their configured weights
func (c *Config) Criteria() []allocator.Criterion {
	preferenceWeight := DefaultPreferenceWeight
	if c.Rotation.PreferenceWeight != nil {
		preferenceWeight = *c.Rotation.PreferenceWeight
	}
	weekendWeight := DefaultWeekendBalanceWeight
	if c.Rotation.WeekendBalanceWeight != nil {
		weekendWeight = *c.Rotation.WeekendBalanceWeight
	}

	return []allocator.Criterion{
		criteria.NewPreferenceCriterion(preferenceWeight),
		criteria.NewWeekendBalanceCriterion(weekendWeight),
	}
}

// ComplianceRules returns the built-in rules with the configured thresholds, followed by the custom rules
func (c *Config) ComplianceRules() []compliance.Rule {
	rules := compliance.DefaultRules()
	for i := range rules {
		switch rules[i].Type {
		case compliance.RuleDailyRest:
			if c.Compliance.DailyRestHours != nil {
				rules[i].MinRestHours = *c.Compliance.DailyRestHours
			}
		case compliance.RuleShiftGap:
			if c.Compliance.ShiftGapHours != nil {
				rules[i].MinRestHours = *c.Compliance.ShiftGapHours
			}
		case compliance.RuleConsecutiveDays:
			if c.Compliance.MaxConsecutiveDays != nil {
				rules[i].MaxConsecutiveDays = *c.Compliance.MaxConsecutiveDays
			}
		}
	}

	for _, custom := range c.Compliance.CustomRules {
		active := true
		if custom.Active != nil {
			active = *custom.Active
		}
		name := custom.Name
		if name == "" {
			name = custom.ID
		}
		rules = append(rules, compliance.Rule{
			ID:                 custom.ID,
			Type:               compliance.RuleType(custom.Type),
			Name:               name,
			MinRestHours:       custom.MinRestHours,
			MaxConsecutiveDays: custom.MaxConsecutiveDays,
			Severity:           compliance.Severity(custom.Severity),
			LegalReference:     custom.LegalReference,
			Active:             active,
			Priority:           custom.Priority,
		})
	}

	return rules
}

// ComplianceOptions returns the non-rule compliance thresholds
func (c *Config) ComplianceOptions() compliance.Options {
	options := compliance.DefaultOptions()
	if c.Compliance.WeeklyRestHours != nil {
		options.WeeklyRestHours = *c.Compliance.WeeklyRestHours
	}
	return options
}

// GridSettings returns the grid validation settings with the configured overrides applied
func (c *Config) GridSettings() gridvalidator.Settings {
	settings := gridvalidator.DefaultSettings()
	g := c.Grid

	if g.Enabled != nil {
		settings.Enabled = *g.Enabled
	}
	if g.MinimumStaffPerHour != nil {
		settings.MinimumStaffPerHour = *g.MinimumStaffPerHour
	}
	if g.MinimumOverlapMinutes != nil {
		settings.MinimumOverlapMinutes = *g.MinimumOverlapMinutes
	}
	if g.AllowSinglePersonCoverage != nil {
		settings.AllowSinglePersonCoverage = *g.AllowSinglePersonCoverage
	}
	if g.EquityThreshold != nil {
		settings.EquityThreshold = *g.EquityThreshold
	}
	if g.CriticalGapMinutes != nil {
		settings.CriticalGapMinutes = *g.CriticalGapMinutes
	}
	if g.BoundaryToleranceMinutes != nil {
		settings.BoundaryToleranceMinutes = *g.BoundaryToleranceMinutes
	}
	if g.RecurringUnderstaffingDays != nil {
		settings.RecurringUnderstaffingDays = *g.RecurringUnderstaffingDays
	}

	return settings
}

// ExpandClosures returns the closure days the store's closure rules produce between from and to (inclusive)
func (c *Config) ExpandClosures(storeID, from, to string) ([]model.ClosureDay, error) {
	start, err := model.ParseDate(from)
	if err != nil {
		return nil, err
	}
	end, err := model.ParseDate(to)
	if err != nil {
		return nil, err
	}
	end = end.Add(24*time.Hour - time.Second)

	closures := []model.ClosureDay{}
	for i, rule := range c.ClosureRules {
		if rule.StoreID != storeID {
			continue
		}

		r, err := rrule.StrToRRule(rule.RRule)
		if err != nil {
			return nil, fmt.Errorf("failed to parse rrule in closureRules[%d]: %w", i, err)
		}
		r.DTStart(start)

		for _, occurrence := range r.Between(start, end, true) {
			closure := model.ClosureDay{
				Date:    model.FormatDate(occurrence),
				FullDay: rule.FullDay,
				Reason:  rule.Reason,
			}
			if !rule.FullDay {
				closure.Open = rule.Open
				closure.Close = rule.Close
			}
			closures = append(closures, closure)
		}
	}

	return closures, nil
}

// findConfigFile searches for the config file in current directory and home directory
func findConfigFile(environment string) (string, error) {
	configFileName := "rota_config.yaml"
	if environment != "" {
		configFileName = "rota_config." + environment + ".yaml"
	}

	// Check current directory
	if _, err := os.Stat(configFileName); err == nil {
		return configFileName, nil
	}

	// Check home directory
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}

	homeConfigPath := filepath.Join(homeDir, configFileName)
	if _, err := os.Stat(homeConfigPath); err == nil {
		return homeConfigPath, nil
	}

	return "", fmt.Errorf("%s not found in current directory or home directory", configFileName)
}

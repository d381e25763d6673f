package model

import (
	"fmt"
	"time"
)

// Role is the in-store role an employee works as
type Role string

const (
	RoleSales      Role = "Sales assistant"
	RoleCashier    Role = "Cashier"
	RoleSupervisor Role = "Supervisor"
)

// IsValid returns true for the known roles. An empty role is treated as a sales assistant.
func (r Role) IsValid() bool {
	return r == "" || r == RoleSales || r == RoleCashier || r == RoleSupervisor
}

// Employee is a member of store staff
type Employee struct {
	ID        string
	FirstName string
	LastName  string
	Email     string
	Role      Role

	// ContractHours is the contracted (target/maximum) weekly hours
	ContractHours float64

	// FixedHours is the contractual minimum weekly hours
	FixedHours float64

	Active bool
}

// FullName returns "FirstName LastName", trimmed when either part is missing
func (e Employee) FullName() string {
	switch {
	case e.FirstName == "":
		return e.LastName
	case e.LastName == "":
		return e.FirstName
	default:
		return e.FirstName + " " + e.LastName
	}
}

// DayHours is an open/close window in "HH:MM" wall-clock time
type DayHours struct {
	Open  string `json:"open"`
	Close string `json:"close"`
}

// WeeklySchedule overrides a store's standard hours for a single week
type WeeklySchedule struct {
	ID string `json:"id"`

	// WeekStart is the Monday of the week this schedule applies to (YYYY-MM-DD)
	WeekStart string `json:"weekStart"`

	// Hours per weekday. A missing weekday means the store is closed that day.
	Hours map[time.Weekday]DayHours `json:"hours"`

	Active bool `json:"active"`
}

// ClosureDay marks a specific date as closed or as open with custom hours
type ClosureDay struct {
	Date    string `json:"date"`
	FullDay bool   `json:"fullDay"`
	Open    string `json:"open,omitempty"`
	Close   string `json:"close,omitempty"`
	Reason  string `json:"reason,omitempty"`
}

// HasCustomHours returns true if the closure replaces the day's hours rather than closing the store
func (c ClosureDay) HasCustomHours() bool {
	return !c.FullDay && c.Open != "" && c.Close != ""
}

// StaffRequirement is the staffing band for one role on one weekday
type StaffRequirement struct {
	Weekday  time.Weekday `json:"weekday"`
	Role     Role         `json:"role"`
	MinStaff int          `json:"minStaff"`
	MaxStaff int          `json:"maxStaff"`
}

// Store is a retail location with its standard hours and overrides
type Store struct {
	ID   string
	Name string

	// OpeningHours are the standard hours per weekday. A missing weekday means closed.
	OpeningHours map[time.Weekday]DayHours

	WeeklySchedules   []WeeklySchedule
	ClosureDays       []ClosureDay
	StaffRequirements []StaffRequirement
}

// RequirementsFor returns the staff requirements configured for the given weekday
func (s *Store) RequirementsFor(weekday time.Weekday) []StaffRequirement {
	var reqs []StaffRequirement
	for _, req := range s.StaffRequirements {
		if req.Weekday == weekday {
			reqs = append(reqs, req)
		}
	}
	return reqs
}

// Validate checks every clock and date the store carries.
// The scheduling engine assumes valid input, so callers run this at the boundary.
func (s *Store) Validate() error {
	for weekday, hours := range s.OpeningHours {
		if err := validateDayHours(hours); err != nil {
			return fmt.Errorf("store %s opening hours for %s: %w", s.ID, weekday, err)
		}
	}

	for _, schedule := range s.WeeklySchedules {
		if _, err := ParseDate(schedule.WeekStart); err != nil {
			return fmt.Errorf("store %s weekly schedule %s: %w", s.ID, schedule.ID, err)
		}
		for weekday, hours := range schedule.Hours {
			if err := validateDayHours(hours); err != nil {
				return fmt.Errorf("store %s weekly schedule %s for %s: %w", s.ID, schedule.ID, weekday, err)
			}
		}
	}

	for _, closure := range s.ClosureDays {
		if _, err := ParseDate(closure.Date); err != nil {
			return fmt.Errorf("store %s closure: %w", s.ID, err)
		}
		if closure.HasCustomHours() {
			if err := validateDayHours(DayHours{Open: closure.Open, Close: closure.Close}); err != nil {
				return fmt.Errorf("store %s closure on %s: %w", s.ID, closure.Date, err)
			}
		}
	}

	return nil
}

func validateDayHours(hours DayHours) error {
	open, err := ParseClock(hours.Open)
	if err != nil {
		return err
	}
	closeMin, err := ParseClock(hours.Close)
	if err != nil {
		return err
	}
	if closeMin <= open {
		return fmt.Errorf("close %s is not after open %s", hours.Close, hours.Open)
	}
	return nil
}

// Shift status values
const (
	StatusDraft     = "draft"
	StatusPublished = "published"
	StatusCancelled = "cancelled"
)

// Shift is a persisted shift record
type Shift struct {
	ID            string
	EmployeeID    string
	StoreID       string
	Date          string // YYYY-MM-DD
	StartTime     string // HH:MM
	EndTime       string // HH:MM
	BreakDuration int    // minutes
	ActualHours   float64
	ShiftTypeID   string
	IsLocked      bool
	Status        string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// ShiftKind describes the coverage role a shift plays within the day
type ShiftKind string

const (
	KindFullDay ShiftKind = "full_day"
	KindOpening ShiftKind = "opening"
	KindClosing ShiftKind = "closing"
	KindMiddle  ShiftKind = "middle"
)

// ShiftType is a named shift template
type ShiftType struct {
	ID   string
	Name string
	Kind ShiftKind

	// BreakMinutes overrides the default break applied to long shifts of this kind.
	// Nil keeps the engine default.
	BreakMinutes *int
}

// ShiftAssignment is the scheduling engine's output before persistence
type ShiftAssignment struct {
	EmployeeID    string
	StoreID       string
	Date          string
	StartTime     string
	EndTime       string
	BreakDuration int
	ActualHours   float64
	ShiftTypeID   string
	Kind          ShiftKind
	IsLocked      bool
	Status        string

	// Emergency is true when the assignment came from the minimum-staff fallback
	Emergency bool

	// Score is the selection score the employee won the slot with
	Score float64
}

// ToShift converts the assignment into a shift record with the given ID.
// Timestamps are left for the persistence layer.
func (a ShiftAssignment) ToShift(id string) Shift {
	status := a.Status
	if status == "" {
		status = StatusDraft
	}
	return Shift{
		ID:            id,
		EmployeeID:    a.EmployeeID,
		StoreID:       a.StoreID,
		Date:          a.Date,
		StartTime:     a.StartTime,
		EndTime:       a.EndTime,
		BreakDuration: a.BreakDuration,
		ActualHours:   a.ActualHours,
		ShiftTypeID:   a.ShiftTypeID,
		IsLocked:      a.IsLocked,
		Status:        status,
	}
}

// ToAssignment converts a persisted shift back into an assignment
func (s Shift) ToAssignment() ShiftAssignment {
	return ShiftAssignment{
		EmployeeID:    s.EmployeeID,
		StoreID:       s.StoreID,
		Date:          s.Date,
		StartTime:     s.StartTime,
		EndTime:       s.EndTime,
		BreakDuration: s.BreakDuration,
		ActualHours:   s.ActualHours,
		ShiftTypeID:   s.ShiftTypeID,
		IsLocked:      s.IsLocked,
		Status:        s.Status,
	}
}

// ValidateShiftTimes checks the date, clocks and break of a shift
func ValidateShiftTimes(s Shift) error {
	if _, err := ParseDate(s.Date); err != nil {
		return fmt.Errorf("shift %s: %w", s.ID, err)
	}
	start, err := ParseClock(s.StartTime)
	if err != nil {
		return fmt.Errorf("shift %s start: %w", s.ID, err)
	}
	end, err := ParseClock(s.EndTime)
	if err != nil {
		return fmt.Errorf("shift %s end: %w", s.ID, err)
	}
	if end == start {
		return fmt.Errorf("shift %s has zero length", s.ID)
	}
	if s.BreakDuration < 0 {
		return fmt.Errorf("shift %s has negative break %d", s.ID, s.BreakDuration)
	}
	return nil
}

// ActualHoursFor returns the worked hours of a shift (duration minus break)
func ActualHoursFor(start, end string, breakMinutes int) float64 {
	minutes := SpanMinutes(start, end) - breakMinutes
	if minutes < 0 {
		return 0
	}
	return float64(minutes) / 60
}

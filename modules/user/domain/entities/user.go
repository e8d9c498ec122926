package entities

import (
	"time"

	"github.com/coachtranscribe/engine/seedwork/domain"
)

// Plan mirrors modules/billing/domain.Plan. Duplicated as a string type
// here (rather than imported) to keep the user module free of a
// dependency on billing — the billing module is the one that interprets
// plan values against PlanConfiguration.
type Plan string

const (
	PlanFree           Plan = "FREE"
	PlanStudent        Plan = "STUDENT"
	PlanPro            Plan = "PRO"
	PlanEnterprise     Plan = "ENTERPRISE"
	PlanCoachingSchool Plan = "COACHING_SCHOOL"
)

// Role is the user's access-control role (spec.md §3), ported from the
// original Python UserPlan/UserRole enums (core/models/user.py).
type Role string

const (
	RoleUser       Role = "USER"
	RoleStaff      Role = "STAFF"
	RoleAdmin      Role = "ADMIN"
	RoleSuperAdmin Role = "SUPER_ADMIN"
)

// User represents a user entity in the domain. Extended from the
// teacher's bare Name/Email shape with the plan/role/usage-counter
// fields spec.md §3 requires for quota and billing decisions.
type User struct {
	domain.BaseEntity
	Name  string `json:"name" binding:"required" gorm:"column:name"`
	Email Email  `json:"email" binding:"required" gorm:"column:email"`

	Plan Plan `json:"plan" gorm:"column:plan;not null;default:FREE"`
	Role Role `json:"role" gorm:"column:role;not null;default:USER"`

	UsageMinutesThisMonth int       `json:"usage_minutes_this_month" gorm:"column:usage_minutes_this_month;not null;default:0"`
	SessionCountThisMonth int       `json:"session_count_this_month" gorm:"column:session_count_this_month;not null;default:0"`
	ExportsThisMonth      int       `json:"exports_this_month" gorm:"column:exports_this_month;not null;default:0"`
	CurrentMonthStart     time.Time `json:"current_month_start" gorm:"column:current_month_start;not null"`

	CumulativeMinutes   int `json:"cumulative_minutes" gorm:"column:cumulative_minutes;not null;default:0"`
	CumulativeCostCents int `json:"cumulative_cost_cents" gorm:"column:cumulative_cost_cents;not null;default:0"`
}

// NewUser creates a new User entity
func NewUser(id, name string, email Email) User {
	user := User{
		Name:              name,
		Email:             email,
		Plan:              PlanFree,
		Role:              RoleUser,
		CurrentMonthStart: monthStart(time.Now()),
	}
	user.SetID(id)
	return user
}

func monthStart(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
}

// RolloverIfNeeded resets monthly counters when now has crossed into a
// new UTC calendar month since CurrentMonthStart (spec.md §3 invariant:
// "rollover resets monthly counters atomically the first time a
// billable event lands in a new month"). Returns true if it reset.
func (u *User) RolloverIfNeeded(now time.Time) bool {
	boundary := monthStart(now)
	if !u.CurrentMonthStart.Before(boundary) {
		return false
	}
	u.CurrentMonthStart = boundary
	u.UsageMinutesThisMonth = 0
	u.SessionCountThisMonth = 0
	u.ExportsThisMonth = 0
	return true
}

// AdvanceUsage records a billable transcription completion.
func (u *User) AdvanceUsage(minutes, costCents int) {
	u.UsageMinutesThisMonth += minutes
	u.SessionCountThisMonth++
	u.CumulativeMinutes += minutes
	u.CumulativeCostCents += costCents
}

// GetEmail returns the user's email
func (u *User) GetEmail() Email {
	return u.Email
}

// SetEmail sets the user's email
func (u *User) SetEmail(email Email) {
	u.Email = email
}

// GetName returns the user's name
func (u *User) GetName() string {
	return u.Name
}

// SetName sets the user's name
func (u *User) SetName(name string) {
	u.Name = name
}

// TableName sets the table name for GORM
func (User) TableName() string {
	return "users"
}

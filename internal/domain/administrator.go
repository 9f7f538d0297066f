package domain

import "time"

// AccessLevel enumerates administrator privilege tiers, totally ordered.
type AccessLevel string

const (
	AccessLevelEditor     AccessLevel = "EDITOR"
	AccessLevelAdmin      AccessLevel = "ADMIN"
	AccessLevelSuperadmin AccessLevel = "SUPERADMIN"
)

// Rank maps a level onto the total order. Unknown levels rank zero and are
// therefore never sufficient for anything.
func (l AccessLevel) Rank() int {
	switch l {
	case AccessLevelEditor:
		return 1
	case AccessLevelAdmin:
		return 2
	case AccessLevelSuperadmin:
		return 3
	default:
		return 0
	}
}

// Valid reports whether the level is one of the three known tiers.
func (l AccessLevel) Valid() bool {
	return l.Rank() > 0
}

// Sufficient reports whether actual meets or exceeds required.
func Sufficient(actual, required AccessLevel) bool {
	return actual.Rank() >= required.Rank()
}

// AdminStatus represents lifecycle states for an administrator account.
type AdminStatus string

const (
	AdminStatusActive    AdminStatus = "ACTIVE"
	AdminStatusInactive  AdminStatus = "INACTIVE"
	AdminStatusSuspended AdminStatus = "SUSPENDED"
	AdminStatusBlocked   AdminStatus = "BLOCKED"
	AdminStatusPending   AdminStatus = "PENDING"
	AdminStatusDeleted   AdminStatus = "DELETED"
)

// Valid reports whether the status is one of the six known values.
func (s AdminStatus) Valid() bool {
	switch s {
	case AdminStatusActive, AdminStatusInactive, AdminStatusSuspended,
		AdminStatusBlocked, AdminStatusPending, AdminStatusDeleted:
		return true
	}
	return false
}

// StatusFlags returns the derived flags implied by a status. The second
// return is nil when the transition leaves emailVerified untouched.
func StatusFlags(s AdminStatus) (active bool, emailVerified *bool) {
	switch s {
	case AdminStatusActive:
		return true, boolPtr(true)
	case AdminStatusPending:
		return true, boolPtr(false)
	default:
		return false, nil
	}
}

func boolPtr(b bool) *bool { return &b }

// Administrator models an operator account of the storefront panel.
type Administrator struct {
	ID                    int64
	Name                  string
	Email                 string
	PasswordHash          string
	AccessLevel           AccessLevel
	Status                AdminStatus
	Active                bool
	EmailVerified         bool
	ActivationToken       *string
	ActivationTokenExpiry *time.Time
	LastLogin             *time.Time
	LastLogout            *time.Time
	CreatedAt             time.Time
	UpdatedAt             time.Time
}

// IsPending reports whether the account is still awaiting activation.
func (a *Administrator) IsPending() bool {
	return a.Status == AdminStatusPending
}

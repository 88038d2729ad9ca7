package model

import (
	"time"

	"github.com/google/uuid"
)

// Profile holds the variant-specific part of a user. Exactly one of
// AdminProfile, MemberProfile or GuestProfile is attached to every User.
type Profile interface {
	Type() UserType
	profile()
}

type AdminProfile struct {
	Department string
	AdminLevel int
}

type MemberProfile struct {
	FirstName      string
	LastName       string
	PhoneNumber    string
	MembershipTier MembershipTier
	LoyaltyPoints  int
	DateOfBirth    time.Time
}

type GuestProfile struct {
	SessionID        string
	IPAddress        string
	UserAgent        string
	SessionExpiresAt time.Time
	IsConverted      bool
}

func (AdminProfile) Type() UserType  { return UserTypeAdmin }
func (MemberProfile) Type() UserType { return UserTypeMember }
func (GuestProfile) Type() UserType  { return UserTypeGuest }

func (AdminProfile) profile()  {}
func (MemberProfile) profile() {}
func (GuestProfile) profile()  {}

type User struct {
	ID           uuid.UUID
	Email        string
	Username     string
	PasswordHash string
	IsActive     bool
	CreatedAt    time.Time
	Profile      Profile
}

func (u User) Type() UserType {
	if u.Profile == nil {
		return ""
	}
	return u.Profile.Type()
}

func (u User) Values() []any {
	row := []any{u.ID, string(u.Type()), u.Email, u.Username, u.PasswordHash, u.IsActive, u.CreatedAt}

	// department, admin_level
	admin := []any{nil, nil}
	// first_name, last_name, phone_number, membership_tier, loyalty_points, date_of_birth
	member := []any{nil, nil, nil, nil, nil, nil}
	// session_id, ip_address, user_agent, session_expires_at, is_converted
	guest := []any{nil, nil, nil, nil, nil}

	switch p := u.Profile.(type) {
	case AdminProfile:
		admin = []any{p.Department, p.AdminLevel}
	case MemberProfile:
		member = []any{p.FirstName, p.LastName, p.PhoneNumber, string(p.MembershipTier), p.LoyaltyPoints, p.DateOfBirth}
	case GuestProfile:
		guest = []any{p.SessionID, p.IPAddress, p.UserAgent, p.SessionExpiresAt, p.IsConverted}
	}

	row = append(row, admin...)
	row = append(row, member...)
	return append(row, guest...)
}

package generator

import (
	"math"
	"math/rand"
	"strings"
	"time"

	"github.com/Rana718/bulkgen/internal/config"
	"github.com/Rana718/bulkgen/internal/model"
)

// UserQuota splits total into exact per-variant counts. Admin and member
// counts are round(total*ratio); guests take the remainder.
func UserQuota(cfg config.Users) (admins, members, guests int) {
	total := cfg.Total
	admins = int(math.Round(float64(total) * cfg.AdminRatio))
	if admins > total {
		admins = total
	}
	members = int(math.Round(float64(total) * cfg.MemberRatio))
	if admins+members > total {
		members = total - admins
	}
	return admins, members, total - admins - members
}

// UserGenerator assigns variants by index: admins first, then members, then
// guests. The head of the user list is therefore never a guest, which the
// order generator relies on when it picks buyers.
type UserGenerator struct {
	now     time.Time
	admins  int
	members int
}

func NewUserGenerator(cfg config.Users, now time.Time) *UserGenerator {
	admins, members, _ := UserQuota(cfg)
	return &UserGenerator{now: now, admins: admins, members: members}
}

func (g *UserGenerator) variant(index int) model.UserType {
	switch {
	case index < g.admins:
		return model.UserTypeAdmin
	case index < g.admins+g.members:
		return model.UserTypeMember
	default:
		return model.UserTypeGuest
	}
}

func (g *UserGenerator) Generate(rng *rand.Rand, index int) (model.User, error) {
	id, err := newID("user")
	if err != nil {
		return model.User{}, err
	}
	f := newFaker(rng)

	kind := g.variant(index)
	username := strings.ToLower(string(kind)) + "_" + f.randomString(8)

	u := model.User{
		ID:           id,
		Email:        f.email(username),
		Username:     username,
		PasswordHash: f.passwordHash(),
		IsActive:     true,
	}

	switch kind {
	case model.UserTypeAdmin:
		u.CreatedAt = f.daysAgo(g.now, 1, 365)
		u.Profile = model.AdminProfile{
			Department: pick(f, departments),
			AdminLevel: f.intBetween(1, 5),
		}
	case model.UserTypeMember:
		u.CreatedAt = f.daysAgo(g.now, 1, 365)
		u.Profile = model.MemberProfile{
			FirstName:      pick(f, firstNames),
			LastName:       pick(f, lastNames),
			PhoneNumber:    f.phone(),
			MembershipTier: pick(f, model.MembershipTiers),
			LoyaltyPoints:  f.intBetween(0, 50000),
			DateOfBirth:    f.daysAgo(g.now, 3650, 10950),
		}
	default:
		u.CreatedAt = f.daysAgo(g.now, 1, 90)
		u.Profile = model.GuestProfile{
			SessionID:        "session_" + f.randomString(16),
			IPAddress:        f.ipv4(),
			UserAgent:        f.userAgent(),
			SessionExpiresAt: g.now.Add(time.Duration(f.intBetween(1, 24)) * time.Hour),
			IsConverted:      f.bool(),
		}
	}
	return u, nil
}

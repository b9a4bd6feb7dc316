package domain

import (
	"strings"
	"time"
)

// User is a storefront account, keyed by its verified phone number.
// Name and Email stay nil until the customer completes profile setup.
type User struct {
	ID        string
	Phone     string
	Name      *string
	Email     *string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// ProfileUpdate carries the optional profile fields of a PATCH. A nil field is left unchanged;
// a field holding only whitespace clears the stored value.
type ProfileUpdate struct {
	Name  *string
	Email *string
}

// Apply merges p into u and stamps UpdatedAt. It reports whether anything changed.
func (p ProfileUpdate) Apply(u *User, now time.Time) bool {
	changed := false
	if p.Name != nil {
		u.Name = normalized(*p.Name)
		changed = true
	}
	if p.Email != nil {
		e := strings.ToLower(strings.TrimSpace(*p.Email))
		u.Email = normalized(e)
		changed = true
	}
	if changed {
		u.UpdatedAt = now
	}
	return changed
}

func normalized(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}

// Package domain holds delivery addresses saved on a user account.
package domain

import (
	"errors"
	"strings"
	"time"
)

// AddressType classifies an address for display.
type AddressType string

const (
	TypeHome  AddressType = "home"
	TypeWork  AddressType = "work"
	TypeOther AddressType = "other"
)

// Valid reports whether t is one of the known types.
func (t AddressType) Valid() bool {
	switch t {
	case TypeHome, TypeWork, TypeOther:
		return true
	}
	return false
}

// Coordinates is a map pin for an address.
type Coordinates struct {
	Lat float64
	Lng float64
}

// Address is one delivery address. At most one address per user has IsDefault set.
type Address struct {
	ID          string
	UserID      string
	Type        AddressType
	Name        string
	Line        string
	City        string
	State       string
	Pincode     string
	Landmark    *string
	IsDefault   bool
	Coordinates *Coordinates
	CreatedAt   time.Time
}

// Validate trims free-text fields and checks required ones.
func (a *Address) Validate() error {
	a.Name = strings.TrimSpace(a.Name)
	a.Line = strings.TrimSpace(a.Line)
	a.City = strings.TrimSpace(a.City)
	a.State = strings.TrimSpace(a.State)
	a.Pincode = strings.TrimSpace(a.Pincode)
	if a.Landmark != nil {
		if l := strings.TrimSpace(*a.Landmark); l == "" {
			a.Landmark = nil
		} else {
			a.Landmark = &l
		}
	}
	switch {
	case a.UserID == "":
		return errors.New("user id is required")
	case !a.Type.Valid():
		return errors.New("address type must be home, work or other")
	case a.Name == "" || a.Line == "" || a.City == "" || a.State == "":
		return errors.New("name, address, city and state are required")
	case !ValidPincode(a.Pincode):
		return errors.New("pincode must be 6 digits")
	}
	if c := a.Coordinates; c != nil && (c.Lat < -90 || c.Lat > 90 || c.Lng < -180 || c.Lng > 180) {
		return errors.New("coordinates out of range")
	}
	return nil
}

// ValidPincode reports whether p is a 6-digit Indian postal code.
func ValidPincode(p string) bool {
	if len(p) != 6 {
		return false
	}
	for _, c := range p {
		if c < '0' || c > '9' {
			return false
		}
	}
	return true
}

// Package api holds the JSON request and response bodies of the storefront HTTP API.
// Handlers and the Go client share these types.
package api

import (
	addressdomain "github.com/karan399/milkman/internal/address/domain"
	userdomain "github.com/karan399/milkman/internal/user/domain"
)

// SendOTPRequest is the body of POST /functions/v1/send-otp.
type SendOTPRequest struct {
	Phone string `json:"phone" validate:"required,max=32"`
}

// SendOTPResponse is the success body of an issuance.
type SendOTPResponse struct {
	Success  bool   `json:"success"`
	Message  string `json:"message"`
	DebugOTP string `json:"debug_otp,omitempty"`
	DemoMode bool   `json:"demo_mode,omitempty"`
}

// VerifyOTPRequest is the body of POST /functions/v1/verify-otp.
type VerifyOTPRequest struct {
	Phone string `json:"phone" validate:"required,max=32"`
	OTP   string `json:"otp" validate:"required,max=16"`
}

// VerifyOTPResponse is the success body of a verification.
type VerifyOTPResponse struct {
	Success      bool   `json:"success"`
	User         User   `json:"user"`
	SessionToken string `json:"sessionToken"`
}

// User is an account as seen by the client.
type User struct {
	ID         string    `json:"id"`
	Phone      string    `json:"phone"`
	Name       *string   `json:"name,omitempty"`
	Email      *string   `json:"email,omitempty"`
	Addresses  []Address `json:"addresses"`
	IsVerified bool      `json:"isVerified"`
}

// Coordinates is a map pin.
type Coordinates struct {
	Lat float64 `json:"lat" validate:"gte=-90,lte=90"`
	Lng float64 `json:"lng" validate:"gte=-180,lte=180"`
}

// Address is a saved delivery address.
type Address struct {
	ID          string       `json:"id"`
	Type        string       `json:"type"`
	Name        string       `json:"name"`
	Address     string       `json:"address"`
	City        string       `json:"city"`
	State       string       `json:"state"`
	Pincode     string       `json:"pincode"`
	Landmark    *string      `json:"landmark,omitempty"`
	IsDefault   bool         `json:"isDefault"`
	Coordinates *Coordinates `json:"coordinates,omitempty"`
}

// CreateAddressRequest is the body of POST /me/addresses.
type CreateAddressRequest struct {
	Type        string       `json:"type" validate:"required,oneof=home work other"`
	Name        string       `json:"name" validate:"required,max=100"`
	Address     string       `json:"address" validate:"required,max=500"`
	City        string       `json:"city" validate:"required,max=100"`
	State       string       `json:"state" validate:"required,max=100"`
	Pincode     string       `json:"pincode" validate:"required,len=6,numeric"`
	Landmark    *string      `json:"landmark,omitempty" validate:"omitempty,max=200"`
	IsDefault   bool         `json:"isDefault"`
	Coordinates *Coordinates `json:"coordinates,omitempty"`
}

// UpdateAddressRequest is the body of PATCH /me/addresses/{id}. Absent fields are left unchanged.
type UpdateAddressRequest struct {
	Type        *string      `json:"type,omitempty" validate:"omitempty,oneof=home work other"`
	Name        *string      `json:"name,omitempty" validate:"omitempty,max=100"`
	Address     *string      `json:"address,omitempty" validate:"omitempty,max=500"`
	City        *string      `json:"city,omitempty" validate:"omitempty,max=100"`
	State       *string      `json:"state,omitempty" validate:"omitempty,max=100"`
	Pincode     *string      `json:"pincode,omitempty" validate:"omitempty,len=6,numeric"`
	Landmark    *string      `json:"landmark,omitempty" validate:"omitempty,max=200"`
	IsDefault   *bool        `json:"isDefault,omitempty"`
	Coordinates *Coordinates `json:"coordinates,omitempty"`
}

// UpdateProfileRequest is the body of PATCH /me. An empty string clears the field.
type UpdateProfileRequest struct {
	Name  *string `json:"name,omitempty" validate:"omitempty,max=100"`
	Email *string `json:"email,omitempty" validate:"omitempty,email,max=254"`
}

// AddressesResponse is the body of GET /me/addresses.
type AddressesResponse struct {
	Addresses []Address `json:"addresses"`
}

// DeliveryCheckRequest is the body of POST /delivery/check.
type DeliveryCheckRequest struct {
	Pincode string `json:"pincode" validate:"required,len=6,numeric"`
}

// DeliveryCheckResponse reports whether a pincode is served.
type DeliveryCheckResponse struct {
	Pincode   string `json:"pincode"`
	Available bool   `json:"available"`
}

// ContactRequest is the body of POST /contact.
type ContactRequest struct {
	Name    string `json:"name" validate:"required,max=100"`
	Email   string `json:"email" validate:"required,email,max=254"`
	Message string `json:"message" validate:"required,max=5000"`
}

// SuccessResponse is returned by endpoints with no other payload.
type SuccessResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
}

// UserFromDomain converts a user and its addresses. IsVerified is always true: accounts only exist
// for verified phones.
func UserFromDomain(u *userdomain.User, addresses []*addressdomain.Address) User {
	return User{
		ID:         u.ID,
		Phone:      u.Phone,
		Name:       u.Name,
		Email:      u.Email,
		Addresses:  AddressesFromDomain(addresses),
		IsVerified: true,
	}
}

// AddressesFromDomain converts a list, returning an empty (non-nil) slice for none.
func AddressesFromDomain(list []*addressdomain.Address) []Address {
	out := make([]Address, 0, len(list))
	for _, a := range list {
		out = append(out, AddressFromDomain(a))
	}
	return out
}

// AddressFromDomain converts one address.
func AddressFromDomain(a *addressdomain.Address) Address {
	out := Address{
		ID:        a.ID,
		Type:      string(a.Type),
		Name:      a.Name,
		Address:   a.Line,
		City:      a.City,
		State:     a.State,
		Pincode:   a.Pincode,
		Landmark:  a.Landmark,
		IsDefault: a.IsDefault,
	}
	if a.Coordinates != nil {
		out.Coordinates = &Coordinates{Lat: a.Coordinates.Lat, Lng: a.Coordinates.Lng}
	}
	return out
}

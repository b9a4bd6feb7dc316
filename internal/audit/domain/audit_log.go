package domain

import "time"

// Audit actions recorded by the API.
const (
	ActionOTPRequested   = "otp_requested"
	ActionOTPVerified    = "otp_verified"
	ActionOTPFailed      = "otp_failed"
	ActionUserCreated    = "user_created"
	ActionLogout         = "logout"
	ActionProfileUpdated = "profile_updated"
	ActionAddressCreated = "address_created"
	ActionAddressUpdated = "address_updated"
	ActionAddressDeleted = "address_deleted"
	ActionContactCreated = "contact_created"
)

// Audit resources.
const (
	ResourceOTP     = "otp"
	ResourceUser    = "user"
	ResourceSession = "session"
	ResourceAddress = "address"
	ResourceContact = "contact"
)

// AuditLog represents an audit event. UserID is empty for anonymous actions (e.g. OTP requests).
type AuditLog struct {
	ID        string
	UserID    string
	Action    string
	Resource  string
	IP        string
	Metadata  string
	CreatedAt time.Time
}

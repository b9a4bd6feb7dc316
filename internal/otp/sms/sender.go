// Package sms delivers OTP codes by text message.
package sms

import "context"

// Sender delivers an OTP code to a phone number. Implementations must not log the code.
type Sender interface {
	SendOTP(ctx context.Context, to, code string) error
}

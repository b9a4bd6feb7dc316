// Package domain holds messages submitted through the storefront contact form.
package domain

import "time"

// Message is one contact form submission.
type Message struct {
	ID        string
	Name      string
	Email     string
	Message   string
	CreatedAt time.Time
}

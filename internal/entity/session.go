package entity

import "time"

// Session is the live authentication record for one account. At most one
// session exists per username at any time; a newer login replaces it.
type Session struct {
	Username   string    `json:"username"`
	Token      string    `json:"token"`
	DeviceInfo string    `json:"device_info,omitempty"`
	IssuedAt   time.Time `json:"issued_at"`
	ExpiresAt  time.Time `json:"expires_at"`
}

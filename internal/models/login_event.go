package models

import "time"

// Device classifications stored on a login event
const (
	DeviceMobile  = "mobile"
	DeviceTablet  = "tablet"
	DeviceDesktop = "desktop"
	DeviceUnknown = "unknown"
)

// LoginEvent is one immutable authentication occurrence owned by an account.
// Rows are only ever inserted; they disappear when the owning account is deleted.
type LoginEvent struct {
	ID            string    `json:"id" validate:"required"`
	UserID        string    `json:"userId" validate:"required"`
	Timestamp     time.Time `json:"timestamp" validate:"required"`
	Device        string    `json:"device" validate:"required,oneof=mobile tablet desktop unknown"`
	BrowserAgent  string    `json:"browserAgent"`
	SourceAddress string    `json:"sourceAddress"`
}

// ActivitySummary is derived on demand from an account's login events.
// It is never cached or persisted.
type ActivitySummary struct {
	LoginsLast3Days  int           `json:"loginsLast3Days"`
	LoginsLast30Days int           `json:"loginsLast30Days"`
	LastActive       *time.Time    `json:"lastActive"`
	History          []*LoginEvent `json:"history"`
	Suspicious       bool          `json:"suspicious"`
}

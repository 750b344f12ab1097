package domain

import "time"

type ClickEvent struct {
	ID          int64     `json:"id"`
	LinkID      int64     `json:"link_id"`
	ClickedAt   time.Time `json:"clicked_at"`
	IPAddress   string    `json:"ip_address"`
	UserAgent   string    `json:"user_agent"`
	Referer     string    `json:"referer,omitempty"`
	DeviceType  string    `json:"device_type"`
	Browser     string    `json:"browser"`
	OS          string    `json:"os"`
	CountryCode string    `json:"country_code,omitempty"`
}

// ClickRequest is the raw per-visit input handed to the click recorder.
type ClickRequest struct {
	LinkID    int64
	UserAgent string
	Referer   string
	IPAddress string
}

// Visit carries request metadata from the redirect handler to the resolver.
type Visit struct {
	UserAgent string
	Referer   string
	IPAddress string
}

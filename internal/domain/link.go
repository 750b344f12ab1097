package domain

import "time"

type Link struct {
	ID          int64      `json:"id"`
	OriginalURL string     `json:"original_url"`
	ShortCode   string     `json:"short_code"`
	CustomCode  *string    `json:"custom_code,omitempty"`
	Clicks      int64      `json:"clicks"`
	IsActive    bool       `json:"is_active"`
	ExpiresAt   *time.Time `json:"expires_at,omitempty"`
	CreatorIP   string     `json:"-"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// MatchesCode reports whether code is literally one of the link's codes.
func (l *Link) MatchesCode(code string) bool {
	if l.ShortCode == code {
		return true
	}
	return l.CustomCode != nil && *l.CustomCode == code
}

type CreateLinkRequest struct {
	OriginalURL string `json:"url" validate:"required"`
	CustomCode  string `json:"custom_code,omitempty" validate:"omitempty,alias"`
	ExpiryHours int    `json:"expiry_hours,omitempty" validate:"omitempty,gte=1"`
	CreatorIP   string `json:"-"`
}

type Stats struct {
	TotalURLs   int64 `json:"totalUrls"`
	TotalClicks int64 `json:"totalClicks"`
	TodayURLs   int64 `json:"todayUrls"`
	TodayClicks int64 `json:"todayClicks"`
}

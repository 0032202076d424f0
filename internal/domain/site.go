package domain

import "time"

// DefaultLocale is the locale whose paths carry no prefix.
const DefaultLocale = "vi"

type Locale struct {
	Code      string `json:"code"`
	Name      string `json:"name"`
	IsDefault bool   `json:"is_default"`
}

type Property struct {
	ID           int64  `json:"id"`
	Code         string `json:"code"`
	Name         string `json:"property_name"`
	VR360URL     string `json:"vr360_url"`
	PrimaryColor string `json:"primary_color"`
	LogoURL      string `json:"logo_url"`
	BookingURL   string `json:"booking_url"`
	Address      string `json:"address"`
	Phone        string `json:"phone"`
	Email        string `json:"email"`
	Website      string `json:"website"`
}

// Settings is the per-property presentation config (theme, logo, SEO).
type Settings struct {
	PrimaryColor   string `json:"primary_color"`
	LogoMediaID    int64  `json:"logo_media_id"`
	LogoURL        string `json:"logo_url"`
	FaviconURL     string `json:"favicon_url"`
	SEOTitle       string `json:"seo_title"`
	SEODescription string `json:"seo_description"`
}

// PageVR is one page-level VR360 link from the property's VR360 settings.
type PageVR struct {
	Page     string `json:"page_code"`
	Link     string `json:"vr360_link"`
	IsActive *bool  `json:"is_active,omitempty"`
}

// Active treats a missing flag as enabled.
func (p PageVR) Active() bool { return p.IsActive == nil || *p.IsActive }

// Miss is a deep-link lookup that resolved to nothing.
type Miss struct {
	PropertyID int64
	Kind       string
	Code       string
	Locale     string
	SeenAt     time.Time
	Hits       int
}

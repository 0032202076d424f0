package domain

import (
	"context"
	"errors"
)

var (
	ErrNotFound     = errors.New("not found")
	ErrUnauthorized = errors.New("unauthorized")
	ErrForbidden    = errors.New("forbidden")
	ErrValidation   = errors.New("validation failed")
	// ErrNoTour means no detail, page or property VR360 link is configured.
	ErrNoTour = errors.New("no vr360 tour configured")
)

// ContentAPI is the remote hotel-content API, scoped to one tenant.
type ContentAPI interface {
	Property(ctx context.Context, propertyID int64) (Property, error)
	Locales(ctx context.Context, propertyID int64) ([]Locale, error)
	Settings(ctx context.Context, propertyID int64) (Settings, error)
	VR360Settings(ctx context.Context, propertyID int64) ([]PageVR, error)
	Entities(ctx context.Context, kind Kind, propertyID int64, locale string) ([]Entity, error)
	EntityByCode(ctx context.Context, kind Kind, propertyID int64, code, locale string) (Entity, error)
	EntityByID(ctx context.Context, kind Kind, id int64, locale string) (Entity, error)
	Page(ctx context.Context, kind PageKind, propertyID int64, locale string) (Page, error)
	Posts(ctx context.Context, propertyID int64, locale string) ([]Post, error)
	Contact(ctx context.Context, propertyID int64, locale string) (Contact, error)
	Gallery(ctx context.Context, propertyID int64) ([]MediaItem, error)
	Media(ctx context.Context, id int64) (MediaItem, error)
}

type Cache interface {
	Get(ctx context.Context, key string, dst any) (bool, error)
	Set(ctx context.Context, key string, v any, ttlSec int) error
	Del(ctx context.Context, key string) error
}

// MissLog records deep links that resolved to no entity.
type MissLog interface {
	LogMiss(ctx context.Context, m Miss) error
}

// Labels returns localized UI strings (panel titles, messages).
type Labels interface {
	Title(locale, key string) string
}

// TextRenderer turns API rich text into safe HTML.
type TextRenderer interface {
	Render(body, format string) string
}

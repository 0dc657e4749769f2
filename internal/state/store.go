// Package state persists saved locations in SQLite.
package state

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/leapstack-labs/miqat/pkg/salah"
)

var (
	// ErrLocationNotFound is returned when no location has the given name.
	ErrLocationNotFound = errors.New("location not found")

	// ErrLocationExists is returned when adding a name that is already saved.
	ErrLocationExists = errors.New("location already exists")
)

// Location is a named place with optional calculation overrides.
type Location struct {
	ID        string  `json:"id"`
	Name      string  `json:"name"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	Timezone  float64 `json:"timezone"`
	// Method and Madhab are empty when the location follows the global
	// configuration.
	Method    string    `json:"method,omitempty"`
	Madhab    string    `json:"madhab,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Coordinates returns the calculation location.
func (l *Location) Coordinates() salah.Location {
	return salah.Location{
		Latitude:  l.Latitude,
		Longitude: l.Longitude,
		Timezone:  l.Timezone,
	}
}

// Validate checks the name, coordinates and overrides.
func (l *Location) Validate() error {
	if l.Name == "" {
		return fmt.Errorf("location name is required")
	}
	if err := l.Coordinates().Validate(); err != nil {
		return err
	}
	if l.Method != "" {
		if _, err := salah.ParseMethod(l.Method); err != nil {
			return err
		}
	}
	if l.Madhab != "" {
		if _, err := salah.ParseMadhab(l.Madhab); err != nil {
			return err
		}
	}
	return nil
}

// Apply returns cfg with the location's overrides applied.
func (l *Location) Apply(cfg salah.Config) salah.Config {
	method, madhab := cfg.Method, cfg.Madhab
	if m, err := salah.ParseMethod(l.Method); err == nil {
		method = m
	}
	if m, err := salah.ParseMadhab(l.Madhab); err == nil {
		madhab = m
	}
	if method == cfg.Method && madhab == cfg.Madhab {
		return cfg
	}
	return cfg.With(method, madhab)
}

// Store persists saved locations.
type Store interface {
	Open(path string) error
	Close() error
	Migrate() error

	AddLocation(ctx context.Context, loc *Location) error
	UpdateLocation(ctx context.Context, loc *Location) error
	GetLocation(ctx context.Context, name string) (*Location, error)
	ListLocations(ctx context.Context) ([]*Location, error)
	DeleteLocation(ctx context.Context, name string) error
}

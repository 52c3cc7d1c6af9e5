package location

import (
	"context"

	"listings/internal/providers/openstreetmap"
	"listings/internal/types"
)

// ReverseGeocodeProvider defines the interface for address lookup providers
type ReverseGeocodeProvider interface {
	Reverse(ctx context.Context, latitude, longitude float64) (*openstreetmap.ReverseAPIResponse, error)
}

// TimezoneProvider resolves a coordinate to an IANA timezone name
type TimezoneProvider interface {
	Lookup(coords types.Coords) (string, error)
}

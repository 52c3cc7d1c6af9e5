package timezone

import (
	"fmt"
	"sync"

	"github.com/ringsaturn/tzf"

	"listings/internal/types"
)

// Service resolves the IANA timezone of a coordinate
type Service interface {
	Lookup(coords types.Coords) (string, error)
}

// finder is the subset of tzf.F used here
type finder interface {
	GetTimezoneName(lng, lat float64) string
}

type service struct {
	finder finder
}

var (
	instance *service
	initErr  error
	once     sync.Once
)

// NewService returns the process-wide timezone service. The tzf finder keeps
// its polygon data in memory so it is built once.
func NewService() (Service, error) {
	once.Do(func() {
		f, err := tzf.NewDefaultFinder()
		if err != nil {
			initErr = fmt.Errorf("failed to initialize timezone finder: %w", err)
			return
		}
		instance = &service{finder: f}
	})
	if initErr != nil {
		return nil, initErr
	}
	return instance, nil
}

// Lookup returns names like "Africa/Nairobi"
func (s *service) Lookup(coords types.Coords) (string, error) {
	// tzf takes longitude first
	tz := s.finder.GetTimezoneName(coords.Longitude, coords.Latitude)
	if tz == "" {
		return "", fmt.Errorf("could not determine timezone for coordinates lat=%f, lon=%f", coords.Latitude, coords.Longitude)
	}
	return tz, nil
}

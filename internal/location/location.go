package location

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"listings/internal/providers/openstreetmap"
	"listings/internal/timezone"
	"listings/internal/types"
)

var (
	ErrInvalidLatitude  = errors.New("latitude must be between -90 and 90")
	ErrInvalidLongitude = errors.New("longitude must be between -180 and 180")
)

// Service answers location questions against the loaded county dataset
type Service interface {
	// Search returns up to MaxSearchResults entries whose names contain query
	Search(query string) []types.LocationEntry
	// Counties returns the dataset in its original order
	Counties() types.Dataset
	// Resolve maps a coordinate onto the dataset
	Resolve(ctx context.Context, latitude, longitude float64) (*ResolvedLocation, error)
}

// ResolvedLocation is a coordinate placed within the county hierarchy
type ResolvedLocation struct {
	Coordinates types.Coords          `json:"coordinates"`
	Timezone    string                `json:"timezone"`
	Address     types.LocationInfo    `json:"address"`
	County      *types.LocationEntry  `json:"county,omitempty" doc:"Dataset county, absent when the address matches none"`
	Nearby      []types.LocationEntry `json:"nearby" doc:"Sub-counties and areas of the county that match the address"`
}

type locationService struct {
	dataset          types.Dataset
	geocodeProvider  ReverseGeocodeProvider
	timezoneProvider TimezoneProvider
	logger           *slog.Logger
}

// NewLocationService creates a location service with real provider clients
func NewLocationService(dataset types.Dataset, userAgent string, timeout time.Duration, logger *slog.Logger) (Service, error) {
	tzSvc, err := timezone.NewService()
	if err != nil {
		return nil, fmt.Errorf("failed to create timezone service: %w", err)
	}
	return NewLocationServiceWithProviders(
		dataset,
		openstreetmap.NewClient(logger, userAgent, timeout),
		tzSvc,
		logger,
	), nil
}

// NewLocationServiceWithProviders creates a location service with custom providers
// This is useful for testing with mock providers
func NewLocationServiceWithProviders(
	dataset types.Dataset,
	geocodeProvider ReverseGeocodeProvider,
	timezoneProvider TimezoneProvider,
	logger *slog.Logger,
) Service {
	return &locationService{
		dataset:          dataset,
		geocodeProvider:  geocodeProvider,
		timezoneProvider: timezoneProvider,
		logger:           logger.With("component", "location-service"),
	}
}

func (s *locationService) Search(query string) []types.LocationEntry {
	results := Search(query, s.dataset)
	s.logger.Debug("location search", "query", query, "results", len(results))
	return results
}

func (s *locationService) Counties() types.Dataset {
	return s.dataset
}

// Resolve reverse geocodes and looks up the timezone in parallel, then matches
// the address against the dataset
func (s *locationService) Resolve(ctx context.Context, latitude, longitude float64) (*ResolvedLocation, error) {
	if latitude < -90 || latitude > 90 {
		return nil, ErrInvalidLatitude
	}
	if longitude < -180 || longitude > 180 {
		return nil, ErrInvalidLongitude
	}

	coords := types.NewCoords(latitude, longitude)

	var (
		wg          sync.WaitGroup
		geoResp     *openstreetmap.ReverseAPIResponse
		tz          string
		geocodeErr  error
		timezoneErr error
	)

	wg.Add(2)

	go func() {
		defer wg.Done()
		geoResp, geocodeErr = s.geocodeProvider.Reverse(ctx, latitude, longitude)
		if geocodeErr != nil {
			geocodeErr = fmt.Errorf("failed to reverse geocode: %w", geocodeErr)
		}
	}()

	go func() {
		defer wg.Done()
		tz, timezoneErr = s.timezoneProvider.Lookup(coords)
		if timezoneErr != nil {
			timezoneErr = fmt.Errorf("failed to get timezone: %w", timezoneErr)
		}
	}()

	wg.Wait()

	// Without an address there is nothing to match, a missing timezone only degrades the answer
	if geocodeErr != nil {
		return nil, geocodeErr
	}
	if timezoneErr != nil {
		s.logger.Warn("timezone lookup failed", "latitude", latitude, "longitude", longitude, "error", timezoneErr)
	}

	address, err := translateAddress(geoResp)
	if err != nil {
		return nil, err
	}

	resolved := &ResolvedLocation{
		Coordinates: coords,
		Timezone:    tz,
		Address:     address,
		Nearby:      make([]types.LocationEntry, 0),
	}

	county, ok := s.matchCounty(address)
	if !ok {
		s.logger.Debug("address did not match any county", "county", address.County, "state", address.State)
		return resolved, nil
	}

	entry := countyEntry(county)
	resolved.County = &entry
	resolved.Nearby = matchWithinCounty(county, address)

	return resolved, nil
}

// matchCounty tries the address levels from most to least specific so that
// "Nairobi County" or a city named after its county both land on the county
func (s *locationService) matchCounty(address types.LocationInfo) (types.County, bool) {
	for _, candidate := range []string{address.County, address.State, address.City} {
		if candidate == "" {
			continue
		}
		for _, county := range s.dataset {
			if Match(county.Name, candidate) {
				return county, true
			}
		}
	}
	return types.County{}, false
}

func matchWithinCounty(county types.County, address types.LocationInfo) []types.LocationEntry {
	candidates := []string{address.Neighbourhood, address.Suburb, address.Name}
	matches := func(name string) bool {
		for _, c := range candidates {
			if Match(name, c) {
				return true
			}
		}
		return false
	}

	nearby := make([]types.LocationEntry, 0)
	for _, sub := range county.SubCounties {
		if matches(sub) {
			nearby = append(nearby, newEntry(sub, types.KindLocation, county.Name))
		}
	}
	for _, area := range county.PopularAreas {
		if matches(area) {
			nearby = append(nearby, newEntry(area, types.KindArea, county.Name))
		}
	}
	return nearby
}

// translateAddress converts a Nominatim reverse response to the domain LocationInfo type
func translateAddress(resp *openstreetmap.ReverseAPIResponse) (types.LocationInfo, error) {
	if resp == nil {
		return types.LocationInfo{}, fmt.Errorf("reverse geocode response is nil")
	}

	name := resp.DisplayName
	if resp.Name != "" {
		name = resp.Name
	}

	city := resp.Address.City
	if city == "" {
		city = resp.Address.Town
	}

	suburb := resp.Address.Suburb
	if suburb == "" {
		suburb = resp.Address.CityDistrict
	}

	return types.LocationInfo{
		Name:          name,
		Neighbourhood: resp.Address.Neighbourhood,
		Suburb:        suburb,
		City:          city,
		County:        resp.Address.County,
		State:         resp.Address.State,
		Country:       resp.Address.Country,
		CountryCode:   resp.Address.CountryCode,
	}, nil
}

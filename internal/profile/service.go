package profile

import (
	"context"
	"fmt"
	"log/slog"

	"listings/internal/location"
	"listings/internal/paginate"
	"listings/internal/providers/profiles"
	"listings/internal/types"
)

// ProfileProvider fetches one page of the upstream profile feed
type ProfileProvider interface {
	List(ctx context.Context, page, pageSize int, opts profiles.ListOptions) (paginate.Page[types.Profile], error)
}

// Query describes a listing request
type Query struct {
	Page         int
	Limit        int
	Location     string // filter, matched against county, sub-county and areas
	PriorityArea string // profiles serving this area are listed first
}

// Listing is one ordered page of profiles
type Listing struct {
	Profiles []types.Profile
	Page     int
	HasMore  bool
}

type Service interface {
	List(ctx context.Context, query Query) (*Listing, error)
}

type profileService struct {
	provider        ProfileProvider
	defaultPageSize int
	logger          *slog.Logger
}

func NewProfileService(provider ProfileProvider, defaultPageSize int, logger *slog.Logger) Service {
	return &profileService{
		provider:        provider,
		defaultPageSize: defaultPageSize,
		logger:          logger.With("component", "profile-service"),
	}
}

// List fetches a single upstream page, narrows it to the requested location and
// orders it. Area priority decides first, package tier orders within each group.
func (s *profileService) List(ctx context.Context, query Query) (*Listing, error) {
	if query.Page < 1 {
		query.Page = 1
	}
	if query.Limit < 1 {
		query.Limit = s.defaultPageSize
	}

	page, err := s.provider.List(ctx, query.Page, query.Limit, profiles.ListOptions{Location: query.Location})
	if err != nil {
		s.logger.Error("failed to fetch profiles", "page", query.Page, "error", err)
		return nil, fmt.Errorf("failed to fetch profiles: %w", err)
	}

	filtered := location.FilterByLocation(page.Data, query.Location)
	ordered := location.SortByAreaPriority(SortByPackageTier(filtered), query.PriorityArea)

	// An empty page is the upstream's end-of-data signal
	hasMore := len(page.Data) > 0 && (page.HasMore == nil || *page.HasMore)

	s.logger.Debug("listed profiles",
		"page", query.Page,
		"received", len(page.Data),
		"returned", len(ordered),
		"location", query.Location,
		"priority_area", query.PriorityArea,
	)

	return &Listing{
		Profiles: ordered,
		Page:     query.Page,
		HasMore:  hasMore,
	}, nil
}

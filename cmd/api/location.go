package main

import (
	"context"
	"errors"

	"github.com/danielgtaylor/huma/v2"

	"listings/internal/location"
	"listings/internal/types"
)

// SearchLocationsInput defines the query parameters for location search
type SearchLocationsInput struct {
	Query string `query:"q" maxLength:"100" example:"south b" doc:"Free text location query"`
}

// SearchLocationsOutput lists matches in dataset order
type SearchLocationsOutput struct {
	Body struct {
		Results []types.LocationEntry `json:"results"`
	}
}

func (app *App) handleSearchLocations(ctx context.Context, input *SearchLocationsInput) (*SearchLocationsOutput, error) {
	resp := &SearchLocationsOutput{}
	resp.Body.Results = app.locationService.Search(input.Query)
	return resp, nil
}

// ListCountiesOutput is the full county dataset
type ListCountiesOutput struct {
	Body struct {
		Counties []types.County `json:"counties"`
	}
}

func (app *App) handleListCounties(ctx context.Context, input *struct{}) (*ListCountiesOutput, error) {
	resp := &ListCountiesOutput{}
	resp.Body.Counties = app.locationService.Counties()
	return resp, nil
}

// ResolveLocationInput defines the query parameters for coordinate resolution
type ResolveLocationInput struct {
	Latitude  float64 `query:"latitude" required:"true" example:"-1.3106" doc:"Latitude in decimal degrees"`
	Longitude float64 `query:"longitude" required:"true" example:"36.8356" doc:"Longitude in decimal degrees"`
}

// ResolveLocationOutput wraps the resolved location
type ResolveLocationOutput struct {
	Body *location.ResolvedLocation
}

func (app *App) handleResolveLocation(ctx context.Context, input *ResolveLocationInput) (*ResolveLocationOutput, error) {
	resolved, err := app.locationService.Resolve(ctx, input.Latitude, input.Longitude)
	if err != nil {
		// Check if it's a validation error from business layer
		if errors.Is(err, location.ErrInvalidLatitude) || errors.Is(err, location.ErrInvalidLongitude) {
			return nil, huma.Error400BadRequest(err.Error())
		}

		app.logger.Error("failed to resolve location",
			"latitude", input.Latitude,
			"longitude", input.Longitude,
			"error", err,
		)
		return nil, huma.Error502BadGateway("failed to resolve location")
	}

	return &ResolveLocationOutput{Body: resolved}, nil
}

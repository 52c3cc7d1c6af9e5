package main

import (
	"context"

	"github.com/danielgtaylor/huma/v2"

	"listings/internal/profile"
	"listings/internal/types"
)

// ListProfilesInput defines the query parameters for the profile listing
type ListProfilesInput struct {
	Page         int    `query:"page" default:"1" minimum:"1" doc:"Upstream page number"`
	Limit        int    `query:"limit" minimum:"0" maximum:"100" doc:"Page size, 0 uses the configured default"`
	Location     string `query:"location" maxLength:"100" doc:"Keep profiles whose county, sub-county or area matches"`
	PriorityArea string `query:"priorityArea" maxLength:"100" doc:"List profiles serving this area first"`
}

// ListProfilesOutput is one ordered page
type ListProfilesOutput struct {
	Body struct {
		Profiles []types.Profile `json:"profiles"`
		Page     int             `json:"page"`
		HasMore  bool            `json:"hasMore"`
	}
}

func (app *App) handleListProfiles(ctx context.Context, input *ListProfilesInput) (*ListProfilesOutput, error) {
	listing, err := app.profileService.List(ctx, profile.Query{
		Page:         input.Page,
		Limit:        input.Limit,
		Location:     input.Location,
		PriorityArea: input.PriorityArea,
	})
	if err != nil {
		app.logger.Error("failed to list profiles", "page", input.Page, "error", err)
		return nil, huma.Error502BadGateway("failed to list profiles")
	}

	resp := &ListProfilesOutput{}
	resp.Body.Profiles = listing.Profiles
	resp.Body.Page = listing.Page
	resp.Body.HasMore = listing.HasMore
	return resp, nil
}

package main

import (
	"net/http"

	"github.com/danielgtaylor/huma/v2"
)

// registerRoutes sets up all API endpoints
func (app *App) registerRoutes() {
	// Health check endpoint
	huma.Register(app.api, huma.Operation{
		OperationID: "ping",
		Method:      http.MethodGet,
		Path:        "/ping",
		Summary:     "Ping health check",
		Description: "Check if the API is running",
		Tags:        []string{"health"},
	}, app.handlePing)

	huma.Register(app.api, huma.Operation{
		OperationID: "search-locations",
		Method:      http.MethodGet,
		Path:        "/locations/search",
		Summary:     "Search locations",
		Description: "Find counties, sub-counties and popular areas whose names contain the query. Queries shorter than two characters return nothing.",
		Tags:        []string{"location"},
	}, app.handleSearchLocations)

	huma.Register(app.api, huma.Operation{
		OperationID: "list-counties",
		Method:      http.MethodGet,
		Path:        "/locations/counties",
		Summary:     "List counties",
		Tags:        []string{"location"},
	}, app.handleListCounties)

	huma.Register(app.api, huma.Operation{
		OperationID: "resolve-location",
		Method:      http.MethodGet,
		Path:        "/locations/resolve",
		Summary:     "Resolve coordinates",
		Description: "Place a coordinate in the county hierarchy and report its timezone",
		Tags:        []string{"location"},
	}, app.handleResolveLocation)

	huma.Register(app.api, huma.Operation{
		OperationID: "list-profiles",
		Method:      http.MethodGet,
		Path:        "/profiles",
		Summary:     "List profiles",
		Description: "One page of profiles filtered by location, area priority first and package tier second",
		Tags:        []string{"profiles"},
	}, app.handleListProfiles)

	huma.Register(app.api, huma.Operation{
		OperationID: "get-notice",
		Method:      http.MethodGet,
		Path:        "/notices/{notice}",
		Summary:     "Check whether a notice should be shown",
		Tags:        []string{"notices"},
	}, app.handleGetNotice)

	huma.Register(app.api, huma.Operation{
		OperationID:   "dismiss-notice",
		Method:        http.MethodPut,
		Path:          "/notices/{notice}/dismissal",
		Summary:       "Dismiss a notice",
		DefaultStatus: http.StatusNoContent,
		Tags:          []string{"notices"},
	}, app.handleDismissNotice)
}

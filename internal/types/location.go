package types

// EntryKind tags where in the county hierarchy a search result came from
type EntryKind string

const (
	KindCounty   EntryKind = "county"
	KindLocation EntryKind = "location" // sub-county
	KindArea     EntryKind = "area"     // popular area
)

// LocationEntry is a single location search result
type LocationEntry struct {
	Name        string    `json:"name" doc:"Name as it appears in the dataset"`
	Type        EntryKind `json:"type" enum:"county,location,area" doc:"Hierarchy level of the match"`
	County      string    `json:"county" doc:"County the entry belongs to"`
	DisplayName string    `json:"displayName" doc:"Human readable label"`
}

// County is one record of the static location dataset
type County struct {
	Name         string   `json:"name"`
	Code         string   `json:"code"`
	Capital      string   `json:"capital"`
	SubCounties  []string `json:"sub_counties"`
	PopularAreas []string `json:"popular_areas,omitempty"`
}

// Dataset is the ordered list of counties loaded at startup
type Dataset []County

// LocationInfo contains human-readable location metadata from reverse geocoding
type LocationInfo struct {
	Name          string `json:"name"`
	Neighbourhood string `json:"neighbourhood,omitempty"`
	Suburb        string `json:"suburb,omitempty"`
	City          string `json:"city,omitempty"`
	County        string `json:"county,omitempty"`
	State         string `json:"state,omitempty"`
	Country       string `json:"country,omitempty"`
	CountryCode   string `json:"countryCode,omitempty"`
}

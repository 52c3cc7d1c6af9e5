package types

// PackageTier is the subscription level a profile is listed under
type PackageTier string

const (
	TierElite   PackageTier = "elite"
	TierPremium PackageTier = "premium"
	TierBasic   PackageTier = "basic"
	TierNone    PackageTier = "none"
)

// Rank orders tiers for listing, lower ranks first. Unknown tiers rank with TierNone.
func (t PackageTier) Rank() int {
	switch t {
	case TierElite:
		return 0
	case TierPremium:
		return 1
	case TierBasic:
		return 2
	default:
		return 3
	}
}

// Profile is a directory listing as served by the upstream profile API
type Profile struct {
	ID       string      `json:"id"`
	Name     string      `json:"name"`
	County   string      `json:"county"`
	Location string      `json:"location" doc:"Sub-county"`
	Areas    []string    `json:"areas"`
	Package  PackageTier `json:"package" doc:"elite, premium, basic or none"`
	Verified bool        `json:"verified"`
	Age      int         `json:"age,omitempty"`
	Phone    string      `json:"phone,omitempty"`
	Photo    string      `json:"photo,omitempty"`
}

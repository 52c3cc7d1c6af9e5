package profile

import (
	"slices"

	"listings/internal/types"
)

// SortByPackageTier returns a copy of profiles ordered elite, premium, basic,
// then everything else. Profiles on the same tier keep their relative order.
func SortByPackageTier(profiles []types.Profile) []types.Profile {
	sorted := slices.Clone(profiles)
	slices.SortStableFunc(sorted, func(a, b types.Profile) int {
		return a.Package.Rank() - b.Package.Rank()
	})
	return sorted
}

package browser

import (
	"github.com/charmbracelet/lipgloss"

	"listings/internal/types"
)

var (
	accent      = lipgloss.Color("#8BC34A")
	gold        = lipgloss.Color("#FFC107")
	silver      = lipgloss.Color("#B0BEC5")
	muted       = lipgloss.Color("#78909C")
	destructive = lipgloss.Color("#e53935")
)

type styles struct {
	title     lipgloss.Style
	subtle    lipgloss.Style
	errorText lipgloss.Style
	selected  lipgloss.Style
	verified  lipgloss.Style
	notice    lipgloss.Style
	tiers     map[types.PackageTier]lipgloss.Style
}

func defaultStyles() styles {
	return styles{
		title:     lipgloss.NewStyle().Bold(true).Foreground(accent),
		subtle:    lipgloss.NewStyle().Foreground(muted),
		errorText: lipgloss.NewStyle().Foreground(destructive),
		selected:  lipgloss.NewStyle().Bold(true).Foreground(accent),
		verified:  lipgloss.NewStyle().Foreground(accent),
		notice: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(gold).
			Padding(1, 2),
		tiers: map[types.PackageTier]lipgloss.Style{
			types.TierElite:   lipgloss.NewStyle().Bold(true).Foreground(gold),
			types.TierPremium: lipgloss.NewStyle().Foreground(silver),
			types.TierBasic:   lipgloss.NewStyle().Foreground(muted),
		},
	}
}

// badge renders a fixed-width tier marker so rows line up
func (s styles) badge(tier types.PackageTier) string {
	label := "       "
	switch tier {
	case types.TierElite:
		label = "ELITE  "
	case types.TierPremium:
		label = "PREMIUM"
	case types.TierBasic:
		label = "BASIC  "
	}
	style, ok := s.tiers[tier]
	if !ok {
		return label
	}
	return style.Render(label)
}

// Package browser is the terminal front end of the listings directory. It
// scrolls a paginated profile feed and loads the next page when the end of the
// list comes into view.
package browser

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/charmbracelet/bubbles/cursor"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"listings/internal/location"
	"listings/internal/notice"
	"listings/internal/paginate"
	"listings/internal/profile"
	"listings/internal/types"
)

// chromeHeight is the number of lines around the viewport: one header line and
// a two line footer
const chromeHeight = 3

// SearchFunc suggests locations for a partial query
type SearchFunc func(query string) []types.LocationEntry

// Options configures a Model
type Options struct {
	// Notices gates the listing behind the age notice. Nil skips the notice.
	Notices  notice.Service
	ClientID string
	// Location is the initial location filter
	Location string
}

// pageMsg reports that a fetch trigger finished. fetched is false when the
// trigger was dropped.
type pageMsg struct {
	fetched bool
}

type noticeMsg struct {
	show bool
}

type dismissedMsg struct {
	err error
}

// Model is the Bubble Tea model of the browser
type Model struct {
	ctx      context.Context
	fetcher  *paginate.Fetcher[types.Profile]
	search   SearchFunc
	notices  notice.Service
	clientID string
	logger   *slog.Logger

	viewport    viewport.Model
	filter      textinput.Model
	filtering   bool
	suggestions []types.LocationEntry
	selected    int // index into suggestions, -1 for the typed text

	location     string
	priorityArea string

	state      paginate.State[types.Profile]
	listed     []types.Profile
	pending    int
	showNotice bool
	ready      bool

	styles styles
}

// New creates the browser model. Fetches run on ctx.
func New(ctx context.Context, fetcher *paginate.Fetcher[types.Profile], search SearchFunc, opts Options, logger *slog.Logger) Model {
	fi := textinput.New()
	fi.Placeholder = "County, sub-county or area..."
	fi.Prompt = "location: "
	fi.CharLimit = 60
	fi.Width = 40
	fi.Cursor.SetMode(cursor.CursorStatic)

	m := Model{
		ctx:        ctx,
		fetcher:    fetcher,
		search:     search,
		notices:    opts.Notices,
		clientID:   opts.ClientID,
		logger:     logger.With("component", "browser"),
		filter:     fi,
		selected:   -1,
		location:   opts.Location,
		state:      fetcher.State(),
		showNotice: opts.Notices != nil,
		styles:     defaultStyles(),
	}
	m.relist()
	return m
}

// Init starts the first page load and the notice check
func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{m.load()}
	if m.notices != nil {
		cmds = append(cmds, m.checkNotice())
	}
	return tea.Batch(cmds...)
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		height := max(msg.Height-chromeHeight, 1)
		if !m.ready {
			m.viewport = viewport.New(msg.Width, height)
			m.ready = true
		} else {
			m.viewport.Width = msg.Width
			m.viewport.Height = height
		}
		m.relist()
		if m.state.Err != "" {
			return m, nil
		}
		cmd := m.revealIfVisible()
		return m, cmd

	case pageMsg:
		if m.pending > 0 {
			m.pending--
		}
		m.state = m.fetcher.State()
		m.relist()
		// A failed page waits for the user to scroll again rather than
		// retrying in a loop
		if msg.fetched && m.state.Err == "" {
			cmd := m.revealIfVisible()
			return m, cmd
		}
		return m, nil

	case noticeMsg:
		m.showNotice = msg.show
		return m, nil

	case dismissedMsg:
		if msg.err != nil {
			m.logger.Warn("failed to persist notice dismissal", "error", msg.err)
		}
		return m, nil

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
		switch {
		case m.showNotice:
			return m.updateNotice(msg)
		case m.filtering:
			return m.updateFilter(msg)
		default:
			return m.updateBrowse(msg)
		}
	}

	var cmd tea.Cmd
	if m.filtering {
		m.filter, cmd = m.filter.Update(msg)
		return m, cmd
	}
	m.viewport, cmd = m.viewport.Update(msg)
	cmd = tea.Batch(cmd, m.revealIfVisible())
	return m, cmd
}

func (m Model) updateNotice(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "y", "enter":
		m.showNotice = false
		return m, m.dismissNotice()
	case "n", "q", "esc":
		return m, tea.Quit
	}
	return m, nil
}

func (m Model) updateBrowse(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q":
		return m, tea.Quit
	case "r":
		m.fetcher.Reset()
		m.state = m.fetcher.State()
		m.viewport.GotoTop()
		m.relist()
		cmd := m.load()
		return m, cmd
	case "/":
		m.filtering = true
		m.filter.SetValue(m.location)
		m.filter.CursorEnd()
		m.suggestions = m.search(m.location)
		m.selected = -1
		cmd := m.filter.Focus()
		return m, cmd
	case "x":
		m.location = ""
		m.priorityArea = ""
		m.viewport.GotoTop()
		m.relist()
		cmd := m.revealIfVisible()
		return m, cmd
	case "G", "end":
		m.viewport.GotoBottom()
		cmd := m.revealIfVisible()
		return m, cmd
	case "g", "home":
		m.viewport.GotoTop()
		return m, nil
	}

	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	cmd = tea.Batch(cmd, m.revealIfVisible())
	return m, cmd
}

func (m Model) updateFilter(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.closeFilter()
		return m, nil
	case "up", "shift+tab":
		if m.selected >= 0 {
			m.selected--
		}
		return m, nil
	case "down", "tab":
		if m.selected < len(m.suggestions)-1 {
			m.selected++
		}
		return m, nil
	case "enter":
		m.applyFilter()
		m.closeFilter()
		m.viewport.GotoTop()
		m.relist()
		cmd := m.revealIfVisible()
		return m, cmd
	}

	var cmd tea.Cmd
	m.filter, cmd = m.filter.Update(msg)
	m.suggestions = m.search(m.filter.Value())
	m.selected = -1
	return m, cmd
}

// applyFilter turns the filter input into a location and priority area. A
// picked sub-county or area lists its whole county with that place first.
func (m *Model) applyFilter() {
	if m.selected < 0 || m.selected >= len(m.suggestions) {
		m.location = strings.TrimSpace(m.filter.Value())
		m.priorityArea = ""
		return
	}

	entry := m.suggestions[m.selected]
	m.location = entry.County
	m.priorityArea = ""
	if entry.Type != types.KindCounty {
		m.priorityArea = entry.Name
	}
}

func (m *Model) closeFilter() {
	m.filtering = false
	m.filter.Blur()
	m.suggestions = nil
	m.selected = -1
}

// relist recomputes the visible listing from the loaded items
func (m *Model) relist() {
	filtered := location.FilterByLocation(m.state.Items, m.location)
	m.listed = location.SortByAreaPriority(profile.SortByPackageTier(filtered), m.priorityArea)
	m.viewport.SetContent(m.renderList())
}

// revealIfVisible is the visibility signal: the scroll position of the
// viewport stands in for how much of the list end is on screen
func (m *Model) revealIfVisible() tea.Cmd {
	if !m.ready {
		return nil
	}
	ratio := m.viewport.ScrollPercent()
	if ratio < m.fetcher.Options().Threshold {
		return nil
	}

	m.pending++
	f, ctx := m.fetcher, m.ctx
	return func() tea.Msg {
		return pageMsg{fetched: f.Visible(ctx, ratio)}
	}
}

func (m *Model) load() tea.Cmd {
	m.pending++
	f, ctx := m.fetcher, m.ctx
	return func() tea.Msg {
		return pageMsg{fetched: f.Load(ctx)}
	}
}

func (m Model) checkNotice() tea.Cmd {
	svc, ctx, client := m.notices, m.ctx, m.clientID
	return func() tea.Msg {
		show, err := svc.ShouldShow(ctx, client, notice.AgeVerification)
		if err != nil {
			return noticeMsg{show: true}
		}
		return noticeMsg{show: show}
	}
}

func (m Model) dismissNotice() tea.Cmd {
	svc, ctx, client := m.notices, m.ctx, m.clientID
	return func() tea.Msg {
		return dismissedMsg{err: svc.Dismiss(ctx, client, notice.AgeVerification)}
	}
}

func (m Model) View() string {
	if m.showNotice {
		return m.noticeView()
	}
	if !m.ready {
		return "Loading..."
	}

	var b strings.Builder
	b.WriteString(m.headerView())
	b.WriteString("\n")
	if m.filtering {
		b.WriteString(m.filterView())
	} else {
		b.WriteString(m.viewport.View())
	}
	b.WriteString("\n")
	b.WriteString(m.footerView())
	return b.String()
}

func (m Model) headerView() string {
	title := m.styles.title.Render("Listings")
	switch {
	case m.location != "" && m.priorityArea != "":
		return title + m.styles.subtle.Render(fmt.Sprintf("  %s, %s first", m.location, m.priorityArea))
	case m.location != "":
		return title + m.styles.subtle.Render("  "+m.location)
	}
	return title
}

func (m Model) filterView() string {
	lines := []string{m.filter.View()}
	for i, entry := range m.suggestions {
		label := fmt.Sprintf("  %s (%s)", entry.DisplayName, entry.Type)
		if i == m.selected {
			label = m.styles.selected.Render("> " + label[2:])
		}
		lines = append(lines, label)
	}
	if len(m.suggestions) == 0 && strings.TrimSpace(m.filter.Value()) != "" {
		lines = append(lines, m.styles.subtle.Render("  no matching places, enter filters by the text"))
	}
	for len(lines) < m.viewport.Height {
		lines = append(lines, "")
	}
	return strings.Join(lines, "\n")
}

func (m Model) footerView() string {
	status := fmt.Sprintf("%d of %d loaded profiles, page %d", len(m.listed), len(m.state.Items), m.state.Page)
	switch {
	case m.state.Err != "":
		status += "  " + m.styles.errorText.Render("failed to load: "+m.state.Err+" (scroll to retry)")
	case m.pending > 0 && m.state.HasMore:
		status += "  loading..."
	case !m.state.HasMore:
		status += "  end of list"
	}

	help := "j/k scroll  G end  / location  x clear  r reload  q quit"
	if m.filtering {
		help = "type to search  tab/arrows pick  enter apply  esc cancel"
	}
	return status + "\n" + m.styles.subtle.Render(help)
}

func (m Model) renderList() string {
	if len(m.listed) == 0 {
		if len(m.state.Items) > 0 {
			return m.styles.subtle.Render("No loaded profiles match this location")
		}
		return m.styles.subtle.Render("No profiles yet")
	}

	rows := make([]string, 0, len(m.listed))
	for _, p := range m.listed {
		rows = append(rows, m.renderProfile(p))
	}
	return strings.Join(rows, "\n")
}

func (m Model) renderProfile(p types.Profile) string {
	place := p.County
	if p.Location != "" {
		place = p.Location + ", " + p.County
	}

	row := fmt.Sprintf("%s %-22s %s", m.styles.badge(p.Package), p.Name, place)
	if p.Verified {
		row += " " + m.styles.verified.Render("verified")
	}
	if len(p.Areas) > 0 {
		row += m.styles.subtle.Render("  " + strings.Join(p.Areas, ", "))
	}
	return row
}

func (m Model) noticeView() string {
	body := strings.Join([]string{
		m.styles.title.Render("Adults only"),
		"",
		"This directory lists adult services.",
		"Confirm that you are 18 or older to continue.",
		"",
		m.styles.subtle.Render("y confirm  q leave"),
	}, "\n")
	return m.styles.notice.Render(body)
}

// State returns the pagination state the model last observed
func (m Model) State() paginate.State[types.Profile] {
	return m.state
}

// Listed returns the profiles currently listed, in display order
func (m Model) Listed() []types.Profile {
	return m.listed
}

package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/jask/watchlist/internal/database/repository"
)

// Props handed down to the surfaces on every update. The surfaces never touch
// workspace state directly; they only call back.

type listProps struct {
	OnEntitySelected func(*repository.Entity)
}

type detailProps struct {
	Entity            *repository.Entity
	Visible           bool
	Closing           bool
	OnClose           func()
	OnDeleteRequested func(*repository.Entity)
}

type deleteProps struct {
	Candidate *repository.Entity
	Visible   bool
	OnClose   func()
	OnDeleted func()
}

// ---------------------------------------------------------------------------
// List surface
// ---------------------------------------------------------------------------

var kindFilters = []string{"", repository.KindPerson, repository.KindVehicle}

type listSurface struct {
	items     []repository.Entity
	cursor    int
	top       int
	kindIdx   int
	query     string
	searching bool
}

func (l *listSurface) kind() string { return kindFilters[l.kindIdx] }

func (l *listSurface) setItems(items []repository.Entity) {
	l.items = items
	if l.cursor >= len(l.items) {
		l.cursor = max(len(l.items)-1, 0)
	}
}

func (l *listSurface) current() *repository.Entity {
	if len(l.items) == 0 {
		return nil
	}
	e := l.items[l.cursor]
	return &e
}

// handleKey reports whether the query or kind filter changed.
func (l *listSurface) handleKey(msg tea.KeyMsg, keys keyMap, props listProps) (refilter bool) {
	switch {
	case key.Matches(msg, keys.Up):
		if l.cursor > 0 {
			l.cursor--
		}
	case key.Matches(msg, keys.Down):
		if l.cursor < len(l.items)-1 {
			l.cursor++
		}
	case key.Matches(msg, keys.Open):
		if e := l.current(); e != nil && props.OnEntitySelected != nil {
			props.OnEntitySelected(e)
		}
	case key.Matches(msg, keys.Search):
		l.searching = true
	case key.Matches(msg, keys.Kind):
		l.kindIdx = (l.kindIdx + 1) % len(kindFilters)
		l.cursor, l.top = 0, 0
		return true
	}
	return false
}

// handleSearchKey edits the query. It reports whether the query changed.
func (l *listSurface) handleSearchKey(msg tea.KeyMsg, keys keyMap) bool {
	switch msg.Type {
	case tea.KeyEsc:
		l.searching = false
		if l.query == "" {
			return false
		}
		l.query = ""
		l.cursor, l.top = 0, 0
		return true
	case tea.KeyEnter:
		l.searching = false
		return false
	case tea.KeySpace:
		l.query += " "
	case tea.KeyRunes:
		l.query += string(msg.Runes)
	default:
		if !key.Matches(msg, keys.Backspace) || l.query == "" {
			return false
		}
		r := []rune(l.query)
		l.query = string(r[:len(r)-1])
	}
	l.cursor, l.top = 0, 0
	return true
}

func (l *listSurface) View(width, rows int, dateFormat string, loc *time.Location) string {
	var b strings.Builder
	filter := "all"
	if k := l.kind(); k != "" {
		filter = k
	}
	b.WriteString(titleStyle.Render("Watchlist"))
	b.WriteString(mutedStyle.Render(fmt.Sprintf("  %d entities  kind: %s", len(l.items), filter)))
	b.WriteString("\n")
	switch {
	case l.searching:
		b.WriteString(searchStyle.Render("/" + l.query + "█"))
	case l.query != "":
		b.WriteString(mutedStyle.Render("search: " + l.query))
	}
	b.WriteString("\n")

	if len(l.items) == 0 {
		b.WriteString(mutedStyle.Render("  (no entities)"))
		return b.String()
	}
	if rows < 1 {
		rows = 1
	}
	if l.cursor < l.top {
		l.top = l.cursor
	}
	if l.cursor >= l.top+rows {
		l.top = l.cursor - rows + 1
	}
	end := min(l.top+rows, len(l.items))
	for i := l.top; i < end; i++ {
		e := l.items[i]
		marker := "  "
		name := e.Name
		if i == l.cursor {
			marker = cursorStyle.Render("▶ ")
			name = cursorStyle.Render(name)
		}
		seen := "never"
		if e.LastSeen != nil {
			seen = e.LastSeen.In(loc).Format(dateFormat)
		}
		line := fmt.Sprintf("%s%-8s %s  %s  %s",
			marker,
			kindStyle(e.Kind).Render(e.Kind),
			name,
			mutedStyle.Render(fmt.Sprintf("seen %s ×%d", seen, e.SightingCount)),
			tagStyle.Render(tagList(e.Tags)),
		)
		b.WriteString(padRightANSI(line, width))
		if i < end-1 {
			b.WriteString("\n")
		}
	}
	return b.String()
}

// ---------------------------------------------------------------------------
// Detail surface
// ---------------------------------------------------------------------------

type detailSurface struct {
	sightings map[string][]repository.Sighting
	render    func(notes string, width int) string
}

func (d *detailSurface) handleKey(msg tea.KeyMsg, keys keyMap, props detailProps) {
	if !props.Visible {
		return
	}
	switch {
	case key.Matches(msg, keys.Close):
		if props.OnClose != nil {
			props.OnClose()
		}
	case key.Matches(msg, keys.Delete):
		if props.OnDeleteRequested != nil && props.Entity != nil {
			props.OnDeleteRequested(props.Entity)
		}
	}
}

// View draws the card for a visible or closing surface and "" otherwise.
func (d *detailSurface) View(props detailProps, keys keyMap, width int, dateFormat string, loc *time.Location) string {
	e := props.Entity
	if e == nil || !(props.Visible || props.Closing) {
		return ""
	}
	inner := min(max(width-12, 30), 72)
	var b strings.Builder
	b.WriteString(titleStyle.Render(e.Name))
	b.WriteString("\n\n")
	row := func(label, value string) {
		b.WriteString(labelStyle.Render(label) + value + "\n")
	}
	row("kind", kindStyle(e.Kind).Render(e.Kind))
	row("first seen", formatSeen(e.FirstSeen, dateFormat, loc))
	row("last seen", formatSeen(e.LastSeen, dateFormat, loc))
	row("sightings", fmt.Sprintf("%d", e.SightingCount))
	if len(e.Tags) > 0 {
		row("tags", tagStyle.Render(tagList(e.Tags)))
	}
	if recent := d.sightings[e.ID]; len(recent) > 0 {
		b.WriteString("\n" + mutedStyle.Render("recent") + "\n")
		for _, s := range recent {
			camera := s.Camera
			if camera == "" {
				camera = "-"
			}
			b.WriteString(fmt.Sprintf("  %s  %s\n", s.SeenAt.In(loc).Format(dateFormat), camera))
		}
	}
	if notes := strings.TrimSpace(e.Notes); notes != "" {
		rendered := notes
		if d.render != nil {
			rendered = d.render(notes, inner)
		}
		b.WriteString("\n" + strings.Trim(rendered, "\n") + "\n")
	}
	b.WriteString("\n" + footerStyle.Render(helpLine(keys.Close, keys.Delete)))

	body := lipgloss.NewStyle().Width(inner).Render(b.String())
	if props.Closing && !props.Visible {
		return closingCard.Render(body)
	}
	return detailCard.Render(body)
}

// ---------------------------------------------------------------------------
// Delete surface
// ---------------------------------------------------------------------------

// deleteResultMsg carries the outcome of the deletion call.
type deleteResultMsg struct {
	id   string
	name string
	err  error
}

type deleteSurface struct {
	inFlight bool
	err      string
}

// handleKey returns the deletion command when the user confirms.
func (c *deleteSurface) handleKey(msg tea.KeyMsg, keys keyMap, props deleteProps, remove func(id string) error) tea.Cmd {
	if !props.Visible || props.Candidate == nil || c.inFlight {
		return nil
	}
	switch {
	case key.Matches(msg, keys.Confirm):
		c.inFlight = true
		c.err = ""
		id, name := props.Candidate.ID, props.Candidate.Name
		return func() tea.Msg {
			return deleteResultMsg{id: id, name: name, err: remove(id)}
		}
	case key.Matches(msg, keys.Cancel):
		c.err = ""
		if props.OnClose != nil {
			props.OnClose()
		}
	}
	return nil
}

// finish applies a deletion outcome. OnDeleted only fires on success and
// closes the dialog itself; a failure leaves it open so the user can retry.
func (c *deleteSurface) finish(msg deleteResultMsg, props deleteProps) bool {
	c.inFlight = false
	if msg.err != nil {
		c.err = msg.err.Error()
		return false
	}
	c.err = ""
	if props.Candidate != nil && props.Candidate.ID != msg.id {
		return true
	}
	if props.OnDeleted != nil {
		props.OnDeleted()
	}
	return true
}

func (c *deleteSurface) View(props deleteProps, keys keyMap) string {
	if !props.Visible || props.Candidate == nil {
		return ""
	}
	e := props.Candidate
	var b strings.Builder
	b.WriteString(dangerStyle.Render("Delete " + e.Kind + "?"))
	b.WriteString("\n\n")
	b.WriteString(e.Name + "\n")
	b.WriteString(mutedStyle.Render(fmt.Sprintf("%d sightings and all tags will be removed.", e.SightingCount)))
	b.WriteString("\n\n")
	switch {
	case c.inFlight:
		b.WriteString(statusStyle.Render("deleting..."))
	case c.err != "":
		b.WriteString(errorStyle.Render("delete failed: "+c.err) + "\n")
		b.WriteString(footerStyle.Render(helpLine(keys.Confirm, keys.Cancel)))
	default:
		b.WriteString(footerStyle.Render(helpLine(keys.Confirm, keys.Cancel)))
	}
	return confirmCard.Render(b.String())
}

func formatSeen(t *time.Time, layout string, loc *time.Location) string {
	if t == nil {
		return "never"
	}
	return t.In(loc).Format(layout)
}

func tagList(tags []repository.Tag) string {
	if len(tags) == 0 {
		return ""
	}
	names := make([]string, 0, len(tags))
	for _, t := range tags {
		names = append(names, "#"+t.Name)
	}
	return strings.Join(names, " ")
}

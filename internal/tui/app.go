// Package tui hosts the entity workspace in a bubbletea program: a list of
// entities, a detail card for the selected one, and a delete confirmation.
package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"
	"github.com/rs/zerolog"

	"github.com/jask/watchlist/internal/config"
	"github.com/jask/watchlist/internal/database/repository"
	"github.com/jask/watchlist/internal/service"
	"github.com/jask/watchlist/internal/workspace"
)

// EntityLister feeds the list surface.
type EntityLister interface {
	List(ctx context.Context, q service.Query) ([]repository.Entity, error)
}

// EntityDeleter performs the deletion confirmed in the delete surface.
type EntityDeleter interface {
	Delete(ctx context.Context, id string) error
}

// SightingLister feeds the detail surface's recent sightings.
type SightingLister interface {
	RecentSightings(ctx context.Context, entityID string, limit int) ([]repository.Sighting, error)
}

// Services are the collaborators the workspace reaches through commands.
type Services struct {
	Catalog   EntityLister
	Remover   EntityDeleter
	Sightings SightingLister
}

const recentSightings = 5

// App ties together the surfaces and the workspace controller.
type App struct {
	ctx      context.Context
	services Services
	log      zerolog.Logger
	keys     keyMap

	ws     *workspace.Controller[repository.Entity]
	timers *timerQueue

	list    listSurface
	detail  detailSurface
	confirm deleteSurface

	width      int
	height     int
	status     string
	statusErr  bool
	dateFormat string
	tz         *time.Location
}

// New builds the app. cfg supplies the grace period and date presentation.
func New(ctx context.Context, cfg config.Config, services Services, log zerolog.Logger, tz *time.Location) *App {
	if tz == nil {
		tz = time.Local
	}
	dateFormat := cfg.UI.DateFormat
	if dateFormat == "" {
		dateFormat = "02 Jan 15:04"
	}
	timers := newTimerQueue()
	a := &App{
		ctx:        ctx,
		services:   services,
		log:        log,
		keys:       defaultKeys(),
		timers:     timers,
		ws:         workspace.New[repository.Entity](timers, workspace.Options{GracePeriod: cfg.UI.GracePeriod}),
		dateFormat: dateFormat,
		tz:         tz,
	}
	a.detail = detailSurface{sightings: map[string][]repository.Sighting{}, render: renderNotes}
	a.ws.Observe(a.logTransition)
	return a
}

func (a *App) Init() tea.Cmd {
	return a.loadEntities()
}

// Workspace exposes the controller for inspection.
func (a *App) Workspace() *workspace.Controller[repository.Entity] { return a.ws }

func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	model, cmd := a.update(msg)
	return model, tea.Batch(cmd, a.timers.Cmd())
}

func (a *App) update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch m := msg.(type) {
	case tea.WindowSizeMsg:
		a.width, a.height = m.Width, m.Height
	case tea.KeyMsg:
		return a.handleKey(m)
	case timerFiredMsg:
		a.timers.Fire(m.id)
	case entitiesMsg:
		a.list.setItems([]repository.Entity(m))
	case sightingsMsg:
		a.detail.sightings[m.entityID] = m.sightings
	case deleteResultMsg:
		if !a.confirm.finish(m, a.deleteProps()) {
			a.log.Warn().Str("entity", m.id).Err(m.err).Msg("delete failed")
			return a, nil
		}
		delete(a.detail.sightings, m.id)
		a.setStatus("deleted "+m.name, false)
		a.log.Info().Str("entity", m.id).Msg("entity deleted")
		return a, a.loadEntities()
	case statusMsg:
		a.setStatus(string(m), false)
	case errMsg:
		a.setStatus("error: "+m.Error(), true)
		a.log.Error().Err(m.error).Msg("command failed")
	}
	return a, nil
}

func (a *App) handleKey(m tea.KeyMsg) (tea.Model, tea.Cmd) {
	if a.list.searching {
		if a.list.handleSearchKey(m, a.keys) {
			return a, a.loadEntities()
		}
		return a, nil
	}
	if key.Matches(m, a.keys.Quit) {
		a.ws.Close()
		return a, tea.Quit
	}
	if key.Matches(m, a.keys.Reload) {
		return a, a.loadEntities()
	}

	st := a.ws.State()
	switch {
	case st.DeleteVisible:
		return a, a.confirm.handleKey(m, a.keys, a.deleteProps(), a.remove)
	case st.DetailVisible:
		a.detail.handleKey(m, a.keys, a.detailProps())
		return a, nil
	}

	before := st.Selected
	if a.list.handleKey(m, a.keys, a.listProps()) {
		return a, a.loadEntities()
	}
	if after := a.ws.State().Selected; after != nil && after != before {
		return a, a.loadSightings(after.ID)
	}
	return a, nil
}

// ---------------------------------------------------------------------------
// Props: workspace state flows down, callbacks flow up.
// ---------------------------------------------------------------------------

func (a *App) listProps() listProps {
	return listProps{OnEntitySelected: a.ws.SelectEntity}
}

func (a *App) detailProps() detailProps {
	st := a.ws.State()
	return detailProps{
		Entity:            st.Selected,
		Visible:           st.DetailVisible,
		Closing:           a.ws.Phase() == workspace.PhaseClosingDetail,
		OnClose:           a.ws.CloseDetail,
		OnDeleteRequested: a.ws.RequestDelete,
	}
}

func (a *App) deleteProps() deleteProps {
	st := a.ws.State()
	return deleteProps{
		Candidate: st.DeleteCandidate,
		Visible:   st.DeleteVisible,
		OnClose:   a.ws.CloseDelete,
		OnDeleted: a.ws.OnDeleted,
	}
}

func (a *App) logTransition(s workspace.State[repository.Entity]) {
	ev := a.log.Debug().
		Str("phase", string(a.ws.Phase())).
		Bool("detail", s.DetailVisible).
		Bool("delete", s.DeleteVisible)
	if s.Selected != nil {
		ev = ev.Str("selected", s.Selected.ID)
	}
	if s.DeleteCandidate != nil {
		ev = ev.Str("candidate", s.DeleteCandidate.ID)
	}
	ev.Msg("workspace transition")
}

func (a *App) setStatus(s string, isErr bool) {
	a.status = s
	a.statusErr = isErr
}

// ---------------------------------------------------------------------------
// Commands
// ---------------------------------------------------------------------------

func (a *App) loadEntities() tea.Cmd {
	q := service.Query{Kind: a.list.kind(), Search: a.list.query}
	return func() tea.Msg {
		if a.services.Catalog == nil {
			return errMsg{fmt.Errorf("catalog not configured")}
		}
		list, err := a.services.Catalog.List(a.ctx, q)
		if err != nil {
			return errMsg{err}
		}
		return entitiesMsg(list)
	}
}

func (a *App) loadSightings(entityID string) tea.Cmd {
	if a.services.Sightings == nil {
		return nil
	}
	return func() tea.Msg {
		list, err := a.services.Sightings.RecentSightings(a.ctx, entityID, recentSightings)
		if err != nil {
			return errMsg{err}
		}
		return sightingsMsg{entityID: entityID, sightings: list}
	}
}

func (a *App) remove(id string) error {
	if a.services.Remover == nil {
		return fmt.Errorf("remover not configured")
	}
	return a.services.Remover.Delete(a.ctx, id)
}

// messages
type entitiesMsg []repository.Entity

type sightingsMsg struct {
	entityID  string
	sightings []repository.Sighting
}

type statusMsg string

type errMsg struct{ error }

// ---------------------------------------------------------------------------
// View
// ---------------------------------------------------------------------------

func (a *App) View() string {
	width, height := a.width, a.height
	if width <= 0 {
		width = 100
	}
	if height <= 0 {
		height = 30
	}

	footer := footerStyle.Render(helpLine(a.keys.Up, a.keys.Down, a.keys.Open, a.keys.Search, a.keys.Kind, a.keys.Quit))
	status := ""
	if a.status != "" {
		if a.statusErr {
			status = errorStyle.Render(a.status)
		} else {
			status = statusStyle.Render(a.status)
		}
	}
	// title + search line + status + footer
	rows := height - 4
	base := a.list.View(width, rows, a.dateFormat, a.tz)
	lines := strings.Count(base, "\n") + 1
	if pad := height - 2 - lines; pad > 0 {
		base += strings.Repeat("\n", pad)
	}
	base += "\n" + status + "\n" + footer

	switch a.ws.Phase() {
	case workspace.PhaseConfirmingDelete:
		return placeModal(base, a.confirm.View(a.deleteProps(), a.keys), width, height)
	case workspace.PhaseViewing, workspace.PhaseClosingDetail:
		card := a.detail.View(a.detailProps(), a.keys, width, a.dateFormat, a.tz)
		if card != "" {
			return placeModal(base, card, width, height)
		}
	}
	return base
}

func renderNotes(notes string, width int) string {
	r, err := glamour.NewTermRenderer(glamour.WithStandardStyle("dark"), glamour.WithWordWrap(width))
	if err != nil {
		return notes
	}
	out, err := r.Render(notes)
	if err != nil {
		return notes
	}
	return out
}

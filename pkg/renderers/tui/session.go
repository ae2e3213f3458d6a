package tui

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/goliatone/go-shelf/pkg/dashboard"
	"github.com/goliatone/go-shelf/pkg/form"
	"github.com/goliatone/go-shelf/pkg/model"
	"github.com/goliatone/go-shelf/pkg/notify"
	"github.com/goliatone/go-shelf/pkg/render"
)

// Menu labels in display order.
const (
	ActionNextPage     = "Next page"
	ActionPrevPage     = "Previous page"
	ActionGoToPage     = "Go to page"
	ActionSearch       = "Search"
	ActionFilterGenre  = "Filter by genre"
	ActionFilterStatus = "Filter by status"
	ActionSort         = "Sort"
	ActionClearFilters = "Clear filters"
	ActionAdd          = "Add book"
	ActionEdit         = "Edit book"
	ActionDelete       = "Delete book"
	ActionReload       = "Reload"
	ActionQuit         = "Quit"
)

const (
	allGenres   = "All Genres"
	allStatuses = "All Statuses"
)

var sortChoices = []struct {
	label string
	key   dashboard.SortKey
}{
	{"No sorting", dashboard.SortNone},
	{"Title", dashboard.SortTitle},
	{"Author", dashboard.SortAuthor},
	{"Genre", dashboard.SortGenre},
	{"Published year", dashboard.SortYear},
	{"Status", dashboard.SortStatus},
}

type action struct {
	label string
	run   func(*Session, context.Context) error
}

var menu = []action{
	{ActionNextPage, func(s *Session, _ context.Context) error { s.controller.NextPage(); return nil }},
	{ActionPrevPage, func(s *Session, _ context.Context) error { s.controller.PrevPage(); return nil }},
	{ActionGoToPage, (*Session).goToPage},
	{ActionSearch, (*Session).search},
	{ActionFilterGenre, (*Session).filterGenre},
	{ActionFilterStatus, (*Session).filterStatus},
	{ActionSort, (*Session).chooseSort},
	{ActionClearFilters, func(s *Session, _ context.Context) error {
		s.controller.SetFilters(dashboard.Filters{})
		s.controller.SetSort(dashboard.Sort{})
		return nil
	}},
	{ActionAdd, (*Session).add},
	{ActionEdit, (*Session).edit},
	{ActionDelete, (*Session).remove},
	{ActionReload, (*Session).reload},
	{ActionQuit, nil},
}

// MenuLabels lists the main menu entries in display order.
func MenuLabels() []string {
	labels := make([]string, len(menu))
	for i, a := range menu {
		labels[i] = a.label
	}
	return labels
}

// Session drives the dashboard from a terminal: it prints a text frame, asks
// for an action and forwards it to the controller until the user quits.
type Session struct {
	controller *dashboard.Controller
	driver     PromptDriver
	text       TextRenderer
	out        io.Writer
	logger     *zap.Logger
	theme      Theme
	options    render.RenderOptions
}

// NewSession builds a session around c. Without WithPromptDriver it prompts
// through survey on the real terminal.
func NewSession(c *dashboard.Controller, opts ...Option) (*Session, error) {
	if c == nil {
		return nil, errors.New("tui: controller is required")
	}
	s := &Session{
		controller: c,
		logger:     zap.NewNop(),
		theme:      DefaultTheme(),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	if s.driver == nil {
		s.driver = newSurveyDriver(s.out)
	}
	s.logger = s.logger.Named("tui")
	return s, nil
}

// Run loads the collection and serves the menu until Quit or an interrupt.
func (s *Session) Run(ctx context.Context) error {
	if ctx == nil {
		return errors.New("tui: context is required")
	}
	if err := s.controller.Load(ctx); err != nil && !isRecoverable(err) {
		return err
	}

	labels := MenuLabels()
	for {
		if err := s.frame(ctx); err != nil {
			return err
		}
		idx, err := s.driver.Select(ctx, SelectConfig{
			Message:      "Action",
			Options:      labels,
			DefaultIndex: -1,
			PageSize:     len(labels),
		})
		if err != nil {
			return s.exit(err)
		}
		if idx < 0 || idx >= len(menu) {
			continue
		}
		chosen := menu[idx]
		s.logger.Debug("action", zap.String("label", chosen.label))
		if chosen.run == nil {
			return nil
		}
		if err := chosen.run(s, ctx); err != nil {
			if errors.Is(err, ErrNoRows) {
				_ = s.driver.Info(ctx, s.theme.ErrorPrefix+"No books on this page")
				continue
			}
			if isRecoverable(err) {
				continue
			}
			return s.exit(err)
		}
	}
}

// frame prints the current view.
func (s *Session) frame(ctx context.Context) error {
	out, err := s.text.Render(ctx, s.controller.View(), s.options)
	if err != nil {
		return err
	}
	return s.driver.Info(ctx, string(out))
}

func (s *Session) exit(err error) error {
	s.controller.CancelForm()
	s.controller.CancelDelete()
	if errors.Is(err, ErrAborted) {
		return nil
	}
	return err
}

func (s *Session) notice(ctx context.Context) {
	n, ok := s.controller.Notification()
	if !ok {
		return
	}
	prefix := s.theme.InfoPrefix
	if n.Severity == notify.SeverityError {
		prefix = s.theme.ErrorPrefix
	}
	_ = s.driver.Info(ctx, prefix+n.Message)
}

func (s *Session) goToPage(ctx context.Context) error {
	total := s.controller.View().TotalPages
	raw, err := s.driver.Input(ctx, InputConfig{
		Message: fmt.Sprintf("Page (1-%d)", total),
		Default: strconv.Itoa(s.controller.Page()),
		Validator: func(v string) error {
			n, err := strconv.Atoi(strings.TrimSpace(v))
			if err != nil || n < 1 || n > total {
				return fmt.Errorf("enter a page between 1 and %d", total)
			}
			return nil
		},
	})
	if err != nil {
		return err
	}
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		_ = s.driver.Info(ctx, s.theme.ErrorPrefix+"Invalid page number")
		return nil
	}
	s.controller.GoToPage(n)
	return nil
}

func (s *Session) search(ctx context.Context) error {
	term, err := s.driver.Input(ctx, InputConfig{
		Message: "Search by title or author",
		Default: s.controller.Filters().Search,
		Help:    "Leave empty to clear",
	})
	if err != nil {
		return err
	}
	s.controller.SetSearch(term)
	return nil
}

func (s *Session) filterGenre(ctx context.Context) error {
	view := s.controller.View()
	value, err := s.choose(ctx, "Genre", allGenres, view.Genres, view.Filters.Genre)
	if err != nil {
		return err
	}
	s.controller.SetGenre(value)
	return nil
}

func (s *Session) filterStatus(ctx context.Context) error {
	view := s.controller.View()
	value, err := s.choose(ctx, "Status", allStatuses, view.Statuses, view.Filters.Status)
	if err != nil {
		return err
	}
	s.controller.SetStatus(value)
	return nil
}

// choose offers all plus values; picking all returns "".
func (s *Session) choose(ctx context.Context, message, all string, values []string, current string) (string, error) {
	options := append([]string{all}, values...)
	def := 0
	if current != "" {
		def = indexOf(options, current)
	}
	idx, err := s.driver.Select(ctx, SelectConfig{Message: message, Options: options, DefaultIndex: def})
	if err != nil {
		return "", err
	}
	if idx <= 0 || idx >= len(options) {
		return "", nil
	}
	return options[idx], nil
}

func (s *Session) chooseSort(ctx context.Context) error {
	current := s.controller.View().Sort
	options := make([]string, len(sortChoices))
	def := 0
	for i, choice := range sortChoices {
		options[i] = choice.label
		if choice.key == current.Key {
			def = i
		}
	}
	idx, err := s.driver.Select(ctx, SelectConfig{Message: "Sort by", Options: options, DefaultIndex: def})
	if err != nil {
		return err
	}
	if idx < 0 || idx >= len(sortChoices) {
		return nil
	}
	next := dashboard.Sort{Key: sortChoices[idx].key}
	if next.Key != dashboard.SortNone {
		desc, err := s.driver.Confirm(ctx, ConfirmConfig{Message: "Descending?", Default: current.Desc})
		if err != nil {
			return err
		}
		next.Desc = desc
	}
	s.controller.SetSort(next)
	return nil
}

func (s *Session) reload(ctx context.Context) error {
	err := s.controller.Load(ctx)
	if err != nil {
		s.notice(ctx)
	}
	return err
}

func (s *Session) add(ctx context.Context) error {
	s.controller.OpenCreate()
	return s.fillForm(ctx)
}

func (s *Session) edit(ctx context.Context) error {
	id, err := s.pickRow(ctx, "Edit which book?")
	if err != nil {
		return err
	}
	if err := s.controller.OpenEdit(id); err != nil {
		return err
	}
	return s.fillForm(ctx)
}

func (s *Session) remove(ctx context.Context) error {
	id, err := s.pickRow(ctx, "Delete which book?")
	if err != nil {
		return err
	}
	if err := s.controller.OpenDelete(id); err != nil {
		return err
	}
	for {
		state, open := s.controller.PromptState()
		if !open {
			return nil
		}
		ok, err := s.driver.Confirm(ctx, ConfirmConfig{
			Message: state.Message(),
			Help:    state.Title(),
		})
		if err != nil {
			s.controller.CancelDelete()
			return err
		}
		if !ok {
			s.controller.CancelDelete()
			return nil
		}
		err = s.controller.ConfirmDelete(ctx)
		s.notice(ctx)
		if err == nil {
			return nil
		}
		if !dashboard.IsFailure(err, dashboard.MutationFailure) {
			s.controller.CancelDelete()
			return err
		}
		// the prompt stays open; ask again
	}
}

func (s *Session) pickRow(ctx context.Context, message string) (string, error) {
	rows := s.controller.View().Rows
	if len(rows) == 0 {
		return "", ErrNoRows
	}
	options := make([]string, len(rows))
	for i, b := range rows {
		options[i] = fmt.Sprintf("%d. %s by %s", i+1, b.Title, b.Author)
	}
	idx, err := s.driver.Select(ctx, SelectConfig{Message: message, Options: options, DefaultIndex: -1})
	if err != nil {
		return "", err
	}
	if idx < 0 || idx >= len(rows) {
		return "", ErrNoRows
	}
	return rows[idx].ID, nil
}

// fillForm prompts every field of the open form and submits it. Validation
// errors and store failures keep the form open and start another round.
func (s *Session) fillForm(ctx context.Context) error {
	formModel := s.controller.Validator().Model()
	for {
		state, open := s.controller.FormState()
		if !open {
			return nil
		}

		in, err := s.promptFields(ctx, formModel, state)
		if err != nil {
			s.controller.CancelForm()
			return err
		}

		submit := formModel.Metadata["submitCreate"]
		if state.Editing() {
			submit = formModel.Metadata["submitEdit"]
		}
		ok, err := s.driver.Confirm(ctx, ConfirmConfig{Message: submit + "?", Default: true})
		if err != nil {
			s.controller.CancelForm()
			return err
		}
		if !ok {
			s.controller.CancelForm()
			return nil
		}

		err = s.controller.SubmitForm(ctx, in)
		var verr *form.ValidationError
		switch {
		case err == nil:
			s.notice(ctx)
			return nil
		case errors.As(err, &verr):
			for _, name := range verr.FieldNames() {
				_ = s.driver.Info(ctx, s.theme.ErrorPrefix+verr.Message(name))
			}
		case dashboard.IsFailure(err, dashboard.MutationFailure):
			s.notice(ctx)
		default:
			s.controller.CancelForm()
			return err
		}
	}
}

func (s *Session) promptFields(ctx context.Context, formModel model.FormModel, state form.State) (form.Input, error) {
	in := state.Input
	validator := s.controller.Validator()
	for _, field := range formModel.Fields {
		label := field.Label
		if label == "" {
			label = field.Name
		}
		if field.Required {
			label += " *"
		}
		current := in.Get(field.Name)

		if options := field.EnumStrings(); len(options) > 0 {
			def := indexOf(options, current)
			if def < 0 {
				def = indexOf(options, fmt.Sprint(field.Default))
			}
			idx, err := s.driver.Select(ctx, SelectConfig{
				Message:      label,
				Options:      options,
				DefaultIndex: def,
				Help:         plainHelp(field.Description),
			})
			if err != nil {
				return in, err
			}
			if idx >= 0 && idx < len(options) {
				in = in.Set(field.Name, options[idx])
			}
			continue
		}

		name := field.Name
		value, err := s.driver.Input(ctx, InputConfig{
			Message: label,
			Default: current,
			Help:    firstNonEmpty(plainHelp(field.Description), field.Placeholder),
			Validator: func(v string) error {
				if msg := validator.ValidateField(name, v); msg != "" {
					return errors.New(msg)
				}
				return nil
			},
		})
		if err != nil {
			return in, err
		}
		in = in.Set(field.Name, value)
	}
	return in, nil
}

// isRecoverable reports errors the controller already surfaced to the user.
func isRecoverable(err error) bool {
	var verr *form.ValidationError
	return errors.Is(err, dashboard.ErrBusy) ||
		errors.Is(err, dashboard.ErrNotFound) ||
		errors.As(err, &verr) ||
		dashboard.IsFailure(err, dashboard.LoadFailure) ||
		dashboard.IsFailure(err, dashboard.MutationFailure)
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

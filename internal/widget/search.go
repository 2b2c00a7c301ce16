// Package widget is the profile search component: it validates the typed
// identifier, performs one lookup, and either renders the profile or shows a
// notification.
//
// CONTROL FLOW:
//
//	Search(raw) -> validate.ID -> Lookuper.Lookup -> profile.Formatter.Render
//	                   |               |
//	                   +-> Notifier <--+
//
// A Searcher is either Idle or Pending. Search only starts from Idle; a call
// made while a lookup is outstanding is dropped without any side effect.
// There is no queue, no cancellation and no timeout at this layer.
package widget

import (
	"context"
	"errors"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/sakif/discord-lookup/internal/apperror"
	"github.com/sakif/discord-lookup/internal/model"
	"github.com/sakif/discord-lookup/internal/profile"
	"github.com/sakif/discord-lookup/internal/validate"
)

// User-facing messages.
const (
	MsgMissingID     = "missing discord id"
	MsgInvalidID     = "invalid id"
	MsgNotFound      = "not found"
	MsgRequestFailed = "request failed"
)

// NoticeTTL is how long a notification stays visible.
const NoticeTTL = 3500 * time.Millisecond

type State int32

const (
	Idle State = iota
	Pending
)

func (s State) String() string {
	if s == Pending {
		return "pending"
	}
	return "idle"
}

type NoticeKind int

const (
	NoticeError NoticeKind = iota
	NoticeSuccess
)

// Notifier shows a transient message. A new message replaces the visible one.
type Notifier interface {
	Notify(msg string, kind NoticeKind)
}

// Controls is the input side of the widget.
type Controls interface {
	// SetBusy disables the search trigger and swaps its label while true.
	SetBusy(busy bool)
	FocusInput()
}

// Outcome says how a Search call ended.
type Outcome int

const (
	OutcomeRendered Outcome = iota
	OutcomeEmptyInput
	OutcomeInvalidFormat
	OutcomeUpstreamError
	OutcomeNotFound
	OutcomeTransportFailure
	// OutcomeDropped: a lookup was already pending.
	OutcomeDropped
)

func (o Outcome) String() string {
	switch o {
	case OutcomeRendered:
		return "rendered"
	case OutcomeEmptyInput:
		return "empty_input"
	case OutcomeInvalidFormat:
		return "invalid_format"
	case OutcomeUpstreamError:
		return "upstream_error"
	case OutcomeNotFound:
		return "not_found"
	case OutcomeTransportFailure:
		return "transport_failure"
	case OutcomeDropped:
		return "dropped"
	default:
		return "unknown"
	}
}

// Searcher owns one widget instance's state. Its collaborators are injected
// so it can run against a fake render target.
type Searcher struct {
	lookup    Lookuper
	formatter *profile.Formatter
	target    profile.Target
	notifier  Notifier
	controls  Controls
	logger    *slog.Logger
	observe   func(Outcome)

	state atomic.Int32
}

type Config struct {
	Lookup    Lookuper
	Formatter *profile.Formatter // nil means profile.NewFormatter()
	Target    profile.Target
	Notifier  Notifier
	Controls  Controls
	Logger    *slog.Logger
	// Observe, if set, is called once per Search with its outcome.
	Observe func(Outcome)
}

func NewSearcher(cfg Config) *Searcher {
	if cfg.Formatter == nil {
		cfg.Formatter = profile.NewFormatter()
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	return &Searcher{
		lookup:    cfg.Lookup,
		formatter: cfg.Formatter,
		target:    cfg.Target,
		notifier:  cfg.Notifier,
		controls:  cfg.Controls,
		logger:    cfg.Logger,
		observe:   cfg.Observe,
	}
}

func (s *Searcher) State() State {
	return State(s.state.Load())
}

// Search runs one search for the raw input text. It never returns an error:
// every failure is turned into a notification and the widget is always left
// Idle and interactive.
func (s *Searcher) Search(ctx context.Context, raw string) Outcome {
	outcome := s.search(ctx, raw)
	if s.observe != nil {
		s.observe(outcome)
	}
	return outcome
}

func (s *Searcher) search(ctx context.Context, raw string) Outcome {
	if s.State() == Pending {
		return OutcomeDropped
	}

	id, err := validate.ID(raw)
	if err != nil {
		if errors.Is(err, apperror.ErrEmptyInput) {
			s.notifier.Notify(MsgMissingID, NoticeError)
			s.controls.FocusInput()
			return OutcomeEmptyInput
		}
		s.notifier.Notify(MsgInvalidID, NoticeError)
		return OutcomeInvalidFormat
	}

	// Validation happened outside the guard, so another call may have won the
	// race in between.
	if !s.state.CompareAndSwap(int32(Idle), int32(Pending)) {
		return OutcomeDropped
	}
	s.controls.SetBusy(true)
	defer func() {
		s.state.Store(int32(Idle))
		s.controls.SetBusy(false)
	}()

	return s.resolve(ctx, id)
}

func (s *Searcher) resolve(ctx context.Context, id string) (outcome Outcome) {
	defer func() {
		// A panicking target is reported like a failed request.
		if r := recover(); r != nil {
			s.logger.Error("lookup render panicked", slog.String("id", id), slog.Any("panic", r))
			s.notifier.Notify(MsgRequestFailed, NoticeError)
			outcome = OutcomeTransportFailure
		}
	}()

	resp, err := s.lookup.Lookup(ctx, id)
	if err != nil {
		s.logger.Error("lookup request failed",
			slog.String("id", id),
			slog.String("error", err.Error()),
		)
		s.notifier.Notify(MsgRequestFailed, NoticeError)
		return OutcomeTransportFailure
	}

	switch {
	case resp.HasError:
		s.notifier.Notify(resp.ErrorMessage, NoticeError)
		return OutcomeUpstreamError
	case resp.Found():
		s.render(resp.Record)
		return OutcomeRendered
	default:
		s.notifier.Notify(MsgNotFound, NoticeError)
		return OutcomeNotFound
	}
}

func (s *Searcher) render(rec model.ProfileRecord) {
	s.formatter.Render(s.target, rec)
}

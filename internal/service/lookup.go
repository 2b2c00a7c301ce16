// Package service contains the business logic of the lookup backend.
//
// THE THREE LAYERS:
//
//	Handler (HTTP layer)     → parses requests, writes responses
//	Service (business layer) → validates, calls Discord, records history
//	Repository (data layer)  → reads/writes the history table
//
// LookupService depends on interfaces (UserFetcher, repository.LookupRepository),
// not on the Discord client or SQLite directly, so tests pass in fakes.
package service

import (
	"context"
	"errors"
	"log/slog"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/sakif/discord-lookup/internal/apperror"
	"github.com/sakif/discord-lookup/internal/discord"
	"github.com/sakif/discord-lookup/internal/metrics"
	"github.com/sakif/discord-lookup/internal/model"
	"github.com/sakif/discord-lookup/internal/repository"
	"github.com/sakif/discord-lookup/internal/validate"
)

// maxRecordedInput caps how much of a rejected input is kept in history.
const maxRecordedInput = 32

// UserFetcher is the part of the Discord client the service needs.
type UserFetcher interface {
	FetchUser(ctx context.Context, id string) (discord.RawUser, error)
}

type LookupService struct {
	users  UserFetcher
	repo   repository.LookupRepository
	logger *slog.Logger
	now    func() time.Time
}

func NewLookupService(users UserFetcher, repo repository.LookupRepository, logger *slog.Logger) *LookupService {
	return &LookupService{
		users:  users,
		repo:   repo,
		logger: logger,
		now:    time.Now,
	}
}

// Lookup validates rawID, fetches the user and builds the record served by
// GET /lookup. Every call, successful or not, is counted and recorded.
//
// Errors are apperror values: ErrEmptyInput/ErrInvalidFormat for bad input,
// ErrNotFound, ErrUpstream or ErrTransport from Discord.
func (s *LookupService) Lookup(ctx context.Context, rawID string) (*model.ProfileRecord, error) {
	id, err := validate.ID(rawID)
	if err != nil {
		s.record(ctx, truncate(strings.TrimSpace(rawID), maxRecordedInput), err)
		return nil, err
	}

	start := s.now()
	u, err := s.users.FetchUser(ctx, id)
	metrics.UpstreamDuration.WithLabelValues(string(outcomeOf(err))).Observe(s.now().Sub(start).Seconds())

	s.record(ctx, id, err)
	if err != nil {
		if errors.Is(err, apperror.ErrTransport) {
			s.logger.Error("discord request failed",
				slog.String("id", id),
				slog.String("error", err.Error()),
			)
		}
		return nil, err
	}

	rec := toRecord(u, s.now())
	return &rec, nil
}

// History returns the most recent lookups, newest first.
func (s *LookupService) History(ctx context.Context, opts repository.ListOptions) ([]model.Lookup, error) {
	return s.repo.ListRecent(ctx, opts.Normalize())
}

// record is best effort: a failed write is logged and otherwise ignored.
func (s *LookupService) record(ctx context.Context, userID string, err error) {
	outcome := outcomeOf(err)
	metrics.LookupsTotal.WithLabelValues(string(outcome)).Inc()

	if s.repo == nil {
		return
	}
	l := &model.Lookup{UserID: userID, Outcome: outcome, SearchedAt: s.now().UTC()}
	if werr := s.repo.Record(ctx, l); werr != nil {
		s.logger.Warn("recording lookup",
			slog.String("id", userID),
			slog.String("error", werr.Error()),
		)
	}
}

func toRecord(u discord.RawUser, now time.Time) model.ProfileRecord {
	searchedAt := model.JSONTime(now.UTC())
	return model.ProfileRecord{
		ID:            model.FlexString(u.ID),
		Username:      u.Username,
		DisplayName:   u.GlobalName,
		Avatar:        discord.AvatarURL(u),
		Banner:        discord.BannerURL(u),
		AccentColor:   u.AccentColor,
		Discriminator: model.FlexString(u.Discriminator),
		CreatedAt:     discord.CreatedAt(u.ID),
		Bot:           u.Bot,
		System:        u.System,
		Badges:        discord.DecodeBadges(u.PublicFlags),
		Flags:         model.FlexString(strconv.FormatInt(u.PublicFlags, 10)),
		SearchedAt:    &searchedAt,
	}
}

func outcomeOf(err error) model.Outcome {
	switch {
	case err == nil:
		return model.OutcomeFound
	case errors.Is(err, apperror.ErrValidation):
		return model.OutcomeInvalid
	case errors.Is(err, apperror.ErrNotFound):
		return model.OutcomeNotFound
	case errors.Is(err, apperror.ErrUpstream):
		return model.OutcomeUpstreamError
	default:
		return model.OutcomeTransportFailure
	}
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	// Back off to a rune boundary.
	for n > 0 && !utf8.RuneStart(s[n]) {
		n--
	}
	return s[:n]
}

package profile

import (
	"maps"
	"time"

	"github.com/sakif/discord-lookup/internal/model"
)

// Formatter derives a DisplayModel from a ProfileRecord. It holds only
// read-only tables and a clock, so one Formatter can serve any number of
// concurrent renders.
type Formatter struct {
	now       func() time.Time
	loc       *time.Location
	overrides map[string]string
	icons     map[string]string
}

type Option func(*Formatter)

// WithClock replaces time.Now, mostly for tests.
func WithClock(now func() time.Time) Option {
	return func(f *Formatter) { f.now = now }
}

// WithLocation sets the zone used for the joined date. Defaults to UTC.
func WithLocation(loc *time.Location) Option {
	return func(f *Formatter) {
		if loc != nil {
			f.loc = loc
		}
	}
}

// WithOverrides adds entries to the override table. Entries given here win
// over the built-in ones.
func WithOverrides(overrides map[string]string) Option {
	return func(f *Formatter) { maps.Copy(f.overrides, overrides) }
}

// WithIcons replaces the badge icon table.
func WithIcons(icons map[string]string) Option {
	return func(f *Formatter) { f.icons = maps.Clone(icons) }
}

func NewFormatter(opts ...Option) *Formatter {
	f := &Formatter{
		now:       time.Now,
		loc:       time.UTC,
		overrides: maps.Clone(Overrides),
		icons:     maps.Clone(HouseIcons),
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Format never fails: every slot has a fallback.
func (f *Formatter) Format(rec model.ProfileRecord) DisplayModel {
	now := f.now()

	days := 0
	if created, ok := ParseCreatedAt(rec.CreatedAt, f.loc); ok {
		days = DaysBetween(created, now)
	}

	return DisplayModel{
		AvatarURL:   ResolveAvatar(rec),
		Banner:      ResolveBanner(rec),
		Name:        ResolveName(rec),
		Tag:         ResolveTag(rec),
		UID:         ResolveUID(rec),
		JoinedLabel: JoinedLabel(rec.CreatedAt, now, f.loc),
		AgeLabel:    AgeLabel(days),
		AccountType: ResolveAccountType(rec, f.overrides),
		Badges:      ResolveBadges(rec.Badges, f.icons),
		Flags:       ResolveFlags(rec),
		Status:      StatusOnline,
	}
}

// Render formats rec and applies the result to t.
func (f *Formatter) Render(t Target, rec model.ProfileRecord) DisplayModel {
	m := f.Format(rec)
	Apply(t, m)
	return m
}

// Package profile turns a lookup record into what the profile card shows.
//
// The package has two halves:
//
//	Format: ProfileRecord -> DisplayModel   (pure, never fails)
//	Apply:  DisplayModel  -> Target         (writes each slot once)
//
// Every field of the record is optional. Each slot of the card has one small
// resolver function in resolve.go with an ordered fallback list, so a partial
// or malformed record still produces a complete card.
package profile

// Status is the presence dot drawn on the avatar. Records carry no presence
// data, so the card always shows StatusOnline.
type Status string

const StatusOnline Status = "online"

// Banner describes the strip behind the avatar.
// At most one of ImageURL and Background is set; both empty means the default
// background.
type Banner struct {
	ImageURL   string
	Background string // CSS background value
}

// LinkVisible reports whether the "open banner" link should be shown.
func (b Banner) LinkVisible() bool {
	return b.ImageURL != ""
}

// Badge is one entry of the badge list.
type Badge struct {
	Label string
	Icon  string // empty when the badge has no known icon
}

// Glyph is drawn in place of an icon for badges outside the icon table.
const Glyph = "✨"

func (b Badge) HasIcon() bool {
	return b.Icon != ""
}

// AccountType is the account kind line. Override is true when the label comes
// from the override table rather than the bot/system flags.
type AccountType struct {
	Label    string
	Override bool
}

// DisplayModel is the fully resolved card. It is recomputed on every render
// and never stored.
type DisplayModel struct {
	AvatarURL   string
	Banner      Banner
	Name        string
	Tag         string
	UID         string
	JoinedLabel string
	AgeLabel    string
	AccountType AccountType
	Badges      []Badge
	Flags       string
	Status      Status
}

// Target is the render surface: a set of named slots the card writes into.
// Implementations own the slots' lifecycle; Apply only sets them.
type Target interface {
	// ShowCard hides the empty-state placeholder and reveals the card.
	ShowCard()
	SetBanner(Banner)
	// SetAvatar sets both the avatar image and its link.
	SetAvatar(url string)
	SetName(string)
	SetTag(string)
	SetUID(string)
	SetJoined(string)
	SetStatus(Status)
	SetAccountType(AccountType)
	// SetBadges receives an empty slice when the badge container must be hidden.
	SetBadges([]Badge)
	SetFlags(string)
	SetAge(string)
}

// Apply writes every slot of m into t. Each search overwrites all prior
// display state, so every slot is written even when it holds a fallback.
func Apply(t Target, m DisplayModel) {
	t.ShowCard()
	t.SetBanner(m.Banner)
	t.SetAvatar(m.AvatarURL)
	t.SetName(m.Name)
	t.SetTag(m.Tag)
	t.SetUID(m.UID)
	t.SetJoined(m.JoinedLabel)
	t.SetStatus(m.Status)
	t.SetAccountType(m.AccountType)
	t.SetBadges(m.Badges)
	t.SetFlags(m.Flags)
	t.SetAge(m.AgeLabel)
}

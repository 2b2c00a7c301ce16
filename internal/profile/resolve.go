package profile

import (
	"fmt"
	"strings"

	"github.com/sakif/discord-lookup/internal/model"
)

const (
	unknown = "unknown"

	LabelBot     = "Bot Account"
	LabelSystem  = "System Account"
	LabelRegular = "Regular Account"

	defaultAvatarFormat = "https://cdn.discordapp.com/embed/avatars/%d.png"
	defaultAvatarCount  = 5
)

// Overrides maps an account id to a label that replaces the account type line.
// It is product data, kept here as a table rather than a branch in the
// formatter. Labels may contain inline markup; HTML targets sanitise it.
var Overrides = map[string]string{
	"1055337846657007648": "👨‍💻 Developer <3",
}

// HouseIcons maps a badge name to its icon. Badges missing from the table are
// drawn with Glyph.
var HouseIcons = map[string]string{
	"House Bravery":    "/static/img/bravery.svg",
	"House Brilliance": "/static/img/brilliance.svg",
	"House Balance":    "/static/img/balance.svg",
}

// ResolveAvatar: avatar -> default avatar picked by discriminator.
func ResolveAvatar(rec model.ProfileRecord) string {
	if rec.Avatar != "" {
		return rec.Avatar
	}
	return DefaultAvatarURL(rec.Discriminator.String())
}

// DefaultAvatarURL returns the stock avatar selected by AvatarIndex.
func DefaultAvatarURL(discriminator string) string {
	return fmt.Sprintf(defaultAvatarFormat, AvatarIndex(discriminator))
}

// AvatarIndex parses the leading integer of discriminator the permissive way
// ("12abc" is 12) and returns it modulo 5. Anything that does not start with
// digits, and any negative value, selects index 0.
//
// The modulo is folded in digit by digit, so arbitrarily long inputs cannot
// overflow.
func AvatarIndex(discriminator string) int {
	s := strings.TrimSpace(discriminator)
	if strings.HasPrefix(s, "+") {
		s = s[1:]
	}

	idx := 0
	for _, r := range s {
		if r < '0' || r > '9' {
			break
		}
		idx = (idx*10 + int(r-'0')) % defaultAvatarCount
	}
	return idx
}

// ResolveBanner: banner image -> accent colour gradient -> default.
// An accent colour of zero counts as absent.
func ResolveBanner(rec model.ProfileRecord) Banner {
	if rec.Banner != "" {
		return Banner{ImageURL: rec.Banner}
	}
	if rec.AccentColor != nil && *rec.AccentColor != 0 {
		return Banner{Background: AccentGradient(*rec.AccentColor)}
	}
	return Banner{}
}

// AccentGradient renders a 24-bit colour as a 135° gradient from the solid
// colour to a translucent copy of it.
func AccentGradient(color int64) string {
	hex := fmt.Sprintf("#%06x", color&0xffffff)
	return fmt.Sprintf("linear-gradient(135deg, %s, %sdd)", hex, hex)
}

// ResolveName: display name -> username -> "unknown".
func ResolveName(rec model.ProfileRecord) string {
	switch {
	case rec.DisplayName != "":
		return rec.DisplayName
	case rec.Username != "":
		return rec.Username
	default:
		return unknown
	}
}

// ResolveTag always carries the "@" prefix.
func ResolveTag(rec model.ProfileRecord) string {
	if rec.Username == "" {
		return "@" + unknown
	}
	return "@" + rec.Username
}

// ResolveUID: id -> "n/a".
func ResolveUID(rec model.ProfileRecord) string {
	if rec.ID == "" {
		return "n/a"
	}
	return rec.ID.String()
}

// ResolveFlags: flags verbatim -> "0".
func ResolveFlags(rec model.ProfileRecord) string {
	if rec.Flags == "" {
		return "0"
	}
	return rec.Flags.String()
}

// ResolveAccountType picks the label from the bot and system flags, then lets
// the override table replace it.
func ResolveAccountType(rec model.ProfileRecord, overrides map[string]string) AccountType {
	t := AccountType{Label: LabelRegular}
	switch {
	case rec.Bot:
		t.Label = LabelBot
	case rec.System:
		t.Label = LabelSystem
	}

	if label, ok := overrides[rec.ID.String()]; ok && rec.ID != "" {
		t = AccountType{Label: label, Override: true}
	}
	return t
}

// ResolveBadges keeps the input order. The result is empty, never nil, when
// there are no badges.
func ResolveBadges(names []string, icons map[string]string) []Badge {
	badges := make([]Badge, 0, len(names))
	for _, name := range names {
		badges = append(badges, Badge{Label: name, Icon: icons[name]})
	}
	return badges
}

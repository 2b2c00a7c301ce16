package discord

import (
	"fmt"
	"math/big"
	"strconv"
	"strings"
	"time"
)

const (
	cdnBase = "https://cdn.discordapp.com"

	// Epoch is the first second of 2015, in Unix milliseconds.
	Epoch = int64(1420070400000)
)

var badgeBits = []struct {
	bit   uint
	label string
}{
	{0, "Discord Staff"},
	{1, "Partnered Owner"},
	{2, "HypeSquad Events"},
	{3, "Bug Hunter 1"},
	{6, "House Bravery"},
	{7, "House Brilliance"},
	{8, "House Balance"},
	{9, "Early Supporter"},
	{14, "Bug Hunter 2"},
	{16, "Verified Bot"},
	{17, "Early Bot Dev"},
	{18, "Moderator Alumni"},
	{22, "Active Developer"},
}

// DecodeBadges returns the badge names set in public_flags, lowest bit first.
// Unknown bits are ignored.
func DecodeBadges(flags int64) []string {
	out := []string{}
	for _, b := range badgeBits {
		if flags&(1<<b.bit) != 0 {
			out = append(out, b.label)
		}
	}
	return out
}

// CreatedAt derives the account creation time from a snowflake id, formatted
// as RFC 3339 in UTC. It returns "" when id is not a non-negative integer.
func CreatedAt(id string) string {
	sf, ok := new(big.Int).SetString(id, 10)
	if !ok || sf.Sign() < 0 {
		return ""
	}
	ms := new(big.Int).Rsh(sf, 22).Int64() + Epoch
	return time.UnixMilli(ms).UTC().Format(time.RFC3339)
}

// AvatarURL returns the user's avatar on the CDN, or the default avatar picked
// from the discriminator (legacy users) or the id.
func AvatarURL(u RawUser) string {
	if hash, ok := present(u.Avatar); ok {
		return cdnImage("avatars", u.ID, hash)
	}

	idx := 0
	if u.Discriminator != "" && u.Discriminator != "0" {
		if n, err := strconv.Atoi(u.Discriminator); err == nil && n >= 0 {
			idx = n % 5
		}
	} else if bi, ok := new(big.Int).SetString(u.ID, 10); ok {
		idx = int(new(big.Int).Mod(bi, big.NewInt(5)).Int64())
	}
	return fmt.Sprintf("%s/embed/avatars/%d.png", cdnBase, idx)
}

// BannerURL returns the user's banner on the CDN, or "" when there is none.
func BannerURL(u RawUser) string {
	hash, ok := present(u.Banner)
	if !ok {
		return ""
	}
	return cdnImage("banners", u.ID, hash)
}

// present treats "" and the literal "null" as absent.
func present(hash string) (string, bool) {
	if hash == "" || hash == "null" {
		return "", false
	}
	return hash, true
}

// cdnImage serves animated hashes ("a_" prefix) as gif.
func cdnImage(kind, id, hash string) string {
	ext := "png"
	if strings.HasPrefix(hash, "a_") {
		ext = "gif"
	}
	return fmt.Sprintf("%s/%s/%s/%s.%s?size=1024", cdnBase, kind, id, hash, ext)
}

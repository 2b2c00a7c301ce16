package model

import (
	"bytes"
	"encoding/json"
	"math"
	"time"
)

// maxDateMillis is the largest magnitude a JavaScript Date accepts.
const maxDateMillis = 8.64e15

// UnmarshalJSON decodes a /lookup body field by field. Only a body that is
// not a JSON object is an error; any single field that cannot be read is
// left at its zero value.
//
// Presence follows JavaScript truthiness where the widget tests a field with
// a bare "if": id, the name fields, avatar, banner, bot and system.
func (p *ProfileRecord) UnmarshalJSON(data []byte) error {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return err
	}

	*p = ProfileRecord{
		ID:            FlexString(truthyText(fields["id"])),
		Username:      truthyText(fields["username"]),
		DisplayName:   truthyText(fields["display_name"]),
		Avatar:        truthyText(fields["avatar"]),
		Banner:        truthyText(fields["banner"]),
		AccentColor:   lenientColor(fields["accent_color"]),
		Discriminator: FlexString(lenientText(fields["discriminator"])),
		CreatedAt:     lenientCreatedAt(fields["created_at"]),
		Bot:           Truthy(fields["bot"]),
		System:        Truthy(fields["system"]),
		Badges:        lenientBadges(fields["badges"]),
		Flags:         FlexString(lenientText(fields["flags"])),
	}

	var at JSONTime
	if raw, ok := fields["searched_at"]; ok && at.UnmarshalJSON(raw) == nil {
		p.SearchedAt = &at
	}
	return nil
}

// Truthy applies JavaScript truthiness to a raw JSON value. A missing value,
// null, false, "" and zero are falsy; objects and arrays are truthy.
func Truthy(raw json.RawMessage) bool {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		return false
	}
	switch raw[0] {
	case 'n', 'f':
		return false
	case 't', '{', '[':
		return true
	case '"':
		return !bytes.Equal(raw, []byte(`""`))
	}
	var n float64
	if err := json.Unmarshal(raw, &n); err != nil {
		return false
	}
	return n != 0
}

// lenientText is FlexString decoding that yields "" instead of an error.
func lenientText(raw json.RawMessage) string {
	var f FlexString
	if len(raw) == 0 || f.UnmarshalJSON(raw) != nil {
		return ""
	}
	return string(f)
}

// truthyText is lenientText for falsy values read as absent. Objects and
// arrays are truthy but have no text of their own, so they keep their JSON.
func truthyText(raw json.RawMessage) string {
	if !Truthy(raw) {
		return ""
	}
	if s := lenientText(raw); s != "" {
		return s
	}
	return string(bytes.TrimSpace(raw))
}

// lenientColor reads a JSON number, floored. Strings, booleans and numbers
// outside int64 are absent.
func lenientColor(raw json.RawMessage) *int64 {
	n, ok := lenientNumber(raw)
	if !ok || n < math.MinInt64 || n >= math.MaxInt64 {
		return nil
	}
	v := int64(n)
	return &v
}

// lenientCreatedAt keeps strings as they are and reads numbers as Unix
// milliseconds, rendered as RFC 3339 UTC.
func lenientCreatedAt(raw json.RawMessage) string {
	raw = bytes.TrimSpace(raw)
	if len(raw) > 0 && raw[0] == '"' {
		return lenientText(raw)
	}
	ms, ok := lenientNumber(raw)
	if !ok || math.Abs(ms) > maxDateMillis {
		return ""
	}
	return time.UnixMilli(int64(ms)).UTC().Format(time.RFC3339)
}

// lenientBadges reads an array of names. Anything that is not an array is
// absent; null, empty and object entries are skipped.
func lenientBadges(raw json.RawMessage) []string {
	var items []json.RawMessage
	if len(raw) == 0 || json.Unmarshal(raw, &items) != nil || items == nil {
		return nil
	}
	names := make([]string, 0, len(items))
	for _, item := range items {
		if name := lenientText(item); name != "" {
			names = append(names, name)
		}
	}
	return names
}

func lenientNumber(raw json.RawMessage) (float64, bool) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return 0, false
	}
	var n float64
	if err := json.Unmarshal(raw, &n); err != nil {
		return 0, false
	}
	return math.Floor(n), true
}

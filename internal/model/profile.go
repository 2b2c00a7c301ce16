// Package model defines the data structures shared by the lookup backend and
// the widget that consumes it.
package model

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"
)

// ProfileRecord is the body of a successful GET /lookup response.
//
// Every field is optional. The widget renders whatever is present and falls
// back field by field, so nothing here may be assumed non-zero. Decoding is
// lenient: a field of the wrong type reads as absent instead of failing the
// whole record (see UnmarshalJSON).
type ProfileRecord struct {
	ID            FlexString `json:"id,omitempty"`
	Username      string     `json:"username,omitempty"`
	DisplayName   string     `json:"display_name,omitempty"`
	Avatar        string     `json:"avatar,omitempty"`
	Banner        string     `json:"banner,omitempty"`
	AccentColor   *int64     `json:"accent_color,omitempty"` // 24-bit RGB
	Discriminator FlexString `json:"discriminator,omitempty"`
	CreatedAt     string     `json:"created_at,omitempty"`
	Bot           bool       `json:"bot"`
	System        bool       `json:"system"`
	Badges        []string   `json:"badges,omitempty"`
	Flags         FlexString `json:"flags,omitempty"`
	SearchedAt    *JSONTime  `json:"searched_at,omitempty"`
}

// FlexString accepts a JSON string, number or boolean and keeps its text.
// Upstreams disagree on whether ids, discriminators and flags are quoted.
type FlexString string

func (f *FlexString) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	switch {
	case len(data) == 0, bytes.Equal(data, []byte("null")):
		*f = ""
	case data[0] == '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*f = FlexString(s)
	case data[0] == '{', data[0] == '[':
		return fmt.Errorf("model: cannot use %s as a string", data)
	default:
		*f = FlexString(data)
	}
	return nil
}

func (f FlexString) String() string {
	return string(f)
}

const searchedAtLayout = "2006-01-02 15:04 MST"

// JSONTime marshals as "2006-01-02 15:04 MST" in UTC.
type JSONTime time.Time

func (t JSONTime) MarshalJSON() ([]byte, error) {
	formatted := time.Time(t).UTC().Format(searchedAtLayout)
	return []byte(`"` + formatted + `"`), nil
}

func (t *JSONTime) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	parsed, err := time.Parse(searchedAtLayout, s)
	if err != nil {
		return err
	}
	*t = JSONTime(parsed)
	return nil
}

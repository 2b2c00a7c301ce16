package model

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProfileRecordDecodesLooseTypes(t *testing.T) {
	body := `{
		"id": "1055337846657007648",
		"discriminator": 7,
		"flags": 64,
		"accent_color": 16711680,
		"badges": ["House Bravery"],
		"bot": true
	}`

	var rec ProfileRecord
	require.NoError(t, json.Unmarshal([]byte(body), &rec))

	assert.Equal(t, FlexString("1055337846657007648"), rec.ID)
	assert.Equal(t, FlexString("7"), rec.Discriminator)
	assert.Equal(t, FlexString("64"), rec.Flags)
	require.NotNil(t, rec.AccentColor)
	assert.Equal(t, int64(0xff0000), *rec.AccentColor)
	assert.True(t, rec.Bot)
	assert.False(t, rec.System)
}

func TestFlexStringNullIsEmpty(t *testing.T) {
	var rec ProfileRecord
	require.NoError(t, json.Unmarshal([]byte(`{"discriminator": null, "flags": "0"}`), &rec))

	assert.Equal(t, FlexString(""), rec.Discriminator)
	assert.Equal(t, FlexString("0"), rec.Flags)
}

func TestFlexStringRejectsObjects(t *testing.T) {
	var f FlexString
	assert.Error(t, json.Unmarshal([]byte(`{"a": 1}`), &f))
	assert.Error(t, json.Unmarshal([]byte(`[1]`), &f))
}

func TestProfileRecordDropsUnreadableFields(t *testing.T) {
	tests := []struct {
		name  string
		body  string
		check func(t *testing.T, rec ProfileRecord)
	}{
		{"object flags", `{"id":"42","flags":{"a":1}}`, func(t *testing.T, rec ProfileRecord) {
			assert.Equal(t, FlexString(""), rec.Flags)
		}},
		{"float accent is floored", `{"id":"42","accent_color":1.5}`, func(t *testing.T, rec ProfileRecord) {
			require.NotNil(t, rec.AccentColor)
			assert.Equal(t, int64(1), *rec.AccentColor)
		}},
		{"string accent", `{"id":"42","accent_color":"ff0000"}`, func(t *testing.T, rec ProfileRecord) {
			assert.Nil(t, rec.AccentColor)
		}},
		{"huge accent", `{"id":"42","accent_color":1e300}`, func(t *testing.T, rec ProfileRecord) {
			assert.Nil(t, rec.AccentColor)
		}},
		{"truthy strings", `{"id":"42","bot":"false","system":"yes"}`, func(t *testing.T, rec ProfileRecord) {
			assert.True(t, rec.Bot)
			assert.True(t, rec.System)
		}},
		{"falsy values", `{"id":"42","bot":0,"system":""}`, func(t *testing.T, rec ProfileRecord) {
			assert.False(t, rec.Bot)
			assert.False(t, rec.System)
		}},
		{"numeric created_at is unix millis", `{"id":"42","created_at":1420070400000}`, func(t *testing.T, rec ProfileRecord) {
			assert.Equal(t, "2015-01-01T00:00:00Z", rec.CreatedAt)
		}},
		{"boolean created_at", `{"id":"42","created_at":true}`, func(t *testing.T, rec ProfileRecord) {
			assert.Empty(t, rec.CreatedAt)
		}},
		{"badges not an array", `{"id":"42","badges":"House Bravery"}`, func(t *testing.T, rec ProfileRecord) {
			assert.Nil(t, rec.Badges)
		}},
		{"badges with junk entries", `{"id":"42","badges":["House Bravery",null,{},7]}`, func(t *testing.T, rec ProfileRecord) {
			assert.Equal(t, []string{"House Bravery", "7"}, rec.Badges)
		}},
		{"false display name", `{"id":"42","display_name":false,"username":"bob"}`, func(t *testing.T, rec ProfileRecord) {
			assert.Empty(t, rec.DisplayName)
			assert.Equal(t, "bob", rec.Username)
		}},
		{"bad searched_at", `{"id":"42","searched_at":12}`, func(t *testing.T, rec ProfileRecord) {
			assert.Nil(t, rec.SearchedAt)
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var rec ProfileRecord
			require.NoError(t, json.Unmarshal([]byte(tt.body), &rec))
			assert.Equal(t, FlexString("42"), rec.ID)
			tt.check(t, rec)
		})
	}
}

func TestProfileRecordIDTruthiness(t *testing.T) {
	tests := []struct {
		body string
		want FlexString
	}{
		{`{"id":0}`, ""},
		{`{"id":false}`, ""},
		{`{"id":null}`, ""},
		{`{"id":""}`, ""},
		{`{"id":42}`, "42"},
		{`{"id":"0"}`, "0"},
	}

	for _, tt := range tests {
		t.Run(tt.body, func(t *testing.T) {
			var rec ProfileRecord
			require.NoError(t, json.Unmarshal([]byte(tt.body), &rec))
			assert.Equal(t, tt.want, rec.ID)
		})
	}
}

func TestProfileRecordRejectsNonObjects(t *testing.T) {
	var rec ProfileRecord
	assert.Error(t, json.Unmarshal([]byte(`[1,2]`), &rec))
}

func TestTruthy(t *testing.T) {
	for _, raw := range []string{`true`, `"x"`, `"false"`, `1`, `-0.5`, `{}`, `[]`} {
		assert.True(t, Truthy(json.RawMessage(raw)), raw)
	}
	for _, raw := range []string{``, `null`, `false`, `""`, `0`, `-0`, `0.0`} {
		assert.False(t, Truthy(json.RawMessage(raw)), raw)
	}
}

func TestJSONTimeFormat(t *testing.T) {
	ts := JSONTime(time.Date(2026, time.October, 18, 9, 5, 0, 0, time.UTC))

	out, err := json.Marshal(ts)
	require.NoError(t, err)
	assert.Equal(t, `"2026-10-18 09:05 UTC"`, string(out))

	var back JSONTime
	require.NoError(t, json.Unmarshal(out, &back))
	assert.True(t, time.Time(ts).Equal(time.Time(back)))
}

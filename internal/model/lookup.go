package model

import "time"

// Outcome classifies how a single lookup ended.
type Outcome string

const (
	OutcomeFound            Outcome = "found"
	OutcomeNotFound         Outcome = "not_found"
	OutcomeUpstreamError    Outcome = "upstream_error"
	OutcomeTransportFailure Outcome = "transport_failure"
	OutcomeInvalid          Outcome = "invalid"
)

// Lookup is one row of the lookup history.
// Only the identifier and outcome are kept, never the profile itself.
type Lookup struct {
	ID         string    `json:"id"`
	UserID     string    `json:"userId"`
	Outcome    Outcome   `json:"outcome"`
	SearchedAt time.Time `json:"searchedAt"`
}

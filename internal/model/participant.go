package model

import (
	"time"
)

// MatchingParticipant joins a group matching to one candidate cast.
// A cast appears at most once per group offer: unique (matching_id, cast_id).
type MatchingParticipant struct {
	ID          string            `db:"id" json:"id"`
	MatchingID  string            `db:"matching_id" json:"matchingId"`
	CastID      string            `db:"cast_id" json:"castId"`
	Status      ParticipantStatus `db:"status" json:"status"`
	RespondedAt *time.Time        `db:"responded_at" json:"respondedAt,omitempty"`
	JoinedAt    *time.Time        `db:"joined_at" json:"joinedAt,omitempty"`
	CreatedAt   time.Time         `db:"created_at" json:"createdAt"`
	UpdatedAt   time.Time         `db:"updated_at" json:"updatedAt"`
}

type CreateParticipantParams struct {
	ID         string
	MatchingID string
	CastID     string
}

// ParticipantCounts is the guest-facing aggregate of a group offer's
// participant standings. Guests see counts, never raw participant rows.
type ParticipantCounts struct {
	Pending   int `json:"pending"`
	Accepted  int `json:"accepted"`
	Rejected  int `json:"rejected"`
	Joined    int `json:"joined"`
	Completed int `json:"completed"`
}

// Total is the number of casts that were fanned out at creation time.
func (c ParticipantCounts) Total() int {
	return c.Pending + c.Accepted + c.Rejected + c.Joined + c.Completed
}

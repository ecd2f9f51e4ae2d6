package model

import (
	"time"
)

// SoloMatching is a one-to-one offer between a guest and a single cast.
// totalPoints is fixed at creation; extensions accrue on extensionPoints only.
type SoloMatching struct {
	ID                      string         `db:"id" json:"id"`
	GuestID                 string         `db:"guest_id" json:"guestId"`
	CastID                  string         `db:"cast_id" json:"castId"`
	ChatRoomID              *string        `db:"chat_room_id" json:"chatRoomId,omitempty"`
	Status                  MatchingStatus `db:"status" json:"status"`
	ProposedDate            time.Time      `db:"proposed_date" json:"proposedDate"`
	ProposedDurationMinutes int            `db:"proposed_duration_minutes" json:"proposedDurationMinutes"`
	ProposedLocation        string         `db:"proposed_location" json:"proposedLocation"`
	HourlyRate              int            `db:"hourly_rate" json:"hourlyRate"`
	TotalPoints             int            `db:"total_points" json:"totalPoints"`
	StartedAt               *time.Time     `db:"started_at" json:"startedAt,omitempty"`
	ScheduledEndAt          *time.Time     `db:"scheduled_end_at" json:"scheduledEndAt,omitempty"`
	ActualEndAt             *time.Time     `db:"actual_end_at" json:"actualEndAt,omitempty"`
	ExtensionMinutes        int            `db:"extension_minutes" json:"extensionMinutes"`
	ExtensionPoints         int            `db:"extension_points" json:"extensionPoints"`
	CastRespondedAt         *time.Time     `db:"cast_responded_at" json:"castRespondedAt,omitempty"`
	CreatedAt               time.Time      `db:"created_at" json:"createdAt"`
	UpdatedAt               time.Time      `db:"updated_at" json:"updatedAt"`
}

type CreateSoloMatchingParams struct {
	ID                      string
	GuestID                 string
	CastID                  string
	ProposedDate            time.Time
	ProposedDurationMinutes int
	ProposedLocation        string
	HourlyRate              int
	TotalPoints             int
}

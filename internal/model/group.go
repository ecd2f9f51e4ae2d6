package model

import (
	"time"
)

// GroupMatching is a one-to-many offer: one guest, many candidate casts.
// The upfront budget (totalPoints) is taken at the platform base rate for the
// requested head count and does not depend on how many casts accept.
// baseHourlyRate snapshots the rate used at creation so extensions bill the
// same way the original budget was computed.
type GroupMatching struct {
	ID                      string         `db:"id" json:"id"`
	GuestID                 string         `db:"guest_id" json:"guestId"`
	ChatRoomID              *string        `db:"chat_room_id" json:"chatRoomId,omitempty"`
	Status                  MatchingStatus `db:"status" json:"status"`
	ProposedDate            time.Time      `db:"proposed_date" json:"proposedDate"`
	ProposedDurationMinutes int            `db:"proposed_duration_minutes" json:"proposedDurationMinutes"`
	ProposedLocation        string         `db:"proposed_location" json:"proposedLocation"`
	RequestedCastCount      int            `db:"requested_cast_count" json:"requestedCastCount"`
	BaseHourlyRate          int            `db:"base_hourly_rate" json:"baseHourlyRate"`
	TotalPoints             int            `db:"total_points" json:"totalPoints"`
	StartedAt               *time.Time     `db:"started_at" json:"startedAt,omitempty"`
	ScheduledEndAt          *time.Time     `db:"scheduled_end_at" json:"scheduledEndAt,omitempty"`
	ActualEndAt             *time.Time     `db:"actual_end_at" json:"actualEndAt,omitempty"`
	ExtensionMinutes        int            `db:"extension_minutes" json:"extensionMinutes"`
	ExtensionPoints         int            `db:"extension_points" json:"extensionPoints"`
	RecruitingEndedAt       *time.Time     `db:"recruiting_ended_at" json:"recruitingEndedAt,omitempty"`
	CreatedAt               time.Time      `db:"created_at" json:"createdAt"`
	UpdatedAt               time.Time      `db:"updated_at" json:"updatedAt"`
}

type CreateGroupMatchingParams struct {
	ID                      string
	GuestID                 string
	ProposedDate            time.Time
	ProposedDurationMinutes int
	ProposedLocation        string
	RequestedCastCount      int
	BaseHourlyRate          int
	TotalPoints             int
}

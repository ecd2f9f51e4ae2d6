package model

import (
	"time"
)

// Cast is the slice of the cast profile the matching core needs: activity,
// birth date for age filtering, and the rate offered for solo sessions.
// Full profiles live with the external identity/profile system.
type Cast struct {
	ID         string    `db:"id" json:"id"`
	RankID     *string   `db:"rank_id" json:"rankId,omitempty"`
	BirthDate  time.Time `db:"birth_date" json:"birthDate"`
	HourlyRate int       `db:"hourly_rate" json:"hourlyRate"`
	IsActive   bool      `db:"is_active" json:"isActive"`
	CreatedAt  time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt  time.Time `db:"updated_at" json:"updatedAt"`
}

// AgeFilter bounds the eligible cast set by computed age, inclusive on both
// ends. Nil bounds are open.
type AgeFilter struct {
	MinAge *int `json:"minAge,omitempty"`
	MaxAge *int `json:"maxAge,omitempty"`
}

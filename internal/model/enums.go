package model

// Role is the caller's role as resolved by the external identity system.
type Role string

const (
	RoleGuest Role = "guest"
	RoleCast  Role = "cast"
)

// MatchingKind tags the two offer variants sharing one session lifecycle.
type MatchingKind string

const (
	KindSolo  MatchingKind = "solo"
	KindGroup MatchingKind = "group"
)

// MatchingStatus is the session state machine shared by solo and group offers:
// pending -> accepted -> meeting -> in_progress -> completed, with rejected
// reachable from pending and cancelled reachable from pending/accepted.
type MatchingStatus string

const (
	MatchingStatusPending    MatchingStatus = "pending"
	MatchingStatusAccepted   MatchingStatus = "accepted"
	MatchingStatusRejected   MatchingStatus = "rejected"
	MatchingStatusMeeting    MatchingStatus = "meeting"
	MatchingStatusInProgress MatchingStatus = "in_progress"
	MatchingStatusCompleted  MatchingStatus = "completed"
	MatchingStatusCancelled  MatchingStatus = "cancelled"
)

// ParticipantStatus is a cast's individual standing within a group offer.
type ParticipantStatus string

const (
	ParticipantStatusPending   ParticipantStatus = "pending"
	ParticipantStatusAccepted  ParticipantStatus = "accepted"
	ParticipantStatusRejected  ParticipantStatus = "rejected"
	ParticipantStatusJoined    ParticipantStatus = "joined"
	ParticipantStatusCompleted ParticipantStatus = "completed"
)

// MatchingResponse is a cast's answer to a pending offer.
type MatchingResponse string

const (
	ResponseAccepted MatchingResponse = "accepted"
	ResponseRejected MatchingResponse = "rejected"
)

// Valid reports whether the response is one of the two permitted answers.
func (r MatchingResponse) Valid() bool {
	return r == ResponseAccepted || r == ResponseRejected
}

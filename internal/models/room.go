package models

import "time"

// RoomState describes the lifecycle state of a room, derived from its
// participant count. It is a value, not an error: closed rooms are a normal
// outcome for the caller.
type RoomState string

const (
	// StateWaiting means the room holds exactly one participant.
	StateWaiting RoomState = "waiting"
	// StateMatched means the room holds exactly two participants.
	StateMatched RoomState = "matched"
	// StateClosed means the room is empty, absent or corrupt.
	StateClosed RoomState = "closed"
)

// Participant is a user's snapshot inside one room. Profile edits after the
// snapshot was taken do not change a room in progress.
type Participant struct {
	ID       int64  `json:"id"`
	Nickname string `json:"nickname"`
	Gender   string `json:"gender"`
	Age      int    `json:"age"`

	// Критерії пошуку, зафіксовані на момент входу в кімнату.
	FindGender string `json:"find_gender"`
	AgeFrom    int    `json:"age_from"`
	AgeTo      int    `json:"age_to"`

	// Token is the credential minted for this participant for this room.
	// It is never exposed to the other participant.
	Token string `json:"token"`
}

// Room represents a 1-on-1 pairing unit between two anonymous users.
// It is the only record the matching engine mutates in the shared store.
type Room struct {
	// RoomKey is the unique store key; it doubles as the pub/sub channel name.
	RoomKey string `json:"room_key"`
	// Participants holds 0..2 snapshots. More than 2 is an invariant
	// violation and is reported as a closed room.
	Participants []Participant `json:"participants"`
	// CreatedAt is set once at creation.
	CreatedAt time.Time `json:"created_at"`
	// Version is the fencing token for optimistic concurrency: every
	// conditional write checks it against the value read at scan time.
	Version int64 `json:"version"`
}

// State повертає стан життєвого циклу кімнати за кількістю учасників.
func (r *Room) State() RoomState {
	switch len(r.Participants) {
	case 1:
		return StateWaiting
	case 2:
		return StateMatched
	default:
		return StateClosed
	}
}

// HasParticipant перевіряє, чи вже є користувач у кімнаті.
func (r *Room) HasParticipant(userID int64) bool {
	for _, p := range r.Participants {
		if p.ID == userID {
			return true
		}
	}
	return false
}

// PartnerOf повертає учасника, який не є даним користувачем, або nil.
func (r *Room) PartnerOf(userID int64) *Participant {
	for i := range r.Participants {
		if r.Participants[i].ID != userID {
			return &r.Participants[i]
		}
	}
	return nil
}

package comments

import "time"

// Comment is one immutable entry of a ticket's append-only log.
// The log is keyed by ticket id and outlives the ticket itself: deleting a
// ticket does not cascade here.
type Comment struct {
	ID        string    `json:"id"`
	Author    string    `json:"author"`
	Text      string    `json:"text"`
	CreatedAt time.Time `json:"created_at"`
}

package contact

import "time"

const (
	EventCreated = "contact.created"
	EventUpdated = "contact.updated"
	EventDeleted = "contact.deleted"
)

// Event is published on the change feed after a mutation commits.
// Contact is nil for deletions.
type Event struct {
	Type      string    `json:"type"`
	ContactID uint      `json:"contact_id"`
	Contact   *Contact  `json:"contact,omitempty"`
	At        time.Time `json:"at"`
}

func NewEvent(eventType string, c *Contact, at time.Time) Event {
	ev := Event{Type: eventType, At: at.UTC()}
	if c != nil {
		ev.ContactID = c.ID
		if eventType != EventDeleted {
			snapshot := *c
			ev.Contact = &snapshot
		}
	}
	return ev
}

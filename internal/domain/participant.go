package domain

// Participant is an invited guest on an event's list. Participants carry a
// name only; the invitation exporter derives a personalized visit URL from
// it.
// swagger:model Participant
type Participant struct {
	ID      int64  `json:"id"`
	EventID string `json:"event_id"`
	Name    string `json:"name"`
}

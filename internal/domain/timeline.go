package domain

// TimelineItem is one entry of an event's schedule, e.g. "19:00 Dinner".
// swagger:model TimelineItem
type TimelineItem struct {
	ID          int64  `json:"id"`
	EventID     string `json:"event_id"`
	Time        string `json:"time"`
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
	Order       int    `json:"order"`
}

package domain

// Speaker is a person presenting at an event.
// swagger:model Speaker
type Speaker struct {
	ID       int64  `json:"id"`
	EventID  string `json:"event_id"`
	Name     string `json:"name"`
	Role     string `json:"role,omitempty"`
	Bio      string `json:"bio,omitempty"`
	ImageURL string `json:"image_url,omitempty"`
}

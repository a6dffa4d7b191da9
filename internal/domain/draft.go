package domain

import (
	"encoding/json"
	"strconv"
	"strings"

	"github.com/google/uuid"
)

// LooseInt decodes from a JSON number or a numeric string. Anything that
// does not coerce to an integer becomes zero instead of failing the decode.
type LooseInt int

// UnmarshalJSON implements json.Unmarshaler. It never returns an error.
func (n *LooseInt) UnmarshalJSON(b []byte) error {
	s := strings.TrimSpace(string(b))
	s = strings.Trim(s, `"`)
	if s == "" || s == "null" {
		*n = 0
		return nil
	}
	if i, err := strconv.Atoi(s); err == nil {
		*n = LooseInt(i)
		return nil
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		*n = LooseInt(int(f))
		return nil
	}
	*n = 0
	return nil
}

// LooseFloat decodes from a JSON number or a numeric string. Anything that
// does not coerce stays unset instead of failing the decode, so a stray
// character in one coordinate field never blocks the whole submission.
type LooseFloat struct {
	Value float64
	Valid bool
}

// UnmarshalJSON implements json.Unmarshaler. It never returns an error.
func (f *LooseFloat) UnmarshalJSON(b []byte) error {
	s := strings.TrimSpace(string(b))
	s = strings.Trim(s, `"`)
	if s == "" || s == "null" {
		*f = LooseFloat{}
		return nil
	}
	if v, err := strconv.ParseFloat(s, 64); err == nil {
		*f = LooseFloat{Value: v, Valid: true}
		return nil
	}
	*f = LooseFloat{}
	return nil
}

// Ptr returns the coerced value, or nil when nothing coerced.
func (f LooseFloat) Ptr() *float64 {
	if !f.Valid {
		return nil
	}
	v := f.Value
	return &v
}

// SectionDraft is the not-yet-persisted form of a menu section. TempID is a
// client-assigned key that is only meaningful within a single submission;
// after persistence the store-assigned id supersedes it.
type SectionDraft struct {
	TempID   string   `json:"temp_id"`
	Title    string   `json:"title"`
	ImageURL string   `json:"image_url,omitempty"`
	Order    LooseInt `json:"order"`
}

// ItemDraft is the not-yet-persisted form of a menu item. SectionRef is
// empty for an ungrouped item or equal to some section's TempID.
type ItemDraft struct {
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
	ImageURL    string `json:"image_url,omitempty"`
	SectionRef  string `json:"section_ref,omitempty"`
}

// SpeakerDraft is the not-yet-persisted form of a speaker.
type SpeakerDraft struct {
	Name     string `json:"name"`
	Role     string `json:"role,omitempty"`
	Bio      string `json:"bio,omitempty"`
	ImageURL string `json:"image_url,omitempty"`
}

// TimelineDraft is the not-yet-persisted form of a timeline entry.
type TimelineDraft struct {
	Time        string   `json:"time"`
	Title       string   `json:"title"`
	Description string   `json:"description,omitempty"`
	Order       LooseInt `json:"order"`
}

// ParticipantDraft is the not-yet-persisted form of an invited participant.
type ParticipantDraft struct {
	Name string `json:"name"`
}

// EventDraft is the editable, denormalized representation of an event's
// nested collections before submission. All operations are value-semantic:
// each returns a new snapshot and leaves the receiver untouched, so the
// serialized form always reflects the latest state deterministically.
type EventDraft struct {
	Sections     []SectionDraft     `json:"sections"`
	Items        []ItemDraft        `json:"items"`
	Speakers     []SpeakerDraft     `json:"speakers"`
	Timeline     []TimelineDraft    `json:"timeline"`
	Participants []ParticipantDraft `json:"participants"`
}

// NewTempID returns a fresh section temp id. Uniqueness within one draft is
// all that matters; the id is never used as a storage key.
func NewTempID() string {
	return "tmp-" + uuid.NewString()
}

func (d EventDraft) clone() EventDraft {
	out := EventDraft{
		Sections:     make([]SectionDraft, len(d.Sections)),
		Items:        make([]ItemDraft, len(d.Items)),
		Speakers:     make([]SpeakerDraft, len(d.Speakers)),
		Timeline:     make([]TimelineDraft, len(d.Timeline)),
		Participants: make([]ParticipantDraft, len(d.Participants)),
	}
	copy(out.Sections, d.Sections)
	copy(out.Items, d.Items)
	copy(out.Speakers, d.Speakers)
	copy(out.Timeline, d.Timeline)
	copy(out.Participants, d.Participants)
	return out
}

// AddSection appends a section with a fresh temp id and returns the new
// snapshot along with the assigned temp id.
func (d EventDraft) AddSection(title, imageURL string, order int) (EventDraft, string) {
	out := d.clone()
	tempID := NewTempID()
	out.Sections = append(out.Sections, SectionDraft{
		TempID:   tempID,
		Title:    title,
		ImageURL: imageURL,
		Order:    LooseInt(order),
	})
	return out, tempID
}

// RemoveSection removes the section at index i. Items referencing the
// removed section's temp id are orphaned (their ref is cleared), never
// deleted. Out-of-range indexes return the draft unchanged.
func (d EventDraft) RemoveSection(i int) EventDraft {
	if i < 0 || i >= len(d.Sections) {
		return d
	}
	out := d.clone()
	removed := out.Sections[i].TempID
	out.Sections = append(out.Sections[:i], out.Sections[i+1:]...)
	for j := range out.Items {
		if out.Items[j].SectionRef == removed {
			out.Items[j].SectionRef = ""
		}
	}
	return out
}

// UpdateSection replaces the section at index i, preserving its temp id.
func (d EventDraft) UpdateSection(i int, section SectionDraft) EventDraft {
	if i < 0 || i >= len(d.Sections) {
		return d
	}
	out := d.clone()
	section.TempID = out.Sections[i].TempID
	out.Sections[i] = section
	return out
}

// AddItem appends a menu item. sectionRef may be empty for an ungrouped item.
func (d EventDraft) AddItem(item ItemDraft) EventDraft {
	out := d.clone()
	out.Items = append(out.Items, item)
	return out
}

// RemoveItem removes the item at index i.
func (d EventDraft) RemoveItem(i int) EventDraft {
	if i < 0 || i >= len(d.Items) {
		return d
	}
	out := d.clone()
	out.Items = append(out.Items[:i], out.Items[i+1:]...)
	return out
}

// UpdateItem replaces the item at index i.
func (d EventDraft) UpdateItem(i int, item ItemDraft) EventDraft {
	if i < 0 || i >= len(d.Items) {
		return d
	}
	out := d.clone()
	out.Items[i] = item
	return out
}

// SectionTempIDs returns the set of temp ids present among the draft's
// sections. An item ref outside this set will be persisted with a null
// section.
func (d EventDraft) SectionTempIDs() map[string]struct{} {
	set := make(map[string]struct{}, len(d.Sections))
	for _, s := range d.Sections {
		if s.TempID != "" {
			set[s.TempID] = struct{}{}
		}
	}
	return set
}

// DanglingItemRefs returns the refs of items whose SectionRef does not match
// any submitted section's temp id. These will be orphaned on persistence.
func (d EventDraft) DanglingItemRefs() []string {
	known := d.SectionTempIDs()
	var out []string
	for _, it := range d.Items {
		if it.SectionRef == "" {
			continue
		}
		if _, ok := known[it.SectionRef]; !ok {
			out = append(out, it.SectionRef)
		}
	}
	return out
}

// Encode returns the canonical serialized form of the draft.
func (d EventDraft) Encode() ([]byte, error) {
	return json.Marshal(d)
}

// DecodeSectionDrafts parses a serialized section collection. Malformed
// input degrades to an empty collection rather than failing the request.
func DecodeSectionDrafts(raw []byte) []SectionDraft {
	var out []SectionDraft
	if len(raw) == 0 || json.Unmarshal(raw, &out) != nil {
		return []SectionDraft{}
	}
	if out == nil {
		return []SectionDraft{}
	}
	return out
}

// DecodeItemDrafts parses a serialized item collection, empty on malformed
// input.
func DecodeItemDrafts(raw []byte) []ItemDraft {
	var out []ItemDraft
	if len(raw) == 0 || json.Unmarshal(raw, &out) != nil {
		return []ItemDraft{}
	}
	if out == nil {
		return []ItemDraft{}
	}
	return out
}

// DecodeSpeakerDrafts parses a serialized speaker collection, empty on
// malformed input.
func DecodeSpeakerDrafts(raw []byte) []SpeakerDraft {
	var out []SpeakerDraft
	if len(raw) == 0 || json.Unmarshal(raw, &out) != nil {
		return []SpeakerDraft{}
	}
	if out == nil {
		return []SpeakerDraft{}
	}
	return out
}

// DecodeTimelineDrafts parses a serialized timeline collection, empty on
// malformed input.
func DecodeTimelineDrafts(raw []byte) []TimelineDraft {
	var out []TimelineDraft
	if len(raw) == 0 || json.Unmarshal(raw, &out) != nil {
		return []TimelineDraft{}
	}
	if out == nil {
		return []TimelineDraft{}
	}
	return out
}

// DecodeParticipantDrafts parses a serialized participant collection, empty
// on malformed input.
func DecodeParticipantDrafts(raw []byte) []ParticipantDraft {
	var out []ParticipantDraft
	if len(raw) == 0 || json.Unmarshal(raw, &out) != nil {
		return []ParticipantDraft{}
	}
	if out == nil {
		return []ParticipantDraft{}
	}
	return out
}

// DecodeStringList parses a serialized list of strings, empty on malformed
// input.
func DecodeStringList(raw []byte) []string {
	var out []string
	if len(raw) == 0 || json.Unmarshal(raw, &out) != nil {
		return []string{}
	}
	if out == nil {
		return []string{}
	}
	return out
}

// DecodeDateList parses a serialized list of YYYY-MM-DD date strings, empty
// on malformed input.
func DecodeDateList(raw []byte) []string {
	return DecodeStringList(raw)
}

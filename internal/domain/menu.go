package domain

import "sort"

// MenuSection is a named grouping of menu items within one event.
// swagger:model MenuSection
type MenuSection struct {
	ID       int64  `json:"id"`
	EventID  string `json:"event_id"`
	Title    string `json:"title"`
	ImageURL string `json:"image_url,omitempty"`
	Order    int    `json:"order"`
}

// MenuItem belongs to one event and optionally to one of its sections.
// A nil SectionID is a meaningful state: the item is ungrouped. The recipe
// fields are edited in place through the plates manager, not through event
// submission.
// swagger:model MenuItem
type MenuItem struct {
	ID          int64    `json:"id"`
	EventID     string   `json:"event_id"`
	SectionID   *int64   `json:"section_id,omitempty"`
	Title       string   `json:"title"`
	Description string   `json:"description,omitempty"`
	ImageURL    string   `json:"image_url,omitempty"`
	Ingredients string   `json:"ingredients,omitempty"`
	Preparation string   `json:"preparation,omitempty"`
	DietaryTags []string `json:"dietary_tags"`
}

// MenuItemUpdate carries the in-place editable fields of one persisted menu
// item. Unlike event submission, this never touches the item's identity or
// its section.
type MenuItemUpdate struct {
	Title       string
	Description string
	ImageURL    string
	Ingredients string
	Preparation string
	DietaryTags []string
}

// MenuItemWithEvent pairs an item with its parent event's name for the
// cross-event plates view.
type MenuItemWithEvent struct {
	Item      *MenuItem `json:"item"`
	EventName string    `json:"event_name"`
}

// GeneralGroupTitle is the heading of the synthetic group that collects
// items with no section.
const GeneralGroupTitle = "Menu"

// MenuGroup is a displayable section with its items. A zero SectionID with
// Synthetic true marks the ungrouped group.
type MenuGroup struct {
	SectionID int64       `json:"section_id,omitempty"`
	Synthetic bool        `json:"synthetic,omitempty"`
	Title     string      `json:"title"`
	ImageURL  string      `json:"image_url,omitempty"`
	Items     []*MenuItem `json:"items"`
}

// GroupMenu reconstructs the section -> items tree from flat rows. Sections
// come back in ascending order of their Order attribute with ties keeping
// submission order; items keep storage order. Items whose section id does
// not resolve are treated as orphans. If any orphans exist, a synthetic
// group holding them is prepended before all real sections. Groups with
// zero items are kept; consumers may filter them.
func GroupMenu(sections []*MenuSection, items []*MenuItem) []*MenuGroup {
	ordered := make([]*MenuSection, len(sections))
	copy(ordered, sections)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].Order < ordered[j].Order
	})

	byID := make(map[int64]*MenuGroup, len(ordered))
	groups := make([]*MenuGroup, 0, len(ordered)+1)
	for _, s := range ordered {
		g := &MenuGroup{
			SectionID: s.ID,
			Title:     s.Title,
			ImageURL:  s.ImageURL,
			Items:     []*MenuItem{},
		}
		byID[s.ID] = g
		groups = append(groups, g)
	}

	var orphans []*MenuItem
	for _, it := range items {
		if it.SectionID != nil {
			if g, ok := byID[*it.SectionID]; ok {
				g.Items = append(g.Items, it)
				continue
			}
		}
		orphans = append(orphans, it)
	}

	if len(orphans) > 0 {
		general := &MenuGroup{
			Synthetic: true,
			Title:     GeneralGroupTitle,
			Items:     orphans,
		}
		groups = append([]*MenuGroup{general}, groups...)
	}
	return groups
}

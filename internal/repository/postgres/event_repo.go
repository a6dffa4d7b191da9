package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/lib/pq"

	"guestlist/internal/domain"
)

type eventRepository struct {
	DB *sql.DB
}

func NewEventRepository(db *sql.DB) domain.EventRepository {
	return &eventRepository{
		DB: db,
	}
}

func (r *eventRepository) CreateEvent(ctx context.Context, e *domain.Event, draft domain.EventDraft) error {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	query := `
		INSERT INTO events (owner_id, name, description, dress_code, location_address, location_lat, location_lng, image_url, has_plus_one, available_dates, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		RETURNING id
	`
	err = tx.QueryRowContext(ctx, query,
		e.OwnerID, e.Name, e.Description, e.DressCode, e.LocationAddress,
		e.LocationLat, e.LocationLng, e.ImageURL, e.HasPlusOne,
		pq.Array(e.AvailableDates), e.CreatedAt, e.UpdatedAt,
	).Scan(&e.ID)
	if err != nil {
		return err
	}

	if err := r.insertNested(ctx, tx, e.ID, draft); err != nil {
		return err
	}
	return tx.Commit()
}

func (r *eventRepository) ReplaceEvent(ctx context.Context, e *domain.Event, draft domain.EventDraft) error {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	query := `
		UPDATE events
		SET name = $1, description = $2, dress_code = $3, location_address = $4,
		    location_lat = $5, location_lng = $6, image_url = $7, has_plus_one = $8,
		    available_dates = $9, updated_at = NOW()
		WHERE id = $10
	`
	result, err := tx.ExecContext(ctx, query,
		e.Name, e.Description, e.DressCode, e.LocationAddress,
		e.LocationLat, e.LocationLng, e.ImageURL, e.HasPlusOne,
		pq.Array(e.AvailableDates), e.ID,
	)
	if err != nil {
		return err
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return domain.ErrNotFound
	}

	// Items reference sections, so they go first.
	if err := r.deleteNested(ctx, tx, e.ID); err != nil {
		return err
	}
	if err := r.insertNested(ctx, tx, e.ID, draft); err != nil {
		return err
	}
	return tx.Commit()
}

func (r *eventRepository) deleteNested(ctx context.Context, tx *sql.Tx, eventID string) error {
	for _, table := range []string{"menu_items", "menu_sections", "speakers", "timeline_items", "participants"} {
		query := fmt.Sprintf(`DELETE FROM %s WHERE event_id = $1`, table)
		if _, err := tx.ExecContext(ctx, query, eventID); err != nil {
			return fmt.Errorf("delete %s: %w", table, err)
		}
	}
	return nil
}

// insertNested recreates the nested collections from the draft. Sections go
// in one at a time because each item insert depends on the full temp-id to
// real-id mapping; everything else is a flat batch.
func (r *eventRepository) insertNested(ctx context.Context, tx *sql.Tx, eventID string, draft domain.EventDraft) error {
	idMap := make(map[string]int64, len(draft.Sections))
	sectionQuery := `
		INSERT INTO menu_sections (event_id, title, image_url, sort_order)
		VALUES ($1, $2, $3, $4)
		RETURNING id
	`
	for _, s := range draft.Sections {
		var id int64
		if err := tx.QueryRowContext(ctx, sectionQuery, eventID, s.Title, s.ImageURL, int(s.Order)).Scan(&id); err != nil {
			return fmt.Errorf("insert section %q: %w", s.Title, err)
		}
		if s.TempID != "" {
			idMap[s.TempID] = id
		}
	}

	if len(draft.Items) > 0 {
		values := make([]string, 0, len(draft.Items))
		args := make([]interface{}, 0, len(draft.Items)*5)
		n := 1
		for _, it := range draft.Items {
			// Unresolvable refs (empty, stale, or malformed temp ids) persist
			// as NULL rather than failing the submission.
			var sectionID sql.NullInt64
			if it.SectionRef != "" {
				if real, ok := idMap[it.SectionRef]; ok {
					sectionID = sql.NullInt64{Int64: real, Valid: true}
				}
			}
			values = append(values, fmt.Sprintf("($%d, $%d, $%d, $%d, $%d)", n, n+1, n+2, n+3, n+4))
			args = append(args, eventID, sectionID, it.Title, it.Description, it.ImageURL)
			n += 5
		}
		query := fmt.Sprintf(`
			INSERT INTO menu_items (event_id, section_id, title, description, image_url)
			VALUES %s
		`, strings.Join(values, ", "))
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return fmt.Errorf("insert items: %w", err)
		}
	}

	speakerQuery := `
		INSERT INTO speakers (event_id, name, role, bio, image_url)
		VALUES ($1, $2, $3, $4, $5)
	`
	for _, sp := range draft.Speakers {
		if _, err := tx.ExecContext(ctx, speakerQuery, eventID, sp.Name, sp.Role, sp.Bio, sp.ImageURL); err != nil {
			return fmt.Errorf("insert speaker %q: %w", sp.Name, err)
		}
	}

	timelineQuery := `
		INSERT INTO timeline_items (event_id, time, title, description, sort_order)
		VALUES ($1, $2, $3, $4, $5)
	`
	for _, t := range draft.Timeline {
		if _, err := tx.ExecContext(ctx, timelineQuery, eventID, t.Time, t.Title, t.Description, int(t.Order)); err != nil {
			return fmt.Errorf("insert timeline entry %q: %w", t.Title, err)
		}
	}

	participantQuery := `
		INSERT INTO participants (event_id, name)
		VALUES ($1, $2)
	`
	for _, p := range draft.Participants {
		if _, err := tx.ExecContext(ctx, participantQuery, eventID, p.Name); err != nil {
			return fmt.Errorf("insert participant %q: %w", p.Name, err)
		}
	}
	return nil
}

func scanEvent(row interface {
	Scan(dest ...interface{}) error
}) (*domain.Event, error) {
	e := &domain.Event{}
	var descNull, dressNull, imageNull sql.NullString
	var latNull, lngNull sql.NullFloat64
	err := row.Scan(
		&e.ID, &e.OwnerID, &e.Name, &descNull, &dressNull, &e.LocationAddress,
		&latNull, &lngNull, &imageNull, &e.HasPlusOne,
		pq.Array(&e.AvailableDates), &e.CreatedAt, &e.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if descNull.Valid {
		e.Description = descNull.String
	}
	if dressNull.Valid {
		e.DressCode = dressNull.String
	}
	if imageNull.Valid {
		e.ImageURL = imageNull.String
	}
	if latNull.Valid {
		e.LocationLat = &latNull.Float64
	}
	if lngNull.Valid {
		e.LocationLng = &lngNull.Float64
	}
	if e.AvailableDates == nil {
		e.AvailableDates = []string{}
	}
	return e, nil
}

const eventColumns = `id, owner_id, name, description, dress_code, location_address, location_lat, location_lng, image_url, has_plus_one, available_dates, created_at, updated_at`

func (r *eventRepository) GetByID(ctx context.Context, id string) (*domain.Event, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM events
		WHERE id = $1
	`, eventColumns)
	e, err := scanEvent(r.DB.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return e, nil
}

func (r *eventRepository) ListByOwnerID(ctx context.Context, ownerID string) ([]*domain.Event, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM events
		WHERE owner_id = $1
		ORDER BY created_at DESC
	`, eventColumns)
	rows, err := r.DB.QueryContext(ctx, query, ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	events := make([]*domain.Event, 0)
	for rows.Next() {
		e, err := scanEvent(rows)
		if err != nil {
			return nil, err
		}
		events = append(events, e)
	}
	return events, rows.Err()
}

func (r *eventRepository) DeleteEvent(ctx context.Context, id string) error {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	// Referential constraints require nested rows to go first, and RSVPs
	// reference the event as well.
	if err := r.deleteNested(ctx, tx, id); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM rsvps WHERE event_id = $1`, id); err != nil {
		return err
	}
	result, err := tx.ExecContext(ctx, `DELETE FROM events WHERE id = $1`, id)
	if err != nil {
		return err
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return domain.ErrNotFound
	}
	return tx.Commit()
}

func (r *eventRepository) ListSectionsByEventID(ctx context.Context, eventID string) ([]*domain.MenuSection, error) {
	query := `
		SELECT id, event_id, title, image_url, sort_order
		FROM menu_sections
		WHERE event_id = $1
		ORDER BY sort_order ASC, id ASC
	`
	rows, err := r.DB.QueryContext(ctx, query, eventID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	sections := make([]*domain.MenuSection, 0)
	for rows.Next() {
		s := &domain.MenuSection{}
		var imageNull sql.NullString
		if err := rows.Scan(&s.ID, &s.EventID, &s.Title, &imageNull, &s.Order); err != nil {
			return nil, err
		}
		if imageNull.Valid {
			s.ImageURL = imageNull.String
		}
		sections = append(sections, s)
	}
	return sections, rows.Err()
}

const menuItemColumns = `id, event_id, section_id, title, description, image_url, ingredients, preparation, dietary_tags`

func scanMenuItem(row interface {
	Scan(dest ...interface{}) error
}) (*domain.MenuItem, error) {
	it := &domain.MenuItem{}
	var sectionNull sql.NullInt64
	var descNull, imageNull, ingredientsNull, preparationNull sql.NullString
	err := row.Scan(
		&it.ID, &it.EventID, &sectionNull, &it.Title, &descNull, &imageNull,
		&ingredientsNull, &preparationNull, pq.Array(&it.DietaryTags),
	)
	if err != nil {
		return nil, err
	}
	if sectionNull.Valid {
		it.SectionID = &sectionNull.Int64
	}
	if descNull.Valid {
		it.Description = descNull.String
	}
	if imageNull.Valid {
		it.ImageURL = imageNull.String
	}
	if ingredientsNull.Valid {
		it.Ingredients = ingredientsNull.String
	}
	if preparationNull.Valid {
		it.Preparation = preparationNull.String
	}
	if it.DietaryTags == nil {
		it.DietaryTags = []string{}
	}
	return it, nil
}

func (r *eventRepository) ListItemsByEventID(ctx context.Context, eventID string) ([]*domain.MenuItem, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM menu_items
		WHERE event_id = $1
		ORDER BY id ASC
	`, menuItemColumns)
	rows, err := r.DB.QueryContext(ctx, query, eventID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	items := make([]*domain.MenuItem, 0)
	for rows.Next() {
		it, err := scanMenuItem(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, it)
	}
	return items, rows.Err()
}

func (r *eventRepository) UpdateMenuItem(ctx context.Context, itemID int64, ownerID string, upd domain.MenuItemUpdate) (*domain.MenuItem, error) {
	// Ownership rides the same statement: the update only matches when the
	// item's parent event belongs to the caller, so a foreign item is
	// indistinguishable from a missing one.
	query := `
		UPDATE menu_items
		SET title = $1, description = $2, image_url = $3,
		    ingredients = $4, preparation = $5, dietary_tags = $6
		FROM events
		WHERE menu_items.id = $7
		  AND menu_items.event_id = events.id
		  AND events.owner_id = $8
		RETURNING menu_items.id, menu_items.event_id, menu_items.section_id,
		          menu_items.title, menu_items.description, menu_items.image_url,
		          menu_items.ingredients, menu_items.preparation, menu_items.dietary_tags
	`
	it, err := scanMenuItem(r.DB.QueryRowContext(ctx, query,
		upd.Title, upd.Description, upd.ImageURL,
		upd.Ingredients, upd.Preparation, pq.Array(upd.DietaryTags),
		itemID, ownerID,
	))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return it, nil
}

func (r *eventRepository) ListItemsByOwnerID(ctx context.Context, ownerID string) ([]*domain.MenuItemWithEvent, error) {
	query := `
		SELECT m.id, m.event_id, m.section_id, m.title, m.description, m.image_url,
		       m.ingredients, m.preparation, m.dietary_tags, e.name
		FROM menu_items m
		JOIN events e ON e.id = m.event_id
		WHERE e.owner_id = $1
		ORDER BY m.title ASC, m.id ASC
	`
	rows, err := r.DB.QueryContext(ctx, query, ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	items := make([]*domain.MenuItemWithEvent, 0)
	for rows.Next() {
		it := &domain.MenuItem{}
		var sectionNull sql.NullInt64
		var descNull, imageNull, ingredientsNull, preparationNull sql.NullString
		var eventName string
		err := rows.Scan(
			&it.ID, &it.EventID, &sectionNull, &it.Title, &descNull, &imageNull,
			&ingredientsNull, &preparationNull, pq.Array(&it.DietaryTags), &eventName,
		)
		if err != nil {
			return nil, err
		}
		if sectionNull.Valid {
			it.SectionID = &sectionNull.Int64
		}
		if descNull.Valid {
			it.Description = descNull.String
		}
		if imageNull.Valid {
			it.ImageURL = imageNull.String
		}
		if ingredientsNull.Valid {
			it.Ingredients = ingredientsNull.String
		}
		if preparationNull.Valid {
			it.Preparation = preparationNull.String
		}
		if it.DietaryTags == nil {
			it.DietaryTags = []string{}
		}
		items = append(items, &domain.MenuItemWithEvent{Item: it, EventName: eventName})
	}
	return items, rows.Err()
}

func (r *eventRepository) ListSpeakersByEventID(ctx context.Context, eventID string) ([]*domain.Speaker, error) {
	query := `
		SELECT id, event_id, name, role, bio, image_url
		FROM speakers
		WHERE event_id = $1
		ORDER BY id ASC
	`
	rows, err := r.DB.QueryContext(ctx, query, eventID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	speakers := make([]*domain.Speaker, 0)
	for rows.Next() {
		sp := &domain.Speaker{}
		var roleNull, bioNull, imageNull sql.NullString
		if err := rows.Scan(&sp.ID, &sp.EventID, &sp.Name, &roleNull, &bioNull, &imageNull); err != nil {
			return nil, err
		}
		if roleNull.Valid {
			sp.Role = roleNull.String
		}
		if bioNull.Valid {
			sp.Bio = bioNull.String
		}
		if imageNull.Valid {
			sp.ImageURL = imageNull.String
		}
		speakers = append(speakers, sp)
	}
	return speakers, rows.Err()
}

func (r *eventRepository) ListTimelineByEventID(ctx context.Context, eventID string) ([]*domain.TimelineItem, error) {
	query := `
		SELECT id, event_id, time, title, description, sort_order
		FROM timeline_items
		WHERE event_id = $1
		ORDER BY sort_order ASC, id ASC
	`
	rows, err := r.DB.QueryContext(ctx, query, eventID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	entries := make([]*domain.TimelineItem, 0)
	for rows.Next() {
		t := &domain.TimelineItem{}
		var descNull sql.NullString
		if err := rows.Scan(&t.ID, &t.EventID, &t.Time, &t.Title, &descNull, &t.Order); err != nil {
			return nil, err
		}
		if descNull.Valid {
			t.Description = descNull.String
		}
		entries = append(entries, t)
	}
	return entries, rows.Err()
}

func (r *eventRepository) ListParticipantsByEventID(ctx context.Context, eventID string) ([]*domain.Participant, error) {
	query := `
		SELECT id, event_id, name
		FROM participants
		WHERE event_id = $1
		ORDER BY id ASC
	`
	rows, err := r.DB.QueryContext(ctx, query, eventID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	participants := make([]*domain.Participant, 0)
	for rows.Next() {
		p := &domain.Participant{}
		if err := rows.Scan(&p.ID, &p.EventID, &p.Name); err != nil {
			return nil, err
		}
		participants = append(participants, p)
	}
	return participants, rows.Err()
}

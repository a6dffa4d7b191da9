package postgres

import (
	"context"
	"database/sql"

	"guestlist/internal/domain"
)

type rsvpRepository struct {
	DB *sql.DB
}

func NewRSVPRepository(db *sql.DB) domain.RSVPRepository {
	return &rsvpRepository{DB: db}
}

func (r *rsvpRepository) Create(ctx context.Context, rsvp *domain.RSVP) error {
	query := `
		INSERT INTO rsvps (event_id, participant_name, has_plus_one, plus_one_name, selected_dates, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id
	`
	var plusOneName sql.NullString
	if rsvp.PlusOneName != "" {
		plusOneName = sql.NullString{String: rsvp.PlusOneName, Valid: true}
	}
	return r.DB.QueryRowContext(ctx, query,
		rsvp.EventID, rsvp.ParticipantName, rsvp.HasPlusOne, plusOneName,
		rsvp.SelectedDates, rsvp.CreatedAt,
	).Scan(&rsvp.ID)
}

func (r *rsvpRepository) ListByEventID(ctx context.Context, eventID, search string, params domain.PaginationParams) ([]*domain.RSVP, int, error) {
	countQuery := `
		SELECT COUNT(*)
		FROM rsvps
		WHERE event_id = $1 AND ($2 = '' OR participant_name ILIKE '%' || $2 || '%')
	`
	var total int
	if err := r.DB.QueryRowContext(ctx, countQuery, eventID, search).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := `
		SELECT id, event_id, participant_name, has_plus_one, plus_one_name, selected_dates, created_at
		FROM rsvps
		WHERE event_id = $1 AND ($2 = '' OR participant_name ILIKE '%' || $2 || '%')
		ORDER BY created_at DESC, id DESC
		LIMIT $3 OFFSET $4
	`
	rows, err := r.DB.QueryContext(ctx, query, eventID, search, params.PageSize, params.Offset())
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	rsvps := make([]*domain.RSVP, 0)
	for rows.Next() {
		rv := &domain.RSVP{}
		var plusOneNull sql.NullString
		if err := rows.Scan(&rv.ID, &rv.EventID, &rv.ParticipantName, &rv.HasPlusOne, &plusOneNull, &rv.SelectedDates, &rv.CreatedAt); err != nil {
			return nil, 0, err
		}
		if plusOneNull.Valid {
			rv.PlusOneName = plusOneNull.String
		}
		rsvps = append(rsvps, rv)
	}
	return rsvps, total, rows.Err()
}

func (r *rsvpRepository) CountByEventID(ctx context.Context, eventID string) (int, error) {
	query := `SELECT COUNT(*) FROM rsvps WHERE event_id = $1`
	var count int
	if err := r.DB.QueryRowContext(ctx, query, eventID).Scan(&count); err != nil {
		return 0, err
	}
	return count, nil
}

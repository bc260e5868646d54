package postgres

import (
	"context"
	"database/sql"
	"errors"
	"strconv"
	"strings"

	"conferencecentral/internal/domain"

	"github.com/lib/pq"
)

type sessionRepository struct {
	DB DBTX
}

func NewSessionRepository(db DBTX) domain.SessionRepository {
	return &sessionRepository{
		DB: db,
	}
}

const sessionSelect = `
	SELECT s.id, s.conference_id, c.organizer_user_id, s.name, s.highlights, s.speaker_display_name,
		s.duration, s.session_type, s.date, s.start_time
	FROM sessions s
	JOIN conferences c ON c.id = s.conference_id`

func scanSession(row interface{ Scan(...any) error }) (*domain.Session, error) {
	s := &domain.Session{}
	var sessionType string
	var date, start sql.NullTime
	err := row.Scan(
		&s.ID, &s.ConferenceID, &s.OrganizerUserID, &s.Name, pq.Array(&s.Highlights), &s.SpeakerDisplayName,
		&s.Duration, &sessionType, &date, &start,
	)
	if err != nil {
		return nil, err
	}
	s.Type = domain.SessionTypes.Parse(sessionType)
	s.Date = timePtr(date)
	s.StartTime = timePtr(start)
	s.Highlights = nonNil(s.Highlights)
	return s, nil
}

func (r *sessionRepository) list(ctx context.Context, query string, args ...any) ([]*domain.Session, error) {
	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	sessions := make([]*domain.Session, 0)
	for rows.Next() {
		s, err := scanSession(rows)
		if err != nil {
			return nil, err
		}
		sessions = append(sessions, s)
	}
	return sessions, rows.Err()
}

func (r *sessionRepository) Create(ctx context.Context, s *domain.Session) error {
	query := `
		INSERT INTO sessions (conference_id, name, highlights, speaker_display_name, duration, session_type, date, start_time)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id
	`
	return r.DB.QueryRowContext(ctx, query,
		s.ConferenceID, s.Name, pq.Array(nonNil(s.Highlights)), s.SpeakerDisplayName,
		s.Duration, string(s.Type), dateArg(s.Date), clockArg(s.StartTime),
	).Scan(&s.ID)
}

func (r *sessionRepository) Get(ctx context.Context, id int64) (*domain.Session, error) {
	s, err := scanSession(r.DB.QueryRowContext(ctx, sessionSelect+` WHERE s.id = $1`, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return s, nil
}

func (r *sessionRepository) GetMulti(ctx context.Context, ids []int64) ([]*domain.Session, error) {
	if len(ids) == 0 {
		return []*domain.Session{}, nil
	}
	return r.list(ctx, sessionSelect+` WHERE s.id = ANY($1) ORDER BY s.name, s.id`, pq.Array(ids))
}

func (r *sessionRepository) FindByName(ctx context.Context, name string) (*domain.Session, bool, error) {
	s, err := scanSession(r.DB.QueryRowContext(ctx, sessionSelect+` WHERE s.name = $1 ORDER BY s.id LIMIT 1`, name))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, false, nil
		}
		return nil, false, err
	}
	return s, true, nil
}

func (r *sessionRepository) ListByConference(ctx context.Context, conferenceID int64) ([]*domain.Session, error) {
	return r.list(ctx, sessionSelect+` WHERE s.conference_id = $1 ORDER BY s.name, s.id`, conferenceID)
}

func (r *sessionRepository) ListByType(ctx context.Context, conferenceID *int64, sessionType domain.SessionType) ([]*domain.Session, error) {
	if conferenceID == nil {
		return r.list(ctx, sessionSelect+` WHERE s.session_type = $1 ORDER BY s.name, s.id`, string(sessionType))
	}
	return r.list(ctx, sessionSelect+` WHERE s.conference_id = $1 AND s.session_type = $2 ORDER BY s.name, s.id`,
		*conferenceID, string(sessionType))
}

func (r *sessionRepository) ListBySpeaker(ctx context.Context, speaker string, conferenceID *int64) ([]*domain.Session, error) {
	if conferenceID == nil {
		return r.list(ctx, sessionSelect+` WHERE s.speaker_display_name = $1 ORDER BY s.name, s.id`, speaker)
	}
	return r.list(ctx, sessionSelect+` WHERE s.speaker_display_name = $1 AND s.conference_id = $2 ORDER BY s.name, s.id`,
		speaker, *conferenceID)
}

// QueryExcludingType returns sessions whose type differs from w.ExcludeType and whose start
// time lies in [w.NotBefore, w.NotAfter). Sessions without a start time only match when both
// bounds are open.
func (r *sessionRepository) QueryExcludingType(ctx context.Context, w domain.SessionWindow) ([]*domain.Session, error) {
	conds := []string{`s.session_type <> $1`}
	args := []any{string(w.ExcludeType)}
	add := func(cond string, arg any) {
		args = append(args, arg)
		conds = append(conds, strings.ReplaceAll(cond, "?", "$"+strconv.Itoa(len(args))))
	}
	if w.NotBefore != nil {
		add(`s.start_time >= ?`, clockArg(w.NotBefore))
	}
	if w.NotAfter != nil {
		add(`s.start_time < ?`, clockArg(w.NotAfter))
	}
	if w.ConferenceID != nil {
		add(`s.conference_id = ?`, *w.ConferenceID)
	}
	query := sessionSelect + ` WHERE ` + strings.Join(conds, ` AND `) + ` ORDER BY s.start_time NULLS LAST, s.name, s.id`
	return r.list(ctx, query, args...)
}

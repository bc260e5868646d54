package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"conferencecentral/internal/domain"

	"github.com/lib/pq"
)

type conferenceRepository struct {
	DB DBTX
}

func NewConferenceRepository(db DBTX) domain.ConferenceRepository {
	return &conferenceRepository{
		DB: db,
	}
}

const conferenceColumns = `id, organizer_user_id, name, description, topics, city, start_date, end_date, month, max_attendees, seats_available`

var conferenceFieldColumns = map[domain.ConferenceField]string{
	domain.FieldCity:         "city",
	domain.FieldTopics:       "topics",
	domain.FieldMonth:        "month",
	domain.FieldMaxAttendees: "max_attendees",
	domain.FieldName:         "name",
}

var sqlOperators = map[domain.Operator]string{
	domain.OpEQ:   "=",
	domain.OpGT:   ">",
	domain.OpGTEQ: ">=",
	domain.OpLT:   "<",
	domain.OpLTEQ: "<=",
	domain.OpNE:   "<>",
}

func scanConference(row interface{ Scan(...any) error }) (*domain.Conference, error) {
	c := &domain.Conference{}
	var start, end sql.NullTime
	err := row.Scan(
		&c.ID, &c.OrganizerUserID, &c.Name, &c.Description, pq.Array(&c.Topics), &c.City,
		&start, &end, &c.Month, &c.MaxAttendees, &c.SeatsAvailable,
	)
	if err != nil {
		return nil, err
	}
	c.StartDate = timePtr(start)
	c.EndDate = timePtr(end)
	c.Topics = nonNil(c.Topics)
	return c, nil
}

func (r *conferenceRepository) list(ctx context.Context, query string, args ...any) ([]*domain.Conference, error) {
	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	confs := make([]*domain.Conference, 0)
	for rows.Next() {
		c, err := scanConference(rows)
		if err != nil {
			return nil, err
		}
		confs = append(confs, c)
	}
	return confs, rows.Err()
}

func (r *conferenceRepository) Create(ctx context.Context, c *domain.Conference) error {
	query := `
		INSERT INTO conferences (organizer_user_id, name, description, topics, city, start_date, end_date, month, max_attendees, seats_available)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING id
	`
	return r.DB.QueryRowContext(ctx, query,
		c.OrganizerUserID, c.Name, c.Description, pq.Array(nonNil(c.Topics)), c.City,
		dateArg(c.StartDate), dateArg(c.EndDate), c.Month, c.MaxAttendees, c.SeatsAvailable,
	).Scan(&c.ID)
}

func (r *conferenceRepository) Get(ctx context.Context, id int64) (*domain.Conference, error) {
	return r.getOne(ctx, `SELECT `+conferenceColumns+` FROM conferences WHERE id = $1`, id)
}

func (r *conferenceRepository) GetForUpdate(ctx context.Context, id int64) (*domain.Conference, error) {
	return r.getOne(ctx, `SELECT `+conferenceColumns+` FROM conferences WHERE id = $1 FOR UPDATE`, id)
}

func (r *conferenceRepository) getOne(ctx context.Context, query string, id int64) (*domain.Conference, error) {
	c, err := scanConference(r.DB.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return c, nil
}

func (r *conferenceRepository) Update(ctx context.Context, c *domain.Conference) error {
	query := `
		UPDATE conferences
		SET name = $2, description = $3, topics = $4, city = $5, start_date = $6, end_date = $7,
			month = $8, max_attendees = $9, seats_available = $10
		WHERE id = $1
	`
	res, err := r.DB.ExecContext(ctx, query,
		c.ID, c.Name, c.Description, pq.Array(nonNil(c.Topics)), c.City,
		dateArg(c.StartDate), dateArg(c.EndDate), c.Month, c.MaxAttendees, c.SeatsAvailable,
	)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *conferenceRepository) GetMulti(ctx context.Context, ids []int64) ([]*domain.Conference, error) {
	if len(ids) == 0 {
		return []*domain.Conference{}, nil
	}
	query := `SELECT ` + conferenceColumns + ` FROM conferences WHERE id = ANY($1) ORDER BY name, id`
	return r.list(ctx, query, pq.Array(ids))
}

func (r *conferenceRepository) ListByOrganizer(ctx context.Context, organizerUserID string) ([]*domain.Conference, error) {
	query := `SELECT ` + conferenceColumns + ` FROM conferences WHERE organizer_user_id = $1 ORDER BY name, id`
	return r.list(ctx, query, organizerUserID)
}

func (r *conferenceRepository) FindByName(ctx context.Context, name string) (*domain.Conference, bool, error) {
	query := `SELECT ` + conferenceColumns + ` FROM conferences WHERE name = $1 ORDER BY id LIMIT 1`
	c, err := scanConference(r.DB.QueryRowContext(ctx, query, name))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, false, nil
		}
		return nil, false, err
	}
	return c, true, nil
}

func (r *conferenceRepository) Query(ctx context.Context, q domain.ConferenceQuery) ([]*domain.Conference, error) {
	query, args, err := buildConferenceQuery(q)
	if err != nil {
		return nil, err
	}
	return r.list(ctx, query, args...)
}

func (r *conferenceRepository) ListNearlySoldOut(ctx context.Context, maxSeats int) ([]*domain.Conference, error) {
	query := `
		SELECT ` + conferenceColumns + `
		FROM conferences
		WHERE seats_available > 0 AND seats_available <= $1
		ORDER BY name, id
	`
	return r.list(ctx, query, maxSeats)
}

// buildConferenceQuery renders a compiled query as SQL. Topic filters match when any
// element of the topics array satisfies the comparison.
func buildConferenceQuery(q domain.ConferenceQuery) (string, []any, error) {
	var sb strings.Builder
	sb.WriteString(`SELECT ` + conferenceColumns + ` FROM conferences`)
	args := make([]any, 0, len(q.Filters))
	for i, f := range q.Filters {
		col, ok := conferenceFieldColumns[f.Field]
		if !ok {
			return "", nil, fmt.Errorf("%w: unknown filter field %q", domain.ErrInvalidInput, f.Field)
		}
		op, ok := sqlOperators[f.Op]
		if !ok {
			return "", nil, fmt.Errorf("%w: unknown filter operator %q", domain.ErrInvalidInput, f.Op)
		}
		if i == 0 {
			sb.WriteString(` WHERE `)
		} else {
			sb.WriteString(` AND `)
		}
		args = append(args, f.Value)
		ph := "$" + strconv.Itoa(len(args))
		if f.Field == domain.FieldTopics {
			sb.WriteString(`EXISTS (SELECT 1 FROM unnest(topics) AS t(topic) WHERE t.topic ` + op + ` ` + ph + `)`)
			continue
		}
		sb.WriteString(col + ` ` + op + ` ` + ph)
	}
	order := make([]string, 0, len(q.Order)+1)
	for _, f := range q.Order {
		col, ok := conferenceFieldColumns[f]
		if !ok {
			return "", nil, fmt.Errorf("%w: unknown sort field %q", domain.ErrInvalidInput, f)
		}
		order = append(order, col)
	}
	order = append(order, "id")
	sb.WriteString(` ORDER BY ` + strings.Join(order, ", "))
	return sb.String(), args, nil
}

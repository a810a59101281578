package offeringrepo

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/kcesar/training-api/internal/domain"
	"github.com/kcesar/training-api/internal/ports/out/offeringrepo"
)

// Repo is a Postgres implementation of offeringrepo.Repository.
type Repo struct {
	pool *pgxpool.Pool
}

func NewRepo(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

func (r *Repo) Create(ctx context.Context, o offeringrepo.Offering) error {
	if r.pool == nil {
		return errors.New("nil postgres pool")
	}
	_, err := r.pool.Exec(ctx, `
		INSERT INTO course_offerings (id, course_name, starts_at, location, capacity, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`, string(o.ID), o.CourseName, o.When.UTC(), o.Location, o.Capacity, o.CreatedAt.UTC())
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return offeringrepo.ErrAlreadyExists
		}
		return err
	}
	return nil
}

func (r *Repo) GetByID(ctx context.Context, id domain.OfferingID) (offeringrepo.Offering, error) {
	if r.pool == nil {
		return offeringrepo.Offering{}, errors.New("nil postgres pool")
	}
	row := r.pool.QueryRow(ctx, `
		SELECT id, course_name, starts_at, location, capacity, created_at
		FROM course_offerings
		WHERE id = $1
	`, string(id))
	o, err := scanOffering(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return offeringrepo.Offering{}, offeringrepo.ErrNotFound
		}
		return offeringrepo.Offering{}, err
	}
	return o, nil
}

func (r *Repo) List(ctx context.Context) ([]offeringrepo.Offering, error) {
	if r.pool == nil {
		return nil, errors.New("nil postgres pool")
	}
	rows, err := r.pool.Query(ctx, `
		SELECT id, course_name, starts_at, location, capacity, created_at
		FROM course_offerings
		ORDER BY starts_at ASC, id ASC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]offeringrepo.Offering, 0)
	for rows.Next() {
		o, err := scanOffering(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, o)
	}
	return out, rows.Err()
}

func scanOffering(row pgx.Row) (offeringrepo.Offering, error) {
	var (
		id, courseName, location string
		startsAt, createdAt      time.Time
		capacity                 int
	)
	if err := row.Scan(&id, &courseName, &startsAt, &location, &capacity, &createdAt); err != nil {
		return offeringrepo.Offering{}, err
	}
	return offeringrepo.Offering{
		ID:         domain.OfferingID(id),
		CourseName: courseName,
		When:       startsAt.UTC(),
		Location:   location,
		Capacity:   capacity,
		CreatedAt:  createdAt.UTC(),
	}, nil
}

package signuprepo

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/kcesar/training-api/internal/domain"
	"github.com/kcesar/training-api/internal/ports/out/signuprepo"
)

// Repo is a Postgres implementation of signuprepo.Repository.
type Repo struct {
	pool *pgxpool.Pool
}

func NewRepo(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

// Create inserts the signup inside a transaction that locks the offering row
// and recomputes the waitlist decision. Two concurrent registrations for the
// last open seat therefore serialize: the second one lands on the waitlist
// even if both services computed "confirmed" from stale counts.
func (r *Repo) Create(ctx context.Context, s signuprepo.Signup) error {
	if r.pool == nil {
		return errors.New("nil postgres pool")
	}
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	var capacity int
	if err := tx.QueryRow(ctx, `
		SELECT capacity FROM course_offerings WHERE id = $1 FOR UPDATE
	`, string(s.OfferingID)).Scan(&capacity); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return signuprepo.ErrNotFound
		}
		return err
	}

	var current, waiting int
	if err := tx.QueryRow(ctx, `
		SELECT
			COUNT(*) FILTER (WHERE NOT on_waitlist),
			COUNT(*) FILTER (WHERE on_waitlist)
		FROM course_signups
		WHERE offering_id = $1 AND NOT deleted
	`, string(s.OfferingID)).Scan(&current, &waiting); err != nil {
		return err
	}

	onWaitList := s.OnWaitList || domain.ShouldWaitlist(current, waiting, capacity)

	if _, err := tx.Exec(ctx, `
		INSERT INTO course_signups (id, member_id, offering_id, created_at, on_waitlist, deleted)
		VALUES ($1, $2, $3, $4, $5, FALSE)
	`, string(s.ID), string(s.MemberID), string(s.OfferingID), s.Created.UTC(), onWaitList); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return signuprepo.ErrAlreadyExists
		}
		return err
	}

	return tx.Commit(ctx)
}

func (r *Repo) SoftDelete(ctx context.Context, memberID domain.MemberID, offeringID domain.OfferingID) error {
	if r.pool == nil {
		return errors.New("nil postgres pool")
	}
	tag, err := r.pool.Exec(ctx, `
		UPDATE course_signups
		SET deleted = TRUE
		WHERE id IN (
			SELECT id FROM course_signups
			WHERE member_id = $1 AND offering_id = $2 AND NOT deleted
			ORDER BY created_at ASC
			LIMIT 1
		)
	`, string(memberID), string(offeringID))
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return signuprepo.ErrNotFound
	}
	return nil
}

func (r *Repo) ListActiveByMember(ctx context.Context, memberID domain.MemberID) ([]signuprepo.Signup, error) {
	return r.listByMember(ctx, memberID, false)
}

func (r *Repo) ListByMember(ctx context.Context, memberID domain.MemberID, includeDeleted bool) ([]signuprepo.Signup, error) {
	return r.listByMember(ctx, memberID, includeDeleted)
}

func (r *Repo) listByMember(ctx context.Context, memberID domain.MemberID, includeDeleted bool) ([]signuprepo.Signup, error) {
	if r.pool == nil {
		return nil, errors.New("nil postgres pool")
	}
	rows, err := r.pool.Query(ctx, `
		SELECT id, member_id, offering_id, created_at, on_waitlist, deleted
		FROM course_signups
		WHERE member_id = $1 AND (NOT deleted OR $2)
		ORDER BY created_at ASC, id ASC
	`, string(memberID), includeDeleted)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]signuprepo.Signup, 0)
	for rows.Next() {
		var (
			id, mid, oid        string
			createdAt           time.Time
			onWaitList, deleted bool
		)
		if err := rows.Scan(&id, &mid, &oid, &createdAt, &onWaitList, &deleted); err != nil {
			return nil, err
		}
		out = append(out, signuprepo.Signup{
			ID:         domain.SignupID(id),
			MemberID:   domain.MemberID(mid),
			OfferingID: domain.OfferingID(oid),
			Created:    createdAt.UTC(),
			OnWaitList: onWaitList,
			Deleted:    deleted,
		})
	}
	return out, rows.Err()
}

func (r *Repo) CountsByOffering(ctx context.Context) (map[domain.OfferingID]signuprepo.Counts, error) {
	if r.pool == nil {
		return nil, errors.New("nil postgres pool")
	}
	rows, err := r.pool.Query(ctx, `
		SELECT offering_id,
			COUNT(*) FILTER (WHERE NOT on_waitlist),
			COUNT(*) FILTER (WHERE on_waitlist)
		FROM course_signups
		WHERE NOT deleted
		GROUP BY offering_id
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make(map[domain.OfferingID]signuprepo.Counts)
	for rows.Next() {
		var (
			oid              string
			current, waiting int
		)
		if err := rows.Scan(&oid, &current, &waiting); err != nil {
			return nil, err
		}
		out[domain.OfferingID(oid)] = signuprepo.Counts{Current: current, Waiting: waiting}
	}
	return out, rows.Err()
}

func (r *Repo) CountsForOffering(ctx context.Context, offeringID domain.OfferingID) (signuprepo.Counts, error) {
	if r.pool == nil {
		return signuprepo.Counts{}, errors.New("nil postgres pool")
	}
	var c signuprepo.Counts
	err := r.pool.QueryRow(ctx, `
		SELECT
			COUNT(*) FILTER (WHERE NOT on_waitlist),
			COUNT(*) FILTER (WHERE on_waitlist)
		FROM course_signups
		WHERE offering_id = $1 AND NOT deleted
	`, string(offeringID)).Scan(&c.Current, &c.Waiting)
	if err != nil {
		return signuprepo.Counts{}, err
	}
	return c, nil
}

package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/mergington-high/activities/internal/model"
)

// PostgresStore persists the catalog in PostgreSQL. It is selected when a
// DB DSN is configured; rosters then survive restarts.
type PostgresStore struct {
	db *pgxpool.Pool
}

// NewPostgresStore constructs a PostgresStore on an existing pool.
func NewPostgresStore(db *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{db: db}
}

// EnsureSchema creates the tables if they do not exist and seeds the fixed
// catalog. Seeding is idempotent: existing activities and participants are
// left untouched, so rosters accumulated across restarts are preserved.
func (s *PostgresStore) EnsureSchema(ctx context.Context, seed []model.Activity) error {
	_, err := s.db.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS activities (
			name             TEXT PRIMARY KEY,
			description      TEXT NOT NULL,
			schedule         TEXT NOT NULL,
			max_participants INT  NOT NULL
		);
		CREATE TABLE IF NOT EXISTS participants (
			id            UUID PRIMARY KEY,
			activity_name TEXT NOT NULL REFERENCES activities(name),
			email         TEXT NOT NULL,
			signed_up_at  TIMESTAMPTZ NOT NULL,
			UNIQUE (activity_name, email)
		);
	`)
	if err != nil {
		return fmt.Errorf("create schema: %w", err)
	}

	for _, a := range seed {
		_, err := s.db.Exec(ctx,
			`INSERT INTO activities (name, description, schedule, max_participants)
			 VALUES ($1, $2, $3, $4)
			 ON CONFLICT (name) DO NOTHING`,
			a.Name, a.Description, a.Schedule, a.MaxParticipants,
		)
		if err != nil {
			return fmt.Errorf("seed activity %q: %w", a.Name, err)
		}

		// Stagger timestamps so the seeded roster keeps its order.
		base := time.Now().UTC()
		for i, email := range a.Participants {
			_, err := s.db.Exec(ctx,
				`INSERT INTO participants (id, activity_name, email, signed_up_at)
				 VALUES ($1, $2, $3, $4)
				 ON CONFLICT (activity_name, email) DO NOTHING`,
				uuid.New().String(), a.Name, email, base.Add(time.Duration(i)*time.Millisecond),
			)
			if err != nil {
				return fmt.Errorf("seed participant %q: %w", email, err)
			}
		}
	}
	return nil
}

// List returns the full catalog with rosters ordered by signup time.
func (s *PostgresStore) List(ctx context.Context) (map[string]model.Activity, error) {
	rows, err := s.db.Query(ctx,
		`SELECT name, description, schedule, max_participants FROM activities`,
	)
	if err != nil {
		return nil, fmt.Errorf("list activities: %w", err)
	}
	defer rows.Close()

	out := make(map[string]model.Activity)
	for rows.Next() {
		var a model.Activity
		if err := rows.Scan(&a.Name, &a.Description, &a.Schedule, &a.MaxParticipants); err != nil {
			return nil, fmt.Errorf("scan activity: %w", err)
		}
		a.Participants = []string{}
		out[a.Name] = a
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	prows, err := s.db.Query(ctx,
		`SELECT activity_name, email FROM participants ORDER BY signed_up_at ASC`,
	)
	if err != nil {
		return nil, fmt.Errorf("list participants: %w", err)
	}
	defer prows.Close()

	for prows.Next() {
		var name, email string
		if err := prows.Scan(&name, &email); err != nil {
			return nil, fmt.Errorf("scan participant: %w", err)
		}
		a, ok := out[name]
		if !ok {
			continue
		}
		a.Participants = append(a.Participants, email)
		out[name] = a
	}
	return out, prows.Err()
}

// SignUp registers email for an activity inside a serialised transaction.
//
// SELECT … FOR UPDATE takes a row-level lock on the activity, so concurrent
// signup attempts for the same activity are serialised and only one of two
// racing requests with the same email can pass the duplicate check.
func (s *PostgresStore) SignUp(ctx context.Context, activity, email string) error {
	tx, err := s.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback(ctx)
		}
	}()

	if err = lockActivity(ctx, tx, activity); err != nil {
		return err
	}

	var dupCount int
	err = tx.QueryRow(ctx,
		`SELECT COUNT(*) FROM participants WHERE activity_name = $1 AND email = $2`,
		activity, email,
	).Scan(&dupCount)
	if err != nil {
		return fmt.Errorf("check duplicate: %w", err)
	}
	if dupCount > 0 {
		err = ErrAlreadyRegistered
		return err
	}

	_, err = tx.Exec(ctx,
		`INSERT INTO participants (id, activity_name, email, signed_up_at)
		 VALUES ($1, $2, $3, $4)`,
		uuid.New().String(), activity, email, time.Now().UTC(),
	)
	if err != nil {
		return fmt.Errorf("insert participant: %w", err)
	}

	if err = tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

// Unregister removes email from an activity's roster under the same
// row-level lock as SignUp.
func (s *PostgresStore) Unregister(ctx context.Context, activity, email string) error {
	tx, err := s.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback(ctx)
		}
	}()

	if err = lockActivity(ctx, tx, activity); err != nil {
		return err
	}

	tag, err := tx.Exec(ctx,
		`DELETE FROM participants WHERE activity_name = $1 AND email = $2`,
		activity, email,
	)
	if err != nil {
		return fmt.Errorf("delete participant: %w", err)
	}
	if tag.RowsAffected() == 0 {
		err = ErrNotRegistered
		return err
	}

	if err = tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

// lockActivity acquires an exclusive row-level lock on the activity, or
// returns ErrActivityNotFound.
func lockActivity(ctx context.Context, tx pgx.Tx, activity string) error {
	var name string
	err := tx.QueryRow(ctx,
		`SELECT name FROM activities WHERE name = $1 FOR UPDATE`,
		activity,
	).Scan(&name)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrActivityNotFound
		}
		return fmt.Errorf("lock activity row: %w", err)
	}
	return nil
}

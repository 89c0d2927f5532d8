package journal

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/alessandro-lagamba/yachai-server/internal/insight"
)

// PostgresRepository is a PostgreSQL implementation of Repository.
type PostgresRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresRepository creates a new PostgreSQL journal repository.
func NewPostgresRepository(pool *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{pool: pool}
}

// Insert stores a new entry.
func (r *PostgresRepository) Insert(ctx context.Context, e *Entry) error {
	reflectionJSON, err := marshalReflection(e.Reflection)
	if err != nil {
		return err
	}

	_, err = r.pool.Exec(ctx, `
		INSERT INTO journal_entries (entry_id, user_id, content, mood, reflection, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		e.ID, e.UserID, e.Content, e.Mood, reflectionJSON, e.CreatedAt,
	)
	return err
}

// Get retrieves one of the user's entries.
func (r *PostgresRepository) Get(ctx context.Context, userID, entryID string) (*Entry, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT entry_id, user_id, content, mood, reflection, created_at
		FROM journal_entries
		WHERE entry_id = $1 AND user_id = $2`,
		entryID, userID,
	)
	return scanEntry(row)
}

// List returns the user's entries, newest first.
func (r *PostgresRepository) List(ctx context.Context, userID string, opts ListOptions) ([]*Entry, error) {
	query := `
		SELECT entry_id, user_id, content, mood, reflection, created_at
		FROM journal_entries
		WHERE user_id = $1`
	args := []interface{}{userID}

	if !opts.Before.IsZero() {
		query += ` AND created_at < $2`
		args = append(args, opts.Before)
	}
	query += ` ORDER BY created_at DESC`
	if opts.Limit > 0 {
		query += fmt.Sprintf(` LIMIT $%d`, len(args)+1)
		args = append(args, opts.Limit)
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*Entry
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

// SetReflection attaches an AI reflection to a stored entry.
func (r *PostgresRepository) SetReflection(ctx context.Context, userID, entryID string, reflection *insight.Reflection) error {
	reflectionJSON, err := marshalReflection(reflection)
	if err != nil {
		return err
	}

	tag, err := r.pool.Exec(ctx, `
		UPDATE journal_entries SET reflection = $1
		WHERE entry_id = $2 AND user_id = $3`,
		reflectionJSON, entryID, userID,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrEntryNotFound
	}
	return nil
}

// Delete removes one of the user's entries.
func (r *PostgresRepository) Delete(ctx context.Context, userID, entryID string) error {
	tag, err := r.pool.Exec(ctx,
		`DELETE FROM journal_entries WHERE entry_id = $1 AND user_id = $2`,
		entryID, userID,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrEntryNotFound
	}
	return nil
}

func scanEntry(row pgx.Row) (*Entry, error) {
	var (
		e              Entry
		reflectionJSON []byte
	)
	err := row.Scan(&e.ID, &e.UserID, &e.Content, &e.Mood, &reflectionJSON, &e.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrEntryNotFound
		}
		return nil, err
	}

	if len(reflectionJSON) > 0 {
		var reflection insight.Reflection
		if err := json.Unmarshal(reflectionJSON, &reflection); err != nil {
			return nil, err
		}
		e.Reflection = &reflection
	}
	return &e, nil
}

func marshalReflection(r *insight.Reflection) ([]byte, error) {
	if r == nil {
		return nil, nil
	}
	return json.Marshal(r)
}

var _ Repository = (*PostgresRepository)(nil)

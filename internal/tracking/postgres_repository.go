package tracking

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/alessandro-lagamba/yachai-server/internal/personalization"
)

// PostgresRepository is a PostgreSQL implementation of Repository.
type PostgresRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresRepository creates a new PostgreSQL tracking repository.
func NewPostgresRepository(pool *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{pool: pool}
}

// Insert stores a new sample.
func (r *PostgresRepository) Insert(ctx context.Context, s *Sample) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO metric_samples (sample_id, user_id, metric, value, recorded_at)
		VALUES ($1, $2, $3, $4, $5)`,
		s.ID, s.UserID, s.Metric, s.Value, s.RecordedAt,
	)
	return err
}

// List returns a user's samples for a metric, newest first.
func (r *PostgresRepository) List(ctx context.Context, userID, metric string, opts ListOptions) ([]*Sample, error) {
	query := `
		SELECT sample_id, user_id, metric, value, recorded_at
		FROM metric_samples
		WHERE user_id = $1 AND metric = $2 AND recorded_at >= $3
		ORDER BY recorded_at DESC`
	args := []interface{}{userID, metric, opts.Since}
	if opts.Limit > 0 {
		query += ` LIMIT $4`
		args = append(args, opts.Limit)
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*Sample
	for rows.Next() {
		var s Sample
		if err := rows.Scan(&s.ID, &s.UserID, &s.Metric, &s.Value, &s.RecordedAt); err != nil {
			return nil, err
		}
		out = append(out, &s)
	}
	return out, rows.Err()
}

// Delete removes one sample owned by the user.
func (r *PostgresRepository) Delete(ctx context.Context, userID, sampleID string) error {
	tag, err := r.pool.Exec(ctx,
		`DELETE FROM metric_samples WHERE sample_id = $1 AND user_id = $2`,
		sampleID, userID,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrSampleNotFound
	}
	return nil
}

// UpsertBaseline stores or replaces a baseline snapshot.
func (r *PostgresRepository) UpsertBaseline(ctx context.Context, b *Baseline) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO personal_baselines (
			user_id, metric, range_min, range_max, range_optimal,
			personal_average, standard_deviation, sample_count, computed_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (user_id, metric) DO UPDATE SET
			range_min = EXCLUDED.range_min,
			range_max = EXCLUDED.range_max,
			range_optimal = EXCLUDED.range_optimal,
			personal_average = EXCLUDED.personal_average,
			standard_deviation = EXCLUDED.standard_deviation,
			sample_count = EXCLUDED.sample_count,
			computed_at = EXCLUDED.computed_at`,
		b.UserID, b.Metric,
		b.Range.Min, b.Range.Max, b.Range.Optimal,
		b.Range.PersonalAverage, b.Range.StandardDeviation,
		b.SampleCount, b.ComputedAt,
	)
	return err
}

// GetBaseline retrieves a user's baseline for a metric.
func (r *PostgresRepository) GetBaseline(ctx context.Context, userID, metric string) (*Baseline, error) {
	b := Baseline{UserID: userID, Metric: metric}
	var rng personalization.Range

	err := r.pool.QueryRow(ctx, `
		SELECT range_min, range_max, range_optimal,
		       personal_average, standard_deviation, sample_count, computed_at
		FROM personal_baselines
		WHERE user_id = $1 AND metric = $2`,
		userID, metric,
	).Scan(
		&rng.Min, &rng.Max, &rng.Optimal,
		&rng.PersonalAverage, &rng.StandardDeviation,
		&b.SampleCount, &b.ComputedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrSampleNotFound
		}
		return nil, err
	}

	b.Range = rng
	return &b, nil
}

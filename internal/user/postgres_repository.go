package user

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/alessandro-lagamba/yachai-server/internal/personalization"
)

// PostgresRepository is a PostgreSQL implementation of Repository.
type PostgresRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresRepository creates a new PostgreSQL user repository.
func NewPostgresRepository(pool *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{pool: pool}
}

const userColumns = `
	user_id, external_subject, locale,
	age, skin_type, medical_conditions, lifestyle, goals, daily_calorie_target,
	consent_analytics, consent_ai_processing, consent_push_notifications, consents_updated_at,
	created_at, updated_at
`

// Get retrieves a user by ID.
func (r *PostgresRepository) Get(ctx context.Context, id string) (*User, error) {
	row := r.pool.QueryRow(ctx,
		`SELECT `+userColumns+` FROM user_profiles WHERE user_id = $1`, id)
	return scanUser(row)
}

// GetByExternalSubject retrieves a user by identity provider subject.
func (r *PostgresRepository) GetByExternalSubject(ctx context.Context, subject string) (*User, error) {
	row := r.pool.QueryRow(ctx,
		`SELECT `+userColumns+` FROM user_profiles WHERE external_subject = $1`, subject)
	return scanUser(row)
}

// List returns all user IDs.
func (r *PostgresRepository) List(ctx context.Context) ([]string, error) {
	rows, err := r.pool.Query(ctx, `SELECT user_id FROM user_profiles ORDER BY created_at`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// Create creates a new user profile row.
func (r *PostgresRepository) Create(ctx context.Context, u *User) error {
	profile := u.Profile
	if profile == nil {
		profile = DefaultProfile()
	}
	consents := u.Consents
	if consents == nil {
		consents = DefaultConsents()
	}

	_, err := r.pool.Exec(ctx, `
		INSERT INTO user_profiles (
			user_id, external_subject, locale,
			age, skin_type, medical_conditions, lifestyle, goals, daily_calorie_target,
			consent_analytics, consent_ai_processing, consent_push_notifications, consents_updated_at,
			created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)`,
		u.ID,
		u.ExternalSubject,
		u.Locale,
		profile.Age,
		string(profile.SkinType),
		conditionsToStrings(profile.MedicalConditions),
		profile.Lifestyle,
		profile.Goals,
		profile.DailyCalorieTarget,
		consents.Analytics,
		consents.AIProcessing,
		consents.PushNotifications,
		consents.UpdatedAt,
		u.CreatedAt,
		u.UpdatedAt,
	)
	return err
}

// Update updates an existing user profile row.
func (r *PostgresRepository) Update(ctx context.Context, u *User) error {
	profile := u.Profile
	if profile == nil {
		profile = DefaultProfile()
	}
	consents := u.Consents
	if consents == nil {
		consents = DefaultConsents()
	}

	tag, err := r.pool.Exec(ctx, `
		UPDATE user_profiles SET
			locale = $2,
			age = $3,
			skin_type = $4,
			medical_conditions = $5,
			lifestyle = $6,
			goals = $7,
			daily_calorie_target = $8,
			consent_analytics = $9,
			consent_ai_processing = $10,
			consent_push_notifications = $11,
			consents_updated_at = $12,
			updated_at = $13
		WHERE user_id = $1`,
		u.ID,
		u.Locale,
		profile.Age,
		string(profile.SkinType),
		conditionsToStrings(profile.MedicalConditions),
		profile.Lifestyle,
		profile.Goals,
		profile.DailyCalorieTarget,
		consents.Analytics,
		consents.AIProcessing,
		consents.PushNotifications,
		consents.UpdatedAt,
		u.UpdatedAt,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrUserNotFound
	}
	return nil
}

// Delete deletes a user. Samples, journal entries and baselines cascade
// via foreign keys.
func (r *PostgresRepository) Delete(ctx context.Context, id string) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM user_profiles WHERE user_id = $1`, id)
	return err
}

func scanUser(row pgx.Row) (*User, error) {
	var (
		u                 User
		age               *int
		skinType          string
		conditions        []string
		lifestyle         []string
		goals             []string
		calorieTarget     *int
		analytics         bool
		aiProcessing      bool
		pushNotifications bool
		consentsUpdatedAt time.Time
		createdAt         time.Time
		updatedAt         time.Time
	)

	err := row.Scan(
		&u.ID,
		&u.ExternalSubject,
		&u.Locale,
		&age,
		&skinType,
		&conditions,
		&lifestyle,
		&goals,
		&calorieTarget,
		&analytics,
		&aiProcessing,
		&pushNotifications,
		&consentsUpdatedAt,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	u.Profile = &Profile{
		Age:                age,
		SkinType:           personalization.SkinType(skinType),
		MedicalConditions:  stringsToConditions(conditions),
		Lifestyle:          lifestyle,
		Goals:              goals,
		DailyCalorieTarget: calorieTarget,
		CreatedAt:          createdAt,
		UpdatedAt:          updatedAt,
	}
	u.Consents = &Consents{
		Analytics:         analytics,
		AIProcessing:      aiProcessing,
		PushNotifications: pushNotifications,
		UpdatedAt:         consentsUpdatedAt,
	}
	u.CreatedAt = createdAt
	u.UpdatedAt = updatedAt

	return &u, nil
}

func conditionsToStrings(conditions []personalization.Condition) []string {
	out := make([]string, len(conditions))
	for i, c := range conditions {
		out[i] = string(c)
	}
	return out
}

func stringsToConditions(values []string) []personalization.Condition {
	out := make([]personalization.Condition, len(values))
	for i, v := range values {
		out[i] = personalization.Condition(v)
	}
	return out
}

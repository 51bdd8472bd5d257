package telegram

import (
	"database/sql"
	"time"

	"github.com/google/uuid"
)

type PostgresRepository struct {
	db *sql.DB
}

const upsertProfileQuery = `
        INSERT INTO user_profiles (id, user_key, telegram_id, telegram_username,
                                   first_name, last_name, language_code, is_premium,
                                   created_at, updated_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $9)
        ON CONFLICT (user_key)
        DO UPDATE SET telegram_username = EXCLUDED.telegram_username,
                      first_name = EXCLUDED.first_name,
                      last_name = EXCLUDED.last_name,
                      language_code = EXCLUDED.language_code,
                      is_premium = EXCLUDED.is_premium,
                      updated_at = EXCLUDED.updated_at
        RETURNING id, user_key, telegram_id, telegram_username, first_name,
                  last_name, language_code, is_premium, created_at, updated_at
    `

func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Upsert(p Profile) (Profile, error) {
	now := time.Now().UTC().Format(time.RFC3339)
	row := r.db.QueryRow(upsertProfileQuery, uuid.NewString(), p.UserKey, p.TelegramID,
		p.Username, p.FirstName, p.LastName, p.LanguageCode, p.IsPremium, now)
	return scanProfile(row)
}

func (r *PostgresRepository) GetByUserKey(userKey string) (Profile, error) {
	row := r.db.QueryRow(`
        SELECT id, user_key, telegram_id, telegram_username, first_name,
               last_name, language_code, is_premium, created_at, updated_at
        FROM user_profiles
        WHERE user_key = $1`, userKey)

	p, err := scanProfile(row)
	if err == sql.ErrNoRows {
		return Profile{}, ErrNotFound
	}
	return p, err
}

func scanProfile(row *sql.Row) (Profile, error) {
	var p Profile
	var createdAt, updatedAt sql.NullString
	err := row.Scan(&p.ID, &p.UserKey, &p.TelegramID, &p.Username, &p.FirstName,
		&p.LastName, &p.LanguageCode, &p.IsPremium, &createdAt, &updatedAt)
	if err != nil {
		return Profile{}, err
	}
	p.CreatedAt = createdAt.String
	p.UpdatedAt = updatedAt.String
	return p, nil
}

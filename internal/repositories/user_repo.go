package repositories

import (
	"context"
	"fmt"
	"time"

	"github.com/BradenHooton/wikiboard/internal/database"
	"github.com/BradenHooton/wikiboard/internal/models"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type UserRepository struct {
	pool *pgxpool.Pool
}

func NewUserRepository(db *database.DB) *UserRepository {
	return &UserRepository{pool: db.Pool}
}

// rowScanner interface for scanning rows (supports both single row and multiple rows)
type rowScanner interface {
	Scan(dest ...interface{}) error
}

const userColumns = `id, email, name, bio, avatar_url, background_url, role, badge,
	is_admin, is_banned, banned_until, ban_reason, created_at, updated_at`

// scanUserRow populates a User model from a database row
func scanUserRow(scanner rowScanner) (*models.User, error) {
	var user models.User

	err := scanner.Scan(
		&user.ID, &user.Email, &user.Name, &user.Bio, &user.AvatarURL, &user.BackgroundURL,
		&user.Role, &user.Badge, &user.IsAdmin, &user.IsBanned, &user.BannedUntil, &user.BanReason,
		&user.CreatedAt, &user.UpdatedAt,
	)
	if err != nil {
		return nil, database.MapPostgresError(err)
	}

	return &user, nil
}

// scanUserRows iterates through rows and scans each into User models
func scanUserRows(rows pgx.Rows) ([]*models.User, error) {
	defer rows.Close()

	users := make([]*models.User, 0)

	for rows.Next() {
		user, err := scanUserRow(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan user: %w", err)
		}
		users = append(users, user)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}

	return users, nil
}

func (r *UserRepository) GetByID(ctx context.Context, id string) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`

	return scanUserRow(r.pool.QueryRow(ctx, query, id))
}

func (r *UserRepository) List(ctx context.Context, limit, offset int) ([]*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users ORDER BY created_at DESC LIMIT $1 OFFSET $2`

	rows, err := r.pool.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to query users: %w", err)
	}

	return scanUserRows(rows)
}

// Upsert records the identity provider's view of a user. Profile fields set
// locally (bio, background) and all privilege and ban fields are preserved on
// conflict; name and avatar are only filled when still empty.
func (r *UserRepository) Upsert(ctx context.Context, identity models.Identity) (*models.User, error) {
	query := `
		INSERT INTO users (id, email, name, avatar_url)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (id) DO UPDATE SET
			email      = EXCLUDED.email,
			name       = CASE WHEN users.name = '' THEN EXCLUDED.name ELSE users.name END,
			avatar_url = CASE WHEN users.avatar_url = '' THEN EXCLUDED.avatar_url ELSE users.avatar_url END,
			updated_at = CASE WHEN users.email <> EXCLUDED.email THEN NOW() ELSE users.updated_at END
		RETURNING ` + userColumns

	return scanUserRow(r.pool.QueryRow(ctx, query,
		identity.Subject, identity.Email, identity.Name, identity.AvatarURL,
	))
}

func (r *UserRepository) UpdateProfile(ctx context.Context, id, name, bio string) (*models.User, error) {
	query := `
		UPDATE users SET name = $1, bio = $2, updated_at = NOW()
		WHERE id = $3
		RETURNING ` + userColumns

	return scanUserRow(r.pool.QueryRow(ctx, query, name, bio, id))
}

func (r *UserRepository) UpdateAvatar(ctx context.Context, id, url string) (*models.User, error) {
	query := `UPDATE users SET avatar_url = $1, updated_at = NOW() WHERE id = $2 RETURNING ` + userColumns

	return scanUserRow(r.pool.QueryRow(ctx, query, url, id))
}

func (r *UserRepository) UpdateBackground(ctx context.Context, id, url string) (*models.User, error) {
	query := `UPDATE users SET background_url = $1, updated_at = NOW() WHERE id = $2 RETURNING ` + userColumns

	return scanUserRow(r.pool.QueryRow(ctx, query, url, id))
}

// SetRole updates role and keeps is_admin in step with it.
func (r *UserRepository) SetRole(ctx context.Context, id, role string) (*models.User, error) {
	query := `
		UPDATE users SET role = $1, is_admin = ($1 = 'admin'), updated_at = NOW()
		WHERE id = $2
		RETURNING ` + userColumns

	return scanUserRow(r.pool.QueryRow(ctx, query, role, id))
}

func (r *UserRepository) SetBadge(ctx context.Context, id, badge string) (*models.User, error) {
	query := `UPDATE users SET badge = $1, updated_at = NOW() WHERE id = $2 RETURNING ` + userColumns

	return scanUserRow(r.pool.QueryRow(ctx, query, badge, id))
}

// Ban marks a user banned. A nil until is a permanent ban.
func (r *UserRepository) Ban(ctx context.Context, id, reason string, until *time.Time) (*models.User, error) {
	query := `
		UPDATE users SET is_banned = TRUE, ban_reason = $1, banned_until = $2, updated_at = NOW()
		WHERE id = $3
		RETURNING ` + userColumns

	return scanUserRow(r.pool.QueryRow(ctx, query, reason, until, id))
}

func (r *UserRepository) Unban(ctx context.Context, id string) (*models.User, error) {
	query := `
		UPDATE users SET is_banned = FALSE, ban_reason = NULL, banned_until = NULL, updated_at = NOW()
		WHERE id = $1
		RETURNING ` + userColumns

	return scanUserRow(r.pool.QueryRow(ctx, query, id))
}

// ClearExpiredBan clears a timed ban that has ended at or before now. The
// conditional update makes concurrent callers safe: only one observes true.
func (r *UserRepository) ClearExpiredBan(ctx context.Context, id string, now time.Time) (bool, error) {
	query := `
		UPDATE users SET is_banned = FALSE, ban_reason = NULL, banned_until = NULL, updated_at = NOW()
		WHERE id = $1 AND is_banned AND banned_until IS NOT NULL AND banned_until <= $2
	`

	result, err := r.pool.Exec(ctx, query, id, now)
	if err != nil {
		return false, database.MapPostgresError(err)
	}

	return result.RowsAffected() > 0, nil
}

// ClearExpiredBans clears every timed ban that ended at or before now and
// returns how many users were unbanned.
func (r *UserRepository) ClearExpiredBans(ctx context.Context, now time.Time) (int64, error) {
	query := `
		UPDATE users SET is_banned = FALSE, ban_reason = NULL, banned_until = NULL, updated_at = NOW()
		WHERE is_banned AND banned_until IS NOT NULL AND banned_until <= $1
	`

	result, err := r.pool.Exec(ctx, query, now)
	if err != nil {
		return 0, database.MapPostgresError(err)
	}

	return result.RowsAffected(), nil
}

func (r *UserRepository) Delete(ctx context.Context, id string) error {
	query := `DELETE FROM users WHERE id = $1`

	result, err := r.pool.Exec(ctx, query, id)
	if err != nil {
		return database.MapPostgresError(err)
	}

	if result.RowsAffected() == 0 {
		return models.ErrNotFound
	}

	return nil
}

// CountUsers returns the total and currently banned user counts. Timed bans
// that have lapsed but were not yet cleared are not counted as banned.
func (r *UserRepository) CountUsers(ctx context.Context, now time.Time) (total, banned int64, err error) {
	query := `
		SELECT COUNT(*),
		       COUNT(*) FILTER (WHERE is_banned AND (banned_until IS NULL OR banned_until > $1))
		FROM users
	`

	if err := r.pool.QueryRow(ctx, query, now).Scan(&total, &banned); err != nil {
		return 0, 0, fmt.Errorf("failed to count users: %w", err)
	}

	return total, banned, nil
}

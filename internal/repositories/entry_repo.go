package repositories

import (
	"context"
	"fmt"

	"github.com/BradenHooton/wikiboard/internal/database"
	"github.com/BradenHooton/wikiboard/internal/models"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// EntryRepository handles wiki entry data access
type EntryRepository struct {
	pool *pgxpool.Pool
}

func NewEntryRepository(db *database.DB) *EntryRepository {
	return &EntryRepository{pool: db.Pool}
}

const entryColumns = `e.id, e.user_id, e.title, e.description, e.image_url, e.status, e.verification,
	e.is_special, e.special_access_token, e.created_at, e.updated_at`

const entryViewSelect = `
	SELECT ` + entryColumns + `,
	       u.name, u.avatar_url, u.badge,
	       (SELECT COUNT(*) FROM likes l WHERE l.entry_id = e.id),
	       (SELECT COUNT(*) FROM comments c WHERE c.entry_id = e.id)
	FROM wiki_entries e
	JOIN users u ON u.id = e.user_id`

func scanEntryRow(scanner rowScanner) (*models.WikiEntry, error) {
	var entry models.WikiEntry

	err := scanner.Scan(
		&entry.ID, &entry.UserID, &entry.Title, &entry.Description, &entry.ImageURL,
		&entry.Status, &entry.Verification, &entry.IsSpecial, &entry.SpecialAccessToken,
		&entry.CreatedAt, &entry.UpdatedAt,
	)
	if err != nil {
		return nil, database.MapPostgresError(err)
	}

	return &entry, nil
}

func scanEntryViewRow(scanner rowScanner) (*models.EntryView, error) {
	var entry models.WikiEntry
	var view models.EntryView

	err := scanner.Scan(
		&entry.ID, &entry.UserID, &entry.Title, &entry.Description, &entry.ImageURL,
		&entry.Status, &entry.Verification, &entry.IsSpecial, &entry.SpecialAccessToken,
		&entry.CreatedAt, &entry.UpdatedAt,
		&view.Author.Name, &view.Author.AvatarURL, &view.Author.Badge,
		&view.LikeCount, &view.CommentCount,
	)
	if err != nil {
		return nil, database.MapPostgresError(err)
	}

	view.Author.ID = entry.UserID
	view.Entry = &entry
	return &view, nil
}

func scanEntryViewRows(rows pgx.Rows) ([]*models.EntryView, error) {
	defer rows.Close()

	views := make([]*models.EntryView, 0)

	for rows.Next() {
		view, err := scanEntryViewRow(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan entry: %w", err)
		}
		views = append(views, view)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating entry rows: %w", err)
	}

	return views, nil
}

func (r *EntryRepository) Create(ctx context.Context, entry *models.WikiEntry) (*models.WikiEntry, error) {
	query := `
		INSERT INTO wiki_entries AS e (user_id, title, description, image_url, status, verification, is_special, special_access_token)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING ` + entryColumns

	return scanEntryRow(r.pool.QueryRow(ctx, query,
		entry.UserID, entry.Title, entry.Description, entry.ImageURL,
		entry.Status, entry.Verification, entry.IsSpecial, entry.SpecialAccessToken,
	))
}

func (r *EntryRepository) GetByID(ctx context.Context, id string) (*models.WikiEntry, error) {
	query := `SELECT ` + entryColumns + ` FROM wiki_entries e WHERE e.id = $1`

	return scanEntryRow(r.pool.QueryRow(ctx, query, id))
}

// GetView returns the entry joined with its author and engagement counts.
func (r *EntryRepository) GetView(ctx context.Context, id string) (*models.EntryView, error) {
	return scanEntryViewRow(r.pool.QueryRow(ctx, entryViewSelect+` WHERE e.id = $1`, id))
}

// List returns entry views matching filter, newest first. An empty Status
// matches every status.
func (r *EntryRepository) List(ctx context.Context, filter models.EntryFilter) ([]*models.EntryView, error) {
	query := entryViewSelect + `
		WHERE ($1 = '' OR e.user_id = $1)
		  AND ($2 = '' OR e.status = $2)
		  AND ($3 OR NOT e.is_special)
		ORDER BY e.created_at DESC
		LIMIT $4 OFFSET $5`

	rows, err := r.pool.Query(ctx, query,
		filter.UserID, string(filter.Status), filter.IncludeSpecial, filter.Limit, filter.Offset,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query entries: %w", err)
	}

	return scanEntryViewRows(rows)
}

// UpdateContent writes the owner-editable fields of entry and returns the
// row to pending. Verification is never written here, so a concurrent
// verification change survives an owner edit.
func (r *EntryRepository) UpdateContent(ctx context.Context, entry *models.WikiEntry) (*models.WikiEntry, error) {
	query := `
		UPDATE wiki_entries AS e SET
			title = $1, description = $2, image_url = $3,
			is_special = $4, special_access_token = $5,
			status = 'pending', updated_at = NOW()
		WHERE e.id = $6 AND e.user_id = $7
		RETURNING ` + entryColumns

	return scanEntryRow(r.pool.QueryRow(ctx, query,
		entry.Title, entry.Description, entry.ImageURL,
		entry.IsSpecial, entry.SpecialAccessToken,
		entry.ID, entry.UserID,
	))
}

// SetStatus writes only the moderation status.
func (r *EntryRepository) SetStatus(ctx context.Context, id string, status models.EntryStatus) (*models.WikiEntry, error) {
	query := `
		UPDATE wiki_entries AS e SET status = $1, updated_at = NOW()
		WHERE e.id = $2
		RETURNING ` + entryColumns

	return scanEntryRow(r.pool.QueryRow(ctx, query, status, id))
}

// SetVerification writes only the verification marker.
func (r *EntryRepository) SetVerification(ctx context.Context, id string, v models.Verification) (*models.WikiEntry, error) {
	query := `
		UPDATE wiki_entries AS e SET verification = $1, updated_at = NOW()
		WHERE e.id = $2
		RETURNING ` + entryColumns

	return scanEntryRow(r.pool.QueryRow(ctx, query, v, id))
}

// Delete removes an entry; reports, comments and likes cascade.
func (r *EntryRepository) Delete(ctx context.Context, id string) error {
	result, err := r.pool.Exec(ctx, `DELETE FROM wiki_entries WHERE id = $1`, id)
	if err != nil {
		return database.MapPostgresError(err)
	}

	if result.RowsAffected() == 0 {
		return models.ErrNotFound
	}

	return nil
}

// CountByStatus returns entry counts keyed by status.
func (r *EntryRepository) CountByStatus(ctx context.Context) (map[models.EntryStatus]int64, error) {
	rows, err := r.pool.Query(ctx, `SELECT status, COUNT(*) FROM wiki_entries GROUP BY status`)
	if err != nil {
		return nil, fmt.Errorf("failed to count entries: %w", err)
	}
	defer rows.Close()

	counts := map[models.EntryStatus]int64{
		models.EntryStatusPending:  0,
		models.EntryStatusApproved: 0,
		models.EntryStatusRejected: 0,
	}
	for rows.Next() {
		var status models.EntryStatus
		var n int64
		if err := rows.Scan(&status, &n); err != nil {
			return nil, fmt.Errorf("failed to scan entry count: %w", err)
		}
		counts[status] = n
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating entry counts: %w", err)
	}

	return counts, nil
}

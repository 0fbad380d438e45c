package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/BradenHooton/wikiboard/internal/database"
	"github.com/BradenHooton/wikiboard/internal/models"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// CommentRepository handles comment data access
type CommentRepository struct {
	pool *pgxpool.Pool
}

func NewCommentRepository(db *database.DB) *CommentRepository {
	return &CommentRepository{pool: db.Pool}
}

const commentColumns = `id, entry_id, user_id, content, created_at`

func scanCommentRow(scanner rowScanner) (*models.Comment, error) {
	var c models.Comment

	if err := scanner.Scan(&c.ID, &c.EntryID, &c.UserID, &c.Content, &c.CreatedAt); err != nil {
		return nil, database.MapPostgresError(err)
	}

	return &c, nil
}

func scanCommentRows(rows pgx.Rows) ([]*models.Comment, error) {
	defer rows.Close()

	comments := make([]*models.Comment, 0)

	for rows.Next() {
		c, err := scanCommentRow(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan comment: %w", err)
		}
		comments = append(comments, c)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating comment rows: %w", err)
	}

	return comments, nil
}

func (r *CommentRepository) Create(ctx context.Context, c *models.Comment) (*models.Comment, error) {
	query := `
		INSERT INTO comments (entry_id, user_id, content)
		VALUES ($1, $2, $3)
		RETURNING ` + commentColumns

	return scanCommentRow(r.pool.QueryRow(ctx, query, c.EntryID, c.UserID, c.Content))
}

func (r *CommentRepository) GetByID(ctx context.Context, id string) (*models.Comment, error) {
	return scanCommentRow(r.pool.QueryRow(ctx, `SELECT `+commentColumns+` FROM comments WHERE id = $1`, id))
}

// ListByEntry returns comments oldest first.
func (r *CommentRepository) ListByEntry(ctx context.Context, entryID string) ([]*models.Comment, error) {
	query := `SELECT ` + commentColumns + ` FROM comments WHERE entry_id = $1 ORDER BY created_at ASC`

	rows, err := r.pool.Query(ctx, query, entryID)
	if err != nil {
		return nil, fmt.Errorf("failed to query comments: %w", err)
	}

	return scanCommentRows(rows)
}

func (r *CommentRepository) Delete(ctx context.Context, id string) error {
	result, err := r.pool.Exec(ctx, `DELETE FROM comments WHERE id = $1`, id)
	if err != nil {
		return database.MapPostgresError(err)
	}

	if result.RowsAffected() == 0 {
		return models.ErrNotFound
	}

	return nil
}

// LikeRepository handles like data access
type LikeRepository struct {
	pool *pgxpool.Pool
}

func NewLikeRepository(db *database.DB) *LikeRepository {
	return &LikeRepository{pool: db.Pool}
}

// Create inserts a like. A duplicate (entry, user) pair is left untouched and
// reported as ErrConflict; there is never a second row.
func (r *LikeRepository) Create(ctx context.Context, entryID, userID string) (*models.Like, error) {
	query := `
		INSERT INTO likes (entry_id, user_id)
		VALUES ($1, $2)
		ON CONFLICT (entry_id, user_id) DO NOTHING
		RETURNING id, entry_id, user_id, created_at`

	var like models.Like
	err := r.pool.QueryRow(ctx, query, entryID, userID).Scan(&like.ID, &like.EntryID, &like.UserID, &like.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, models.ErrConflict
	}
	if err != nil {
		return nil, database.MapPostgresError(err)
	}

	return &like, nil
}

// Delete removes the caller's like. It reports whether a row was removed.
func (r *LikeRepository) Delete(ctx context.Context, entryID, userID string) (bool, error) {
	result, err := r.pool.Exec(ctx, `DELETE FROM likes WHERE entry_id = $1 AND user_id = $2`, entryID, userID)
	if err != nil {
		return false, database.MapPostgresError(err)
	}

	return result.RowsAffected() > 0, nil
}

func (r *LikeRepository) CountByEntry(ctx context.Context, entryID string) (int64, error) {
	var n int64
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM likes WHERE entry_id = $1`, entryID).Scan(&n); err != nil {
		return 0, database.MapPostgresError(err)
	}
	return n, nil
}

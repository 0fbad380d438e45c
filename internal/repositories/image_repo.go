package repositories

import (
	"context"
	"fmt"

	"github.com/BradenHooton/wikiboard/internal/database"
	"github.com/BradenHooton/wikiboard/internal/models"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ImageRepository handles gallery image data access
type ImageRepository struct {
	pool *pgxpool.Pool
}

func NewImageRepository(db *database.DB) *ImageRepository {
	return &ImageRepository{pool: db.Pool}
}

const imageColumns = `id, user_id, image_url, file_name, created_at`

func scanImageRow(scanner rowScanner) (*models.UserImage, error) {
	var img models.UserImage

	if err := scanner.Scan(&img.ID, &img.UserID, &img.ImageURL, &img.FileName, &img.CreatedAt); err != nil {
		return nil, database.MapPostgresError(err)
	}

	return &img, nil
}

func scanImageRows(rows pgx.Rows) ([]*models.UserImage, error) {
	defer rows.Close()

	images := make([]*models.UserImage, 0)

	for rows.Next() {
		img, err := scanImageRow(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan image: %w", err)
		}
		images = append(images, img)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating image rows: %w", err)
	}

	return images, nil
}

func (r *ImageRepository) Create(ctx context.Context, img *models.UserImage) (*models.UserImage, error) {
	query := `
		INSERT INTO user_images (user_id, image_url, file_name)
		VALUES ($1, $2, $3)
		RETURNING ` + imageColumns

	return scanImageRow(r.pool.QueryRow(ctx, query, img.UserID, img.ImageURL, img.FileName))
}

func (r *ImageRepository) GetByID(ctx context.Context, id string) (*models.UserImage, error) {
	return scanImageRow(r.pool.QueryRow(ctx, `SELECT `+imageColumns+` FROM user_images WHERE id = $1`, id))
}

func (r *ImageRepository) ListByUser(ctx context.Context, userID string) ([]*models.UserImage, error) {
	query := `SELECT ` + imageColumns + ` FROM user_images WHERE user_id = $1 ORDER BY created_at DESC`

	rows, err := r.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query images: %w", err)
	}

	return scanImageRows(rows)
}

// Rename sets the file name of an image owned by userID. A row owned by
// someone else is reported as not found.
func (r *ImageRepository) Rename(ctx context.Context, id, userID string, fileName *string) (*models.UserImage, error) {
	query := `
		UPDATE user_images SET file_name = $1
		WHERE id = $2 AND user_id = $3
		RETURNING ` + imageColumns

	return scanImageRow(r.pool.QueryRow(ctx, query, fileName, id, userID))
}

// DeleteOwned deletes an image only when userID owns it. It reports whether a
// row was removed.
func (r *ImageRepository) DeleteOwned(ctx context.Context, id, userID string) (bool, error) {
	result, err := r.pool.Exec(ctx, `DELETE FROM user_images WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return false, database.MapPostgresError(err)
	}

	return result.RowsAffected() > 0, nil
}

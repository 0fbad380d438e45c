package repositories

import (
	"context"
	"fmt"

	"github.com/BradenHooton/wikiboard/internal/database"
	"github.com/BradenHooton/wikiboard/internal/models"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ReportRepository handles content report data access
type ReportRepository struct {
	pool *pgxpool.Pool
}

func NewReportRepository(db *database.DB) *ReportRepository {
	return &ReportRepository{pool: db.Pool}
}

const reportColumns = `id, entry_id, reporter_id, reason, description, status, created_at, updated_at`

func scanReportRow(scanner rowScanner) (*models.ContentReport, error) {
	var rep models.ContentReport

	err := scanner.Scan(
		&rep.ID, &rep.EntryID, &rep.ReporterID, &rep.Reason, &rep.Description,
		&rep.Status, &rep.CreatedAt, &rep.UpdatedAt,
	)
	if err != nil {
		return nil, database.MapPostgresError(err)
	}

	return &rep, nil
}

func scanReportRows(rows pgx.Rows) ([]*models.ContentReport, error) {
	defer rows.Close()

	reports := make([]*models.ContentReport, 0)

	for rows.Next() {
		rep, err := scanReportRow(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan report: %w", err)
		}
		reports = append(reports, rep)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating report rows: %w", err)
	}

	return reports, nil
}

func (r *ReportRepository) Create(ctx context.Context, rep *models.ContentReport) (*models.ContentReport, error) {
	query := `
		INSERT INTO content_reports (entry_id, reporter_id, reason, description, status)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING ` + reportColumns

	return scanReportRow(r.pool.QueryRow(ctx, query,
		rep.EntryID, rep.ReporterID, rep.Reason, rep.Description, rep.Status,
	))
}

// List returns reports newest first. An empty status matches all.
func (r *ReportRepository) List(ctx context.Context, status models.ReportStatus, limit, offset int) ([]*models.ContentReport, error) {
	query := `
		SELECT ` + reportColumns + ` FROM content_reports
		WHERE ($1 = '' OR status = $1)
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3`

	rows, err := r.pool.Query(ctx, query, string(status), limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to query reports: %w", err)
	}

	return scanReportRows(rows)
}

func (r *ReportRepository) ListByReporter(ctx context.Context, reporterID string) ([]*models.ContentReport, error) {
	query := `SELECT ` + reportColumns + ` FROM content_reports WHERE reporter_id = $1 ORDER BY created_at DESC`

	rows, err := r.pool.Query(ctx, query, reporterID)
	if err != nil {
		return nil, fmt.Errorf("failed to query reports: %w", err)
	}

	return scanReportRows(rows)
}

func (r *ReportRepository) GetByID(ctx context.Context, id string) (*models.ContentReport, error) {
	return scanReportRow(r.pool.QueryRow(ctx, `SELECT `+reportColumns+` FROM content_reports WHERE id = $1`, id))
}

func (r *ReportRepository) UpdateStatus(ctx context.Context, id string, status models.ReportStatus) (*models.ContentReport, error) {
	query := `
		UPDATE content_reports SET status = $1, updated_at = NOW()
		WHERE id = $2
		RETURNING ` + reportColumns

	return scanReportRow(r.pool.QueryRow(ctx, query, string(status), id))
}

// CountOpen counts reports still awaiting a decision.
func (r *ReportRepository) CountOpen(ctx context.Context) (int64, error) {
	var n int64
	query := `SELECT COUNT(*) FROM content_reports WHERE status IN ('pending', 'investigating')`
	if err := r.pool.QueryRow(ctx, query).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count reports: %w", err)
	}
	return n, nil
}

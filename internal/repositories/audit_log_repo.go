package repositories

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/BradenHooton/wikiboard/internal/database"
	"github.com/BradenHooton/wikiboard/internal/models"
)

// AuditLogRepository stores moderation and administration audit rows
type AuditLogRepository struct {
	pool *pgxpool.Pool
}

func NewAuditLogRepository(db *database.DB) *AuditLogRepository {
	return &AuditLogRepository{pool: db.Pool}
}

// Column names match the db tags on models.AuditLog so rows can be collected by name.
const auditLogColumns = `id, event_type, actor_id, target_id, resource_type, resource_id,
	action, success, failure_reason, ip_address, user_agent, metadata, created_at`

// Create appends an audit row. Rows are never updated.
func (r *AuditLogRepository) Create(ctx context.Context, log *models.AuditLog) (*models.AuditLog, error) {
	query := `
		INSERT INTO audit_logs (
			event_type, actor_id, target_id, resource_type, resource_id,
			action, success, failure_reason, ip_address, user_agent, metadata
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING ` + auditLogColumns

	rows, err := r.pool.Query(ctx, query,
		log.EventType, log.ActorID, log.TargetID, log.ResourceType, log.ResourceID,
		log.Action, log.Success, log.FailureReason, log.IPAddress, log.UserAgent, log.Metadata,
	)
	if err != nil {
		return nil, database.MapPostgresError(err)
	}

	created, err := pgx.CollectExactlyOneRow(rows, pgx.RowToAddrOfStructByName[models.AuditLog])
	if err != nil {
		return nil, fmt.Errorf("failed to create audit log: %w", database.MapPostgresError(err))
	}
	return created, nil
}

// List returns audit rows newest first. An empty EventType matches every
// event; a non-empty UserID matches rows where that user acted or was acted on.
func (r *AuditLogRepository) List(ctx context.Context, filter models.AuditFilter) ([]*models.AuditLog, error) {
	query := `
		SELECT ` + auditLogColumns + `
		FROM audit_logs
		WHERE ($1 = '' OR event_type = $1)
		  AND ($2 = '' OR actor_id = $2 OR target_id = $2)
		ORDER BY created_at DESC
		LIMIT $3 OFFSET $4`

	rows, err := r.pool.Query(ctx, query, filter.EventType, filter.UserID, filter.Limit, filter.Offset)
	if err != nil {
		return nil, fmt.Errorf("failed to query audit logs: %w", err)
	}

	logs, err := pgx.CollectRows(rows, pgx.RowToAddrOfStructByName[models.AuditLog])
	if err != nil {
		return nil, fmt.Errorf("failed to scan audit logs: %w", err)
	}
	if logs == nil {
		logs = []*models.AuditLog{}
	}
	return logs, nil
}

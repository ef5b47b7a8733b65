package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/voltline/inventory-backend/internal/domain"
	"github.com/voltline/inventory-backend/internal/repository"
)

type alertRepository struct {
	db *sqlx.DB
}

func NewAlertRepository(db *sqlx.DB) repository.AlertRepository {
	return &alertRepository{db: db}
}

const insertAlertEvent = `
    INSERT INTO email_history (id, component_id, supplier_id, alert_type, subject, email_body, sent_to, status,
                               original_quantity, final_quantity, modified_by_manager, provider_message_id, sent_at)
    VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
`

func (r *alertRepository) RecordEvent(ctx context.Context, e *domain.AlertEvent) error {
	prepareAlertEvent(e)

	if _, err := r.db.ExecContext(ctx, insertAlertEvent, alertEventArgs(e)...); err != nil {
		return fmt.Errorf("error recording alert event: %w", err)
	}

	return nil
}

func (r *alertRepository) RecordEventTx(ctx context.Context, tx *sqlx.Tx, e *domain.AlertEvent) error {
	prepareAlertEvent(e)

	if _, err := tx.ExecContext(ctx, insertAlertEvent, alertEventArgs(e)...); err != nil {
		return fmt.Errorf("error recording alert event: %w", err)
	}

	return nil
}

func prepareAlertEvent(e *domain.AlertEvent) {
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	if e.SentAt.IsZero() {
		e.SentAt = time.Now().UTC()
	}
	if e.FinalQuantity == 0 {
		e.FinalQuantity = e.OriginalQuantity
	}
}

func alertEventArgs(e *domain.AlertEvent) []interface{} {
	return []interface{}{
		e.ID, e.ComponentID, e.SupplierID, e.Tier, e.Subject, e.Body, e.SentTo, e.Status,
		e.OriginalQuantity, e.FinalQuantity, e.ModifiedByManager, e.ProviderMessageID, e.SentAt,
	}
}

func (r *alertRepository) ListEvents(ctx context.Context, filter domain.AlertFilter) ([]domain.AlertEvent, int, error) {
	countQuery := `SELECT COUNT(*) FROM email_history WHERE 1=1`
	query := `
        SELECT id, component_id, supplier_id, alert_type, subject, email_body, sent_to, status,
               original_quantity, final_quantity, modified_by_manager, provider_message_id, sent_at
        FROM email_history
        WHERE 1=1
    `

	var args []interface{}
	var conditions []string
	argCounter := 1

	if filter.ComponentID != nil {
		conditions = append(conditions, fmt.Sprintf("component_id = $%d", argCounter))
		args = append(args, *filter.ComponentID)
		argCounter++
	}

	if filter.Tier != "" {
		conditions = append(conditions, fmt.Sprintf("alert_type = $%d", argCounter))
		args = append(args, strings.ToLower(filter.Tier))
		argCounter++
	}

	if len(conditions) > 0 {
		whereClause := " AND " + strings.Join(conditions, " AND ")
		query += whereClause
		countQuery += whereClause
	}

	var total int
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("error counting alert events: %w", err)
	}

	query += " ORDER BY sent_at DESC"
	if filter.PageSize > 0 {
		page := filter.Page
		if page < 1 {
			page = 1
		}
		query += fmt.Sprintf(" LIMIT $%d OFFSET $%d", argCounter, argCounter+1)
		args = append(args, filter.PageSize, (page-1)*filter.PageSize)
	}

	var events []domain.AlertEvent
	if err := r.db.SelectContext(ctx, &events, query, args...); err != nil {
		return nil, 0, fmt.Errorf("error listing alert events: %w", err)
	}

	return events, total, nil
}

func (r *alertRepository) UpdateEventStatus(ctx context.Context, providerMessageID, status string) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE email_history SET status = $2 WHERE provider_message_id = $1`,
		providerMessageID, status,
	)
	if err != nil {
		return fmt.Errorf("error updating alert event status: %w", err)
	}

	if rows, err := res.RowsAffected(); err == nil && rows == 0 {
		return fmt.Errorf("alert event with provider message %s: %w", providerMessageID, domain.ErrNotFound)
	}

	return nil
}

func (r *alertRepository) GetEpisodeState(ctx context.Context, componentID uuid.UUID) (*domain.EpisodeState, error) {
	query := `
        SELECT component_id, last_tier, changed_at
        FROM alert_state
        WHERE component_id = $1
    `

	var state domain.EpisodeState
	if err := r.db.GetContext(ctx, &state, query, componentID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return &domain.EpisodeState{ComponentID: componentID, LastTier: "healthy"}, nil
		}
		return nil, fmt.Errorf("error getting episode state: %w", err)
	}

	return &state, nil
}

// LockEpisodeState reads the component's episode row FOR UPDATE so
// concurrent stock events for the same component serialize on it. The
// row is created on first touch.
func (r *alertRepository) LockEpisodeState(ctx context.Context, tx *sqlx.Tx, componentID uuid.UUID) (*domain.EpisodeState, error) {
	insert := `
        INSERT INTO alert_state (component_id, last_tier, changed_at)
        VALUES ($1, 'healthy', now())
        ON CONFLICT (component_id) DO NOTHING
    `
	if _, err := tx.ExecContext(ctx, insert, componentID); err != nil {
		return nil, fmt.Errorf("error initializing episode state: %w", err)
	}

	query := `
        SELECT component_id, last_tier, changed_at
        FROM alert_state
        WHERE component_id = $1
        FOR UPDATE
    `

	var state domain.EpisodeState
	if err := tx.GetContext(ctx, &state, query, componentID); err != nil {
		return nil, fmt.Errorf("error locking episode state: %w", err)
	}

	return &state, nil
}

func (r *alertRepository) SetEpisodeStateTx(ctx context.Context, tx *sqlx.Tx, componentID uuid.UUID, tier string, at time.Time) error {
	query := `
        UPDATE alert_state
        SET last_tier = $2, changed_at = $3
        WHERE component_id = $1
    `

	if _, err := tx.ExecContext(ctx, query, componentID, tier, at); err != nil {
		return fmt.Errorf("error updating episode state: %w", err)
	}

	return nil
}

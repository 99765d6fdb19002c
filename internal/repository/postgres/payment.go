package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/copperline/shop/internal/domain"
	"github.com/copperline/shop/internal/repository"
	"github.com/copperline/shop/pkg/database"
	apperrors "github.com/copperline/shop/pkg/errors"
)

// PaymentRepository implements repository.PaymentRepository using PostgreSQL.
type PaymentRepository struct {
	pool database.DBTX
}

// NewPaymentRepository creates a new PostgreSQL-backed payment repository.
func NewPaymentRepository(pool database.DBTX) *PaymentRepository {
	return &PaymentRepository{pool: pool}
}

const paymentColumns = "id, order_id, user_id, method, amount, status, transaction_id, details, paid_at, refunded_at, created_at, updated_at"

// Create inserts a new payment into the database.
func (r *PaymentRepository) Create(ctx context.Context, p *domain.Payment) error {
	detailsJSON, err := json.Marshal(p.Details)
	if err != nil {
		return fmt.Errorf("marshal payment details: %w", err)
	}

	query := `
		INSERT INTO payments (id, order_id, user_id, method, amount, status, transaction_id, details, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`

	_, err = r.pool.Exec(ctx, query,
		p.ID,
		p.OrderID,
		p.UserID,
		p.Method,
		p.Amount,
		p.Status,
		p.TransactionID,
		detailsJSON,
		p.CreatedAt,
		p.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return apperrors.AlreadyExists("payment", "transaction_id", p.TransactionID)
		}
		return fmt.Errorf("insert payment: %w", err)
	}

	return nil
}

// GetByID retrieves a payment by its ID.
func (r *PaymentRepository) GetByID(ctx context.Context, id string) (*domain.Payment, error) {
	query := `SELECT ` + paymentColumns + ` FROM payments WHERE id = $1`

	var (
		p           domain.Payment
		detailsJSON []byte
	)

	err := r.pool.QueryRow(ctx, query, id).Scan(
		&p.ID,
		&p.OrderID,
		&p.UserID,
		&p.Method,
		&p.Amount,
		&p.Status,
		&p.TransactionID,
		&detailsJSON,
		&p.PaidAt,
		&p.RefundedAt,
		&p.CreatedAt,
		&p.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("scan payment: %w", err)
	}

	if len(detailsJSON) > 0 && string(detailsJSON) != "null" {
		if err := json.Unmarshal(detailsJSON, &p.Details); err != nil {
			return nil, fmt.Errorf("unmarshal payment details: %w", err)
		}
	}

	return &p, nil
}

// List returns payments matching the given filter with the total count.
func (r *PaymentRepository) List(ctx context.Context, filter repository.PaymentFilter) ([]domain.Payment, int, error) {
	var (
		conditions []string
		args       []any
		argIndex   = 1
	)

	if filter.UserID != nil {
		conditions = append(conditions, fmt.Sprintf("user_id = $%d", argIndex))
		args = append(args, *filter.UserID)
		argIndex++
	}

	whereClause := ""
	if len(conditions) > 0 {
		whereClause = "WHERE " + strings.Join(conditions, " AND ")
	}

	query := fmt.Sprintf(`
		SELECT %s, count(*) OVER() AS total_count
		FROM payments
		%s
		ORDER BY created_at DESC
		LIMIT $%d OFFSET $%d`,
		paymentColumns, whereClause, argIndex, argIndex+1,
	)

	limit := filter.PerPage
	if limit <= 0 {
		limit = 20
	}
	offset := 0
	if filter.Page > 1 {
		offset = (filter.Page - 1) * limit
	}

	args = append(args, limit, offset)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list payments: %w", err)
	}
	defer rows.Close()

	var totalCount int
	payments := make([]domain.Payment, 0)

	for rows.Next() {
		var (
			p           domain.Payment
			detailsJSON []byte
		)

		if err := rows.Scan(
			&p.ID,
			&p.OrderID,
			&p.UserID,
			&p.Method,
			&p.Amount,
			&p.Status,
			&p.TransactionID,
			&detailsJSON,
			&p.PaidAt,
			&p.RefundedAt,
			&p.CreatedAt,
			&p.UpdatedAt,
			&totalCount,
		); err != nil {
			return nil, 0, fmt.Errorf("scan payment row: %w", err)
		}

		if len(detailsJSON) > 0 && string(detailsJSON) != "null" {
			if err := json.Unmarshal(detailsJSON, &p.Details); err != nil {
				return nil, 0, fmt.Errorf("unmarshal payment details: %w", err)
			}
		}

		payments = append(payments, p)
	}

	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterate payment rows: %w", err)
	}

	return payments, totalCount, nil
}

// MarkCompleted transitions a payment to completed and sets paid_at.
func (r *PaymentRepository) MarkCompleted(ctx context.Context, id string) error {
	query := `
		UPDATE payments
		SET status = $1, paid_at = $2, updated_at = $2
		WHERE id = $3`

	ct, err := r.pool.Exec(ctx, query, domain.PaymentStatusCompleted, time.Now().UTC(), id)
	if err != nil {
		return fmt.Errorf("mark payment completed: %w", err)
	}

	if ct.RowsAffected() == 0 {
		return apperrors.NotFound("payment", id)
	}

	return nil
}

// MarkRefunded transitions a payment to refunded and sets refunded_at.
func (r *PaymentRepository) MarkRefunded(ctx context.Context, id string) error {
	query := `
		UPDATE payments
		SET status = $1, refunded_at = $2, updated_at = $2
		WHERE id = $3`

	ct, err := r.pool.Exec(ctx, query, domain.PaymentStatusRefunded, time.Now().UTC(), id)
	if err != nil {
		return fmt.Errorf("mark payment refunded: %w", err)
	}

	if ct.RowsAffected() == 0 {
		return apperrors.NotFound("payment", id)
	}

	return nil
}

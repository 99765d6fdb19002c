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

// OrderRepository implements repository.OrderRepository using PostgreSQL.
type OrderRepository struct {
	pool database.DBTX
}

// NewOrderRepository creates a new PostgreSQL-backed order repository.
func NewOrderRepository(pool database.DBTX) *OrderRepository {
	return &OrderRepository{pool: pool}
}

// Create inserts a new order and its items atomically within a transaction.
func (r *OrderRepository) Create(ctx context.Context, o *domain.Order) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	addressJSON, err := json.Marshal(o.ShippingAddress)
	if err != nil {
		return fmt.Errorf("marshal shipping address: %w", err)
	}

	orderQuery := `
		INSERT INTO orders (id, user_id, status, shipping_address, payment_method, items_price, shipping_price, tax_price, total_price, is_paid, is_delivered, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`

	_, err = tx.Exec(ctx, orderQuery,
		o.ID,
		o.UserID,
		o.Status,
		addressJSON,
		o.PaymentMethod,
		o.ItemsPrice,
		o.ShippingPrice,
		o.TaxPrice,
		o.TotalPrice,
		o.IsPaid,
		o.IsDelivered,
		o.CreatedAt,
		o.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert order: %w", err)
	}

	itemQuery := `
		INSERT INTO order_items (order_id, product_id, name, quantity, price, image)
		VALUES ($1, $2, $3, $4, $5, $6)`

	for _, item := range o.Items {
		_, err = tx.Exec(ctx, itemQuery,
			o.ID,
			item.ProductID,
			item.Name,
			item.Quantity,
			item.Price,
			item.Image,
		)
		if err != nil {
			return fmt.Errorf("insert order item: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}

	return nil
}

// GetByID retrieves an order by its ID, loading its items in the same query
// via JSONB_AGG to avoid a second round trip.
func (r *OrderRepository) GetByID(ctx context.Context, id string) (*domain.Order, error) {
	query := `
		SELECT
			o.id, o.user_id, o.status, o.shipping_address, o.payment_method,
			o.items_price, o.shipping_price, o.tax_price, o.total_price,
			o.is_paid, o.paid_at, o.is_delivered, o.delivered_at,
			o.payment_result, o.created_at, o.updated_at,
			COALESCE(
				JSONB_AGG(
					JSONB_BUILD_OBJECT(
						'product_id', oi.product_id,
						'name', oi.name,
						'quantity', oi.quantity,
						'price', oi.price,
						'image', oi.image
					) ORDER BY oi.product_id
				) FILTER (WHERE oi.product_id IS NOT NULL),
				'[]'::jsonb
			) AS items
		FROM orders o
		LEFT JOIN order_items oi ON o.id = oi.order_id
		WHERE o.id = $1
		GROUP BY o.id`

	var (
		o           domain.Order
		addressJSON []byte
		resultJSON  []byte
		itemsJSON   []byte
	)

	err := r.pool.QueryRow(ctx, query, id).Scan(
		&o.ID,
		&o.UserID,
		&o.Status,
		&addressJSON,
		&o.PaymentMethod,
		&o.ItemsPrice,
		&o.ShippingPrice,
		&o.TaxPrice,
		&o.TotalPrice,
		&o.IsPaid,
		&o.PaidAt,
		&o.IsDelivered,
		&o.DeliveredAt,
		&resultJSON,
		&o.CreatedAt,
		&o.UpdatedAt,
		&itemsJSON,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("scan order: %w", err)
	}

	if err := unmarshalOrderJSON(&o, addressJSON, resultJSON, itemsJSON); err != nil {
		return nil, err
	}

	return &o, nil
}

func unmarshalOrderJSON(o *domain.Order, addressJSON, resultJSON, itemsJSON []byte) error {
	if len(addressJSON) > 0 && string(addressJSON) != "null" {
		if err := json.Unmarshal(addressJSON, &o.ShippingAddress); err != nil {
			return fmt.Errorf("unmarshal shipping address: %w", err)
		}
	}

	if len(resultJSON) > 0 && string(resultJSON) != "null" {
		var result domain.PaymentResult
		if err := json.Unmarshal(resultJSON, &result); err != nil {
			return fmt.Errorf("unmarshal payment result: %w", err)
		}
		o.PaymentResult = &result
	}

	o.Items = []domain.OrderItem{}
	if len(itemsJSON) > 0 && string(itemsJSON) != "null" && string(itemsJSON) != "[]" {
		if err := json.Unmarshal(itemsJSON, &o.Items); err != nil {
			return fmt.Errorf("unmarshal order items: %w", err)
		}
	}

	return nil
}

// List returns orders matching the given filter with the total count.
func (r *OrderRepository) List(ctx context.Context, filter repository.OrderFilter) ([]domain.Order, int, error) {
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

	if filter.Status != nil {
		conditions = append(conditions, fmt.Sprintf("status = $%d", argIndex))
		args = append(args, *filter.Status)
		argIndex++
	}

	whereClause := ""
	if len(conditions) > 0 {
		whereClause = "WHERE " + strings.Join(conditions, " AND ")
	}

	query := fmt.Sprintf(`
		SELECT id, user_id, status, shipping_address, payment_method,
		       items_price, shipping_price, tax_price, total_price,
		       is_paid, paid_at, is_delivered, delivered_at,
		       payment_result, created_at, updated_at,
		       count(*) OVER() AS total_count
		FROM orders
		%s
		ORDER BY created_at DESC
		LIMIT $%d OFFSET $%d`,
		whereClause, argIndex, argIndex+1,
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
		return nil, 0, fmt.Errorf("list orders: %w", err)
	}
	defer rows.Close()

	var totalCount int
	orders := make([]domain.Order, 0)

	for rows.Next() {
		var (
			o           domain.Order
			addressJSON []byte
			resultJSON  []byte
		)

		if err := rows.Scan(
			&o.ID,
			&o.UserID,
			&o.Status,
			&addressJSON,
			&o.PaymentMethod,
			&o.ItemsPrice,
			&o.ShippingPrice,
			&o.TaxPrice,
			&o.TotalPrice,
			&o.IsPaid,
			&o.PaidAt,
			&o.IsDelivered,
			&o.DeliveredAt,
			&resultJSON,
			&o.CreatedAt,
			&o.UpdatedAt,
			&totalCount,
		); err != nil {
			return nil, 0, fmt.Errorf("scan order row: %w", err)
		}

		if err := unmarshalOrderJSON(&o, addressJSON, resultJSON, nil); err != nil {
			return nil, 0, err
		}

		orders = append(orders, o)
	}

	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterate order rows: %w", err)
	}

	// Batch-load items for all orders in a single query to avoid N+1.
	if len(orders) > 0 {
		orderIDs := make([]string, len(orders))
		for i := range orders {
			orderIDs[i] = orders[i].ID
		}

		itemsQuery := `
			SELECT order_id, product_id, name, quantity, price, image
			FROM order_items
			WHERE order_id = ANY($1)
			ORDER BY product_id`

		itemRows, err := r.pool.Query(ctx, itemsQuery, orderIDs)
		if err != nil {
			return nil, 0, fmt.Errorf("batch load order items: %w", err)
		}
		defer itemRows.Close()

		itemsByOrderID := make(map[string][]domain.OrderItem, len(orders))
		for itemRows.Next() {
			var (
				orderID string
				item    domain.OrderItem
			)
			if err := itemRows.Scan(
				&orderID,
				&item.ProductID,
				&item.Name,
				&item.Quantity,
				&item.Price,
				&item.Image,
			); err != nil {
				return nil, 0, fmt.Errorf("scan order item: %w", err)
			}
			itemsByOrderID[orderID] = append(itemsByOrderID[orderID], item)
		}
		if err := itemRows.Err(); err != nil {
			return nil, 0, fmt.Errorf("iterate order item rows: %w", err)
		}

		for i := range orders {
			if items, ok := itemsByOrderID[orders[i].ID]; ok {
				orders[i].Items = items
			}
		}
	}

	return orders, totalCount, nil
}

// UpdateStatus changes the status of an order. The is_paid and is_delivered
// flags are deliberately untouched.
func (r *OrderRepository) UpdateStatus(ctx context.Context, id string, status string) error {
	query := `
		UPDATE orders
		SET status = $1, updated_at = $2
		WHERE id = $3`

	ct, err := r.pool.Exec(ctx, query, status, time.Now().UTC(), id)
	if err != nil {
		return fmt.Errorf("update order status: %w", err)
	}

	if ct.RowsAffected() == 0 {
		return apperrors.NotFound("order", id)
	}

	return nil
}

// MarkPaid sets is_paid, paid_at, and the payment result on an order.
func (r *OrderRepository) MarkPaid(ctx context.Context, id string, result domain.PaymentResult) error {
	resultJSON, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("marshal payment result: %w", err)
	}

	query := `
		UPDATE orders
		SET is_paid = TRUE, paid_at = $1, payment_result = $2, updated_at = $1
		WHERE id = $3`

	ct, err := r.pool.Exec(ctx, query, time.Now().UTC(), resultJSON, id)
	if err != nil {
		return fmt.Errorf("mark order paid: %w", err)
	}

	if ct.RowsAffected() == 0 {
		return apperrors.NotFound("order", id)
	}

	return nil
}

// MarkDelivered sets is_delivered, delivered_at, and the delivered status.
func (r *OrderRepository) MarkDelivered(ctx context.Context, id string) error {
	query := `
		UPDATE orders
		SET is_delivered = TRUE, delivered_at = $1, status = $2, updated_at = $1
		WHERE id = $3`

	ct, err := r.pool.Exec(ctx, query, time.Now().UTC(), domain.OrderStatusDelivered, id)
	if err != nil {
		return fmt.Errorf("mark order delivered: %w", err)
	}

	if ct.RowsAffected() == 0 {
		return apperrors.NotFound("order", id)
	}

	return nil
}

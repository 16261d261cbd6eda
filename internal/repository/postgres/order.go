package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/telemeet/telemed-api/internal/model"
	"github.com/telemeet/telemed-api/internal/repository"
)

const orderColumns = `
	id, patient_id, prescription_id, status, medicines,
	total_amount, estimated_delivery, created_at, updated_at
`

func (r *orderRepository) Create(ctx context.Context, order *model.PharmacyOrder) error {
	order.CreatedAt = time.Now()
	order.UpdatedAt = order.CreatedAt

	_, err := r.db.ExecContext(ctx, `
		INSERT INTO pharmacy_orders (`+orderColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`,
		order.ID,
		order.PatientID,
		order.PrescriptionID,
		order.Status,
		order.Medicines,
		order.TotalAmount,
		order.EstimatedDelivery,
		order.CreatedAt,
		order.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create pharmacy order: %w", err)
	}
	return nil
}

func (r *orderRepository) Get(ctx context.Context, id uuid.UUID) (*model.PharmacyOrder, error) {
	query := `SELECT ` + orderColumns + ` FROM pharmacy_orders WHERE id = $1`

	var order model.PharmacyOrder
	if err := r.db.GetContext(ctx, &order, query, id); err != nil {
		return nil, mapNoRows(err)
	}
	return &order, nil
}

func (r *orderRepository) ListForPatient(ctx context.Context, patientID uuid.UUID) ([]*model.PharmacyOrder, error) {
	query := `
		SELECT ` + orderColumns + `
		FROM pharmacy_orders
		WHERE patient_id = $1
		ORDER BY created_at DESC
	`
	var orders []*model.PharmacyOrder
	if err := r.db.SelectContext(ctx, &orders, query, patientID); err != nil {
		return nil, fmt.Errorf("failed to list pharmacy orders: %w", err)
	}
	return orders, nil
}

// AdvanceStatus moves an order one step, conditional on the status the
// caller observed so concurrent advances cannot skip states.
func (r *orderRepository) AdvanceStatus(ctx context.Context, id uuid.UUID, from, to model.OrderStatus) error {
	result, err := r.db.ExecContext(ctx, `
		UPDATE pharmacy_orders
		SET status = $1, updated_at = now()
		WHERE id = $2 AND status = $3
	`, to, id, from)
	if err != nil {
		return fmt.Errorf("failed to advance order: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		if _, getErr := r.Get(ctx, id); getErr != nil {
			return getErr
		}
		return repository.ErrStaleStatus
	}
	return nil
}

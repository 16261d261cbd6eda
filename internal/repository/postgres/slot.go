package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/telemeet/telemed-api/internal/model"
)

func (r *slotRepository) Create(ctx context.Context, slot *model.Slot) error {
	query := `
		INSERT INTO slots (id, doctor_id, slot_date, slot_time, available, critical, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	slot.ID = uuid.New()
	slot.Available = true
	slot.CreatedAt = time.Now()

	_, err := r.db.ExecContext(ctx, query,
		slot.ID,
		slot.DoctorID,
		slot.Date,
		slot.Time,
		slot.Available,
		slot.Critical,
		slot.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create slot: %w", err)
	}
	return nil
}

func (r *slotRepository) Get(ctx context.Context, id uuid.UUID) (*model.Slot, error) {
	query := `
		SELECT id, doctor_id, slot_date, slot_time, available, critical, created_at
		FROM slots
		WHERE id = $1
	`
	var slot model.Slot
	if err := r.db.GetContext(ctx, &slot, query, id); err != nil {
		return nil, mapNoRows(err)
	}
	return &slot, nil
}

func (r *slotRepository) ListAvailable(ctx context.Context, doctorID uuid.UUID) ([]*model.Slot, error) {
	query := `
		SELECT id, doctor_id, slot_date, slot_time, available, critical, created_at
		FROM slots
		WHERE doctor_id = $1 AND available = TRUE
		ORDER BY slot_date ASC, slot_time ASC
	`
	var slots []*model.Slot
	if err := r.db.SelectContext(ctx, &slots, query, doctorID); err != nil {
		return nil, fmt.Errorf("failed to list slots: %w", err)
	}
	return slots, nil
}

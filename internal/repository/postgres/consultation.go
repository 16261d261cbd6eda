package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/telemeet/telemed-api/internal/model"
	"github.com/telemeet/telemed-api/internal/repository"
)

const consultationColumns = `
	id, doctor_id, patient_id, slot_id, slot_date, slot_time,
	status, critical, meeting_link, created_at, updated_at
`

// Book reserves the slot and creates the consultation in one transaction.
// The availability flip is conditional on available = TRUE, so a slot can
// be reserved at most once even under concurrent bookings.
func (r *consultationRepository) Book(ctx context.Context, consultation *model.Consultation, event *model.OutboxEvent) error {
	return withTx(ctx, r.db, func(tx *sqlx.Tx) error {
		result, err := tx.ExecContext(ctx, `
			UPDATE slots
			SET available = FALSE, critical = $1
			WHERE id = $2 AND doctor_id = $3 AND available = TRUE
		`, consultation.Critical, consultation.SlotID, consultation.DoctorID)
		if err != nil {
			return fmt.Errorf("failed to reserve slot: %w", err)
		}

		rows, err := result.RowsAffected()
		if err != nil {
			return fmt.Errorf("failed to get rows affected: %w", err)
		}
		if rows == 0 {
			return repository.ErrSlotTaken
		}

		consultation.CreatedAt = time.Now()
		consultation.UpdatedAt = consultation.CreatedAt

		_, err = tx.ExecContext(ctx, `
			INSERT INTO consultations (`+consultationColumns+`)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		`,
			consultation.ID,
			consultation.DoctorID,
			consultation.PatientID,
			consultation.SlotID,
			consultation.Date,
			consultation.Time,
			consultation.Status,
			consultation.Critical,
			consultation.MeetingLink,
			consultation.CreatedAt,
			consultation.UpdatedAt,
		)
		if err != nil {
			return fmt.Errorf("failed to create consultation: %w", err)
		}

		return insertOutboxEvent(ctx, tx, event)
	})
}

func (r *consultationRepository) Get(ctx context.Context, id uuid.UUID) (*model.Consultation, error) {
	query := `SELECT ` + consultationColumns + ` FROM consultations WHERE id = $1`

	var consultation model.Consultation
	if err := r.db.GetContext(ctx, &consultation, query, id); err != nil {
		return nil, mapNoRows(err)
	}
	return &consultation, nil
}

func (r *consultationRepository) ListForDoctor(ctx context.Context, doctorID uuid.UUID) ([]*model.Consultation, error) {
	return r.list(ctx, "doctor_id", doctorID)
}

func (r *consultationRepository) ListForPatient(ctx context.Context, patientID uuid.UUID) ([]*model.Consultation, error) {
	return r.list(ctx, "patient_id", patientID)
}

func (r *consultationRepository) list(ctx context.Context, column string, id uuid.UUID) ([]*model.Consultation, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM consultations
		WHERE %s = $1
		ORDER BY created_at DESC
	`, consultationColumns, column)

	var consultations []*model.Consultation
	if err := r.db.SelectContext(ctx, &consultations, query, id); err != nil {
		return nil, fmt.Errorf("failed to list consultations: %w", err)
	}
	return consultations, nil
}

// UpdateStatus advances a consultation only from the expected status.
func (r *consultationRepository) UpdateStatus(ctx context.Context, id uuid.UUID, from, to model.ConsultationStatus) error {
	result, err := r.db.ExecContext(ctx, `
		UPDATE consultations
		SET status = $1, updated_at = now()
		WHERE id = $2 AND status = $3
	`, to, id, from)
	if err != nil {
		return fmt.Errorf("failed to update consultation status: %w", err)
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

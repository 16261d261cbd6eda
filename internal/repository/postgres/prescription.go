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

// Issue writes the prescription, its medicines, the consultation status
// advance and the outbox event in one transaction. The unique index on
// consultation_id guarantees at most one prescription per consultation.
func (r *prescriptionRepository) Issue(ctx context.Context, rx *model.Prescription, event *model.OutboxEvent) error {
	return withTx(ctx, r.db, func(tx *sqlx.Tx) error {
		rx.IssuedAt = time.Now()

		_, err := tx.ExecContext(ctx, `
			INSERT INTO prescriptions (id, consultation_id, doctor_id, patient_id, instructions, issued_at)
			VALUES ($1, $2, $3, $4, $5, $6)
		`,
			rx.ID,
			rx.ConsultationID,
			rx.DoctorID,
			rx.PatientID,
			rx.Instructions,
			rx.IssuedAt,
		)
		if err != nil {
			if isUniqueViolation(err, "prescriptions_consultation_key") {
				return repository.ErrAlreadyIssued
			}
			return fmt.Errorf("failed to create prescription: %w", err)
		}

		for i := range rx.Medicines {
			med := &rx.Medicines[i]
			_, err := tx.ExecContext(ctx, `
				INSERT INTO prescription_medicines (id, prescription_id, name, dosage, frequency, duration, quantity)
				VALUES ($1, $2, $3, $4, $5, $6, $7)
			`, med.ID, rx.ID, med.Name, med.Dosage, med.Frequency, med.Duration, med.Quantity)
			if err != nil {
				return fmt.Errorf("failed to create medicine: %w", err)
			}
		}

		result, err := tx.ExecContext(ctx, `
			UPDATE consultations
			SET status = $1, updated_at = now()
			WHERE id = $2 AND status = $3
		`, model.ConsultationStatusCompleted, rx.ConsultationID, model.ConsultationStatusScheduled)
		if err != nil {
			return fmt.Errorf("failed to complete consultation: %w", err)
		}

		rows, err := result.RowsAffected()
		if err != nil {
			return fmt.Errorf("failed to get rows affected: %w", err)
		}
		if rows == 0 {
			return repository.ErrStaleStatus
		}

		return insertOutboxEvent(ctx, tx, event)
	})
}

func (r *prescriptionRepository) Get(ctx context.Context, id uuid.UUID) (*model.Prescription, error) {
	query := `
		SELECT id, consultation_id, doctor_id, patient_id, instructions, issued_at
		FROM prescriptions
		WHERE id = $1
	`
	var rx model.Prescription
	if err := r.db.GetContext(ctx, &rx, query, id); err != nil {
		return nil, mapNoRows(err)
	}

	if err := r.attachMedicines(ctx, &rx); err != nil {
		return nil, err
	}
	return &rx, nil
}

func (r *prescriptionRepository) ListForPatient(ctx context.Context, patientID uuid.UUID) ([]*model.Prescription, error) {
	query := `
		SELECT id, consultation_id, doctor_id, patient_id, instructions, issued_at
		FROM prescriptions
		WHERE patient_id = $1
		ORDER BY issued_at DESC
	`
	var prescriptions []*model.Prescription
	if err := r.db.SelectContext(ctx, &prescriptions, query, patientID); err != nil {
		return nil, fmt.Errorf("failed to list prescriptions: %w", err)
	}

	for _, rx := range prescriptions {
		if err := r.attachMedicines(ctx, rx); err != nil {
			return nil, err
		}
	}
	return prescriptions, nil
}

func (r *prescriptionRepository) attachMedicines(ctx context.Context, rx *model.Prescription) error {
	query := `
		SELECT id, name, dosage, frequency, duration, quantity
		FROM prescription_medicines
		WHERE prescription_id = $1
		ORDER BY name ASC
	`
	if err := r.db.SelectContext(ctx, &rx.Medicines, query, rx.ID); err != nil {
		return fmt.Errorf("failed to load medicines: %w", err)
	}
	return nil
}

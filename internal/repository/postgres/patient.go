package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/telemeet/telemed-api/internal/model"
	"github.com/telemeet/telemed-api/internal/repository"
)

const patientColumns = `
	u.id, u.name, u.email, u.created_at,
	p.age, p.gender, p.phone
`

func (r *patientRepository) Get(ctx context.Context, id uuid.UUID) (*model.Patient, error) {
	query := `
		SELECT ` + patientColumns + `
		FROM users u
		JOIN patients p ON p.user_id = u.id
		WHERE u.id = $1
	`
	var patient model.Patient
	if err := r.db.GetContext(ctx, &patient, query, id); err != nil {
		return nil, mapNoRows(err)
	}
	return &patient, nil
}

func (r *patientRepository) List(ctx context.Context) ([]*model.Patient, error) {
	query := `
		SELECT ` + patientColumns + `
		FROM users u
		JOIN patients p ON p.user_id = u.id
		ORDER BY u.created_at DESC
	`
	var patients []*model.Patient
	if err := r.db.SelectContext(ctx, &patients, query); err != nil {
		return nil, fmt.Errorf("failed to list patients: %w", err)
	}
	return patients, nil
}

// Update applies partial updates with COALESCE semantics; nil fields keep
// their stored values. The user and profile rows change in one transaction.
func (r *patientRepository) Update(ctx context.Context, id uuid.UUID, req *model.UpdatePatientRequest) (*model.Patient, error) {
	err := withTx(ctx, r.db, func(tx *sqlx.Tx) error {
		result, err := tx.ExecContext(ctx, `
			UPDATE users
			SET name = COALESCE($1, name), email = COALESCE($2, email), updated_at = now()
			WHERE id = $3 AND role = 'patient'
		`, req.Name, req.Email, id)
		if err != nil {
			if isUniqueViolation(err, "users_email_key") {
				return repository.ErrDuplicateEmail
			}
			return fmt.Errorf("failed to update user: %w", err)
		}

		rows, err := result.RowsAffected()
		if err != nil {
			return fmt.Errorf("failed to get rows affected: %w", err)
		}
		if rows == 0 {
			return repository.ErrNotFound
		}

		_, err = tx.ExecContext(ctx, `
			UPDATE patients
			SET age = COALESCE($1, age), gender = COALESCE($2, gender), phone = COALESCE($3, phone)
			WHERE user_id = $4
		`, req.Age, req.Gender, req.Phone, id)
		if err != nil {
			return fmt.Errorf("failed to update patient profile: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return r.Get(ctx, id)
}

// Delete removes the identity row; the profile and consultations go with
// it via ON DELETE CASCADE.
func (r *patientRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM users WHERE id = $1 AND role = 'patient'`, id)
	if err != nil {
		return fmt.Errorf("failed to delete patient: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return repository.ErrNotFound
	}
	return nil
}

package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/telemeet/telemed-api/internal/model"
	"github.com/telemeet/telemed-api/internal/repository"
)

func (r *userRepository) RegisterDoctor(ctx context.Context, user *model.User, doctor *model.Doctor) error {
	return withTx(ctx, r.db, func(tx *sqlx.Tx) error {
		if err := insertUser(ctx, tx, user); err != nil {
			return err
		}

		query := `
			INSERT INTO doctors (user_id, specialty, experience, languages, price, rating)
			VALUES ($1, $2, $3, $4, $5, $6)
		`
		_, err := tx.ExecContext(ctx, query,
			user.ID,
			doctor.Specialty,
			doctor.Experience,
			doctor.Languages,
			doctor.Price,
			doctor.Rating,
		)
		if err != nil {
			return fmt.Errorf("failed to create doctor profile: %w", err)
		}
		return nil
	})
}

func (r *userRepository) RegisterPatient(ctx context.Context, user *model.User, patient *model.Patient) error {
	return withTx(ctx, r.db, func(tx *sqlx.Tx) error {
		if err := insertUser(ctx, tx, user); err != nil {
			return err
		}

		query := `
			INSERT INTO patients (user_id, age, gender, phone)
			VALUES ($1, $2, $3, $4)
		`
		_, err := tx.ExecContext(ctx, query,
			user.ID,
			patient.Age,
			patient.Gender,
			patient.Phone,
		)
		if err != nil {
			return fmt.Errorf("failed to create patient profile: %w", err)
		}
		return nil
	})
}

func insertUser(ctx context.Context, tx *sqlx.Tx, user *model.User) error {
	query := `
		INSERT INTO users (id, name, email, password_hash, role, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	user.CreatedAt = time.Now()
	user.UpdatedAt = user.CreatedAt

	_, err := tx.ExecContext(ctx, query,
		user.ID,
		user.Name,
		user.Email,
		user.PasswordHash,
		user.Role,
		user.CreatedAt,
		user.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err, "users_email_key") {
			return repository.ErrDuplicateEmail
		}
		return fmt.Errorf("failed to create user: %w", err)
	}
	return nil
}

func (r *userRepository) GetByEmail(ctx context.Context, email, role string) (*model.User, error) {
	query := `
		SELECT id, name, email, password_hash, role, created_at, updated_at
		FROM users
		WHERE email = $1 AND role = $2
	`
	var user model.User
	if err := r.db.GetContext(ctx, &user, query, email, role); err != nil {
		return nil, mapNoRows(err)
	}
	return &user, nil
}

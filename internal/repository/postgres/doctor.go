package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/telemeet/telemed-api/internal/model"
)

const doctorColumns = `
	u.id, u.name, u.email, u.created_at,
	d.specialty, d.experience, d.languages, d.price, d.rating
`

func (r *doctorRepository) Get(ctx context.Context, id uuid.UUID) (*model.Doctor, error) {
	query := `
		SELECT ` + doctorColumns + `
		FROM users u
		JOIN doctors d ON d.user_id = u.id
		WHERE u.id = $1
	`
	var doctor model.Doctor
	if err := r.db.GetContext(ctx, &doctor, query, id); err != nil {
		return nil, mapNoRows(err)
	}
	return &doctor, nil
}

// List returns the directory most-recently-registered first.
func (r *doctorRepository) List(ctx context.Context) ([]*model.Doctor, error) {
	query := `
		SELECT ` + doctorColumns + `
		FROM users u
		JOIN doctors d ON d.user_id = u.id
		ORDER BY u.created_at DESC
	`
	var doctors []*model.Doctor
	if err := r.db.SelectContext(ctx, &doctors, query); err != nil {
		return nil, fmt.Errorf("failed to list doctors: %w", err)
	}
	return doctors, nil
}

package model

import (
	"time"

	"github.com/google/uuid"

	"github.com/telemeet/telemed-api/pkg/errors"
)

type OrderStatus string

const (
	OrderStatusPending        OrderStatus = "pending"
	OrderStatusConfirmed      OrderStatus = "confirmed"
	OrderStatusPreparing      OrderStatus = "preparing"
	OrderStatusOutForDelivery OrderStatus = "out_for_delivery"
	OrderStatusDelivered      OrderStatus = "delivered"
)

// orderTransitions is the total transition function for the fulfillment
// chain. delivered has no successor.
var orderTransitions = map[OrderStatus]OrderStatus{
	OrderStatusPending:        OrderStatusConfirmed,
	OrderStatusConfirmed:      OrderStatusPreparing,
	OrderStatusPreparing:      OrderStatusOutForDelivery,
	OrderStatusOutForDelivery: OrderStatusDelivered,
}

// NextOrderStatus returns the successor status, rejecting advances past
// delivered and unknown statuses.
func NextOrderStatus(current OrderStatus) (OrderStatus, error) {
	next, ok := orderTransitions[current]
	if !ok {
		if current == OrderStatusDelivered {
			return "", errors.Conflict("order already delivered")
		}
		return "", errors.Conflict("unknown order status " + string(current))
	}
	return next, nil
}

// PharmacyOrder is a fulfillment record derived from a prescription. The
// medicine list is copied by value at creation time.
type PharmacyOrder struct {
	ID                uuid.UUID    `json:"id" db:"id"`
	PatientID         uuid.UUID    `json:"patient_id" db:"patient_id"`
	PrescriptionID    uuid.UUID    `json:"prescription_id" db:"prescription_id"`
	Status            OrderStatus  `json:"status" db:"status"`
	Medicines         MedicineList `json:"medicines" db:"medicines"`
	TotalAmount       float64      `json:"total_amount" db:"total_amount"`
	EstimatedDelivery time.Time    `json:"estimated_delivery" db:"estimated_delivery"`
	CreatedAt         time.Time    `json:"created_at" db:"created_at"`
	UpdatedAt         time.Time    `json:"updated_at" db:"updated_at"`
}

type CreateOrderRequest struct {
	PrescriptionID uuid.UUID `json:"prescription_id" binding:"required"`
}

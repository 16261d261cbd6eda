package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/telemeet/telemed-api/pkg/errors"
)

func TestNextOrderStatusChain(t *testing.T) {
	want := []OrderStatus{
		OrderStatusConfirmed,
		OrderStatusPreparing,
		OrderStatusOutForDelivery,
		OrderStatusDelivered,
	}

	current := OrderStatusPending
	for _, expected := range want {
		next, err := NextOrderStatus(current)
		require.NoError(t, err)
		assert.Equal(t, expected, next)
		current = next
	}
}

func TestNextOrderStatusRejectsDelivered(t *testing.T) {
	_, err := NextOrderStatus(OrderStatusDelivered)
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.CodeConflict))
}

func TestNextOrderStatusRejectsUnknown(t *testing.T) {
	_, err := NextOrderStatus(OrderStatus("bogus"))
	assert.Error(t, err)
}

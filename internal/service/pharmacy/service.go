package pharmacy

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/telemeet/telemed-api/internal/config"
	"github.com/telemeet/telemed-api/internal/model"
	"github.com/telemeet/telemed-api/internal/repository"
	apperrors "github.com/telemeet/telemed-api/pkg/errors"
	"github.com/telemeet/telemed-api/pkg/logger"
	"github.com/telemeet/telemed-api/pkg/metrics"
)

// Snapshots is the per-patient offline copy of pharmacy orders.
type Snapshots interface {
	StoreOrders(ctx context.Context, patientID uuid.UUID, orders []*model.PharmacyOrder) error
	GetOrders(ctx context.Context, patientID uuid.UUID) ([]*model.PharmacyOrder, error)
}

type Service struct {
	orderRepo  repository.OrderRepository
	rxRepo     repository.PrescriptionRepository
	outboxRepo repository.OutboxRepository
	snapshots  Snapshots
	cfg        config.PharmacyConfig
	logger     *logger.Logger
	metrics    *metrics.Metrics
}

func NewService(
	orderRepo repository.OrderRepository,
	rxRepo repository.PrescriptionRepository,
	outboxRepo repository.OutboxRepository,
	snapshots Snapshots,
	cfg config.PharmacyConfig,
	log *logger.Logger,
	m *metrics.Metrics,
) *Service {
	if cfg.UnitPrice <= 0 {
		cfg.UnitPrice = 2.50
	}
	if cfg.DeliveryLead <= 0 {
		cfg.DeliveryLead = 48 * time.Hour
	}
	return &Service{
		orderRepo:  orderRepo,
		rxRepo:     rxRepo,
		outboxRepo: outboxRepo,
		snapshots:  snapshots,
		cfg:        cfg,
		logger:     log,
		metrics:    m,
	}
}

// Create places a pending order for a prescription. The medicine list is
// copied by value, the total is quantity times the flat unit price summed
// over the lines, and the delivery estimate is the configured lead time
// from now.
func (s *Service) Create(ctx context.Context, patientID uuid.UUID, req *model.CreateOrderRequest) (*model.PharmacyOrder, error) {
	rx, err := s.rxRepo.Get(ctx, req.PrescriptionID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.NotFound("prescription")
		}
		return nil, fmt.Errorf("failed to get prescription: %w", err)
	}
	if rx.PatientID != patientID {
		return nil, apperrors.NotFound("prescription")
	}

	medicines := make(model.MedicineList, len(rx.Medicines))
	copy(medicines, rx.Medicines)

	var total float64
	for _, m := range medicines {
		total += float64(m.Quantity) * s.cfg.UnitPrice
	}

	order := &model.PharmacyOrder{
		ID:                uuid.New(),
		PatientID:         patientID,
		PrescriptionID:    rx.ID,
		Status:            model.OrderStatusPending,
		Medicines:         medicines,
		TotalAmount:       total,
		EstimatedDelivery: time.Now().Add(s.cfg.DeliveryLead),
	}

	if err := s.orderRepo.Create(ctx, order); err != nil {
		return nil, fmt.Errorf("failed to create order: %w", err)
	}
	s.refreshSnapshot(ctx, patientID)

	return order, nil
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*model.PharmacyOrder, error) {
	order, err := s.orderRepo.Get(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.NotFound("order")
		}
		return nil, fmt.Errorf("failed to get order: %w", err)
	}
	return order, nil
}

// ListForPatient mirrors the prescription listing: primary store first,
// snapshot fallback when it is unreachable.
func (s *Service) ListForPatient(ctx context.Context, patientID uuid.UUID) ([]*model.PharmacyOrder, error) {
	orders, err := s.orderRepo.ListForPatient(ctx, patientID)
	if err != nil {
		if s.snapshots != nil {
			cached, cacheErr := s.snapshots.GetOrders(ctx, patientID)
			if cacheErr == nil && cached != nil {
				if s.metrics != nil {
					s.metrics.SnapshotFallback.WithLabelValues("orders").Inc()
				}
				s.logger.Warn("serving orders from snapshot", "patient_id", patientID)
				return cached, nil
			}
		}
		return nil, fmt.Errorf("failed to list orders: %w", err)
	}

	if s.snapshots != nil {
		if err := s.snapshots.StoreOrders(ctx, patientID, orders); err != nil {
			s.logger.Error(err, "failed to refresh order snapshot", "patient_id", patientID)
		}
	}
	return orders, nil
}

// Advance moves the order one step along the fulfillment chain. Delivered
// orders have no successor and advancing one is a conflict. The update is
// conditional on the status the caller observed, so concurrent advances
// cannot skip a step.
func (s *Service) Advance(ctx context.Context, id uuid.UUID) (*model.PharmacyOrder, error) {
	order, err := s.orderRepo.Get(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.NotFound("order")
		}
		return nil, fmt.Errorf("failed to get order: %w", err)
	}

	next, err := model.NextOrderStatus(order.Status)
	if err != nil {
		return nil, err
	}

	if err := s.orderRepo.AdvanceStatus(ctx, id, order.Status, next); err != nil {
		if errors.Is(err, repository.ErrStaleStatus) {
			return nil, apperrors.Conflict("order status changed")
		}
		return nil, fmt.Errorf("failed to advance order: %w", err)
	}
	order.Status = next

	if s.metrics != nil {
		s.metrics.OrdersAdvanced.WithLabelValues(string(next)).Inc()
	}
	if event, err := model.NewOutboxEvent(model.EventOrderAdvanced, order); err == nil {
		if err := s.outboxRepo.Create(ctx, event); err != nil {
			s.logger.Error(err, "failed to record order event", "order_id", id)
		}
	}
	s.refreshSnapshot(ctx, order.PatientID)

	return order, nil
}

func (s *Service) refreshSnapshot(ctx context.Context, patientID uuid.UUID) {
	if s.snapshots == nil {
		return
	}
	orders, err := s.orderRepo.ListForPatient(ctx, patientID)
	if err != nil {
		return
	}
	if err := s.snapshots.StoreOrders(ctx, patientID, orders); err != nil {
		s.logger.Error(err, "failed to refresh order snapshot", "patient_id", patientID)
	}
}

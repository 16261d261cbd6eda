package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/telemeet/telemed-api/internal/model"
)

// Fixed snapshot keys, one namespace per record kind plus a shared
// last-sync marker.
const (
	prescriptionsKeyPrefix = "telemed:prescriptions:"
	ordersKeyPrefix        = "telemed:orders:"
	lastSyncKeyPrefix      = "telemed:last_sync:"

	snapshotTTL = 7 * 24 * time.Hour
)

// SnapshotStore keeps per-patient copies of prescriptions and pharmacy
// orders so reads can be served when the primary store is unreachable.
// It is a display fallback only: there is no write-back or merge.
type SnapshotStore struct {
	client *redis.Client
}

func NewSnapshotStore(client *redis.Client) *SnapshotStore {
	return &SnapshotStore{client: client}
}

func (s *SnapshotStore) StorePrescriptions(ctx context.Context, patientID uuid.UUID, prescriptions []*model.Prescription) error {
	return s.store(ctx, prescriptionsKeyPrefix, patientID, prescriptions)
}

func (s *SnapshotStore) GetPrescriptions(ctx context.Context, patientID uuid.UUID) ([]*model.Prescription, error) {
	var prescriptions []*model.Prescription
	if err := s.load(ctx, prescriptionsKeyPrefix, patientID, &prescriptions); err != nil {
		return nil, err
	}
	return prescriptions, nil
}

func (s *SnapshotStore) StoreOrders(ctx context.Context, patientID uuid.UUID, orders []*model.PharmacyOrder) error {
	return s.store(ctx, ordersKeyPrefix, patientID, orders)
}

func (s *SnapshotStore) GetOrders(ctx context.Context, patientID uuid.UUID) ([]*model.PharmacyOrder, error) {
	var orders []*model.PharmacyOrder
	if err := s.load(ctx, ordersKeyPrefix, patientID, &orders); err != nil {
		return nil, err
	}
	return orders, nil
}

func (s *SnapshotStore) LastSync(ctx context.Context, patientID uuid.UUID) (time.Time, error) {
	raw, err := s.client.Get(ctx, lastSyncKeyPrefix+patientID.String()).Result()
	if err != nil {
		if err == redis.Nil {
			return time.Time{}, nil
		}
		return time.Time{}, fmt.Errorf("failed to read last sync: %w", err)
	}
	return time.Parse(time.RFC3339, raw)
}

func (s *SnapshotStore) store(ctx context.Context, prefix string, patientID uuid.UUID, value interface{}) error {
	payload, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to marshal snapshot: %w", err)
	}

	pipe := s.client.Pipeline()
	pipe.Set(ctx, prefix+patientID.String(), payload, snapshotTTL)
	pipe.Set(ctx, lastSyncKeyPrefix+patientID.String(), time.Now().Format(time.RFC3339), snapshotTTL)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to store snapshot: %w", err)
	}
	return nil
}

func (s *SnapshotStore) load(ctx context.Context, prefix string, patientID uuid.UUID, dst interface{}) error {
	raw, err := s.client.Get(ctx, prefix+patientID.String()).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil
		}
		return fmt.Errorf("failed to read snapshot: %w", err)
	}
	return json.Unmarshal(raw, dst)
}

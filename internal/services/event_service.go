// internal/services/event_service.go
package services

import (
	"fmt"
	"sync"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/Dr-Xcristy/GeneVault/internal/models"
	"github.com/Dr-Xcristy/GeneVault/internal/registry"
	"github.com/Dr-Xcristy/GeneVault/internal/utils"
)

// EventService persists committed registry events as a hash-chained journal
// for external indexers and serves event queries. It implements
// registry.EventSink; persistence failures are logged, never surfaced to the
// originating operation, since the registry state is already committed.
type EventService struct {
	db *gorm.DB

	mu           sync.Mutex
	lastHash     string
	lastSequence uint64
}

func NewEventService(db *gorm.DB) *EventService {
	service := &EventService{db: db}

	// Resume the hash chain from the newest persisted record.
	var last models.RegistryEvent
	if err := db.Order("sequence DESC").First(&last).Error; err == nil {
		service.lastHash = last.RecordHash
		service.lastSequence = last.Sequence
	}

	return service
}

// Checkpoint reports the journal position a restarted registry must resume
// from: the last persisted sequence number and the highest minted asset id.
// Feeding these into Registry.Restore keeps the sequence unique index intact
// across restarts.
func (s *EventService) Checkpoint() (lastSequence, lastAssetID uint64) {
	s.mu.Lock()
	lastSequence = s.lastSequence
	s.mu.Unlock()

	s.db.Model(&models.RegistryEvent{}).
		Where("kind = ?", string(registry.EventMinted)).
		Select("COALESCE(MAX(asset_id), 0)").
		Scan(&lastAssetID)
	return lastSequence, lastAssetID
}

var _ registry.EventSink = (*EventService)(nil)

func (s *EventService) Emit(event registry.Event) {
	s.mu.Lock()
	defer s.mu.Unlock()

	parties := []string{event.Actor.String()}
	if event.Party != nil {
		parties = append(parties, event.Party.String())
	}

	record := &models.RegistryEvent{
		Sequence: event.Sequence,
		Kind:     string(event.Kind),
		AssetID:  uint64(event.AssetID),
		Actor:    event.Actor,
		Party:    event.Party,
		Amount:   event.Amount,
		Parties:  parties,
		PrevHash: s.lastHash,
	}
	record.RecordHash = utils.HashString(fmt.Sprintf(
		"%d|%s|%d|%s|%d|%s",
		record.Sequence, record.Kind, record.AssetID, record.Actor, record.Amount, record.PrevHash,
	))

	if err := s.db.Create(record).Error; err != nil {
		logrus.WithError(err).WithFields(logrus.Fields{
			"sequence": event.Sequence,
			"kind":     event.Kind,
			"asset_id": event.AssetID,
		}).Error("Failed to persist registry event")
		return
	}

	s.lastHash = record.RecordHash
	s.lastSequence = record.Sequence
}

func (s *EventService) ListEvents(params utils.PaginationParams) ([]models.RegistryEvent, int64, error) {
	query := s.db.Model(&models.RegistryEvent{})
	if params.Kind != "" {
		query = query.Where("kind = ?", params.Kind)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count events: %w", err)
	}

	allowedSortFields := []string{"sequence", "created_at", "asset_id"}
	query = utils.ApplySort(query, params, allowedSortFields)
	query = utils.ApplyPagination(query, params)

	var events []models.RegistryEvent
	if err := query.Find(&events).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to fetch events: %w", err)
	}

	return events, total, nil
}

func (s *EventService) ListAssetEvents(assetID uint64, params utils.PaginationParams) ([]models.RegistryEvent, int64, error) {
	query := s.db.Model(&models.RegistryEvent{}).Where("asset_id = ?", assetID)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count asset events: %w", err)
	}

	query = utils.ApplySort(query, params, []string{"sequence", "created_at"})
	query = utils.ApplyPagination(query, params)

	var events []models.RegistryEvent
	if err := query.Find(&events).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to fetch asset events: %w", err)
	}

	return events, total, nil
}

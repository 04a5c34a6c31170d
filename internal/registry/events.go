// internal/registry/events.go
package registry

import (
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

type EventKind string

const (
	EventMinted          EventKind = "asset_minted"
	EventTransferred     EventKind = "asset_transferred"
	EventMetadataFrozen  EventKind = "metadata_frozen"
	EventListed          EventKind = "license_listed"
	EventDelisted        EventKind = "license_delisted"
	EventLicenseExecuted EventKind = "license_executed"
	EventRoyaltyPaid     EventKind = "royalty_paid"
	EventLicenseRevoked  EventKind = "license_revoked"
)

// Event is the structured record emitted exactly once per successful mutating
// operation, intended for external indexers.
type Event struct {
	Sequence uint64     `json:"sequence"`
	Kind     EventKind  `json:"kind"`
	AssetID  AssetID    `json:"asset_id"`
	Actor    uuid.UUID  `json:"actor"`
	Party    *uuid.UUID `json:"party,omitempty"`
	Amount   int64      `json:"amount,omitempty"`
}

// EventSink receives committed events. Sinks must not fail the originating
// operation; the registry calls Emit only after state has been committed.
type EventSink interface {
	Emit(event Event)
}

// MultiSink fans one event out to several sinks in order.
type MultiSink []EventSink

func (m MultiSink) Emit(event Event) {
	for _, sink := range m {
		sink.Emit(event)
	}
}

// LogSink writes each event as a structured log line.
type LogSink struct {
	Logger *logrus.Logger
}

func (s *LogSink) Emit(event Event) {
	logger := s.Logger
	if logger == nil {
		logger = logrus.StandardLogger()
	}

	fields := logrus.Fields{
		"sequence": event.Sequence,
		"kind":     event.Kind,
		"asset_id": event.AssetID,
		"actor":    event.Actor,
	}
	if event.Party != nil {
		fields["party"] = *event.Party
	}
	if event.Amount > 0 {
		fields["amount"] = event.Amount
	}

	logger.WithFields(fields).Info("Registry event emitted")
}

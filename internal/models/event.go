// internal/models/event.go
package models

import (
	"github.com/google/uuid"
	"github.com/lib/pq"
)

// RegistryEvent is the journal row written once per successful registry
// operation, consumed by external indexers. Each row links to the previous
// one through PrevHash/RecordHash, so an indexer can detect gaps or
// tampering.
type RegistryEvent struct {
	BaseModel
	Sequence   uint64         `json:"sequence" gorm:"uniqueIndex;not null"`
	Kind       string         `json:"kind" gorm:"size:50;not null;index"`
	AssetID    uint64         `json:"asset_id" gorm:"not null;index"`
	Actor      uuid.UUID      `json:"actor" gorm:"type:uuid;not null;index"`
	Party      *uuid.UUID     `json:"party,omitempty" gorm:"type:uuid"`
	Amount     int64          `json:"amount,omitempty"`
	Parties    pq.StringArray `json:"parties" gorm:"type:text[]"`
	PrevHash   string         `json:"prev_hash" gorm:"size:66"`
	RecordHash string         `json:"record_hash" gorm:"size:66;uniqueIndex"`
}

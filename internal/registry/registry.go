// internal/registry/registry.go
package registry

import (
	"fmt"
	"strings"
	"sync"

	"github.com/google/uuid"
)

// AssetID identifies a minted asset. IDs are assigned sequentially starting
// at 1 and never reused.
type AssetID uint64

// Asset is a uniquely owned record representing a piece of intellectual
// property. Only the registry mutates it.
type Asset struct {
	Owner          uuid.UUID `json:"owner"`
	Name           string    `json:"name"`
	Description    string    `json:"description"`
	MetadataHash   string    `json:"metadata_hash"`
	MetadataFrozen bool      `json:"metadata_frozen"`
}

// Listing is an owner's open offer to grant a license. At most one listing
// exists per asset; the licensor is captured at listing time.
type Listing struct {
	Licensor       uuid.UUID `json:"licensor"`
	Fee            int64     `json:"fee"`
	RoyaltyPercent uint8     `json:"royalty_percent"`
	Active         bool      `json:"active"`
}

// LicenseKey is the composite key for a license: one licensee per asset.
type LicenseKey struct {
	AssetID  AssetID
	Licensee uuid.UUID
}

// License is the binding relationship created by executing a listing.
// RoyaltiesPaid only ever increases.
type License struct {
	Start         uint64 `json:"start"`
	RoyaltiesPaid int64  `json:"royalties_paid"`
	Active        bool   `json:"active"`
}

// Bank is the atomic value-transfer primitive. Pay either moves the full
// amount from one party to another or fails without effect; the registry
// treats a failure as fail-fast and non-retryable within the same call.
type Bank interface {
	Pay(from, to uuid.UUID, amount int64) error
}

const metadataHashLen = 64 // hex-encoded sha256

// Registry holds the authoritative asset-ownership and licensing state.
// Operations execute strictly sequentially under one mutex: validation
// completes before any mutation, the single Bank transfer happens between
// validation and the commit, and a rejected transfer aborts the whole
// operation with no observable state change.
type Registry struct {
	mu       sync.Mutex
	admin    uuid.UUID
	bank     Bank
	sink     EventSink
	assets   map[AssetID]*Asset
	listings map[AssetID]*Listing
	licenses map[LicenseKey]*License
	lastID   AssetID
	sequence uint64

	metadataBaseURI string
}

func New(admin uuid.UUID, bank Bank, sink EventSink, metadataBaseURI string) *Registry {
	return &Registry{
		admin:           admin,
		bank:            bank,
		sink:            sink,
		assets:          make(map[AssetID]*Asset),
		listings:        make(map[AssetID]*Listing),
		licenses:        make(map[LicenseKey]*License),
		metadataBaseURI: metadataBaseURI,
	}
}

// Mint creates a new asset owned by recipient. Only the designated registry
// administrator may mint.
func (r *Registry) Mint(caller, recipient uuid.UUID, name, description, metadataHash string) (AssetID, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if caller != r.admin {
		return 0, fmt.Errorf("mint: %w", ErrNotAuthorized)
	}
	if recipient == uuid.Nil {
		return 0, fmt.Errorf("mint: recipient: %w", ErrInvalidInput)
	}
	if strings.TrimSpace(name) == "" || strings.TrimSpace(description) == "" {
		return 0, fmt.Errorf("mint: %w", ErrInvalidInput)
	}
	if !validMetadataHash(metadataHash) {
		return 0, fmt.Errorf("mint: metadata hash: %w", ErrInvalidInput)
	}

	r.lastID++
	id := r.lastID
	r.assets[id] = &Asset{
		Owner:        recipient,
		Name:         name,
		Description:  description,
		MetadataHash: strings.ToLower(metadataHash),
	}

	r.emit(Event{Kind: EventMinted, AssetID: id, Actor: caller, Party: &recipient})
	return id, nil
}

// Transfer moves ownership from `from` to `to`. The caller must be `from`
// itself; delegated approvals are not supported.
func (r *Registry) Transfer(caller uuid.UUID, assetID AssetID, from, to uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	asset, ok := r.assets[assetID]
	if !ok {
		return fmt.Errorf("transfer: %w", ErrNotFound)
	}
	if caller != from || to == from || to == uuid.Nil {
		return fmt.Errorf("transfer: %w", ErrNotAuthorized)
	}
	if asset.Owner != from {
		return fmt.Errorf("transfer: %w", ErrNotOwner)
	}

	asset.Owner = to

	r.emit(Event{Kind: EventTransferred, AssetID: assetID, Actor: from, Party: &to})
	return nil
}

// FreezeMetadata permanently marks the asset's metadata as immutable.
func (r *Registry) FreezeMetadata(caller uuid.UUID, assetID AssetID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	asset, ok := r.assets[assetID]
	if !ok {
		return fmt.Errorf("freeze metadata: %w", ErrNotFound)
	}
	if asset.Owner != caller {
		return fmt.Errorf("freeze metadata: %w", ErrNotOwner)
	}
	if asset.MetadataFrozen {
		return fmt.Errorf("freeze metadata: %w", ErrMetadataFrozen)
	}

	asset.MetadataFrozen = true

	r.emit(Event{Kind: EventMetadataFrozen, AssetID: assetID, Actor: caller})
	return nil
}

// List creates or replaces the license offer for an asset. The caller is
// captured as licensor so the execution fee routes to the owner at listing
// time even if the asset changes hands before execution.
func (r *Registry) List(caller uuid.UUID, assetID AssetID, fee int64, royaltyPercent uint8) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	asset, ok := r.assets[assetID]
	if !ok {
		return fmt.Errorf("list: %w", ErrNotFound)
	}
	if asset.Owner != caller {
		return fmt.Errorf("list: %w", ErrNotOwner)
	}
	if fee <= 0 {
		return fmt.Errorf("list: fee: %w", ErrZeroAmount)
	}
	if royaltyPercent > 100 {
		return fmt.Errorf("list: %w", ErrInvalidRoyalty)
	}

	r.listings[assetID] = &Listing{
		Licensor:       caller,
		Fee:            fee,
		RoyaltyPercent: royaltyPercent,
		Active:         true,
	}

	r.emit(Event{Kind: EventListed, AssetID: assetID, Actor: caller, Amount: fee})
	return nil
}

// Delist removes the asset's listing. Delisting an asset with no listing is
// an error, never a silent success.
func (r *Registry) Delist(caller uuid.UUID, assetID AssetID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	asset, ok := r.assets[assetID]
	if !ok {
		return fmt.Errorf("delist: %w", ErrNotFound)
	}
	if asset.Owner != caller {
		return fmt.Errorf("delist: %w", ErrNotOwner)
	}
	if _, ok := r.listings[assetID]; !ok {
		return fmt.Errorf("delist: %w", ErrListingNotFound)
	}

	delete(r.listings, assetID)

	r.emit(Event{Kind: EventDelisted, AssetID: assetID, Actor: caller})
	return nil
}

// Settlement reports who was paid, and how much, by a successful Execute.
type Settlement struct {
	Licensor uuid.UUID
	Fee      int64
}

// Execute converts the asset's open listing into a binding license for the
// caller. The license fee is paid to the listing-time licensor; the listing
// is removed on success, enforcing at most one active license per asset.
// The returned settlement reflects the listing actually consumed.
func (r *Registry) Execute(caller uuid.UUID, assetID AssetID) (Settlement, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	listing, ok := r.listings[assetID]
	if !ok || !listing.Active {
		return Settlement{}, fmt.Errorf("execute: %w", ErrListingNotFound)
	}
	key := LicenseKey{AssetID: assetID, Licensee: caller}
	if existing, ok := r.licenses[key]; ok && existing.Active {
		return Settlement{}, fmt.Errorf("execute: %w", ErrAlreadyLicensed)
	}
	if caller == listing.Licensor {
		return Settlement{}, fmt.Errorf("execute: licensor cannot self-license: %w", ErrNotAuthorized)
	}

	if err := r.bank.Pay(caller, listing.Licensor, listing.Fee); err != nil {
		return Settlement{}, fmt.Errorf("execute: %w: %v", ErrIncorrectPayment, err)
	}

	r.sequence++
	r.licenses[key] = &License{
		Start:  r.sequence,
		Active: true,
	}
	licensor := listing.Licensor
	fee := listing.Fee
	delete(r.listings, assetID)

	r.emitAt(r.sequence, Event{Kind: EventLicenseExecuted, AssetID: assetID, Actor: caller, Party: &licensor, Amount: fee})
	return Settlement{Licensor: licensor, Fee: fee}, nil
}

// PayRoyalty transfers a voluntary royalty from the licensee to the asset's
// current owner, looked up at payment time, and bumps the accumulator.
func (r *Registry) PayRoyalty(caller uuid.UUID, assetID AssetID, amount int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if amount <= 0 {
		return fmt.Errorf("pay royalty: %w", ErrZeroAmount)
	}
	asset, ok := r.assets[assetID]
	if !ok {
		return fmt.Errorf("pay royalty: %w", ErrNotFound)
	}
	key := LicenseKey{AssetID: assetID, Licensee: caller}
	license, ok := r.licenses[key]
	if !ok || !license.Active {
		return fmt.Errorf("pay royalty: %w", ErrLicenseInactive)
	}

	owner := asset.Owner
	if err := r.bank.Pay(caller, owner, amount); err != nil {
		return fmt.Errorf("pay royalty: %w: %v", ErrIncorrectPayment, err)
	}

	license.RoyaltiesPaid += amount

	r.emit(Event{Kind: EventRoyaltyPaid, AssetID: assetID, Actor: caller, Party: &owner, Amount: amount})
	return nil
}

// Revoke deactivates the license held by licensee. Owner-only; no value moves.
func (r *Registry) Revoke(caller uuid.UUID, assetID AssetID, licensee uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	asset, ok := r.assets[assetID]
	if !ok {
		return fmt.Errorf("revoke: %w", ErrNotFound)
	}
	if asset.Owner != caller {
		return fmt.Errorf("revoke: %w", ErrNotOwner)
	}
	key := LicenseKey{AssetID: assetID, Licensee: licensee}
	license, ok := r.licenses[key]
	if !ok || !license.Active {
		return fmt.Errorf("revoke: %w", ErrLicenseInactive)
	}

	license.Active = false

	r.emit(Event{Kind: EventLicenseRevoked, AssetID: assetID, Actor: caller, Party: &licensee})
	return nil
}

// Restore advances the id and sequence counters to a previously journaled
// position so a restarted process never reissues asset ids or event sequence
// numbers. Counters only move forward; a stale checkpoint is ignored.
func (r *Registry) Restore(lastID AssetID, sequence uint64) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if lastID > r.lastID {
		r.lastID = lastID
	}
	if sequence > r.sequence {
		r.sequence = sequence
	}
}

// emit stamps the next sequence number and delivers the event. Callers hold
// the registry mutex and have already committed their state change.
func (r *Registry) emit(event Event) {
	r.sequence++
	r.emitAt(r.sequence, event)
}

func (r *Registry) emitAt(sequence uint64, event Event) {
	event.Sequence = sequence
	if r.sink != nil {
		r.sink.Emit(event)
	}
}

func validMetadataHash(hash string) bool {
	if len(hash) != metadataHashLen {
		return false
	}
	for _, c := range hash {
		switch {
		case c >= '0' && c <= '9':
		case c >= 'a' && c <= 'f':
		case c >= 'A' && c <= 'F':
		default:
			return false
		}
	}
	return true
}

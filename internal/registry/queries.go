// internal/registry/queries.go
package registry

import (
	"fmt"

	"github.com/google/uuid"
)

// TokenLedger is the generic token-ownership interface this registry
// satisfies: non-existent ids report no ownership and transfer succeeds only
// for the true current owner.
type TokenLedger interface {
	LastID() AssetID
	TokenURI(assetID AssetID) (string, bool)
	OwnerOf(assetID AssetID) (uuid.UUID, bool)
	Transfer(caller uuid.UUID, assetID AssetID, from, to uuid.UUID) error
}

var _ TokenLedger = (*Registry)(nil)

// LastID returns the most recently assigned asset id, 0 if none were minted.
func (r *Registry) LastID() AssetID {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.lastID
}

// OwnerOf reports the current owner of an asset.
func (r *Registry) OwnerOf(assetID AssetID) (uuid.UUID, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	asset, ok := r.assets[assetID]
	if !ok {
		return uuid.Nil, false
	}
	return asset.Owner, true
}

// AssetExists reports whether an asset has been minted.
func (r *Registry) AssetExists(assetID AssetID) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	_, ok := r.assets[assetID]
	return ok
}

// AssetDetails returns a copy of the asset record.
func (r *Registry) AssetDetails(assetID AssetID) (Asset, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	asset, ok := r.assets[assetID]
	if !ok {
		return Asset{}, false
	}
	return *asset, true
}

// GetListing returns a copy of the asset's open listing, if any.
func (r *Registry) GetListing(assetID AssetID) (Listing, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	listing, ok := r.listings[assetID]
	if !ok {
		return Listing{}, false
	}
	return *listing, true
}

// LicenseStatus returns a copy of the license record for (asset, licensee),
// including revoked instances.
func (r *Registry) LicenseStatus(assetID AssetID, licensee uuid.UUID) (License, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	license, ok := r.licenses[LicenseKey{AssetID: assetID, Licensee: licensee}]
	if !ok {
		return License{}, false
	}
	return *license, true
}

// TotalRoyalties returns the royalty accumulator for (asset, licensee).
func (r *Registry) TotalRoyalties(assetID AssetID, licensee uuid.UUID) (int64, bool) {
	license, ok := r.LicenseStatus(assetID, licensee)
	if !ok {
		return 0, false
	}
	return license.RoyaltiesPaid, true
}

// TokenURI returns the off-chain metadata URI for an asset.
func (r *Registry) TokenURI(assetID AssetID) (string, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	asset, ok := r.assets[assetID]
	if !ok {
		return "", false
	}
	return fmt.Sprintf("%s/%s", r.metadataBaseURI, asset.MetadataHash), true
}

// internal/services/asset_service.go
package services

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/Dr-Xcristy/GeneVault/internal/registry"
	"github.com/Dr-Xcristy/GeneVault/internal/utils"
)

// AssetService fronts the ownership side of the registry: minting, ownership
// transfer and the one-way metadata freeze.
type AssetService struct {
	registry *registry.Registry
}

type MintAssetRequest struct {
	Recipient    uuid.UUID `json:"recipient" validate:"required"`
	Name         string    `json:"name" validate:"required,max=255"`
	Description  string    `json:"description" validate:"required"`
	MetadataHash string    `json:"metadata_hash" validate:"required,metadata_hash"`
}

type TransferAssetRequest struct {
	From uuid.UUID `json:"from" validate:"required"`
	To   uuid.UUID `json:"to" validate:"required"`
}

type AssetDetailsResponse struct {
	AssetID        registry.AssetID `json:"asset_id"`
	Owner          uuid.UUID        `json:"owner"`
	Name           string           `json:"name"`
	Description    string           `json:"description"`
	MetadataHash   string           `json:"metadata_hash"`
	MetadataFrozen bool             `json:"metadata_frozen"`
	TokenURI       string           `json:"token_uri"`
}

func NewAssetService(reg *registry.Registry) *AssetService {
	return &AssetService{registry: reg}
}

func (s *AssetService) Mint(caller uuid.UUID, req *MintAssetRequest) (registry.AssetID, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return 0, fmt.Errorf("%w: %v", registry.ErrInvalidInput, err)
	}

	return s.registry.Mint(caller, req.Recipient, req.Name, req.Description, req.MetadataHash)
}

func (s *AssetService) Transfer(caller uuid.UUID, assetID registry.AssetID, req *TransferAssetRequest) error {
	if err := utils.ValidateStruct(req); err != nil {
		return fmt.Errorf("%w: %v", registry.ErrInvalidInput, err)
	}

	return s.registry.Transfer(caller, assetID, req.From, req.To)
}

func (s *AssetService) FreezeMetadata(caller uuid.UUID, assetID registry.AssetID) error {
	return s.registry.FreezeMetadata(caller, assetID)
}

func (s *AssetService) LastID() registry.AssetID {
	return s.registry.LastID()
}

func (s *AssetService) GetAsset(assetID registry.AssetID) (*AssetDetailsResponse, error) {
	asset, ok := s.registry.AssetDetails(assetID)
	if !ok {
		return nil, registry.ErrNotFound
	}

	uri, _ := s.registry.TokenURI(assetID)
	return &AssetDetailsResponse{
		AssetID:        assetID,
		Owner:          asset.Owner,
		Name:           asset.Name,
		Description:    asset.Description,
		MetadataHash:   asset.MetadataHash,
		MetadataFrozen: asset.MetadataFrozen,
		TokenURI:       uri,
	}, nil
}

func (s *AssetService) OwnerOf(assetID registry.AssetID) (uuid.UUID, error) {
	owner, ok := s.registry.OwnerOf(assetID)
	if !ok {
		return uuid.Nil, registry.ErrNotFound
	}
	return owner, nil
}

// internal/services/license_service.go
package services

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/Dr-Xcristy/GeneVault/internal/registry"
	"github.com/Dr-Xcristy/GeneVault/internal/utils"
)

// LicenseService fronts the licensing side of the registry: listing,
// execution with fee settlement, royalty payments and revocation.
type LicenseService struct {
	registry            *registry.Registry
	notificationService *NotificationService
}

type CreateListingRequest struct {
	Fee            int64 `json:"fee" validate:"required,gt=0"`
	RoyaltyPercent uint8 `json:"royalty_percent" validate:"lte=100"`
}

type PayRoyaltyRequest struct {
	Amount int64 `json:"amount" validate:"required,gt=0"`
}

type ListingResponse struct {
	AssetID        registry.AssetID `json:"asset_id"`
	Licensor       uuid.UUID        `json:"licensor"`
	Fee            int64            `json:"fee"`
	RoyaltyPercent uint8            `json:"royalty_percent"`
	Active         bool             `json:"active"`
}

type LicenseStatusResponse struct {
	AssetID       registry.AssetID `json:"asset_id"`
	Licensee      uuid.UUID        `json:"licensee"`
	Start         uint64           `json:"start"`
	RoyaltiesPaid int64            `json:"royalties_paid"`
	Active        bool             `json:"active"`
}

func NewLicenseService(reg *registry.Registry, notificationService *NotificationService) *LicenseService {
	return &LicenseService{
		registry:            reg,
		notificationService: notificationService,
	}
}

func (s *LicenseService) CreateListing(caller uuid.UUID, assetID registry.AssetID, req *CreateListingRequest) error {
	if err := utils.ValidateStruct(req); err != nil {
		return fmt.Errorf("%w: %v", registry.ErrInvalidInput, err)
	}

	return s.registry.List(caller, assetID, req.Fee, req.RoyaltyPercent)
}

func (s *LicenseService) RemoveListing(caller uuid.UUID, assetID registry.AssetID) error {
	return s.registry.Delist(caller, assetID)
}

// ExecuteLicense converts the asset's open listing into a binding license for
// the caller, settling the fee against the listing-time licensor.
func (s *LicenseService) ExecuteLicense(caller uuid.UUID, assetID registry.AssetID) (*LicenseStatusResponse, error) {
	settlement, err := s.registry.Execute(caller, assetID)
	if err != nil {
		return nil, err
	}

	if s.notificationService != nil {
		go s.notificationService.SendLicenseExecutedNotification(assetID, settlement.Licensor, caller, settlement.Fee)
	}

	return s.GetLicense(assetID, caller)
}

func (s *LicenseService) PayRoyalty(caller uuid.UUID, assetID registry.AssetID, req *PayRoyaltyRequest) (*LicenseStatusResponse, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, fmt.Errorf("%w: %v", registry.ErrInvalidInput, err)
	}

	owner, _ := s.registry.OwnerOf(assetID)
	if err := s.registry.PayRoyalty(caller, assetID, req.Amount); err != nil {
		return nil, err
	}

	if s.notificationService != nil {
		go s.notificationService.SendRoyaltyReceivedNotification(assetID, owner, caller, req.Amount)
	}

	return s.GetLicense(assetID, caller)
}

func (s *LicenseService) RevokeLicense(caller uuid.UUID, assetID registry.AssetID, licensee uuid.UUID) error {
	if err := s.registry.Revoke(caller, assetID, licensee); err != nil {
		return err
	}

	if s.notificationService != nil {
		go s.notificationService.SendLicenseRevokedNotification(assetID, licensee)
	}

	return nil
}

func (s *LicenseService) GetListing(assetID registry.AssetID) (*ListingResponse, error) {
	if !s.registry.AssetExists(assetID) {
		return nil, registry.ErrNotFound
	}

	listing, ok := s.registry.GetListing(assetID)
	if !ok {
		return nil, registry.ErrListingNotFound
	}

	return &ListingResponse{
		AssetID:        assetID,
		Licensor:       listing.Licensor,
		Fee:            listing.Fee,
		RoyaltyPercent: listing.RoyaltyPercent,
		Active:         listing.Active,
	}, nil
}

func (s *LicenseService) GetLicense(assetID registry.AssetID, licensee uuid.UUID) (*LicenseStatusResponse, error) {
	if !s.registry.AssetExists(assetID) {
		return nil, registry.ErrNotFound
	}

	license, ok := s.registry.LicenseStatus(assetID, licensee)
	if !ok {
		return nil, registry.ErrLicenseInactive
	}

	return &LicenseStatusResponse{
		AssetID:       assetID,
		Licensee:      licensee,
		Start:         license.Start,
		RoyaltiesPaid: license.RoyaltiesPaid,
		Active:        license.Active,
	}, nil
}

func (s *LicenseService) TotalRoyalties(assetID registry.AssetID, licensee uuid.UUID) (int64, error) {
	license, err := s.GetLicense(assetID, licensee)
	if err != nil {
		return 0, err
	}
	return license.RoyaltiesPaid, nil
}

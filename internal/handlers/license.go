// internal/handlers/license.go
package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/Dr-Xcristy/GeneVault/internal/i18n"
	"github.com/Dr-Xcristy/GeneVault/internal/services"
	"github.com/Dr-Xcristy/GeneVault/internal/utils"
)

type LicenseHandler struct {
	licenseService *services.LicenseService
}

func NewLicenseHandler(licenseService *services.LicenseService) *LicenseHandler {
	return &LicenseHandler{
		licenseService: licenseService,
	}
}

// POST /assets/:id/listing
func (h *LicenseHandler) CreateListing(c *gin.Context) {
	lang := utils.GetLangFromContext(c)
	caller, ok := callerID(c)
	if !ok {
		return
	}
	assetID, ok := assetIDParam(c)
	if !ok {
		return
	}

	var req services.CreateListingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyValidationInvalid, "input"), err.Error())
		return
	}

	if err := h.licenseService.CreateListing(caller, assetID, &req); err != nil {
		utils.RegistryErrorResponse(c, err)
		return
	}

	utils.CreatedResponse(c, gin.H{
		"message":  i18n.T(lang, i18n.KeyListingCreated),
		"asset_id": assetID,
	})
}

// DELETE /assets/:id/listing
func (h *LicenseHandler) RemoveListing(c *gin.Context) {
	lang := utils.GetLangFromContext(c)
	caller, ok := callerID(c)
	if !ok {
		return
	}
	assetID, ok := assetIDParam(c)
	if !ok {
		return
	}

	if err := h.licenseService.RemoveListing(caller, assetID); err != nil {
		utils.RegistryErrorResponse(c, err)
		return
	}

	utils.SuccessResponse(c, gin.H{
		"message":  i18n.T(lang, i18n.KeyListingRemoved),
		"asset_id": assetID,
	})
}

// POST /assets/:id/license
func (h *LicenseHandler) ExecuteLicense(c *gin.Context) {
	lang := utils.GetLangFromContext(c)
	caller, ok := callerID(c)
	if !ok {
		return
	}
	assetID, ok := assetIDParam(c)
	if !ok {
		return
	}

	license, err := h.licenseService.ExecuteLicense(caller, assetID)
	if err != nil {
		utils.RegistryErrorResponse(c, err)
		return
	}

	utils.CreatedResponse(c, gin.H{
		"message": i18n.T(lang, i18n.KeyLicenseExecuted),
		"license": license,
	})
}

// POST /assets/:id/royalties
func (h *LicenseHandler) PayRoyalty(c *gin.Context) {
	lang := utils.GetLangFromContext(c)
	caller, ok := callerID(c)
	if !ok {
		return
	}
	assetID, ok := assetIDParam(c)
	if !ok {
		return
	}

	var req services.PayRoyaltyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyValidationInvalid, "input"), err.Error())
		return
	}

	license, err := h.licenseService.PayRoyalty(caller, assetID, &req)
	if err != nil {
		utils.RegistryErrorResponse(c, err)
		return
	}

	utils.SuccessResponse(c, gin.H{
		"message": i18n.T(lang, i18n.KeyRoyaltyPaid),
		"license": license,
	})
}

// DELETE /assets/:id/license/:licensee
func (h *LicenseHandler) RevokeLicense(c *gin.Context) {
	lang := utils.GetLangFromContext(c)
	caller, ok := callerID(c)
	if !ok {
		return
	}
	assetID, ok := assetIDParam(c)
	if !ok {
		return
	}

	licensee, err := uuid.Parse(c.Param("licensee"))
	if err != nil {
		utils.BadRequestResponse(c, "Invalid licensee ID", nil)
		return
	}

	if err := h.licenseService.RevokeLicense(caller, assetID, licensee); err != nil {
		utils.RegistryErrorResponse(c, err)
		return
	}

	utils.SuccessResponse(c, gin.H{
		"message":  i18n.T(lang, i18n.KeyLicenseRevoked),
		"asset_id": assetID,
		"licensee": licensee,
	})
}

// GET /assets/:id/listing
func (h *LicenseHandler) GetListing(c *gin.Context) {
	assetID, ok := assetIDParam(c)
	if !ok {
		return
	}

	listing, err := h.licenseService.GetListing(assetID)
	if err != nil {
		utils.RegistryErrorResponse(c, err)
		return
	}

	utils.SuccessResponse(c, gin.H{"listing": listing})
}

// GET /assets/:id/license/:licensee
func (h *LicenseHandler) GetLicense(c *gin.Context) {
	assetID, ok := assetIDParam(c)
	if !ok {
		return
	}

	licensee, err := uuid.Parse(c.Param("licensee"))
	if err != nil {
		utils.BadRequestResponse(c, "Invalid licensee ID", nil)
		return
	}

	license, err := h.licenseService.GetLicense(assetID, licensee)
	if err != nil {
		utils.RegistryErrorResponse(c, err)
		return
	}

	utils.SuccessResponse(c, gin.H{"license": license})
}

// GET /assets/:id/royalties/:licensee
func (h *LicenseHandler) GetTotalRoyalties(c *gin.Context) {
	assetID, ok := assetIDParam(c)
	if !ok {
		return
	}

	licensee, err := uuid.Parse(c.Param("licensee"))
	if err != nil {
		utils.BadRequestResponse(c, "Invalid licensee ID", nil)
		return
	}

	total, err := h.licenseService.TotalRoyalties(assetID, licensee)
	if err != nil {
		utils.RegistryErrorResponse(c, err)
		return
	}

	utils.SuccessResponse(c, gin.H{
		"asset_id":        assetID,
		"licensee":        licensee,
		"total_royalties": total,
	})
}

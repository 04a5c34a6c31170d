// internal/handlers/asset.go
package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/Dr-Xcristy/GeneVault/internal/i18n"
	"github.com/Dr-Xcristy/GeneVault/internal/registry"
	"github.com/Dr-Xcristy/GeneVault/internal/services"
	"github.com/Dr-Xcristy/GeneVault/internal/utils"
)

type AssetHandler struct {
	assetService   *services.AssetService
	storageService *services.StorageService
}

func NewAssetHandler(assetService *services.AssetService, storageService *services.StorageService) *AssetHandler {
	return &AssetHandler{
		assetService:   assetService,
		storageService: storageService,
	}
}

func callerID(c *gin.Context) (uuid.UUID, bool) {
	userIDStr, exists := utils.GetUserIDFromContext(c)
	if !exists {
		utils.UnauthorizedResponse(c, "")
		return uuid.Nil, false
	}

	userID, err := uuid.Parse(userIDStr)
	if err != nil {
		utils.BadRequestResponse(c, "Invalid user ID", nil)
		return uuid.Nil, false
	}
	return userID, true
}

func assetIDParam(c *gin.Context) (registry.AssetID, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		utils.BadRequestResponse(c, "Invalid asset ID", nil)
		return 0, false
	}
	return registry.AssetID(id), true
}

// POST /assets
func (h *AssetHandler) MintAsset(c *gin.Context) {
	lang := utils.GetLangFromContext(c)
	caller, ok := callerID(c)
	if !ok {
		return
	}

	var req services.MintAssetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyValidationInvalid, "input"), err.Error())
		return
	}

	assetID, err := h.assetService.Mint(caller, &req)
	if err != nil {
		utils.RegistryErrorResponse(c, err)
		return
	}

	utils.CreatedResponse(c, gin.H{
		"message":  i18n.T(lang, i18n.KeyAssetMinted),
		"asset_id": assetID,
	})
}

// POST /assets/:id/transfer
func (h *AssetHandler) TransferAsset(c *gin.Context) {
	lang := utils.GetLangFromContext(c)
	caller, ok := callerID(c)
	if !ok {
		return
	}
	assetID, ok := assetIDParam(c)
	if !ok {
		return
	}

	var req services.TransferAssetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyValidationInvalid, "input"), err.Error())
		return
	}

	if err := h.assetService.Transfer(caller, assetID, &req); err != nil {
		utils.RegistryErrorResponse(c, err)
		return
	}

	utils.SuccessResponse(c, gin.H{
		"message":  i18n.T(lang, i18n.KeyAssetTransferred),
		"asset_id": assetID,
		"owner":    req.To,
	})
}

// POST /assets/:id/freeze
func (h *AssetHandler) FreezeMetadata(c *gin.Context) {
	lang := utils.GetLangFromContext(c)
	caller, ok := callerID(c)
	if !ok {
		return
	}
	assetID, ok := assetIDParam(c)
	if !ok {
		return
	}

	if err := h.assetService.FreezeMetadata(caller, assetID); err != nil {
		utils.RegistryErrorResponse(c, err)
		return
	}

	utils.SuccessResponse(c, gin.H{
		"message":  i18n.T(lang, i18n.KeyAssetFrozen),
		"asset_id": assetID,
	})
}

// GET /assets/last-id
func (h *AssetHandler) GetLastID(c *gin.Context) {
	utils.SuccessResponse(c, gin.H{"last_id": h.assetService.LastID()})
}

// GET /assets/:id
func (h *AssetHandler) GetAsset(c *gin.Context) {
	assetID, ok := assetIDParam(c)
	if !ok {
		return
	}

	asset, err := h.assetService.GetAsset(assetID)
	if err != nil {
		utils.RegistryErrorResponse(c, err)
		return
	}

	utils.SuccessResponse(c, gin.H{"asset": asset})
}

// GET /assets/:id/owner
func (h *AssetHandler) GetOwner(c *gin.Context) {
	assetID, ok := assetIDParam(c)
	if !ok {
		return
	}

	owner, err := h.assetService.OwnerOf(assetID)
	if err != nil {
		utils.RegistryErrorResponse(c, err)
		return
	}

	utils.SuccessResponse(c, gin.H{
		"asset_id": assetID,
		"owner":    owner,
	})
}

// POST /assets/metadata
func (h *AssetHandler) UploadMetadataDocument(c *gin.Context) {
	lang := utils.GetLangFromContext(c)
	if _, ok := callerID(c); !ok {
		return
	}

	file, header, err := c.Request.FormFile("document")
	if err != nil {
		utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyValidationInvalid, "document"), err.Error())
		return
	}
	defer file.Close()

	result, err := h.storageService.UploadMetadataDocument(file, header)
	if err != nil {
		utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyFileUploadFailed), err.Error())
		return
	}

	utils.CreatedResponse(c, gin.H{
		"message": i18n.T(lang, i18n.KeyFileUploadSuccess),
		"upload":  result,
	})
}

// GET /assets/metadata/:hash
func (h *AssetHandler) DownloadMetadataDocument(c *gin.Context) {
	hash := strings.ToLower(c.Param("hash"))
	if len(hash) != 64 {
		utils.BadRequestResponse(c, "Invalid metadata hash", nil)
		return
	}

	ext := c.DefaultQuery("ext", ".json")
	data, err := h.storageService.FetchMetadataDocument(hash, ext)
	if err != nil {
		utils.NotFoundResponse(c, "asset")
		return
	}

	contentType := "application/octet-stream"
	switch ext {
	case ".json":
		contentType = "application/json"
	case ".pdf":
		contentType = "application/pdf"
	case ".txt":
		contentType = "text/plain"
	case ".md":
		contentType = "text/markdown"
	}

	c.Data(http.StatusOK, contentType, data)
}

// internal/handlers/payment.go
package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/Dr-Xcristy/GeneVault/internal/i18n"
	"github.com/Dr-Xcristy/GeneVault/internal/models"
	"github.com/Dr-Xcristy/GeneVault/internal/services"
	"github.com/Dr-Xcristy/GeneVault/internal/utils"
)

type PaymentHandler struct {
	paymentService *services.PaymentService
}

func NewPaymentHandler(paymentService *services.PaymentService) *PaymentHandler {
	return &PaymentHandler{
		paymentService: paymentService,
	}
}

// POST /payments/deposit
func (h *PaymentHandler) CreateDeposit(c *gin.Context) {
	lang := utils.GetLangFromContext(c)
	caller, ok := callerID(c)
	if !ok {
		return
	}

	var req services.CreateDepositRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyValidationInvalid, "input"), err.Error())
		return
	}

	intent, err := h.paymentService.CreateDepositIntent(caller, &req)
	if err != nil {
		utils.BadRequestResponse(c, err.Error(), nil)
		return
	}

	utils.CreatedResponse(c, gin.H{"deposit": intent})
}

// POST /payments/confirm
func (h *PaymentHandler) ConfirmDeposit(c *gin.Context) {
	lang := utils.GetLangFromContext(c)
	caller, ok := callerID(c)
	if !ok {
		return
	}

	var req services.ConfirmDepositRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyValidationInvalid, "input"), err.Error())
		return
	}

	if err := h.paymentService.ConfirmDeposit(caller, &req); err != nil {
		utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyPaymentFailed), err.Error())
		return
	}

	utils.SuccessResponse(c, gin.H{"message": i18n.T(lang, i18n.KeyPaymentSuccess)})
}

// POST /payments/payout
func (h *PaymentHandler) RequestPayout(c *gin.Context) {
	lang := utils.GetLangFromContext(c)
	caller, ok := callerID(c)
	if !ok {
		return
	}

	var req services.PayoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyValidationInvalid, "input"), err.Error())
		return
	}

	transaction, err := h.paymentService.RequestPayout(caller, &req)
	if err != nil {
		utils.BadRequestResponse(c, err.Error(), nil)
		return
	}

	utils.CreatedResponse(c, gin.H{
		"message":     i18n.T(lang, i18n.KeyPayoutRequested),
		"transaction": transaction,
	})
}

// POST /payments/refund (admin)
func (h *PaymentHandler) ProcessRefund(c *gin.Context) {
	lang := utils.GetLangFromContext(c)

	var req services.RefundRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyValidationInvalid, "input"), err.Error())
		return
	}

	if err := h.paymentService.RefundDeposit(&req); err != nil {
		utils.BadRequestResponse(c, err.Error(), nil)
		return
	}

	utils.SuccessResponse(c, gin.H{"message": i18n.T(lang, i18n.KeyPaymentSuccess)})
}

// GET /payments/balance
func (h *PaymentHandler) GetBalance(c *gin.Context) {
	caller, ok := callerID(c)
	if !ok {
		return
	}

	utils.SuccessResponse(c, gin.H{"balance": h.paymentService.GetBalance(caller)})
}

// GET /payments/history
func (h *PaymentHandler) GetPaymentHistory(c *gin.Context) {
	caller, ok := callerID(c)
	if !ok {
		return
	}

	params := utils.GetPaginationParams(c)

	// Administrators see the full transaction log.
	var (
		transactions []models.Transaction
		total        int64
		err          error
	)
	if userType, ok := utils.GetUserTypeFromContext(c); ok && userType == string(models.UserTypeAdmin) {
		transactions, total, err = h.paymentService.GetAllHistory(params)
	} else {
		transactions, total, err = h.paymentService.GetHistory(caller, params)
	}
	if err != nil {
		utils.InternalErrorResponse(c, err.Error())
		return
	}

	result := utils.CreatePaginationResult(transactions, total, params)
	utils.PaginatedResponse(c, result)
}

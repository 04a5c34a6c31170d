// internal/services/payment_service.go
package services

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/stripe/stripe-go/v74"
	"github.com/stripe/stripe-go/v74/paymentintent"
	"github.com/stripe/stripe-go/v74/refund"
	"gorm.io/gorm"

	"github.com/Dr-Xcristy/GeneVault/internal/config"
	"github.com/Dr-Xcristy/GeneVault/internal/models"
	"github.com/Dr-Xcristy/GeneVault/internal/payments"
	"github.com/Dr-Xcristy/GeneVault/internal/utils"
)

// PaymentService is the fiat on/off-ramp around the native balance ledger:
// Stripe deposits credit a user's balance, payouts debit it. License fees and
// royalties settle inside the registry and never touch Stripe.
type PaymentService struct {
	db     *gorm.DB
	ledger *payments.Ledger
	cfg    *config.Config
}

type CreateDepositRequest struct {
	Amount   int64  `json:"amount" validate:"required,gt=0"`
	Currency string `json:"currency,omitempty"`
}

type DepositIntentResponse struct {
	ClientSecret  string    `json:"client_secret"`
	PaymentID     string    `json:"payment_id"`
	TransactionID uuid.UUID `json:"transaction_id"`
	Status        string    `json:"status"`
}

type ConfirmDepositRequest struct {
	PaymentIntentID string    `json:"payment_intent_id" validate:"required"`
	TransactionID   uuid.UUID `json:"transaction_id" validate:"required"`
}

type PayoutRequest struct {
	Amount int64 `json:"amount" validate:"required,gt=0"`
}

type RefundRequest struct {
	TransactionID uuid.UUID `json:"transaction_id" validate:"required"`
	Reason        string    `json:"reason" validate:"required"`
}

func NewPaymentService(db *gorm.DB, ledger *payments.Ledger, cfg *config.Config) *PaymentService {
	// Initialize Stripe
	stripe.Key = cfg.Payment.StripeSecretKey

	return &PaymentService{
		db:     db,
		ledger: ledger,
		cfg:    cfg,
	}
}

func (s *PaymentService) CreateDepositIntent(userID uuid.UUID, req *CreateDepositRequest) (*DepositIntentResponse, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	currency := req.Currency
	if currency == "" {
		currency = "usd"
	}

	// Amounts are micro-units; Stripe expects cents.
	amountInCents := req.Amount / 10_000
	if amountInCents <= 0 {
		return nil, errors.New("deposit amount is below one cent")
	}

	params := &stripe.PaymentIntentParams{
		Amount:   stripe.Int64(amountInCents),
		Currency: stripe.String(currency),
	}
	params.AddMetadata("user_id", userID.String())

	pi, err := paymentintent.New(params)
	if err != nil {
		return nil, fmt.Errorf("failed to create payment intent: %w", err)
	}

	transaction := &models.Transaction{
		TransactionType:  models.TransactionTypeDeposit,
		UserID:           userID,
		Amount:           req.Amount,
		PaymentReference: pi.ID,
		Status:           models.TransactionStatusPending,
	}
	if err := s.db.Create(transaction).Error; err != nil {
		return nil, fmt.Errorf("failed to record deposit transaction: %w", err)
	}

	return &DepositIntentResponse{
		ClientSecret:  pi.ClientSecret,
		PaymentID:     pi.ID,
		TransactionID: transaction.ID,
		Status:        string(pi.Status),
	}, nil
}

// ConfirmDeposit checks the payment intent with Stripe and credits the user's
// native balance once the charge succeeded.
func (s *PaymentService) ConfirmDeposit(userID uuid.UUID, req *ConfirmDepositRequest) error {
	if err := utils.ValidateStruct(req); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	pi, err := paymentintent.Get(req.PaymentIntentID, nil)
	if err != nil {
		return fmt.Errorf("failed to get payment intent: %w", err)
	}

	var transaction models.Transaction
	if err := s.db.First(&transaction, req.TransactionID).Error; err != nil {
		return fmt.Errorf("transaction not found: %w", err)
	}
	if transaction.UserID != userID {
		return errors.New("transaction does not belong to caller")
	}
	if transaction.Status == models.TransactionStatusCompleted {
		return errors.New("deposit already confirmed")
	}

	switch pi.Status {
	case stripe.PaymentIntentStatusSucceeded:
		if err := s.ledger.Deposit(userID, transaction.Amount); err != nil {
			return fmt.Errorf("failed to credit balance: %w", err)
		}
		now := time.Now()
		transaction.Status = models.TransactionStatusCompleted
		transaction.ProcessedAt = &now

	case stripe.PaymentIntentStatusRequiresAction, stripe.PaymentIntentStatusRequiresConfirmation:
		transaction.Status = models.TransactionStatusPending

	default:
		transaction.Status = models.TransactionStatusFailed
		transaction.FailureReason = fmt.Sprintf("payment intent status %s", pi.Status)
	}

	if err := s.db.Save(&transaction).Error; err != nil {
		return fmt.Errorf("failed to update transaction: %w", err)
	}

	return nil
}

// RequestPayout debits the user's native balance. The actual bank transfer is
// settled out of band against the recorded transaction.
func (s *PaymentService) RequestPayout(userID uuid.UUID, req *PayoutRequest) (*models.Transaction, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	if req.Amount < s.cfg.Payment.MinimumPayout {
		return nil, fmt.Errorf("payout amount is below the minimum of %d", s.cfg.Payment.MinimumPayout)
	}

	if err := s.ledger.Withdraw(userID, req.Amount); err != nil {
		return nil, fmt.Errorf("failed to debit balance: %w", err)
	}

	now := time.Now()
	transaction := &models.Transaction{
		TransactionType: models.TransactionTypePayout,
		UserID:          userID,
		Amount:          req.Amount,
		Status:          models.TransactionStatusCompleted,
		ProcessedAt:     &now,
	}
	if err := s.db.Create(transaction).Error; err != nil {
		// Balance was already debited; put it back rather than lose funds.
		s.ledger.Deposit(userID, req.Amount)
		return nil, fmt.Errorf("failed to record payout transaction: %w", err)
	}

	return transaction, nil
}

// RefundDeposit reverses a confirmed deposit through Stripe and debits the
// user's balance. Admin-only; fails when the balance was already spent.
func (s *PaymentService) RefundDeposit(req *RefundRequest) error {
	if err := utils.ValidateStruct(req); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	var transaction models.Transaction
	if err := s.db.First(&transaction, req.TransactionID).Error; err != nil {
		return fmt.Errorf("transaction not found: %w", err)
	}
	if transaction.TransactionType != models.TransactionTypeDeposit ||
		transaction.Status != models.TransactionStatusCompleted {
		return errors.New("only completed deposits can be refunded")
	}

	if err := s.ledger.Withdraw(transaction.UserID, transaction.Amount); err != nil {
		return fmt.Errorf("balance already spent: %w", err)
	}

	params := &stripe.RefundParams{
		PaymentIntent: stripe.String(transaction.PaymentReference),
	}
	if _, err := refund.New(params); err != nil {
		// Stripe rejected the refund; restore the debited balance.
		s.ledger.Deposit(transaction.UserID, transaction.Amount)
		return fmt.Errorf("failed to create refund: %w", err)
	}

	transaction.Status = models.TransactionStatusFailed
	transaction.FailureReason = fmt.Sprintf("refunded: %s", req.Reason)
	if err := s.db.Save(&transaction).Error; err != nil {
		return fmt.Errorf("failed to update transaction: %w", err)
	}

	return nil
}

func (s *PaymentService) GetBalance(userID uuid.UUID) int64 {
	return s.ledger.Balance(userID)
}

// GetAllHistory lists every user's transactions; reserved for administrators.
func (s *PaymentService) GetAllHistory(params utils.PaginationParams) ([]models.Transaction, int64, error) {
	query := s.db.Model(&models.Transaction{})

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count transactions: %w", err)
	}

	query = utils.ApplySort(query, params, []string{"created_at", "amount"})
	query = utils.ApplyPagination(query, params)

	var transactions []models.Transaction
	if err := query.Find(&transactions).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to fetch transactions: %w", err)
	}

	return transactions, total, nil
}

func (s *PaymentService) GetHistory(userID uuid.UUID, params utils.PaginationParams) ([]models.Transaction, int64, error) {
	query := s.db.Model(&models.Transaction{}).Where("user_id = ?", userID)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count transactions: %w", err)
	}

	query = utils.ApplySort(query, params, []string{"created_at", "amount"})
	query = utils.ApplyPagination(query, params)

	var transactions []models.Transaction
	if err := query.Find(&transactions).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to fetch transactions: %w", err)
	}

	return transactions, total, nil
}

package ledger

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/scryptex/backend/internal/ids"
	"github.com/scryptex/backend/internal/metrics"
	"github.com/scryptex/backend/internal/models"
)

var (
	// ErrInsufficientFunds is returned when a debit would take the
	// balance below zero. The balance is left untouched.
	ErrInsufficientFunds = errInsufficientFunds

	ErrTopupNotFound = errors.New("topup request not found")
	ErrTopupSettled  = errors.New("topup request already settled")
)

// Store is the persistence interface the credit service needs.
type Store interface {
	Begin(ctx context.Context) (pgx.Tx, error)
	GetOrCreateBalance(ctx context.Context, userID string) (*models.CreditBalance, error)
	Debit(ctx context.Context, tx pgx.Tx, userID string, amount float64) (float64, error)
	Credit(ctx context.Context, tx pgx.Tx, userID string, amount float64) (float64, error)
	InsertLog(ctx context.Context, tx pgx.Tx, log *models.CreditLog) error
	RecentLogs(ctx context.Context, userID string, limit int) ([]models.CreditLog, error)
	CreateTopupRequest(ctx context.Context, t *models.TopupRequest) error
	GetTopupRequest(ctx context.Context, id string) (*models.TopupRequest, error)
	SettleTopupRequest(ctx context.Context, tx pgx.Tx, id, status string, txHash *string) (bool, error)
}

type Service interface {
	Status(ctx context.Context, userID string) (*models.CreditBalance, []models.CreditLog, error)
	Spend(ctx context.Context, userID string, amount float64, description string, relatedEntity *string) (float64, error)
	Earn(ctx context.Context, userID string, amount float64, action, description string, relatedEntity *string) (float64, error)
	RequestTopup(ctx context.Context, userID string, amountUSDT float64, currency, paymentMethod string, walletAddress *string) (*models.TopupRequest, error)
	VerifyPayment(ctx context.Context, userID, requestID, txHash string) (*models.TopupRequest, float64, error)
}

type service struct {
	store Store
}

func NewService(store Store) Service {
	return &service{store: store}
}

var _ Service = (*service)(nil)

func (s *service) Status(ctx context.Context, userID string) (*models.CreditBalance, []models.CreditLog, error) {
	balance, err := s.store.GetOrCreateBalance(ctx, userID)
	if err != nil {
		return nil, nil, err
	}
	logs, err := s.store.RecentLogs(ctx, userID, 5)
	if err != nil {
		return nil, nil, err
	}
	return balance, logs, nil
}

// Spend debits amount and records the matching log entry in one
// transaction. On ErrInsufficientFunds the balance is unchanged and no
// log is written.
func (s *service) Spend(ctx context.Context, userID string, amount float64, description string, relatedEntity *string) (float64, error) {
	if amount <= 0 {
		return 0, fmt.Errorf("spend amount must be positive, got %v", amount)
	}
	if _, err := s.store.GetOrCreateBalance(ctx, userID); err != nil {
		return 0, err
	}

	tx, err := s.store.Begin(ctx)
	if err != nil {
		return 0, err
	}
	defer tx.Rollback(ctx)

	remaining, err := s.store.Debit(ctx, tx, userID, amount)
	if err != nil {
		return 0, err
	}
	log := &models.CreditLog{
		UserID:        userID,
		Action:        models.CreditActionUse,
		Amount:        -amount,
		Description:   description,
		RelatedEntity: relatedEntity,
	}
	if err := s.store.InsertLog(ctx, tx, log); err != nil {
		return 0, err
	}
	if err := tx.Commit(ctx); err != nil {
		return 0, err
	}
	metrics.CreditsSpent.Add(amount)
	return remaining, nil
}

// Earn credits amount under the given action (topup, referral, system)
// and records the log entry in one transaction.
func (s *service) Earn(ctx context.Context, userID string, amount float64, action, description string, relatedEntity *string) (float64, error) {
	if amount <= 0 {
		return 0, fmt.Errorf("earn amount must be positive, got %v", amount)
	}
	tx, err := s.store.Begin(ctx)
	if err != nil {
		return 0, err
	}
	defer tx.Rollback(ctx)

	balance, err := s.store.Credit(ctx, tx, userID, amount)
	if err != nil {
		return 0, err
	}
	log := &models.CreditLog{
		UserID:        userID,
		Action:        action,
		Amount:        amount,
		Description:   description,
		RelatedEntity: relatedEntity,
	}
	if err := s.store.InsertLog(ctx, tx, log); err != nil {
		return 0, err
	}
	if err := tx.Commit(ctx); err != nil {
		return 0, err
	}
	metrics.CreditsEarned.Add(amount)
	return balance, nil
}

func (s *service) RequestTopup(ctx context.Context, userID string, amountUSDT float64, currency, paymentMethod string, walletAddress *string) (*models.TopupRequest, error) {
	if amountUSDT <= 0 {
		return nil, fmt.Errorf("topup amount must be positive, got %v", amountUSDT)
	}
	req := &models.TopupRequest{
		ID:            ids.New("topup_"),
		UserID:        userID,
		Amount:        amountUSDT,
		Currency:      currency,
		PaymentMethod: paymentMethod,
		WalletAddress: walletAddress,
		Status:        models.TopupStatusPending,
	}
	if err := s.store.CreateTopupRequest(ctx, req); err != nil {
		return nil, err
	}
	return req, nil
}

// VerifyPayment settles a pending topup request and credits the
// converted amount. Settlement and crediting share one transaction so a
// request can never be credited twice.
func (s *service) VerifyPayment(ctx context.Context, userID, requestID, txHash string) (*models.TopupRequest, float64, error) {
	req, err := s.store.GetTopupRequest(ctx, requestID)
	if err != nil {
		return nil, 0, err
	}
	if req == nil || req.UserID != userID {
		return nil, 0, ErrTopupNotFound
	}

	tx, err := s.store.Begin(ctx)
	if err != nil {
		return nil, 0, err
	}
	defer tx.Rollback(ctx)

	settled, err := s.store.SettleTopupRequest(ctx, tx, requestID, models.TopupStatusApproved, &txHash)
	if err != nil {
		return nil, 0, err
	}
	if !settled {
		return nil, 0, ErrTopupSettled
	}
	credits := req.Amount * models.TopupConversionRate
	balance, err := s.store.Credit(ctx, tx, userID, credits)
	if err != nil {
		return nil, 0, err
	}
	log := &models.CreditLog{
		UserID:        userID,
		Action:        models.CreditActionTopup,
		Amount:        credits,
		Description:   fmt.Sprintf("Topup %v %s", req.Amount, req.Currency),
		RelatedEntity: &req.ID,
	}
	if err := s.store.InsertLog(ctx, tx, log); err != nil {
		return nil, 0, err
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, 0, err
	}
	metrics.CreditsEarned.Add(credits)

	req.Status = models.TopupStatusApproved
	req.TransactionHash = &txHash
	return req, balance, nil
}

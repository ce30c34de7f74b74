package models

import "time"

// Credit log action kinds.
const (
	CreditActionUse      = "use"
	CreditActionTopup    = "topup"
	CreditActionReferral = "referral"
	CreditActionSystem   = "system"
)

// StartingBalance is granted to every user the first time their balance
// record is read.
const StartingBalance = 5.0

// TopupConversionRate converts USDT to credits (1 USDT = 10 credits).
const TopupConversionRate = 10.0

// Topup request statuses.
const (
	TopupStatusPending  = "pending"
	TopupStatusApproved = "approved"
	TopupStatusRejected = "rejected"
	TopupStatusFailed   = "failed"
)

type CreditBalance struct {
	UserID         string    `json:"user_id"`
	Balance        float64   `json:"balance"`
	LifetimeEarned float64   `json:"lifetime_earned"`
	LifetimeSpent  float64   `json:"lifetime_spent"`
	LastUpdated    time.Time `json:"last_updated"`
}

// CreditLog is an immutable record of one balance mutation.
type CreditLog struct {
	ID            int64     `json:"id"`
	UserID        string    `json:"user_id"`
	Action        string    `json:"action"`
	Amount        float64   `json:"amount"`
	Description   string    `json:"description"`
	RelatedEntity *string   `json:"related_entity,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
}

type TopupRequest struct {
	ID              string    `json:"id"`
	UserID          string    `json:"user_id"`
	Amount          float64   `json:"amount"`
	Currency        string    `json:"currency"`
	PaymentMethod   string    `json:"payment_method"`
	WalletAddress   *string   `json:"wallet_address,omitempty"`
	TransactionHash *string   `json:"transaction_hash,omitempty"`
	Status          string    `json:"status"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

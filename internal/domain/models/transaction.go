package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type TransactionStatus string

const StatusCompleted TransactionStatus = "completed"

// TransactionType is the caller's role in a transaction.
type TransactionType string

const (
	TypePurchase TransactionType = "purchase"
	TypeSale     TransactionType = "sale"
)

type Transaction struct {
	ID              string            `json:"id"`
	ItemID          string            `json:"item_id"`
	BuyerID         string            `json:"buyer_id"`
	SellerID        string            `json:"seller_id"`
	Amount          decimal.Decimal   `json:"amount"`
	EcoPointsEarned int               `json:"eco_points_earned"`
	Status          TransactionStatus `json:"status"`
	CreatedAt       time.Time         `json:"created_at"`
}

type TransactionView struct {
	Transaction
	ItemTitle string          `json:"item_title,omitempty"`
	Type      TransactionType `json:"type"`
	OtherUser string          `json:"other_user,omitempty"`
}

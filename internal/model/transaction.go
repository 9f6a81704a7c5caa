package model

import (
	"fmt"
	"strings"
	"time"
)

type TransactionType string

const (
	Buy  TransactionType = "buy"
	Sell TransactionType = "sell"
)

// ParseTransactionType also accepts the spanish labels used by the first
// version of the app ("Compra", "Venta").
func ParseTransactionType(s string) (TransactionType, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "buy", "compra":
		return Buy, nil
	case "sell", "venta":
		return Sell, nil
	default:
		return "", fmt.Errorf("unknown transaction type %q", s)
	}
}

type AssetType string

const (
	Share    AssetType = "share"
	Cedear   AssetType = "cedear"
	Future   AssetType = "future"
	Fund     AssetType = "fund"
	Bond     AssetType = "bond"
	Etf      AssetType = "etf"
	Dollars  AssetType = "dollars"
	Pesos    AssetType = "pesos"
	Currency AssetType = "currency"
)

type Transaction struct {
	ID        string          `json:"id" yaml:"id" db:"id"`
	UserID    string          `json:"user_id" yaml:"user_id" db:"user_id"`
	Book      string          `json:"book" yaml:"book" db:"book"`
	Broker    string          `json:"broker,omitempty" yaml:"broker" db:"broker"`
	Date      time.Time       `json:"date" yaml:"date" db:"date"`
	Type      TransactionType `json:"type" yaml:"type" db:"type"`
	Ticker    string          `json:"ticker" yaml:"ticker" db:"ticker"`
	AssetType AssetType       `json:"asset_type" yaml:"asset_type" db:"asset_type"`
	Quantity  float64         `json:"quantity" yaml:"quantity" db:"quantity"`
	Price     float64         `json:"price" yaml:"price" db:"price"`
	Currency  string          `json:"currency" yaml:"currency" db:"currency"`
	Fee       float64         `json:"fee" yaml:"fee" db:"fee"`
	CreatedAt time.Time       `json:"created_at" yaml:"-" db:"created_at"`
}

// Total is quantity × price in the transaction's own currency, fee excluded.
func (t Transaction) Total() float64 {
	return t.Quantity * t.Price
}

func (t Transaction) Key() BookKey {
	return BookKey{UserID: t.UserID, Book: t.Book}
}

// TransactionRecord is what callers hand to the append operation. Pointer
// fields tell a missing value apart from an explicit zero.
type TransactionRecord struct {
	Date      *time.Time `json:"date,omitempty" yaml:"date"`
	Type      string     `json:"type" yaml:"type" validate:"required"`
	Ticker    string     `json:"ticker" yaml:"ticker" validate:"required"`
	AssetType string     `json:"asset_type,omitempty" yaml:"asset_type"`
	Broker    string     `json:"broker,omitempty" yaml:"broker"`
	Quantity  *float64   `json:"quantity" yaml:"quantity" validate:"required,gt=0"`
	Price     *float64   `json:"price" yaml:"price" validate:"required,gte=0"`
	Currency  string     `json:"currency,omitempty" yaml:"currency"`
	Fee       *float64   `json:"fee,omitempty" yaml:"fee" validate:"omitempty,gte=0"`
}

type HistoryEntry struct {
	Transaction
	Total float64 `json:"total"`
}

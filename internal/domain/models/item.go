package models

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

func init() {
	// clients read price and amount as plain JSON numbers
	decimal.MarshalJSONWithoutQuotes = true
}

const MinEcoPointsReward = 5

var ecoPointsRate = decimal.RequireFromString("0.02")

type Item struct {
	ID              string          `json:"id"`
	Title           string          `json:"title"`
	Description     string          `json:"description"`
	Price           decimal.Decimal `json:"price"`
	Category        string          `json:"category"`
	Condition       string          `json:"condition"`
	Images          []string        `json:"images"`
	SellerID        string          `json:"seller_id"`
	EcoPointsReward int             `json:"eco_points_reward"`
	IsAvailable     bool            `json:"is_available"`
	CreatedAt       time.Time       `json:"created_at"`
}

// EcoPointsReward returns max(5, floor(price * 0.02)).
func EcoPointsReward(price decimal.Decimal) int {
	reward := int(price.Mul(ecoPointsRate).Floor().IntPart())
	if reward < MinEcoPointsReward {
		return MinEcoPointsReward
	}
	return reward
}

// ItemFilter selects items for listings. Empty fields match everything.
type ItemFilter struct {
	Category string
	Search   string
	SellerID string
}

// Match reports whether the item passes the filter. Category is compared
// case-insensitively, search is a case-insensitive substring of title or description.
func (f ItemFilter) Match(item Item) bool {
	if f.SellerID != "" && item.SellerID != f.SellerID {
		return false
	}
	if f.Category != "" && !strings.EqualFold(item.Category, f.Category) {
		return false
	}
	if f.Search != "" {
		needle := strings.ToLower(f.Search)
		if !strings.Contains(strings.ToLower(item.Title), needle) &&
			!strings.Contains(strings.ToLower(item.Description), needle) {
			return false
		}
	}
	return true
}

// ItemView is an item with seller fields joined in.
type ItemView struct {
	Item
	SellerName  string `json:"seller_name,omitempty"`
	SellerEmail string `json:"seller_email,omitempty"`
}

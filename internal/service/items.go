package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/IlyasAtabaev731/ecofinds/internal/domain/models"
	"github.com/IlyasAtabaev731/ecofinds/internal/storage"
)

// maxPrice is the first value that does not fit the price NUMERIC(12,2) column.
var maxPrice = decimal.New(1, 10)

type Listing struct {
	Title       string
	Description string
	Price       decimal.Decimal
	Category    string
	Condition   string
	Images      []string
}

func (l Listing) validate() error {
	if strings.TrimSpace(l.Title) == "" {
		return invalid("title is required")
	}
	if l.Price.IsNegative() {
		return invalid("price must not be negative")
	}
	if l.Price.GreaterThanOrEqual(maxPrice) {
		return invalid("price must be below %s", maxPrice)
	}
	if !l.Price.Equal(l.Price.Truncate(2)) {
		return invalid("price must have at most 2 decimal places")
	}
	return nil
}

func (m *Market) ListItems(ctx context.Context, filter models.ItemFilter) ([]models.ItemView, error) {
	items, err := m.store.ListItems(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("service.ListItems: %w", err)
	}

	users := m.lookup(ctx)
	views := make([]models.ItemView, 0, len(items))
	for _, it := range items {
		v := models.ItemView{Item: it}
		if seller, ok := users.get(it.SellerID); ok {
			v.SellerName = seller.Username
		}
		views = append(views, v)
	}

	return views, nil
}

func (m *Market) Item(ctx context.Context, id string) (models.ItemView, error) {
	item, err := m.store.ItemByID(ctx, id)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return models.ItemView{}, ErrItemNotFound
		}
		return models.ItemView{}, fmt.Errorf("service.Item: %w", err)
	}

	v := models.ItemView{Item: item}
	if seller, ok := m.lookup(ctx).get(item.SellerID); ok {
		v.SellerName = seller.Username
		v.SellerEmail = seller.Email
	}

	return v, nil
}

// CreateItem lists a new available item owned by sellerID. The eco-points
// reward is derived from the price.
func (m *Market) CreateItem(ctx context.Context, sellerID string, l Listing) (models.Item, error) {
	if err := l.validate(); err != nil {
		return models.Item{}, err
	}

	images := slices.Clone(l.Images)
	if images == nil {
		images = []string{}
	}

	item := models.Item{
		ID:              m.newID(),
		Title:           l.Title,
		Description:     l.Description,
		Price:           l.Price,
		Category:        l.Category,
		Condition:       l.Condition,
		Images:          images,
		SellerID:        sellerID,
		EcoPointsReward: models.EcoPointsReward(l.Price),
		IsAvailable:     true,
		CreatedAt:       m.now(),
	}

	if err := m.store.CreateItem(ctx, item); err != nil {
		return models.Item{}, fmt.Errorf("service.CreateItem: %w", err)
	}

	m.logger.Info("Item listed",
		slog.String("item_id", item.ID),
		slog.String("seller_id", sellerID),
		slog.Int("eco_points_reward", item.EcoPointsReward),
	)

	return item, nil
}

func (m *Market) ItemsBySeller(ctx context.Context, sellerID string) ([]models.Item, error) {
	items, err := m.store.ListItems(ctx, models.ItemFilter{SellerID: sellerID})
	if err != nil {
		return nil, fmt.Errorf("service.ItemsBySeller: %w", err)
	}
	return items, nil
}

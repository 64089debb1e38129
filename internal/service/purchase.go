package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/IlyasAtabaev731/ecofinds/internal/domain/models"
	"github.com/IlyasAtabaev731/ecofinds/internal/storage"
)

// Purchase sells an available item to buyerID. Marking the item sold,
// crediting the reward and recording the transaction happen atomically.
func (m *Market) Purchase(ctx context.Context, buyerID, itemID string) (models.Transaction, error) {
	const op = "service.Purchase"

	var tx models.Transaction
	err := m.store.InTx(ctx, func(ctx context.Context, repo storage.Repository) error {
		item, err := repo.ItemByID(ctx, itemID)
		if err != nil {
			if errors.Is(err, storage.ErrNotFound) {
				return ErrItemNotFound
			}
			return err
		}

		if !item.IsAvailable {
			return ErrItemUnavailable
		}
		if item.SellerID == buyerID {
			return ErrOwnItem
		}

		if err := repo.MarkItemSold(ctx, itemID); err != nil {
			if errors.Is(err, storage.ErrItemUnavailable) {
				return ErrItemUnavailable
			}
			return err
		}

		if err := repo.AddEcoPoints(ctx, buyerID, item.EcoPointsReward); err != nil {
			if errors.Is(err, storage.ErrNotFound) {
				return ErrUserNotFound
			}
			return err
		}

		tx = models.Transaction{
			ID:              m.newID(),
			ItemID:          itemID,
			BuyerID:         buyerID,
			SellerID:        item.SellerID,
			Amount:          item.Price,
			EcoPointsEarned: item.EcoPointsReward,
			Status:          models.StatusCompleted,
			CreatedAt:       m.now(),
		}

		return repo.CreateTransaction(ctx, tx)
	})
	if err != nil {
		switch {
		case errors.Is(err, ErrItemNotFound), errors.Is(err, ErrItemUnavailable),
			errors.Is(err, ErrOwnItem), errors.Is(err, ErrUserNotFound):
			return models.Transaction{}, err
		}
		return models.Transaction{}, fmt.Errorf("%s: %w", op, err)
	}

	m.logger.Info("Buy item",
		slog.String("item_id", itemID),
		slog.String("buyer_id", buyerID),
		slog.Int("eco_points_earned", tx.EcoPointsEarned),
	)

	return tx, nil
}

// Transactions returns the history of userID, newest first, annotated with the
// caller's role and the counterpart's name.
func (m *Market) Transactions(ctx context.Context, userID string) ([]models.TransactionView, error) {
	txs, err := m.store.TransactionsByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("service.Transactions: %w", err)
	}

	users := m.lookup(ctx)
	views := make([]models.TransactionView, 0, len(txs))
	for _, tx := range txs {
		v := models.TransactionView{Transaction: tx}

		if item, err := m.store.ItemByID(ctx, tx.ItemID); err == nil {
			v.ItemTitle = item.Title
		}

		other := tx.BuyerID
		v.Type = models.TypeSale
		if tx.BuyerID == userID {
			other = tx.SellerID
			v.Type = models.TypePurchase
		}
		if u, ok := users.get(other); ok {
			v.OtherUser = u.Username
		}

		views = append(views, v)
	}

	return views, nil
}

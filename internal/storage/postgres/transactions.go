package postgres

import (
	"context"
	"fmt"

	"github.com/IlyasAtabaev731/ecofinds/internal/domain/models"
)

func (q *queries) CreateTransaction(ctx context.Context, tx models.Transaction) error {
	const op = "storage.postgres.CreateTransaction"

	_, err := q.db.ExecContext(ctx,
		`INSERT INTO transactions (id, item_id, buyer_id, seller_id, amount, eco_points_earned, status, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		tx.ID, tx.ItemID, tx.BuyerID, tx.SellerID, tx.Amount, tx.EcoPointsEarned, string(tx.Status), tx.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

func (q *queries) TransactionsByUser(ctx context.Context, userID string) ([]models.Transaction, error) {
	const op = "storage.postgres.TransactionsByUser"

	rows, err := q.db.QueryContext(ctx,
		`SELECT id, item_id, buyer_id, seller_id, amount, eco_points_earned, status, created_at FROM transactions
		WHERE buyer_id = $1 OR seller_id = $1
		ORDER BY created_at DESC, id`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	txs := make([]models.Transaction, 0)
	for rows.Next() {
		var t models.Transaction
		var status string
		if err := rows.Scan(&t.ID, &t.ItemID, &t.BuyerID, &t.SellerID, &t.Amount, &t.EcoPointsEarned, &status, &t.CreatedAt); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		t.Status = models.TransactionStatus(status)
		txs = append(txs, t)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return txs, nil
}

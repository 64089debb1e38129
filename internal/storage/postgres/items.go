package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"

	"github.com/IlyasAtabaev731/ecofinds/internal/domain/models"
	"github.com/IlyasAtabaev731/ecofinds/internal/storage"
)

const itemColumns = "id, title, description, price, category, condition, COALESCE(images, '{}'), seller_id, eco_points_reward, is_available, created_at"

func scanItem(row interface{ Scan(...any) error }) (models.Item, error) {
	var it models.Item
	err := row.Scan(&it.ID, &it.Title, &it.Description, &it.Price, &it.Category, &it.Condition,
		pq.Array(&it.Images), &it.SellerID, &it.EcoPointsReward, &it.IsAvailable, &it.CreatedAt)
	return it, err
}

func (q *queries) CreateItem(ctx context.Context, item models.Item) error {
	const op = "storage.postgres.CreateItem"

	images := item.Images
	if images == nil {
		images = []string{}
	}

	_, err := q.db.ExecContext(ctx,
		`INSERT INTO items (id, title, description, price, category, condition, images, seller_id, eco_points_reward, is_available, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`,
		item.ID, item.Title, item.Description, item.Price, item.Category, item.Condition,
		pq.Array(images), item.SellerID, item.EcoPointsReward, item.IsAvailable, item.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

func (q *queries) ItemByID(ctx context.Context, id string) (models.Item, error) {
	const op = "storage.postgres.ItemByID"

	it, err := scanItem(q.db.QueryRowContext(ctx, "SELECT "+itemColumns+" FROM items WHERE id = $1", id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.Item{}, fmt.Errorf("%s: %w", op, storage.ErrNotFound)
		}
		return models.Item{}, fmt.Errorf("%s: %w", op, err)
	}

	return it, nil
}

func (q *queries) ListItems(ctx context.Context, filter models.ItemFilter) ([]models.Item, error) {
	const op = "storage.postgres.ListItems"

	rows, err := q.db.QueryContext(ctx,
		`SELECT `+itemColumns+` FROM items
		WHERE ($1 = '' OR lower(category) = lower($1))
		  AND ($2 = '' OR strpos(lower(title), lower($2)) > 0 OR strpos(lower(description), lower($2)) > 0)
		  AND ($3 = '' OR seller_id = $3)
		ORDER BY created_at DESC, id`,
		filter.Category, filter.Search, filter.SellerID,
	)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	items := make([]models.Item, 0)
	for rows.Next() {
		it, err := scanItem(rows)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		items = append(items, it)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return items, nil
}

func (q *queries) MarkItemSold(ctx context.Context, id string) error {
	const op = "storage.postgres.MarkItemSold"

	res, err := q.db.ExecContext(ctx, "UPDATE items SET is_available = false WHERE id = $1 AND is_available", id)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if n > 0 {
		return nil
	}

	var available bool
	err = q.db.QueryRowContext(ctx, "SELECT is_available FROM items WHERE id = $1", id).Scan(&available)
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("%s: %w", op, storage.ErrNotFound)
	}
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return fmt.Errorf("%s: %w", op, storage.ErrItemUnavailable)
}

func (q *queries) CountItems(ctx context.Context) (int, error) {
	const op = "storage.postgres.CountItems"

	var n int
	if err := q.db.QueryRowContext(ctx, "SELECT count(*) FROM items").Scan(&n); err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}

	return n, nil
}

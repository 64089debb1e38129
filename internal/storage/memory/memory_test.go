package memory

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/IlyasAtabaev731/ecofinds/internal/domain/models"
	"github.com/IlyasAtabaev731/ecofinds/internal/storage"
)

var base = time.Date(2024, 1, 15, 10, 0, 0, 0, time.UTC)

func newItem(id, seller string, offset time.Duration) models.Item {
	return models.Item{
		ID:              id,
		Title:           "Item " + id,
		Description:     "desc",
		Price:           decimal.NewFromInt(100),
		Category:        "Books",
		SellerID:        seller,
		EcoPointsReward: 5,
		IsAvailable:     true,
		Images:          []string{"a.jpg"},
		CreatedAt:       base.Add(offset),
	}
}

func TestCreateUserUniqueEmail(t *testing.T) {
	ctx := context.Background()
	s := New()

	require.NoError(t, s.CreateUser(ctx, models.User{ID: "u1", Email: "john@example.com"}))
	err := s.CreateUser(ctx, models.User{ID: "u2", Email: "john@example.com"})
	assert.ErrorIs(t, err, storage.ErrEmailTaken)

	n, err := s.CountUsers(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	u, err := s.UserByEmail(ctx, "john@example.com")
	require.NoError(t, err)
	assert.Equal(t, "u1", u.ID)
}

func TestListUsersOldestFirst(t *testing.T) {
	ctx := context.Background()
	s := New()

	users, err := s.ListUsers(ctx)
	require.NoError(t, err)
	assert.Empty(t, users)

	require.NoError(t, s.CreateUser(ctx, models.User{ID: "u2", Email: "b@example.com", CreatedAt: base.Add(time.Hour)}))
	require.NoError(t, s.CreateUser(ctx, models.User{ID: "u1", Email: "a@example.com", CreatedAt: base}))

	users, err = s.ListUsers(ctx)
	require.NoError(t, err)
	require.Len(t, users, 2)
	assert.Equal(t, "u1", users[0].ID)
	assert.Equal(t, "u2", users[1].ID)
}

func TestUserByIDNotFound(t *testing.T) {
	_, err := New().UserByID(context.Background(), "missing")
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestAddEcoPoints(t *testing.T) {
	ctx := context.Background()
	s := New()
	require.NoError(t, s.CreateUser(ctx, models.User{ID: "u1", Email: "a@b.c", EcoPoints: 100}))

	require.NoError(t, s.AddEcoPoints(ctx, "u1", 15))
	u, err := s.UserByID(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, 115, u.EcoPoints)

	assert.ErrorIs(t, s.AddEcoPoints(ctx, "nobody", 1), storage.ErrNotFound)
}

func TestMarkItemSoldIsOneWay(t *testing.T) {
	ctx := context.Background()
	s := New()
	require.NoError(t, s.CreateItem(ctx, newItem("i1", "u1", 0)))

	require.NoError(t, s.MarkItemSold(ctx, "i1"))
	assert.ErrorIs(t, s.MarkItemSold(ctx, "i1"), storage.ErrItemUnavailable)
	assert.ErrorIs(t, s.MarkItemSold(ctx, "missing"), storage.ErrNotFound)

	item, err := s.ItemByID(ctx, "i1")
	require.NoError(t, err)
	assert.False(t, item.IsAvailable)
}

func TestItemImagesAreCopied(t *testing.T) {
	ctx := context.Background()
	s := New()
	require.NoError(t, s.CreateItem(ctx, newItem("i1", "u1", 0)))

	item, err := s.ItemByID(ctx, "i1")
	require.NoError(t, err)
	item.Images[0] = "changed.jpg"

	again, err := s.ItemByID(ctx, "i1")
	require.NoError(t, err)
	assert.Equal(t, "a.jpg", again.Images[0])
}

func TestListItemsNewestFirstAndFiltered(t *testing.T) {
	ctx := context.Background()
	s := New()
	require.NoError(t, s.CreateItem(ctx, newItem("old", "u1", 0)))
	require.NoError(t, s.CreateItem(ctx, newItem("new", "u1", time.Hour)))
	other := newItem("other", "u2", 30*time.Minute)
	other.Category = "Electronics"
	require.NoError(t, s.CreateItem(ctx, other))

	items, err := s.ListItems(ctx, models.ItemFilter{})
	require.NoError(t, err)
	require.Len(t, items, 3)
	assert.Equal(t, []string{"new", "other", "old"}, []string{items[0].ID, items[1].ID, items[2].ID})

	items, err = s.ListItems(ctx, models.ItemFilter{Category: "electronics"})
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "other", items[0].ID)

	items, err = s.ListItems(ctx, models.ItemFilter{SellerID: "u1"})
	require.NoError(t, err)
	assert.Len(t, items, 2)
}

func TestMessagesByItem(t *testing.T) {
	ctx := context.Background()
	s := New()
	msgs := []models.Message{
		{ID: "m2", ItemID: "i1", SenderID: "b", ReceiverID: "a", Timestamp: base.Add(2 * time.Minute)},
		{ID: "m1", ItemID: "i1", SenderID: "a", ReceiverID: "b", Timestamp: base.Add(time.Minute)},
		{ID: "m3", ItemID: "i1", SenderID: "c", ReceiverID: "b", Timestamp: base},
		{ID: "m4", ItemID: "i2", SenderID: "a", ReceiverID: "b", Timestamp: base},
	}
	for _, m := range msgs {
		require.NoError(t, s.CreateMessage(ctx, m))
	}

	got, err := s.MessagesByItem(ctx, "i1", "a")
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "m1", got[0].ID)
	assert.Equal(t, "m2", got[1].ID)
}

func TestTransactionsByUser(t *testing.T) {
	ctx := context.Background()
	s := New()
	require.NoError(t, s.CreateTransaction(ctx, models.Transaction{ID: "t1", BuyerID: "a", SellerID: "b", CreatedAt: base}))
	require.NoError(t, s.CreateTransaction(ctx, models.Transaction{ID: "t2", BuyerID: "b", SellerID: "a", CreatedAt: base.Add(time.Hour)}))
	require.NoError(t, s.CreateTransaction(ctx, models.Transaction{ID: "t3", BuyerID: "b", SellerID: "c", CreatedAt: base}))

	got, err := s.TransactionsByUser(ctx, "a")
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "t2", got[0].ID)
	assert.Equal(t, "t1", got[1].ID)
}

func TestInTxRollsBackOnError(t *testing.T) {
	ctx := context.Background()
	s := New()
	require.NoError(t, s.CreateUser(ctx, models.User{ID: "buyer", Email: "b@x.io", EcoPoints: 100}))
	require.NoError(t, s.CreateItem(ctx, newItem("i1", "seller", 0)))

	boom := errors.New("boom")
	err := s.InTx(ctx, func(ctx context.Context, repo storage.Repository) error {
		require.NoError(t, repo.MarkItemSold(ctx, "i1"))
		require.NoError(t, repo.AddEcoPoints(ctx, "buyer", 5))
		require.NoError(t, repo.CreateTransaction(ctx, models.Transaction{ID: "t1", BuyerID: "buyer"}))
		return boom
	})
	assert.ErrorIs(t, err, boom)

	item, err := s.ItemByID(ctx, "i1")
	require.NoError(t, err)
	assert.True(t, item.IsAvailable)

	u, err := s.UserByID(ctx, "buyer")
	require.NoError(t, err)
	assert.Equal(t, 100, u.EcoPoints)

	txs, err := s.TransactionsByUser(ctx, "buyer")
	require.NoError(t, err)
	assert.Empty(t, txs)
}

func TestInTxCommits(t *testing.T) {
	ctx := context.Background()
	s := New()
	require.NoError(t, s.CreateItem(ctx, newItem("i1", "seller", 0)))

	err := s.InTx(ctx, func(ctx context.Context, repo storage.Repository) error {
		return repo.MarkItemSold(ctx, "i1")
	})
	require.NoError(t, err)

	// writes outside a transaction are not journaled
	require.NoError(t, s.CreateItem(ctx, newItem("i2", "seller", 0)))
	assert.Nil(t, s.t.journal)

	item, err := s.ItemByID(ctx, "i1")
	require.NoError(t, err)
	assert.False(t, item.IsAvailable)
}

func TestInTxSerializesPurchases(t *testing.T) {
	ctx := context.Background()
	s := New()
	require.NoError(t, s.CreateItem(ctx, newItem("i1", "seller", 0)))

	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		successes int
	)
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			err := s.InTx(ctx, func(ctx context.Context, repo storage.Repository) error {
				item, err := repo.ItemByID(ctx, "i1")
				if err != nil {
					return err
				}
				if !item.IsAvailable {
					return storage.ErrItemUnavailable
				}
				return repo.MarkItemSold(ctx, "i1")
			})
			if err == nil {
				mu.Lock()
				successes++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, successes)
}

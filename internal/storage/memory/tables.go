package memory

import (
	"context"
	"fmt"
	"slices"
	"sort"

	"github.com/IlyasAtabaev731/ecofinds/internal/domain/models"
	"github.com/IlyasAtabaev731/ecofinds/internal/storage"
)

// tables holds the maps. Its methods do no locking; Storage does that.
type tables struct {
	users        map[string]models.User
	items        map[string]models.Item
	messages     map[string]models.Message
	transactions map[string]models.Transaction

	// journal collects undo steps while a transaction is open
	journal []func()
}

func newTables() *tables {
	return &tables{
		users:        make(map[string]models.User),
		items:        make(map[string]models.Item),
		messages:     make(map[string]models.Message),
		transactions: make(map[string]models.Transaction),
	}
}

func (t *tables) record(undo func()) {
	if t.journal != nil {
		t.journal = append(t.journal, undo)
	}
}

func (t *tables) rollback() {
	for i := len(t.journal) - 1; i >= 0; i-- {
		t.journal[i]()
	}
}

func (t *tables) CreateUser(_ context.Context, user models.User) error {
	const op = "storage.memory.CreateUser"

	if _, ok := t.users[user.ID]; ok {
		return fmt.Errorf("%s: duplicate id %s", op, user.ID)
	}
	for _, u := range t.users {
		if u.Email == user.Email {
			return fmt.Errorf("%s: %w", op, storage.ErrEmailTaken)
		}
	}

	t.users[user.ID] = user
	t.record(func() { delete(t.users, user.ID) })

	return nil
}

func (t *tables) UserByID(_ context.Context, id string) (models.User, error) {
	const op = "storage.memory.UserByID"

	user, ok := t.users[id]
	if !ok {
		return models.User{}, fmt.Errorf("%s: %w", op, storage.ErrNotFound)
	}
	return user, nil
}

func (t *tables) UserByEmail(_ context.Context, email string) (models.User, error) {
	const op = "storage.memory.UserByEmail"

	for _, u := range t.users {
		if u.Email == email {
			return u, nil
		}
	}
	return models.User{}, fmt.Errorf("%s: %w", op, storage.ErrNotFound)
}

func (t *tables) ListUsers(_ context.Context) ([]models.User, error) {
	users := make([]models.User, 0, len(t.users))
	for _, u := range t.users {
		users = append(users, u)
	}
	sort.Slice(users, func(i, j int) bool {
		return users[i].CreatedAt.Before(users[j].CreatedAt)
	})
	return users, nil
}

func (t *tables) AddEcoPoints(_ context.Context, userID string, delta int) error {
	const op = "storage.memory.AddEcoPoints"

	user, ok := t.users[userID]
	if !ok {
		return fmt.Errorf("%s: %w", op, storage.ErrNotFound)
	}

	user.EcoPoints += delta
	t.users[userID] = user
	t.record(func() {
		u := t.users[userID]
		u.EcoPoints -= delta
		t.users[userID] = u
	})

	return nil
}

func (t *tables) CountUsers(_ context.Context) (int, error) {
	return len(t.users), nil
}

func (t *tables) CreateItem(_ context.Context, item models.Item) error {
	const op = "storage.memory.CreateItem"

	if _, ok := t.items[item.ID]; ok {
		return fmt.Errorf("%s: duplicate id %s", op, item.ID)
	}

	item.Images = slices.Clone(item.Images)
	t.items[item.ID] = item
	t.record(func() { delete(t.items, item.ID) })

	return nil
}

func (t *tables) ItemByID(_ context.Context, id string) (models.Item, error) {
	const op = "storage.memory.ItemByID"

	item, ok := t.items[id]
	if !ok {
		return models.Item{}, fmt.Errorf("%s: %w", op, storage.ErrNotFound)
	}
	item.Images = slices.Clone(item.Images)
	return item, nil
}

func (t *tables) ListItems(_ context.Context, filter models.ItemFilter) ([]models.Item, error) {
	items := make([]models.Item, 0)
	for _, item := range t.items {
		if !filter.Match(item) {
			continue
		}
		item.Images = slices.Clone(item.Images)
		items = append(items, item)
	}
	sort.Slice(items, func(i, j int) bool {
		if items[i].CreatedAt.Equal(items[j].CreatedAt) {
			return items[i].ID < items[j].ID
		}
		return items[i].CreatedAt.After(items[j].CreatedAt)
	})
	return items, nil
}

func (t *tables) MarkItemSold(_ context.Context, id string) error {
	const op = "storage.memory.MarkItemSold"

	item, ok := t.items[id]
	if !ok {
		return fmt.Errorf("%s: %w", op, storage.ErrNotFound)
	}
	if !item.IsAvailable {
		return fmt.Errorf("%s: %w", op, storage.ErrItemUnavailable)
	}

	item.IsAvailable = false
	t.items[id] = item
	t.record(func() {
		it := t.items[id]
		it.IsAvailable = true
		t.items[id] = it
	})

	return nil
}

func (t *tables) CountItems(_ context.Context) (int, error) {
	return len(t.items), nil
}

func (t *tables) CreateMessage(_ context.Context, msg models.Message) error {
	const op = "storage.memory.CreateMessage"

	if _, ok := t.messages[msg.ID]; ok {
		return fmt.Errorf("%s: duplicate id %s", op, msg.ID)
	}

	t.messages[msg.ID] = msg
	t.record(func() { delete(t.messages, msg.ID) })

	return nil
}

func (t *tables) MessagesByItem(_ context.Context, itemID, participantID string) ([]models.Message, error) {
	msgs := make([]models.Message, 0)
	for _, m := range t.messages {
		if m.ItemID != itemID {
			continue
		}
		if m.SenderID != participantID && m.ReceiverID != participantID {
			continue
		}
		msgs = append(msgs, m)
	}
	sort.Slice(msgs, func(i, j int) bool {
		if msgs[i].Timestamp.Equal(msgs[j].Timestamp) {
			return msgs[i].ID < msgs[j].ID
		}
		return msgs[i].Timestamp.Before(msgs[j].Timestamp)
	})
	return msgs, nil
}

func (t *tables) CreateTransaction(_ context.Context, tx models.Transaction) error {
	const op = "storage.memory.CreateTransaction"

	if _, ok := t.transactions[tx.ID]; ok {
		return fmt.Errorf("%s: duplicate id %s", op, tx.ID)
	}

	t.transactions[tx.ID] = tx
	t.record(func() { delete(t.transactions, tx.ID) })

	return nil
}

func (t *tables) TransactionsByUser(_ context.Context, userID string) ([]models.Transaction, error) {
	txs := make([]models.Transaction, 0)
	for _, tx := range t.transactions {
		if tx.BuyerID == userID || tx.SellerID == userID {
			txs = append(txs, tx)
		}
	}
	sort.Slice(txs, func(i, j int) bool {
		if txs[i].CreatedAt.Equal(txs[j].CreatedAt) {
			return txs[i].ID < txs[j].ID
		}
		return txs[i].CreatedAt.After(txs[j].CreatedAt)
	})
	return txs, nil
}

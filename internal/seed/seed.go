// Package seed loads the demo users and listings the marketplace ships with.
package seed

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/IlyasAtabaev731/ecofinds/internal/domain/models"
	"github.com/IlyasAtabaev731/ecofinds/internal/storage"
)

const (
	SampleEmail    = "john@example.com"
	SamplePassword = "secret"

	// bcrypt hash of SamplePassword
	samplePasswordHash = "$2b$12$EixZaYVK1fsbw1ZfbX3OXePaWxn96p36WQoeG6Lruj3vjPGga31lW"
)

func ts(s string) time.Time {
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		panic(err)
	}
	return t
}

func Users() []models.User {
	return []models.User{
		{ID: "user1", Email: "john@example.com", Username: "john_eco", FullName: "John Doe", EcoPoints: 150, CreatedAt: ts("2024-01-15T10:00:00Z")},
		{ID: "user2", Email: "alice@example.com", Username: "alice_green", FullName: "Alice Smith", EcoPoints: 200, CreatedAt: ts("2024-01-10T09:00:00Z")},
		{ID: "user3", Email: "bob@example.com", Username: "bob_sustainable", FullName: "Bob Johnson", EcoPoints: 75, CreatedAt: ts("2024-01-20T11:00:00Z")},
	}
}

func Items() []models.Item {
	item := func(id, title, desc, price, category, condition, image, seller string, reward int, created string) models.Item {
		return models.Item{
			ID:              id,
			Title:           title,
			Description:     desc,
			Price:           decimal.RequireFromString(price),
			Category:        category,
			Condition:       condition,
			Images:          []string{image},
			SellerID:        seller,
			EcoPointsReward: reward,
			IsAvailable:     true,
			CreatedAt:       ts(created),
		}
	}

	return []models.Item{
		item("item1", "iPhone 12 Pro - Excellent Condition",
			"Barely used iPhone 12 Pro in perfect condition. Comes with original charger and box. No scratches or dents.",
			"599.99", "Electronics", "Excellent", "https://images.unsplash.com/photo-1592286948467-b6d18a6a3930?w=500",
			"user1", 15, "2024-01-16T10:30:00Z"),
		item("item2", "Vintage Leather Jacket",
			"Classic brown leather jacket from the 80s. Real leather, still in great shape. Size Medium.",
			"89.99", "Clothing", "Good", "https://images.unsplash.com/photo-1551028719-00167b16eac5?w=500",
			"user2", 10, "2024-01-12T14:20:00Z"),
		item("item3", "JavaScript Programming Books Set",
			"Collection of 5 JavaScript programming books including ES6, React, and Node.js guides. Perfect for beginners and intermediate developers.",
			"45.00", "Books", "Good", "https://images.unsplash.com/photo-1544716278-ca5e3f4abd8c?w=500",
			"user1", 8, "2024-01-18T16:00:00Z"),
		item("item4", "Gaming Mechanical Keyboard",
			"RGB mechanical keyboard with blue switches. Perfect for gaming and typing. Barely used, like new condition.",
			"120.00", "Electronics", "Excellent", "https://images.unsplash.com/photo-1541140532154-b024d705b90a?w=500",
			"user3", 12, "2024-01-21T12:15:00Z"),
		item("item5", "Ceramic Plant Pots Set",
			"Beautiful set of 3 ceramic plant pots in different sizes. Perfect for indoor plants. White with gold accents.",
			"35.00", "Home & Garden", "Excellent", "https://images.unsplash.com/photo-1485955900006-10f4d324d411?w=500",
			"user2", 8, "2024-01-14T09:45:00Z"),
		item("item6", "Nike Running Shoes Size 9",
			"Nike Air Max running shoes, size 9. Used but still in good condition. Great for jogging and casual wear.",
			"65.00", "Sports", "Good", "https://images.unsplash.com/photo-1542291026-7eec264c27ff?w=500",
			"user3", 10, "2024-01-19T13:30:00Z"),
		item("item7", "Wooden Coffee Table",
			"Solid wood coffee table with storage drawers. Perfect for living room. Some minor wear but very sturdy.",
			"180.00", "Home & Garden", "Good", "https://images.unsplash.com/photo-1586023492125-27b2c045efd7?w=500",
			"user1", 18, "2024-01-17T11:00:00Z"),
		item("item8", "Designer Sunglasses",
			"Ray-Ban Aviator sunglasses in excellent condition. Comes with original case and cleaning cloth.",
			"95.00", "Clothing", "Excellent", "https://images.unsplash.com/photo-1572635196237-14b3f281503f?w=500",
			"user2", 10, "2024-01-13T15:20:00Z"),
	}
}

// Load inserts the demo data. Records that already exist are left alone, so
// running it against a persistent store twice is harmless.
func Load(ctx context.Context, repo storage.Repository) (users, items int, err error) {
	for _, u := range Users() {
		if _, err := repo.UserByID(ctx, u.ID); err == nil {
			continue
		} else if !errors.Is(err, storage.ErrNotFound) {
			return users, items, fmt.Errorf("seed.Load: %w", err)
		}

		u.PasswordHash = samplePasswordHash
		if err := repo.CreateUser(ctx, u); err != nil {
			if errors.Is(err, storage.ErrEmailTaken) {
				continue
			}
			return users, items, fmt.Errorf("seed.Load: %w", err)
		}
		users++
	}

	for _, it := range Items() {
		if _, err := repo.ItemByID(ctx, it.ID); err == nil {
			continue
		} else if !errors.Is(err, storage.ErrNotFound) {
			return users, items, fmt.Errorf("seed.Load: %w", err)
		}

		if err := repo.CreateItem(ctx, it); err != nil {
			return users, items, fmt.Errorf("seed.Load: %w", err)
		}
		items++
	}

	return users, items, nil
}

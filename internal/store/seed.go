package store

import (
	"context"
	"fmt"

	"github.com/jekabolt/shop-analytics/internal/entity"
)

// InsertPlayer stores a player. Existing ids are updated in place.
func (ms *MYSQLStore) InsertPlayer(ctx context.Context, p entity.Player) error {
	query := `
	INSERT INTO player (id, domain_id, name)
	VALUES (:id, :domainId, :name)
	ON DUPLICATE KEY UPDATE name = VALUES(name)`
	err := ExecNamed(ctx, ms.db, query, map[string]any{
		"id":       p.Id,
		"domainId": p.DomainId,
		"name":     p.Name,
	})
	if err != nil {
		return fmt.Errorf("insert player: %w", err)
	}
	return nil
}

func (ms *MYSQLStore) InsertCategory(ctx context.Context, c entity.ShopCategory) error {
	query := `
	INSERT INTO shop_category (id, domain_id, name)
	VALUES (:id, :domainId, :name)
	ON DUPLICATE KEY UPDATE name = VALUES(name)`
	err := ExecNamed(ctx, ms.db, query, map[string]any{
		"id":       c.Id,
		"domainId": c.DomainId,
		"name":     c.Name,
	})
	if err != nil {
		return fmt.Errorf("insert category: %w", err)
	}
	return nil
}

// InsertListing stores a listing together with its category links.
func (ms *MYSQLStore) InsertListing(ctx context.Context, l entity.ShopListing) error {
	query := `
	INSERT INTO shop_listing (id, domain_id, game_server_id, name, price, created_at, deleted_at)
	VALUES (:id, :domainId, :gameServerId, :name, :price, :createdAt, :deletedAt)`
	err := ExecNamed(ctx, ms.db, query, map[string]any{
		"id":           l.Id,
		"domainId":     l.DomainId,
		"gameServerId": l.GameServerId,
		"name":         l.Name,
		"price":        l.Price,
		"createdAt":    l.CreatedAt,
		"deletedAt":    l.DeletedAt,
	})
	if err != nil {
		return fmt.Errorf("insert listing: %w", err)
	}
	for _, categoryId := range l.CategoryIds {
		err := ExecNamed(ctx, ms.db, `
		INSERT INTO shop_listing_category (shop_listing_id, shop_category_id)
		VALUES (:listingId, :categoryId)`, map[string]any{
			"listingId":  l.Id,
			"categoryId": categoryId,
		})
		if err != nil {
			return fmt.Errorf("insert listing category: %w", err)
		}
	}
	return nil
}

func (ms *MYSQLStore) InsertOrder(ctx context.Context, o entity.ShopOrder) error {
	query := `
	INSERT INTO shop_order (id, domain_id, listing_id, player_id, amount, status, created_at)
	VALUES (:id, :domainId, :listingId, :playerId, :amount, :status, :createdAt)`
	err := ExecNamed(ctx, ms.db, query, map[string]any{
		"id":        o.Id,
		"domainId":  o.DomainId,
		"listingId": o.ListingId,
		"playerId":  o.PlayerId,
		"amount":    o.Amount,
		"status":    o.Status.String(),
		"createdAt": o.CreatedAt,
	})
	if err != nil {
		return fmt.Errorf("insert order: %w", err)
	}
	return nil
}

// Package seed fills a shop store with generated demo data.
package seed

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jaswdr/faker"
	"github.com/jekabolt/shop-analytics/internal/dependency"
	"github.com/jekabolt/shop-analytics/internal/entity"
	"github.com/shopspring/decimal"
)

var categoryNames = []string{"Ranks", "Kits", "Cosmetics", "Keys", "Boosters", "Pets"}

type Config struct {
	DomainId    string
	GameServers int
	Players     int
	Categories  int
	Listings    int
	Orders      int
	// Days is how far back orders are spread.
	Days int
	Seed uint64
}

func DefaultConfig(domainId string) Config {
	return Config{
		DomainId:    domainId,
		GameServers: 2,
		Players:     40,
		Categories:  4,
		Listings:    15,
		Orders:      300,
		Days:        120,
		Seed:        1,
	}
}

func (c Config) validate() error {
	switch {
	case c.DomainId == "":
		return fmt.Errorf("domain id is required")
	case c.GameServers < 1, c.Players < 1, c.Listings < 1:
		return fmt.Errorf("game servers, players and listings must be positive")
	case c.Categories < 0 || c.Categories > len(categoryNames):
		return fmt.Errorf("categories must be between 0 and %d", len(categoryNames))
	case c.Orders < 0 || c.Days < 1:
		return fmt.Errorf("orders must not be negative and days must be positive")
	}
	return nil
}

// Summary counts the generated records.
type Summary struct {
	GameServerIds []string
	Players       int
	Categories    int
	Listings      int
	Orders        int
}

// Generate writes players, categories, listings and orders for one domain.
// Orders are spread over the last c.Days before now and never predate their listing.
func Generate(ctx context.Context, w dependency.ShopWriter, c Config, now time.Time) (Summary, error) {
	var sum Summary
	if err := c.validate(); err != nil {
		return sum, err
	}
	rnd := rand.New(rand.NewSource(int64(c.Seed)))
	fake := faker.NewWithSeed(rand.NewSource(int64(c.Seed) + 1))

	for range c.GameServers {
		sum.GameServerIds = append(sum.GameServerIds, uuid.NewString())
	}

	players := make([]string, 0, c.Players)
	for range c.Players {
		p := entity.Player{
			Id:       uuid.NewString(),
			DomainId: c.DomainId,
			Name:     fake.Person().Name(),
		}
		if err := w.InsertPlayer(ctx, p); err != nil {
			return sum, err
		}
		players = append(players, p.Id)
		sum.Players++
	}

	categories := make([]string, 0, c.Categories)
	for _, name := range categoryNames[:c.Categories] {
		cat := entity.ShopCategory{
			Id:       uuid.NewString(),
			DomainId: c.DomainId,
			Name:     name,
		}
		if err := w.InsertCategory(ctx, cat); err != nil {
			return sum, err
		}
		categories = append(categories, cat.Id)
		sum.Categories++
	}

	window := time.Duration(c.Days) * 24 * time.Hour
	listings := make([]entity.ShopListing, 0, c.Listings)
	for i := range c.Listings {
		l := entity.ShopListing{
			Id:           uuid.NewString(),
			DomainId:     c.DomainId,
			GameServerId: sum.GameServerIds[rnd.Intn(len(sum.GameServerIds))],
			Name:         itemName(fake),
			Price:        decimal.NewFromInt(int64(1 + rnd.Intn(50))).Add(decimal.New(99, -2)),
			CreatedAt:    now.Add(-window - time.Duration(rnd.Int63n(int64(30*24*time.Hour)))).Truncate(time.Second),
		}
		if len(categories) > 0 {
			l.CategoryIds = []string{categories[i%len(categories)]}
		}
		if err := w.InsertListing(ctx, l); err != nil {
			return sum, err
		}
		listings = append(listings, l)
		sum.Listings++
	}

	// The last listing never sells so dead stock is never empty.
	sellable := listings
	if len(listings) > 1 {
		sellable = listings[:len(listings)-1]
	}
	for range c.Orders {
		o := entity.ShopOrder{
			Id:        uuid.NewString(),
			DomainId:  c.DomainId,
			ListingId: sellable[rnd.Intn(len(sellable))].Id,
			PlayerId:  players[rnd.Intn(len(players))],
			Amount:    1 + rnd.Intn(3),
			Status:    randomStatus(rnd),
			CreatedAt: now.Add(-time.Duration(rnd.Int63n(int64(window)))).Truncate(time.Second),
		}
		if err := w.InsertOrder(ctx, o); err != nil {
			return sum, err
		}
		sum.Orders++
	}

	slog.Default().InfoContext(ctx, "seeded shop data",
		slog.String("domain", c.DomainId),
		slog.Int("players", sum.Players),
		slog.Int("listings", sum.Listings),
		slog.Int("orders", sum.Orders),
	)
	return sum, nil
}

// itemName is two capitalized lorem words, like "Dolor Amet".
func itemName(fake faker.Faker) string {
	return capitalize(fake.Lorem().Word()) + " " + capitalize(fake.Lorem().Word())
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

func randomStatus(rnd *rand.Rand) entity.OrderStatus {
	switch n := rnd.Intn(10); {
	case n < 7:
		return entity.OrderStatusCompleted
	case n < 9:
		return entity.OrderStatusPaid
	default:
		return entity.OrderStatusCanceled
	}
}

package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// OrderStatus is the custom type to enforce enum-like behavior
type OrderStatus string

const (
	OrderStatusPaid      OrderStatus = "PAID"
	OrderStatusCompleted OrderStatus = "COMPLETED"
	OrderStatusCanceled  OrderStatus = "CANCELED"
)

// RevenueStatuses are the statuses counted towards revenue and customer metrics.
var RevenueStatuses = []OrderStatus{OrderStatusPaid, OrderStatusCompleted}

func (s OrderStatus) String() string {
	return string(s)
}

// CountsAsRevenue reports whether orders in this status are part of revenue metrics.
func (s OrderStatus) CountsAsRevenue() bool {
	return s == OrderStatusPaid || s == OrderStatusCompleted
}

// ShopOrder is a persisted order. Amount is the purchased quantity.
type ShopOrder struct {
	Id        string      `db:"id"`
	DomainId  string      `db:"domain_id"`
	ListingId string      `db:"listing_id"`
	PlayerId  string      `db:"player_id"`
	Amount    int         `db:"amount"`
	Status    OrderStatus `db:"status"`
	CreatedAt time.Time   `db:"created_at"`
}

// ShopListing is a catalog item sold on a game server.
type ShopListing struct {
	Id           string          `db:"id"`
	DomainId     string          `db:"domain_id"`
	GameServerId string          `db:"game_server_id"`
	Name         string          `db:"name"`
	Price        decimal.Decimal `db:"price"`
	CategoryIds  []string        `db:"-"`
	CreatedAt    time.Time       `db:"created_at"`
	DeletedAt    *time.Time      `db:"deleted_at"`
}

type ShopCategory struct {
	Id       string `db:"id"`
	DomainId string `db:"domain_id"`
	Name     string `db:"name"`
}

type Player struct {
	Id       string `db:"id"`
	DomainId string `db:"domain_id"`
	Name     string `db:"name"`
}

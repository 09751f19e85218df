package models

import "time"

const (
	OrderStatusPending = "PENDING"
	OrderStatusOpen    = "OPEN"
	OrderStatusClosed  = "CLOSED"
)

type Order struct {
	ID         string    `db:"id"`
	Ticket     int64     `db:"ticket"`
	SignalID   string    `db:"signal_id"`
	GroupID    string    `db:"group_id"`
	ChannelID  int64     `db:"channel_id"`
	AccountID  string    `db:"account_id"`
	Platform   string    `db:"platform"`
	Symbol     string    `db:"symbol"`
	Side       string    `db:"side"`
	Entry      float64   `db:"entry"`
	StopLoss   float64   `db:"stop_loss"`
	TakeProfit float64   `db:"take_profit"`
	TPLevel    int       `db:"tp_level"`
	Lots       float64   `db:"lots"`
	Status     string    `db:"status"`
	CreatedAt  time.Time `db:"created_at"`
}

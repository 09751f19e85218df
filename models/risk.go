package models

import "time"

const (
	LimitKindLoss   = "LOSS"
	LimitKindProfit = "PROFIT"
	LimitKindTrades = "TRADES"
)

// DailyRiskStats is one row per account per calendar day. Recreated at the
// account's reset boundary.
type DailyRiskStats struct {
	ID           string    `db:"id"`
	AccountID    string    `db:"account_id"`
	Platform     string    `db:"platform"`
	Day          string    `db:"day"`
	TradesOpened int       `db:"trades_opened"`
	TradesClosed int       `db:"trades_closed"`
	Profit       float64   `db:"profit"`
	LimitHit     bool      `db:"limit_hit"`
	LimitKind    string    `db:"limit_kind"`
	CreatedAt    time.Time `db:"created_at"`
}

package structs

import "go.mongodb.org/mongo-driver/bson/primitive"

const (
	PlatformMT4 = "MT4"
	PlatformMT5 = "MT5"
)

// AccountProfile holds the per-account execution and risk configuration.
// Balance is a static snapshot, not a live equity feed.
type AccountProfile struct {
	ID        primitive.ObjectID `bson:"_id,omitempty"`
	AccountID string             `bson:"account_id"`
	Platform  string             `bson:"platform"`
	Enabled   bool               `bson:"enabled"`
	Balance   float64            `bson:"balance"`

	MaxDailyLoss        float64 `bson:"max_daily_loss"`
	MaxDailyLossPercent float64 `bson:"max_daily_loss_percent"`
	MaxDailyProfit      float64 `bson:"max_daily_profit"`
	BlockOnProfit       bool    `bson:"block_on_profit"`
	MaxDailyTrades      int     `bson:"max_daily_trades"`

	PauseUntilReset   bool   `bson:"pause_until_reset"`
	CloseAllOnLimit   bool   `bson:"close_all_on_limit"`
	CloseOnlyOverride bool   `bson:"close_only_override"`
	ResetTime         string `bson:"reset_time"` // "15:04", default midnight
}

func (a *AccountProfile) ResetAt() string {
	if a.ResetTime == "" {
		return "00:00"
	}
	return a.ResetTime
}

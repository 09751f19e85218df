package usecasees

import (
	"testing"
	"time"

	"signalcopier/internal/repository/mongo/structs"
	"signalcopier/models"
	orderStructs "signalcopier/internal/usecasees/structs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRiskFixture(account *structs.AccountProfile) (*riskUseCase, *fakeRiskRepo, *fakeOrderRepo, *int) {
	riskRepo := newFakeRiskRepo()
	orderRepo := &fakeOrderRepo{}

	bus := NewBus()
	limitEvents := 0
	bus.OnLimitHit(func(accountID, platform, kind string) {
		limitEvents++
	})

	balance := func(accountID, platform string) float64 {
		return account.Balance
	}

	return NewRiskUseCase(riskRepo, orderRepo, balance, bus, testLogger()), riskRepo, orderRepo, &limitEvents
}

func TestRisk_LossCapLatchesOnce(t *testing.T) {
	account := testAccount()
	account.MaxDailyLoss = 100
	account.PauseUntilReset = true

	risk, _, _, limitEvents := newRiskFixture(account)
	now := time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC)

	assert.Empty(t, risk.OnTradeClosed(account, -60, now))
	assert.Equal(t, 0, *limitEvents)

	allowed, _ := risk.CanOpen(account, now)
	assert.True(t, allowed)

	risk.OnTradeClosed(account, -50, now)
	assert.Equal(t, 1, *limitEvents)

	allowed, reason := risk.CanOpen(account, now)
	assert.False(t, allowed)
	assert.Contains(t, reason, "LOSS")

	// Further losses never re-fire the latched kind.
	risk.OnTradeClosed(account, -10, now)
	assert.Equal(t, 1, *limitEvents)
}

func TestRisk_PercentLossCapUsesBalance(t *testing.T) {
	account := testAccount() // balance 10000
	account.MaxDailyLossPercent = 2

	risk, _, _, limitEvents := newRiskFixture(account)
	now := time.Now()

	risk.OnTradeClosed(account, -150, now)
	assert.Equal(t, 0, *limitEvents)

	risk.OnTradeClosed(account, -60, now)
	assert.Equal(t, 1, *limitEvents)
}

func TestRisk_TradeCap(t *testing.T) {
	account := testAccount()
	account.MaxDailyTrades = 2

	risk, _, _, _ := newRiskFixture(account)
	now := time.Now()

	risk.OnTradeOpened(account, now)
	allowed, _ := risk.CanOpen(account, now)
	assert.True(t, allowed)

	risk.OnTradeOpened(account, now)
	allowed, reason := risk.CanOpen(account, now)
	assert.False(t, allowed)
	assert.Contains(t, reason, "trade cap")
}

func TestRisk_ProfitTargetBlocksOnlyWhenConfigured(t *testing.T) {
	account := testAccount()
	account.MaxDailyProfit = 200

	risk, _, _, _ := newRiskFixture(account)
	now := time.Now()

	risk.OnTradeClosed(account, 250, now)

	// BlockOnProfit off: the event latches but opening stays allowed.
	allowed, _ := risk.CanOpen(account, now)
	assert.True(t, allowed)

	account.BlockOnProfit = true
	allowed, reason := risk.CanOpen(account, now)
	assert.False(t, allowed)
	assert.Contains(t, reason, "profit")
}

func TestRisk_CloseAllOnLimit(t *testing.T) {
	account := testAccount()
	account.MaxDailyLoss = 100
	account.CloseAllOnLimit = true

	risk, _, orderRepo, _ := newRiskFixture(account)
	_ = orderRepo.Store(&models.Order{
		ID:        "o1",
		AccountID: account.AccountID,
		Platform:  account.Platform,
		Ticket:    11,
		Status:    models.OrderStatusOpen,
	})

	cmds := risk.OnTradeClosed(account, -120, time.Now())

	require.Len(t, cmds, 1)
	assert.Equal(t, orderStructs.CommandClose, cmds[0].Kind)
	assert.Equal(t, []int64{11}, cmds[0].Tickets)
	assert.Equal(t, 100.0, cmds[0].Percentage)
}

func TestRisk_CloseOnlyOverride(t *testing.T) {
	account := testAccount()
	account.MaxDailyLoss = 100
	account.PauseUntilReset = true
	account.CloseOnlyOverride = true

	risk, _, _, _ := newRiskFixture(account)
	now := time.Now()

	risk.OnTradeClosed(account, -120, now)

	// Latched pause is bypassed, though the loss cap itself still denies.
	allowed, reason := risk.CanOpen(account, now)
	assert.False(t, allowed)
	assert.Contains(t, reason, "loss cap")
}

func TestRisk_ResetCheck(t *testing.T) {
	account := testAccount()
	account.MaxDailyLoss = 100
	account.PauseUntilReset = true
	account.ResetTime = "21:00"

	risk, riskRepo, _, _ := newRiskFixture(account)
	day := time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC)

	risk.OnTradeClosed(account, -120, day)

	allowed, _ := risk.CanOpen(account, day)
	require.False(t, allowed)

	// Off the boundary: nothing happens.
	risk.ResetCheck([]structs.AccountProfile{*account}, day)
	assert.Len(t, riskRepo.stats, 1)

	// On the boundary the day row is discarded and trading resumes.
	boundary := time.Date(2026, 3, 2, 21, 0, 0, 0, time.UTC)
	risk.ResetCheck([]structs.AccountProfile{*account}, boundary)
	assert.Empty(t, riskRepo.stats)

	allowed, _ = risk.CanOpen(account, boundary)
	assert.True(t, allowed)
}

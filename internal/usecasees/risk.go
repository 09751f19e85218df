package usecasees

import (
	"fmt"
	"sync"
	"time"

	"signalcopier/internal/repository/mongo/structs"
	"signalcopier/internal/repository/postgres"
	"signalcopier/models"
	orderStructs "signalcopier/internal/usecasees/structs"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

const riskDayLayout = "2006-01-02"

// BalanceFunc supplies the account balance used by percent-based caps.
// There is no live equity feed; production wiring reads the static balance
// from the account profile.
type BalanceFunc func(accountID, platform string) float64

// riskUseCase enforces the per-account daily limits. The day row
// read-modify-write is guarded by the governor's lock so back-to-back
// open/close events stay sequential.
type riskUseCase struct {
	riskRepo  postgres.RiskRepo
	orderRepo postgres.OrderRepo
	balance   BalanceFunc
	bus       *Bus

	mu sync.Mutex

	logger *logrus.Logger
}

func NewRiskUseCase(
	riskRepo postgres.RiskRepo,
	orderRepo postgres.OrderRepo,
	balance BalanceFunc,
	bus *Bus,
	logger *logrus.Logger,
) *riskUseCase {
	return &riskUseCase{
		riskRepo:  riskRepo,
		orderRepo: orderRepo,
		balance:   balance,
		bus:       bus,
		logger:    logger,
	}
}

// CanOpen reports whether a new order is allowed right now, with a
// human-readable reason on denial. Denial is a first-class outcome, not an
// error.
func (u *riskUseCase) CanOpen(account *structs.AccountProfile, now time.Time) (bool, string) {
	u.mu.Lock()
	defer u.mu.Unlock()

	stats := u.dayRow(account, now)
	if stats == nil {
		// Store hiccup: limits cannot be evaluated, do not block trading.
		return true, ""
	}

	if stats.LimitHit && account.PauseUntilReset && !account.CloseOnlyOverride {
		return false, fmt.Sprintf("daily %s limit hit, paused until reset", stats.LimitKind)
	}

	if account.MaxDailyTrades > 0 && stats.TradesOpened >= account.MaxDailyTrades {
		return false, fmt.Sprintf("daily trade cap reached (%d)", account.MaxDailyTrades)
	}

	if cap := u.lossCap(account); cap > 0 && -stats.Profit >= cap {
		return false, fmt.Sprintf("daily loss cap reached ($%.2f)", cap)
	}

	if account.BlockOnProfit && account.MaxDailyProfit > 0 && stats.Profit >= account.MaxDailyProfit {
		return false, fmt.Sprintf("daily profit target reached ($%.2f)", account.MaxDailyProfit)
	}

	return true, ""
}

// OnTradeOpened bumps the day's counters and re-evaluates the caps.
func (u *riskUseCase) OnTradeOpened(account *structs.AccountProfile, now time.Time) []orderStructs.Command {
	u.mu.Lock()
	defer u.mu.Unlock()

	stats := u.dayRow(account, now)
	if stats == nil {
		return nil
	}

	stats.TradesOpened++

	return u.evaluate(account, stats)
}

// OnTradeClosed applies the realized profit and re-evaluates the caps.
func (u *riskUseCase) OnTradeClosed(account *structs.AccountProfile, profit float64, now time.Time) []orderStructs.Command {
	u.mu.Lock()
	defer u.mu.Unlock()

	stats := u.dayRow(account, now)
	if stats == nil {
		return nil
	}

	stats.TradesClosed++
	stats.Profit += profit

	return u.evaluate(account, stats)
}

// evaluate latches the first breached cap. Re-breaching an already latched
// kind is a no-op; the limitHit event fires exactly once per kind per day.
func (u *riskUseCase) evaluate(account *structs.AccountProfile, stats *models.DailyRiskStats) []orderStructs.Command {
	kind := ""

	switch {
	case account.MaxDailyTrades > 0 && stats.TradesOpened >= account.MaxDailyTrades:
		kind = models.LimitKindTrades
	case u.lossCap(account) > 0 && -stats.Profit >= u.lossCap(account):
		kind = models.LimitKindLoss
	case account.MaxDailyProfit > 0 && stats.Profit >= account.MaxDailyProfit:
		kind = models.LimitKindProfit
	}

	alreadyLatched := stats.LimitHit && stats.LimitKind == kind

	if kind != "" && !alreadyLatched {
		stats.LimitHit = true
		stats.LimitKind = kind
	}

	if err := u.riskRepo.Update(stats); err != nil {
		u.logger.WithError(err).Error("risk stats update failed")
	}

	if kind == "" || alreadyLatched {
		return nil
	}

	u.logger.
		WithField("account", account.AccountID).
		WithField("kind", kind).
		Warn("daily risk limit hit")

	u.bus.PublishLimitHit(account.AccountID, account.Platform, kind)

	if !account.CloseAllOnLimit {
		return nil
	}

	return u.closeAllCommands(account, kind)
}

func (u *riskUseCase) closeAllCommands(account *structs.AccountProfile, kind string) []orderStructs.Command {
	orders, err := u.orderRepo.GetTracked(account.AccountID)
	if err != nil {
		u.logger.WithError(err).Error("tracked order lookup failed")
		return nil
	}

	var open []int64
	for _, o := range orders {
		if o.Ticket != 0 {
			open = append(open, o.Ticket)
		}
	}
	if len(open) == 0 {
		return nil
	}

	return []orderStructs.Command{{
		Kind:       orderStructs.CommandClose,
		AccountID:  account.AccountID,
		Platform:   account.Platform,
		Tickets:    open,
		Percentage: 100,
		Reason:     fmt.Sprintf("daily %s limit hit", kind),
	}}
}

// ResetDue compares the wall clock against the account's reset boundary at
// minute granularity.
func (u *riskUseCase) ResetDue(account *structs.AccountProfile, now time.Time) bool {
	return now.Format("15:04") == account.ResetAt()
}

// ResetCheck discards the day rows of every account whose reset time
// matches, returning those accounts to normal.
func (u *riskUseCase) ResetCheck(accounts []structs.AccountProfile, now time.Time) {
	u.mu.Lock()
	defer u.mu.Unlock()

	for _, account := range accounts {
		if !u.ResetDue(&account, now) {
			continue
		}

		day := now.Format(riskDayLayout)
		if err := u.riskRepo.Delete(account.AccountID, account.Platform, day); err != nil {
			u.logger.WithError(err).Error("risk stats reset failed")
			continue
		}

		u.logger.
			WithField("account", account.AccountID).
			Info("daily risk stats reset")
	}
}

func (u *riskUseCase) lossCap(account *structs.AccountProfile) float64 {
	if account.MaxDailyLoss > 0 {
		return account.MaxDailyLoss
	}
	if account.MaxDailyLossPercent > 0 {
		return u.balance(account.AccountID, account.Platform) * account.MaxDailyLossPercent / 100
	}
	return 0
}

// dayRow loads or creates the account's stats row for the current day.
// Returns nil on a store error; callers degrade gracefully.
func (u *riskUseCase) dayRow(account *structs.AccountProfile, now time.Time) *models.DailyRiskStats {
	day := now.Format(riskDayLayout)

	stats, err := u.riskRepo.Get(account.AccountID, account.Platform, day)
	if err == nil {
		return stats
	}

	stats = &models.DailyRiskStats{
		ID:        uuid.NewString(),
		AccountID: account.AccountID,
		Platform:  account.Platform,
		Day:       day,
		CreatedAt: now.UTC(),
	}

	if err := u.riskRepo.Store(stats); err != nil {
		u.logger.WithError(err).Error("risk stats store failed")
		return nil
	}

	return stats
}

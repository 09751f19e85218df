package usecasees

import (
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"

	mongoRepo "signalcopier/internal/repository/mongo"
	"signalcopier/internal/repository/mongo/structs"
	"signalcopier/internal/repository/postgres"
	"signalcopier/models"
	orderStructs "signalcopier/internal/usecasees/structs"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/sirupsen/logrus"
)

const ackStatusSuccess = "SUCCESS"

// Metrics is the counter set the pipeline reports into; constructed in cmd.
type Metrics map[orderStructs.MetricConst]prometheus.Counter

func (m Metrics) inc(c orderStructs.MetricConst) {
	if counter, ok := m[c]; ok {
		counter.Inc()
	}
}

// pipelineUseCase drives a message through classify, filter, route/expand
// and queue, and handles the agent's acknowledgments. All cross-component
// fan-out goes through the bus; handlers are registered once, here.
type pipelineUseCase struct {
	parser  *parserUseCase
	filters *filterUseCase
	mods    *modUseCase
	router  *routerUseCase
	groups  *groupUseCase
	risk    *riskUseCase
	queue   *queueUseCase
	bus     *Bus

	signalRepo  postgres.SignalRepo
	orderRepo   postgres.OrderRepo
	modRepo     postgres.ModificationRepo
	profileRepo mongoRepo.ChannelProfileRepo
	accountRepo mongoRepo.AccountProfileRepo

	notify func(text string)

	mu         sync.Mutex
	subscribed map[int64]bool
	seenMsgs   map[string]bool

	metrics Metrics
	logger  *logrus.Logger
}

func NewPipelineUseCase(
	parser *parserUseCase,
	filters *filterUseCase,
	mods *modUseCase,
	router *routerUseCase,
	groups *groupUseCase,
	risk *riskUseCase,
	queue *queueUseCase,
	bus *Bus,
	signalRepo postgres.SignalRepo,
	orderRepo postgres.OrderRepo,
	modRepo postgres.ModificationRepo,
	profileRepo mongoRepo.ChannelProfileRepo,
	accountRepo mongoRepo.AccountProfileRepo,
	notify func(text string),
	metrics Metrics,
	logger *logrus.Logger,
) *pipelineUseCase {
	u := &pipelineUseCase{
		parser:      parser,
		filters:     filters,
		mods:        mods,
		router:      router,
		groups:      groups,
		risk:        risk,
		queue:       queue,
		bus:         bus,
		signalRepo:  signalRepo,
		orderRepo:   orderRepo,
		modRepo:     modRepo,
		profileRepo: profileRepo,
		accountRepo: accountRepo,
		notify:      notify,
		subscribed:  make(map[int64]bool),
		seenMsgs:    make(map[string]bool),
		metrics:     metrics,
		logger:      logger,
	}

	u.registerHandlers()

	return u
}

func (u *pipelineUseCase) registerHandlers() {
	u.bus.OnOrderOpened(func(order *models.Order) {
		u.groups.OnMemberOpened(order.GroupID)

		if account := u.accountOf(order.AccountID); account != nil {
			u.queue.EnqueueCommands(u.risk.OnTradeOpened(account, time.Now()))
		}
	})

	u.bus.OnOrderClosed(func(order *models.Order, profit float64) {
		if account := u.accountOf(order.AccountID); account != nil {
			u.queue.EnqueueCommands(u.risk.OnTradeClosed(account, profit, time.Now()))
		}
	})

	u.bus.OnTargetHit(func(order *models.Order, level int, profit float64) {
		profile := u.profileOf(order.ChannelID)
		if profile == nil || order.GroupID == "" {
			return
		}

		cmds, trailingStarted := u.groups.OnTargetHit(order.GroupID, level, profit, profile)
		u.queue.EnqueueCommands(cmds)

		if trailingStarted {
			u.notify(fmt.Sprintf("[ Trailing ]\n%s %s\ngroup:\t%s", order.Symbol, order.Side, order.GroupID))
		}
	})

	u.bus.OnStopHit(func(order *models.Order) {
		profile := u.profileOf(order.ChannelID)
		if profile == nil || order.GroupID == "" {
			return
		}

		u.queue.EnqueueCommands(u.groups.OnStopHit(order.GroupID, profile))
	})

	u.bus.OnLimitHit(func(accountID, platform, kind string) {
		u.metrics.inc(orderStructs.MetricLimitHit)
		u.notify(fmt.Sprintf("[ Risk Limit ]\naccount:\t%s (%s)\nkind:\t%s", accountID, platform, kind))
	})
}

// HandleMessage is the single entry point for inbound channel messages.
// Per-channel arrival order is preserved by the caller awaiting each call.
func (u *pipelineUseCase) HandleMessage(msg *models.RawMessage) {
	if !u.isSubscribed(msg.ChannelID) || u.alreadySeen(msg) {
		return
	}

	profile, err := u.profileRepo.Load(msg.ChannelID)
	if err != nil {
		u.logger.WithError(err).WithField("channel", msg.ChannelID).Error("channel profile load failed")
		return
	}
	if !profile.Enabled {
		return
	}

	if msg.IsReply() {
		if intent := u.mods.Extract(msg, profile); intent != nil {
			u.metrics.inc(orderStructs.MetricModificationParsed)
			u.handleUpdate(intent)
			return
		}
		// Unrecognized modification: falls through to new-signal attempt.
	}

	newIntent, updateIntent := u.parser.Parse(msg, profile)

	if updateIntent != nil {
		u.metrics.inc(orderStructs.MetricModificationParsed)
		u.handleUpdate(updateIntent)
		return
	}

	if newIntent == nil {
		return
	}

	u.metrics.inc(orderStructs.MetricSignalParsed)

	filtered := u.filters.Apply(newIntent, profile)
	if filtered == nil {
		u.metrics.inc(orderStructs.MetricSignalVetoed)
		return
	}

	u.handleNewOrder(filtered, profile)
}

func (u *pipelineUseCase) handleUpdate(intent *orderStructs.UpdateIntent) {
	row := &models.Modification{
		ID:         uuid.NewString(),
		SignalID:   intent.SignalID,
		ChannelID:  intent.ChannelID,
		Type:       intent.Type,
		Price:      intent.Price,
		Pips:       intent.Pips,
		Percentage: intent.Percentage,
		Status:     models.ModificationStatusPending,
		RawText:    intent.RawText,
		CreatedAt:  time.Now().UTC(),
	}
	if err := u.modRepo.Store(row); err != nil {
		u.logger.WithError(err).Error("modification store failed")
	}

	accounts := u.resolveAccounts(nil)

	cmds := u.router.RouteModification(intent, accounts)
	if len(cmds) == 0 {
		if err := u.modRepo.SetStatus(row.ID, models.ModificationStatusIgnored); err != nil {
			u.logger.WithError(err).Error("modification status update failed")
		}
		return
	}

	u.queue.EnqueueCommands(cmds)
	for range cmds {
		u.metrics.inc(orderStructs.MetricCommandQueued)
	}

	if err := u.modRepo.SetStatus(row.ID, models.ModificationStatusApplied); err != nil {
		u.logger.WithError(err).Error("modification status update failed")
	}
}

func (u *pipelineUseCase) handleNewOrder(intent *orderStructs.NewOrderIntent, profile *structs.ChannelProfile) {
	signal := &models.Signal{
		ID:         uuid.NewString(),
		ChannelID:  intent.ChannelID,
		MessageID:  intent.MessageID,
		Symbol:     intent.Symbol,
		Side:       intent.Side,
		Entry:      intent.Entry,
		StopLoss:   intent.StopLoss,
		Confidence: intent.Confidence,
		RawText:    intent.RawText,
		CreatedAt:  time.Now().UTC(),
	}
	setSignalTargets(signal, intent.TakeProfits)

	if err := u.signalRepo.Store(signal); err != nil {
		u.logger.WithError(err).Error("signal store failed")
		return
	}

	groupID := ""
	var subs []SubOrder

	if len(intent.TakeProfits) > 1 {
		groupID, subs = u.groups.Expand(intent, signal.ID, profile)
		if len(subs) == 0 {
			u.logger.WithField("signal", signal.ID).Warn("group expansion yielded no tradable members")
			return
		}
	} else {
		tp := 0.0
		if len(intent.TakeProfits) == 1 {
			tp = intent.TakeProfits[0]
		}
		subs = []SubOrder{{TakeProfit: tp, Lots: intent.Lots, Last: true}}
	}

	for _, account := range u.resolveAccounts(profile) {
		allowed, reason := u.risk.CanOpen(&account, time.Now())
		if !allowed {
			u.logger.
				WithField("account", account.AccountID).
				WithField("reason", reason).
				Info("new order denied by risk governor")
			u.notify(fmt.Sprintf("[ Signal Blocked ]\naccount:\t%s\n%s", account.AccountID, reason))
			continue
		}

		for i, sub := range subs {
			order := &models.Order{
				ID:         uuid.NewString(),
				SignalID:   signal.ID,
				GroupID:    groupID,
				ChannelID:  intent.ChannelID,
				AccountID:  account.AccountID,
				Platform:   account.Platform,
				Symbol:     intent.Symbol,
				Side:       intent.Side,
				Entry:      intent.Entry,
				StopLoss:   intent.StopLoss,
				TakeProfit: sub.TakeProfit,
				TPLevel:    i + 1,
				Lots:       sub.Lots,
				Status:     models.OrderStatusPending,
				CreatedAt:  time.Now().UTC(),
			}

			if err := u.orderRepo.Store(order); err != nil {
				u.logger.WithError(err).Error("order store failed")
				continue
			}

			u.queue.EnqueueSignal(&orderStructs.QueuedSignal{
				ID:            order.ID,
				SignalGroupID: groupID,
				AccountID:     account.AccountID,
				Platform:      account.Platform,
				Symbol:        intent.Symbol,
				Side:          intent.Side,
				EntryPrice:    intent.Entry,
				StopLoss:      intent.StopLoss,
				TakeProfit1:   sub.TakeProfit,
				Lots:          sub.Lots,
				LastInGroup:   sub.Last,
				SignalID:      signal.ID,
				OrderID:       order.ID,
				EnqueuedAt:    time.Now(),
			})
			u.metrics.inc(orderStructs.MetricSignalQueued)
		}
	}
}

// HandleSignalAck removes the queue entry and, on success, records the
// resulting order from the "ticket|entryPrice" shaped message. Acking an
// unknown id is safe and only logs a warning.
func (u *pipelineUseCase) HandleSignalAck(req *orderStructs.AckSignalRequest) {
	u.metrics.inc(orderStructs.MetricAckReceived)

	qs := u.queue.AckSignal(req.SignalID)
	if qs == nil {
		u.logger.
			WithField("signal", req.SignalID).
			WithField("account", req.AccountNumber).
			Warn("acknowledgment for unknown signal id")
		return
	}

	if !strings.EqualFold(req.Status, ackStatusSuccess) {
		u.logger.
			WithField("signal", req.SignalID).
			WithField("status", req.Status).
			WithField("message", req.Message).
			Warn("signal execution failed on agent")

		if err := u.orderRepo.SetStatus(qs.OrderID, models.OrderStatusClosed); err != nil {
			u.logger.WithError(err).Error("order status update failed")
		}
		return
	}

	ticket, entry, err := parseAckMessage(req.Message)
	if err != nil {
		u.logger.WithError(err).WithField("message", req.Message).Warn("unparsable ack message")
		return
	}

	if err := u.orderRepo.SetTicket(qs.OrderID, ticket, entry); err != nil {
		u.logger.WithError(err).Error("order ticket update failed")
		return
	}

	order, err := u.orderRepo.GetByID(qs.OrderID)
	if err != nil {
		u.logger.WithError(err).Error("order lookup failed")
		return
	}

	u.bus.PublishOrderOpened(order)
	u.queue.ForwardAck(qs.ID, req.AccountNumber, ticket, entry)
}

// HandleModificationAck drains the account's command queue and applies the
// ledger transitions implied by each acknowledged command.
func (u *pipelineUseCase) HandleModificationAck(req *orderStructs.AckModificationRequest) {
	u.metrics.inc(orderStructs.MetricAckReceived)

	cmds := u.queue.AckModifications(req.AccountNumber)
	if len(cmds) == 0 {
		u.logger.
			WithField("account", req.AccountNumber).
			Warn("modification acknowledgment with empty queue")
		return
	}

	if !strings.EqualFold(req.Status, ackStatusSuccess) {
		u.logger.
			WithField("account", req.AccountNumber).
			WithField("status", req.Status).
			WithField("message", req.Message).
			Warn("modification failed on agent, ledger left untouched")
		return
	}

	acked := make(map[int64]bool, len(req.Trades))
	for _, ticket := range req.Trades {
		acked[ticket] = true
	}

	for _, cmd := range cmds {
		for _, ticket := range cmd.Tickets {
			// An explicit trade list narrows which tickets were acted on.
			if len(acked) > 0 && !acked[ticket] {
				continue
			}
			order, err := u.orderRepo.GetByTicket(cmd.AccountID, ticket)
			if err != nil {
				u.logger.WithError(err).WithField("ticket", ticket).Warn("acked ticket is not tracked")
				continue
			}

			switch cmd.Kind {
			case orderStructs.CommandClose, orderStructs.CommandCloseAll:
				if cmd.Percentage >= 100 {
					if err := u.orderRepo.SetStatus(order.ID, models.OrderStatusClosed); err != nil {
						u.logger.WithError(err).Error("order status update failed")
						continue
					}
					// Realized P&L arrives via relay reconciliation.
					u.bus.PublishOrderClosed(order, 0)
				}

			case orderStructs.CommandDelete:
				if err := u.orderRepo.Delete(order.ID); err != nil {
					u.logger.WithError(err).Error("pending order delete failed")
				}

			case orderStructs.CommandModifySL:
				if err := u.orderRepo.SetStopLoss(order.ID, cmd.NewValue); err != nil {
					u.logger.WithError(err).Error("order stop update failed")
				}
			}
		}
	}
}

// ReconcileExecuted pulls agent-reported fills from the relay and replays
// them into the ledger and the bus. Runs on the cloud-sync tick.
func (u *pipelineUseCase) ReconcileExecuted() {
	accounts, err := u.accountRepo.LoadAll()
	if err != nil {
		u.logger.WithError(err).Error("account list load failed")
		return
	}

	for _, account := range accounts {
		for _, fill := range u.queue.FetchExecuted(account.AccountID) {
			order, err := u.orderRepo.GetByTicket(account.AccountID, fill.Ticket)
			if err != nil {
				continue
			}

			if !fill.Closed || order.Status == models.OrderStatusClosed {
				continue
			}

			if err := u.orderRepo.SetStatus(order.ID, models.OrderStatusClosed); err != nil {
				u.logger.WithError(err).Error("order status update failed")
				continue
			}

			if order.GroupID != "" {
				if fill.Profit >= 0 {
					u.bus.PublishTargetHit(order, order.TPLevel, fill.Profit)
				} else {
					u.bus.PublishStopHit(order)
				}
			}

			u.bus.PublishOrderClosed(order, fill.Profit)
		}
	}
}

// RiskResetCheck runs on the minute tick.
func (u *pipelineUseCase) RiskResetCheck() {
	accounts, err := u.accountRepo.LoadAll()
	if err != nil {
		u.logger.WithError(err).Error("account list load failed")
		return
	}

	u.risk.ResetCheck(accounts, time.Now())
}

// PurgeGroups runs on the daily tick.
func (u *pipelineUseCase) PurgeGroups() {
	u.groups.PurgeExpired()
}

// StartMonitoring swaps the subscribed channel set and clears the transient
// dedup caches. Not atomic with in-flight message processing.
func (u *pipelineUseCase) StartMonitoring(channelIDs []int64) {
	u.mu.Lock()
	u.subscribed = make(map[int64]bool, len(channelIDs))
	for _, id := range channelIDs {
		u.subscribed[id] = true
	}
	u.seenMsgs = make(map[string]bool)
	u.mu.Unlock()

	u.queue.ResetCaches()
}

func (u *pipelineUseCase) StopMonitoring() {
	u.StartMonitoring(nil)
}

func (u *pipelineUseCase) isSubscribed(channelID int64) bool {
	u.mu.Lock()
	defer u.mu.Unlock()

	return u.subscribed[channelID]
}

func (u *pipelineUseCase) alreadySeen(msg *models.RawMessage) bool {
	key := fmt.Sprintf("%d:%d", msg.ChannelID, msg.MessageID)

	u.mu.Lock()
	defer u.mu.Unlock()

	if u.seenMsgs[key] {
		return true
	}
	u.seenMsgs[key] = true

	return false
}

// resolveAccounts returns the targeted accounts of a profile, or every
// enabled account when the profile does not narrow them (or is nil).
func (u *pipelineUseCase) resolveAccounts(profile *structs.ChannelProfile) []structs.AccountProfile {
	if profile != nil && len(profile.TargetedAccounts) > 0 {
		var out []structs.AccountProfile
		for _, id := range profile.TargetedAccounts {
			account, err := u.accountRepo.Load(id)
			if err != nil {
				u.logger.WithError(err).WithField("account", id).Error("account profile load failed")
				continue
			}
			out = append(out, *account)
		}
		return out
	}

	accounts, err := u.accountRepo.LoadAll()
	if err != nil {
		u.logger.WithError(err).Error("account list load failed")
		return nil
	}

	return accounts
}

func (u *pipelineUseCase) accountOf(accountID string) *structs.AccountProfile {
	account, err := u.accountRepo.Load(accountID)
	if err != nil {
		u.logger.WithError(err).WithField("account", accountID).Error("account profile load failed")
		return nil
	}

	return account
}

func (u *pipelineUseCase) profileOf(channelID int64) *structs.ChannelProfile {
	profile, err := u.profileRepo.Load(channelID)
	if err != nil {
		u.logger.WithError(err).WithField("channel", channelID).Error("channel profile load failed")
		return nil
	}

	return profile
}

func setSignalTargets(signal *models.Signal, targets []float64) {
	fields := []*float64{
		&signal.TakeProfit1,
		&signal.TakeProfit2,
		&signal.TakeProfit3,
		&signal.TakeProfit4,
		&signal.TakeProfit5,
	}

	for i, tp := range targets {
		if i >= len(fields) {
			break
		}
		*fields[i] = tp
	}
}

func parseAckMessage(message string) (int64, float64, error) {
	parts := strings.Split(message, "|")
	if len(parts) < 2 {
		return 0, 0, fmt.Errorf("expected ticket|entryPrice, got %q", message)
	}

	ticket, err := strconv.ParseInt(strings.TrimSpace(parts[0]), 10, 64)
	if err != nil {
		return 0, 0, err
	}

	entry, err := strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
	if err != nil {
		return 0, 0, err
	}

	return ticket, entry, nil
}

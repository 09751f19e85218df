package usecasees

import (
	"fmt"
	"strings"
	"testing"
	"time"

	"signalcopier/internal/repository/mongo/structs"
	"signalcopier/models"
	orderStructs "signalcopier/internal/usecasees/structs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type pipelineFixture struct {
	pipeline *pipelineUseCase
	queue    *queueUseCase

	orderRepo  *fakeOrderRepo
	signalRepo *fakeSignalRepo
	modRepo    *fakeModRepo
	groupRepo  *fakeGroupRepo

	account       *structs.AccountProfile
	profile       *structs.ChannelProfile
	notifications []string
}

func newPipelineFixture() *pipelineFixture {
	f := &pipelineFixture{
		orderRepo:  &fakeOrderRepo{},
		signalRepo: &fakeSignalRepo{},
		modRepo:    &fakeModRepo{},
		groupRepo:  newFakeGroupRepo(),
		account:    testAccount(),
		profile:    testProfile(),
	}

	logger := testLogger()
	bus := NewBus()
	profileRepo := newFakeChannelProfileRepo(f.profile)
	accountRepo := newFakeAccountProfileRepo(f.account)
	riskRepo := newFakeRiskRepo()

	balance := func(accountID, platform string) float64 {
		return f.account.Balance
	}

	f.queue = NewQueueUseCase(nil, "", logger)

	f.pipeline = NewPipelineUseCase(
		NewParserUseCase(logger),
		NewFilterUseCase(logger),
		NewModUseCase(f.signalRepo, logger),
		NewRouterUseCase(f.orderRepo, logger),
		NewGroupUseCase(f.groupRepo, f.orderRepo, logger),
		NewRiskUseCase(riskRepo, f.orderRepo, balance, bus, logger),
		f.queue,
		bus,
		f.signalRepo,
		f.orderRepo,
		f.modRepo,
		profileRepo,
		accountRepo,
		func(text string) { f.notifications = append(f.notifications, text) },
		nil,
		logger,
	)

	f.pipeline.StartMonitoring([]int64{100})

	return f
}

func signalMessage(messageID int64) *models.RawMessage {
	return &models.RawMessage{
		ChannelID:  100,
		MessageID:  messageID,
		Text:       "XAUUSD SELL NOW @ 2410\nSL: 2415\nTP1: 2405\nTP2: 2400\nTP3: 2395",
		ReceivedAt: time.Now(),
	}
}

func TestPipeline_NewSignalExpandsAndQueues(t *testing.T) {
	f := newPipelineFixture()

	f.pipeline.HandleMessage(signalMessage(1))

	require.Len(t, f.signalRepo.signals, 1)
	assert.Equal(t, "XAUUSD", f.signalRepo.signals[0].Symbol)
	assert.Equal(t, 2405.0, f.signalRepo.signals[0].TakeProfit1)

	pending := f.queue.PendingSignals("12345")
	require.Len(t, pending, 3)

	assert.Equal(t, 0.04, pending[0].Lots)
	assert.Equal(t, 0.03, pending[1].Lots)
	assert.Equal(t, 0.02, pending[2].Lots)
	assert.Equal(t, 2405.0, pending[0].TakeProfit1)
	assert.False(t, pending[0].LastInGroup)
	assert.True(t, pending[2].LastInGroup)

	require.Len(t, f.orderRepo.orders, 3)
	for i, o := range f.orderRepo.orders {
		assert.Equal(t, models.OrderStatusPending, o.Status)
		assert.Equal(t, i+1, o.TPLevel)
		assert.NotEmpty(t, o.GroupID)
	}
}

func TestPipeline_UnsubscribedChannelIgnored(t *testing.T) {
	f := newPipelineFixture()

	msg := signalMessage(1)
	msg.ChannelID = 999

	f.pipeline.HandleMessage(msg)

	assert.Empty(t, f.signalRepo.signals)
	assert.Empty(t, f.queue.PendingSignals("12345"))
}

func TestPipeline_DuplicateMessageIgnored(t *testing.T) {
	f := newPipelineFixture()

	f.pipeline.HandleMessage(signalMessage(1))
	f.pipeline.HandleMessage(signalMessage(1))

	assert.Len(t, f.signalRepo.signals, 1)
	assert.Len(t, f.queue.PendingSignals("12345"), 3)
}

func TestPipeline_SignalAckOpensOrder(t *testing.T) {
	f := newPipelineFixture()
	f.pipeline.HandleMessage(signalMessage(1))

	pending := f.queue.PendingSignals("12345")
	require.Len(t, pending, 3)

	f.pipeline.HandleSignalAck(&orderStructs.AckSignalRequest{
		SignalID:      pending[0].ID,
		AccountNumber: "12345",
		Status:        "SUCCESS",
		Message:       "777|2410.5",
	})

	assert.Len(t, f.queue.PendingSignals("12345"), 2)

	order, err := f.orderRepo.GetByTicket("12345", 777)
	require.NoError(t, err)
	assert.Equal(t, models.OrderStatusOpen, order.Status)
	assert.Equal(t, 2410.5, order.Entry)

	group, err := f.groupRepo.GetByID(order.GroupID)
	require.NoError(t, err)
	assert.Equal(t, 1, group.OpenCount)
}

func TestPipeline_SignalAckUnknownIDIsIdempotent(t *testing.T) {
	f := newPipelineFixture()

	f.pipeline.HandleSignalAck(&orderStructs.AckSignalRequest{
		SignalID:      "no-such-id",
		AccountNumber: "12345",
		Status:        "SUCCESS",
		Message:       "777|2410.5",
	})

	assert.Empty(t, f.orderRepo.orders)
}

func TestPipeline_FailedAckClosesOrder(t *testing.T) {
	f := newPipelineFixture()
	f.pipeline.HandleMessage(signalMessage(1))

	pending := f.queue.PendingSignals("12345")
	require.Len(t, pending, 3)

	f.pipeline.HandleSignalAck(&orderStructs.AckSignalRequest{
		SignalID:      pending[0].ID,
		AccountNumber: "12345",
		Status:        "FAILED",
		Message:       "market closed",
	})

	order, err := f.orderRepo.GetByID(pending[0].OrderID)
	require.NoError(t, err)
	assert.Equal(t, models.OrderStatusClosed, order.Status)
}

func TestPipeline_ReplyCloseAllScopedToSignal(t *testing.T) {
	f := newPipelineFixture()
	f.pipeline.HandleMessage(signalMessage(1))

	// Agent confirms each member with its own ticket.
	pending := f.queue.PendingSignals("12345")
	for i, qs := range pending {
		f.pipeline.HandleSignalAck(&orderStructs.AckSignalRequest{
			SignalID:      qs.ID,
			AccountNumber: "12345",
			Status:        "SUCCESS",
			Message:       []string{"771|2410.0", "772|2410.0", "773|2410.0"}[i],
		})
	}

	f.pipeline.HandleMessage(&models.RawMessage{
		ChannelID:  100,
		MessageID:  2,
		ReplyToID:  1,
		Text:       "close all",
		ReceivedAt: time.Now(),
	})

	require.Len(t, f.modRepo.mods, 1)
	assert.Equal(t, orderStructs.ModifyClosePartial, f.modRepo.mods[0].Type)
	assert.Equal(t, models.ModificationStatusApplied, f.modRepo.statuses[f.modRepo.mods[0].ID])

	mods := f.queue.PendingModifications("12345")
	require.Len(t, mods, 1)
	assert.Equal(t, orderStructs.CommandClose, mods[0].Kind)
	assert.ElementsMatch(t, []int64{771, 772, 773}, mods[0].Tickets)

	// The agent acknowledges; every member is marked closed.
	f.pipeline.HandleModificationAck(&orderStructs.AckModificationRequest{
		AccountNumber: "12345",
		Trades:        []int64{771, 772, 773},
		Status:        "SUCCESS",
	})

	for _, o := range f.orderRepo.orders {
		assert.Equal(t, models.OrderStatusClosed, o.Status)
	}
	assert.Empty(t, f.queue.PendingModifications("12345"))
}

// openAllMembers acknowledges every queued member with tickets 771, 772, ...
func openAllMembers(f *pipelineFixture) {
	for i, qs := range f.queue.PendingSignals("12345") {
		f.pipeline.HandleSignalAck(&orderStructs.AckSignalRequest{
			SignalID:      qs.ID,
			AccountNumber: "12345",
			Status:        "SUCCESS",
			Message:       fmt.Sprintf("%d|2410.0", 771+i),
		})
	}
}

func TestPipeline_ValuelessStopMessageIgnored(t *testing.T) {
	f := newPipelineFixture()
	f.pipeline.HandleMessage(signalMessage(1))
	openAllMembers(f)

	f.pipeline.HandleMessage(&models.RawMessage{
		ChannelID:  100,
		MessageID:  2,
		Text:       "set sl please",
		ReceivedAt: time.Now(),
	})

	assert.Empty(t, f.modRepo.mods)
	assert.Empty(t, f.queue.PendingModifications("12345"))

	// Stops stay where the signal put them.
	for _, o := range f.orderRepo.orders {
		assert.Equal(t, 2415.0, o.StopLoss)
	}
}

func TestPipeline_BroadcastUpdateScopedToChannel(t *testing.T) {
	f := newPipelineFixture()
	f.pipeline.HandleMessage(signalMessage(1))
	openAllMembers(f)

	// An open position that came from a different channel.
	_ = f.orderRepo.Store(&models.Order{
		ID:        "foreign",
		SignalID:  "sig-x",
		ChannelID: 999,
		AccountID: "12345",
		Platform:  structs.PlatformMT5,
		Symbol:    "EURUSD",
		Side:      orderStructs.SideBuy,
		Entry:     1.1050,
		Ticket:    999,
		Status:    models.OrderStatusOpen,
	})

	f.pipeline.HandleMessage(&models.RawMessage{
		ChannelID:  100,
		MessageID:  2,
		Text:       "close half",
		ReceivedAt: time.Now(),
	})

	mods := f.queue.PendingModifications("12345")
	require.Len(t, mods, 1)
	assert.ElementsMatch(t, []int64{771, 772, 773}, mods[0].Tickets)
	assert.NotContains(t, mods[0].Tickets, int64(999))
}

func TestPipeline_FailedModificationAckLeavesLedger(t *testing.T) {
	f := newPipelineFixture()
	f.pipeline.HandleMessage(signalMessage(1))
	openAllMembers(f)

	f.pipeline.HandleMessage(&models.RawMessage{
		ChannelID:  100,
		MessageID:  2,
		ReplyToID:  1,
		Text:       "close all",
		ReceivedAt: time.Now(),
	})
	require.Len(t, f.queue.PendingModifications("12345"), 1)

	f.pipeline.HandleModificationAck(&orderStructs.AckModificationRequest{
		AccountNumber: "12345",
		Status:        "FAILED",
		Message:       "requote",
	})

	// The queue is drained, but no order is marked closed.
	assert.Empty(t, f.queue.PendingModifications("12345"))
	for _, o := range f.orderRepo.orders {
		assert.Equal(t, models.OrderStatusOpen, o.Status)
	}
}

func TestPipeline_ModificationAckHonorsTradeList(t *testing.T) {
	f := newPipelineFixture()
	f.pipeline.HandleMessage(signalMessage(1))
	openAllMembers(f)

	f.pipeline.HandleMessage(&models.RawMessage{
		ChannelID:  100,
		MessageID:  2,
		ReplyToID:  1,
		Text:       "close all",
		ReceivedAt: time.Now(),
	})

	f.pipeline.HandleModificationAck(&orderStructs.AckModificationRequest{
		AccountNumber: "12345",
		Trades:        []int64{771},
		Status:        "SUCCESS",
	})

	statuses := map[int64]string{}
	for _, o := range f.orderRepo.orders {
		statuses[o.Ticket] = o.Status
	}
	assert.Equal(t, models.OrderStatusClosed, statuses[771])
	assert.Equal(t, models.OrderStatusOpen, statuses[772])
	assert.Equal(t, models.OrderStatusOpen, statuses[773])
}

func TestPipeline_UnmatchedModificationIgnored(t *testing.T) {
	f := newPipelineFixture()
	f.pipeline.HandleMessage(signalMessage(1))

	// No order has a ticket yet, so there is nothing to address.
	f.pipeline.HandleMessage(&models.RawMessage{
		ChannelID:  100,
		MessageID:  2,
		ReplyToID:  1,
		Text:       "move sl to 2412",
		ReceivedAt: time.Now(),
	})

	require.Len(t, f.modRepo.mods, 1)
	assert.Equal(t, models.ModificationStatusIgnored, f.modRepo.statuses[f.modRepo.mods[0].ID])
	assert.Empty(t, f.queue.PendingModifications("12345"))
}

func TestPipeline_RiskVetoBlocksAccount(t *testing.T) {
	f := newPipelineFixture()
	f.account.MaxDailyTrades = 1

	f.pipeline.HandleMessage(signalMessage(1))
	pending := f.queue.PendingSignals("12345")
	require.Len(t, pending, 3)

	f.pipeline.HandleSignalAck(&orderStructs.AckSignalRequest{
		SignalID:      pending[0].ID,
		AccountNumber: "12345",
		Status:        "SUCCESS",
		Message:       "771|2410.0",
	})

	// The next signal is denied for this account.
	f.pipeline.HandleMessage(signalMessage(10))

	assert.Len(t, f.queue.PendingSignals("12345"), 2)

	blocked := false
	for _, n := range f.notifications {
		if strings.Contains(n, "Signal Blocked") {
			blocked = true
		}
	}
	assert.True(t, blocked)
}

func TestParseAckMessage(t *testing.T) {
	ticket, entry, err := parseAckMessage("777|2410.5")
	require.NoError(t, err)
	assert.Equal(t, int64(777), ticket)
	assert.Equal(t, 2410.5, entry)

	ticket, entry, err = parseAckMessage(" 777 | 2410.5 ")
	require.NoError(t, err)
	assert.Equal(t, int64(777), ticket)
	assert.Equal(t, 2410.5, entry)

	_, _, err = parseAckMessage("executed")
	assert.Error(t, err)

	_, _, err = parseAckMessage("abc|1.0")
	assert.Error(t, err)
}

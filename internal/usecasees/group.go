package usecasees

import (
	"math"
	"time"

	"signalcopier/internal/repository/mongo/structs"
	"signalcopier/internal/repository/postgres"
	"signalcopier/models"
	orderStructs "signalcopier/internal/usecasees/structs"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

const groupRetention = 7 * 24 * time.Hour

// SubOrder is one member of an expanded multi-target signal.
type SubOrder struct {
	TakeProfit float64
	Lots       float64
	Last       bool
}

// groupUseCase expands multi-target intents into linked sub-orders and
// tracks the resulting group through its breakeven and trailing transitions.
type groupUseCase struct {
	groupRepo postgres.GroupRepo
	orderRepo postgres.OrderRepo

	logger *logrus.Logger
}

func NewGroupUseCase(
	groupRepo postgres.GroupRepo,
	orderRepo postgres.OrderRepo,
	logger *logrus.Logger,
) *groupUseCase {
	return &groupUseCase{
		groupRepo: groupRepo,
		orderRepo: orderRepo,
		logger:    logger,
	}
}

// Expand allocates the intent's size across its targets and records the
// group. Returns the group id and the member sub-orders, in target order.
func (u *groupUseCase) Expand(intent *orderStructs.NewOrderIntent, signalID string, profile *structs.ChannelProfile) (string, []SubOrder) {
	lots := AllocateLots(intent.Lots, len(intent.TakeProfits), profile)

	var subs []SubOrder
	for i, tp := range intent.TakeProfits {
		if lots[i] == 0 {
			continue
		}
		subs = append(subs, SubOrder{TakeProfit: tp, Lots: lots[i]})
	}

	if len(subs) == 0 {
		return "", nil
	}
	subs[len(subs)-1].Last = true

	groupID := uuid.NewString()

	group := &models.OrderGroup{
		ID:          groupID,
		SignalID:    signalID,
		Symbol:      intent.Symbol,
		Side:        intent.Side,
		TotalLots:   intent.Lots,
		Members:     len(subs),
		CurrentStop: intent.StopLoss,
		CreatedAt:   time.Now().UTC(),
	}

	if err := u.groupRepo.Store(group); err != nil {
		u.logger.WithError(err).Error("group store failed")
	}

	return groupID, subs
}

// AllocateLots splits a total size over n target levels. Weighted mode uses
// the configured per-level shares, renormalized to sum to 100 over however
// many levels are present. Results are floored to the lot step; members
// below the minimum size are zeroed.
func AllocateLots(total float64, n int, profile *structs.ChannelProfile) []float64 {
	if n == 0 {
		return nil
	}

	out := make([]float64, n)

	if profile.SplitMode == "equal" || len(profile.SplitPercents) == 0 {
		for i := range out {
			out[i] = total / float64(n)
		}
	} else {
		shares := profile.SplitPercents
		if len(shares) > n {
			shares = shares[:n]
		}

		var sum float64
		for _, s := range shares {
			sum += s
		}

		for i := range out {
			share := 0.0
			if i < len(shares) {
				share = shares[i]
			}
			out[i] = total * share / sum
		}
	}

	for i, lots := range out {
		if profile.LotStep > 0 {
			lots = math.Floor(lots/profile.LotStep+1e-6) * profile.LotStep
		}
		if lots < profile.MinLots {
			lots = 0
		}
		out[i] = roundLots(lots)
	}

	return out
}

func roundLots(lots float64) float64 {
	return math.Round(lots*100) / 100
}

// OnMemberOpened bumps the group's open counter.
func (u *groupUseCase) OnMemberOpened(groupID string) {
	if groupID == "" {
		return
	}

	group, err := u.groupRepo.GetByID(groupID)
	if err != nil {
		u.logger.WithError(err).Error("group lookup failed")
		return
	}

	group.OpenCount++

	if err := u.groupRepo.Update(group); err != nil {
		u.logger.WithError(err).Error("group update failed")
	}
}

// OnTargetHit records a hit level and emits the breakeven / trailing
// transitions configured for the channel. Returns the commands to queue and
// whether trailing just activated.
func (u *groupUseCase) OnTargetHit(groupID string, level int, profit float64, profile *structs.ChannelProfile) ([]orderStructs.Command, bool) {
	group, err := u.groupRepo.GetByID(groupID)
	if err != nil {
		u.logger.WithError(err).Error("group lookup failed")
		return nil, false
	}

	group.AddHitLevel(level)
	group.ClosedCount++
	if group.OpenCount > 0 {
		group.OpenCount--
	}
	group.Profit += profit

	var out []orderStructs.Command
	trailingStarted := false

	if level >= profile.BreakevenLevel && !group.Breakeven {
		group.Breakeven = true

		open, err := u.orderRepo.GetByGroupID(groupID)
		if err != nil {
			u.logger.WithError(err).Error("group member lookup failed")
			open = nil
		}

		if len(open) > 0 {
			stop := breakevenStop(open, profile.BreakevenOffset, group.Side)
			group.CurrentStop = stop

			for _, o := range open {
				if o.Ticket == 0 || o.Status != models.OrderStatusOpen {
					continue
				}
				out = append(out, orderStructs.Command{
					Kind:      orderStructs.CommandModifySL,
					AccountID: o.AccountID,
					Platform:  o.Platform,
					Tickets:   []int64{o.Ticket},
					NewValue:  stop,
					Reason:    "group breakeven",
				})
			}
		}
	}

	if level >= profile.TrailingLevel && !group.Trailing {
		group.Trailing = true
		trailingStarted = true
	}

	if err := u.groupRepo.Update(group); err != nil {
		u.logger.WithError(err).Error("group update failed")
	}

	return out, trailingStarted
}

// OnStopHit closes the remaining members when the close-all-on-stop policy
// is enabled for the channel.
func (u *groupUseCase) OnStopHit(groupID string, profile *structs.ChannelProfile) []orderStructs.Command {
	if !profile.CloseAllOnStop {
		return nil
	}

	open, err := u.orderRepo.GetByGroupID(groupID)
	if err != nil {
		u.logger.WithError(err).Error("group member lookup failed")
		return nil
	}

	groups := make(map[accountKey][]int64)
	for _, o := range open {
		if o.Ticket == 0 || o.Status != models.OrderStatusOpen {
			continue
		}
		k := accountKey{accountID: o.AccountID, platform: o.Platform}
		groups[k] = append(groups[k], o.Ticket)
	}

	var out []orderStructs.Command
	for k, ticketList := range groups {
		out = append(out, orderStructs.Command{
			Kind:       orderStructs.CommandClose,
			AccountID:  k.accountID,
			Platform:   k.platform,
			Tickets:    ticketList,
			Percentage: 100,
			Reason:     "group stop hit",
		})
	}

	return out
}

// PurgeExpired drops groups past the retention window.
func (u *groupUseCase) PurgeExpired() {
	n, err := u.groupRepo.PurgeBefore(time.Now().Add(-groupRetention))
	if err != nil {
		u.logger.WithError(err).Error("group purge failed")
		return
	}

	if n > 0 {
		u.logger.WithField("purged", n).Info("purged expired order groups")
	}
}

func breakevenStop(members []models.Order, offset float64, side string) float64 {
	var sum float64
	var n int

	for _, o := range members {
		if o.Status != models.OrderStatusOpen {
			continue
		}
		sum += o.Entry
		n++
	}
	if n == 0 {
		return 0
	}

	avg := sum / float64(n)

	if orderStructs.IsSell(side) {
		return avg - offset
	}

	return avg + offset
}

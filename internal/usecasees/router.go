package usecasees

import (
	"fmt"

	"signalcopier/internal/repository/mongo/structs"
	"signalcopier/internal/repository/postgres"
	"signalcopier/models"
	orderStructs "signalcopier/internal/usecasees/structs"

	"github.com/sirupsen/logrus"
)

// routerUseCase maps a ModificationIntent plus the matched ledger orders
// into outbound Commands, one per (account, platform) group per type.
type routerUseCase struct {
	orderRepo postgres.OrderRepo

	logger *logrus.Logger
}

func NewRouterUseCase(
	orderRepo postgres.OrderRepo,
	logger *logrus.Logger,
) *routerUseCase {
	return &routerUseCase{
		orderRepo: orderRepo,
		logger:    logger,
	}
}

type accountKey struct {
	accountID string
	platform  string
}

// RouteModification resolves target orders and synthesizes Commands. A
// Command with no tickets is never produced.
func (u *routerUseCase) RouteModification(intent *orderStructs.UpdateIntent, accounts []structs.AccountProfile) []orderStructs.Command {
	switch intent.Type {
	case orderStructs.ModifyEnableTrailing, orderStructs.ModifyDisableTrailing, orderStructs.ModifyUpdateEntry:
		// Not yet actionable on the agent side.
		u.logger.
			WithField("type", intent.Type).
			Info("modification type is not actionable, logged only")
		return nil
	}

	matched := u.resolveOrders(intent, accounts)
	if len(matched) == 0 {
		u.logger.
			WithField("type", intent.Type).
			WithField("signal", intent.SignalID).
			Debug("no tracked orders match modification")
		return nil
	}

	groups := make(map[accountKey][]models.Order)
	for _, o := range matched {
		if o.Ticket == 0 {
			// Not yet acknowledged by the agent; nothing to address.
			continue
		}
		k := accountKey{accountID: o.AccountID, platform: o.Platform}
		groups[k] = append(groups[k], o)
	}

	var out []orderStructs.Command

	for k, orders := range groups {
		out = append(out, u.commandsFor(intent, k, orders)...)
	}

	return out
}

func (u *routerUseCase) resolveOrders(intent *orderStructs.UpdateIntent, accounts []structs.AccountProfile) []models.Order {
	if !intent.IsGlobal() {
		orders, err := u.orderRepo.GetBySignalID(intent.SignalID, false)
		if err != nil {
			u.logger.WithError(err).Error("order lookup by signal failed")
			return nil
		}
		return orders
	}

	var out []models.Order
	for _, account := range accounts {
		var orders []models.Order
		var err error

		// Broadcast updates stay inside the channel they were posted in,
		// narrowed further when the text names an instrument. Only the
		// account-wide forms reach every tracked order.
		switch {
		case intent.Symbol != "":
			orders, err = u.orderRepo.GetBySymbol(intent.Symbol, account.AccountID, account.Platform)
		case intent.AccountWide || intent.ChannelID == 0:
			orders, err = u.orderRepo.GetTracked(account.AccountID)
		default:
			orders, err = u.orderRepo.GetByChannel(intent.ChannelID, account.AccountID)
		}
		if err != nil {
			u.logger.WithError(err).Error("tracked order lookup failed")
			continue
		}
		out = append(out, orders...)
	}

	return out
}

func (u *routerUseCase) commandsFor(intent *orderStructs.UpdateIntent, k accountKey, orders []models.Order) []orderStructs.Command {
	var out []orderStructs.Command

	base := orderStructs.Command{
		AccountID: k.accountID,
		Platform:  k.platform,
	}

	switch intent.Type {
	case orderStructs.ModifyBreakeven:
		// Entries differ per order, so one command each.
		for _, o := range orders {
			cmd := base
			cmd.Kind = orderStructs.CommandModifySL
			cmd.Tickets = []int64{o.Ticket}
			cmd.NewValue = o.Entry
			cmd.Reason = "breakeven"
			out = append(out, cmd)
		}

	case orderStructs.ModifyClosePartial:
		pct := intent.Percentage
		if pct == 0 {
			pct = 100
		}

		if intent.WasDelete {
			var pending []int64
			for _, o := range orders {
				if o.Status == models.OrderStatusPending {
					pending = append(pending, o.Ticket)
				}
			}
			if len(pending) > 0 {
				cmd := base
				cmd.Kind = orderStructs.CommandDelete
				cmd.Tickets = pending
				cmd.Reason = "delete requested"
				out = append(out, cmd)
				break
			}
		}

		cmd := base
		cmd.Kind = orderStructs.CommandClose
		cmd.Tickets = tickets(orders)
		cmd.Percentage = pct
		cmd.Reason = fmt.Sprintf("close %.0f%%", pct)
		out = append(out, cmd)

	case orderStructs.ModifyCloseAll:
		cmd := base
		cmd.Kind = orderStructs.CommandClose
		cmd.Tickets = tickets(orders)
		cmd.Percentage = 100
		cmd.Reason = "close all"
		out = append(out, cmd)

	case orderStructs.ModifyCancelPending:
		var pending []int64
		for _, o := range orders {
			if o.Status == models.OrderStatusPending {
				pending = append(pending, o.Ticket)
			}
		}
		if len(pending) == 0 {
			return nil
		}

		cmd := base
		cmd.Kind = orderStructs.CommandDelete
		cmd.Tickets = pending
		cmd.Reason = "cancel pending"
		out = append(out, cmd)

	case orderStructs.ModifyUpdateSL:
		for _, o := range orders {
			value := u.resolveValue(intent, &o, true)
			if value == 0 && !intent.RemoveStop {
				// Zero would wipe the stop; only an explicit remove may do that.
				u.logger.WithField("ticket", o.Ticket).Error("refusing stop update without a value")
				continue
			}

			cmd := base
			cmd.Kind = orderStructs.CommandModifySL
			cmd.Tickets = []int64{o.Ticket}
			cmd.NewValue = value
			cmd.Reason = "stop update"
			out = append(out, cmd)
		}

	case orderStructs.ModifyUpdateTP:
		for _, o := range orders {
			value := u.resolveValue(intent, &o, false)
			if value == 0 {
				u.logger.WithField("ticket", o.Ticket).Error("refusing target update without a value")
				continue
			}

			cmd := base
			cmd.Kind = orderStructs.CommandModifyTP
			cmd.Tickets = []int64{o.Ticket}
			cmd.NewValue = value
			cmd.Reason = "target update"
			out = append(out, cmd)
		}
	}

	// Safety invariant: no command leaves with an empty ticket list.
	filtered := out[:0]
	for _, cmd := range out {
		if len(cmd.Tickets) == 0 {
			u.logger.WithField("kind", cmd.Kind).Error("dropping command with no tickets")
			continue
		}
		filtered = append(filtered, cmd)
	}

	return filtered
}

// resolveValue prefers the explicit price; a pip-encoded value is converted
// here, where the order's entry, side and symbol are at hand.
func (u *routerUseCase) resolveValue(intent *orderStructs.UpdateIntent, o *models.Order, stop bool) float64 {
	if intent.Price != 0 {
		return intent.Price
	}
	if intent.Pips == 0 {
		return 0
	}

	size := PipSize(o.Symbol)
	sell := orderStructs.IsSell(o.Side)

	if stop {
		return ResolveStopPips(o.Entry, intent.Pips, size, sell)
	}

	return ResolveTargetPips(o.Entry, intent.Pips, size, sell)
}

func tickets(orders []models.Order) []int64 {
	out := make([]int64, 0, len(orders))
	for _, o := range orders {
		out = append(out, o.Ticket)
	}
	return out
}

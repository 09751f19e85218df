package usecasees

import (
	"strings"

	"signalcopier/internal/repository/mongo/structs"
	orderStructs "signalcopier/internal/usecasees/structs"

	"github.com/sirupsen/logrus"
)

// filterUseCase applies the per-channel override chain to accepted intents.
// Stages run in a fixed order and any stage may veto; the chain works on a
// copy so a veto discards earlier mutations with the intent.
type filterUseCase struct {
	logger *logrus.Logger
}

func NewFilterUseCase(logger *logrus.Logger) *filterUseCase {
	return &filterUseCase{logger: logger}
}

type filterStage func(*orderStructs.NewOrderIntent, *structs.ChannelProfile) *orderStructs.NewOrderIntent

func (u *filterUseCase) Apply(intent *orderStructs.NewOrderIntent, profile *structs.ChannelProfile) *orderStructs.NewOrderIntent {
	out := intent.Clone()

	for _, stage := range []filterStage{
		u.requirePolicy,
		u.forceMarket,
		u.overrideLevels,
		u.reverseAndAdjust,
		u.symbolPolicy,
	} {
		out = stage(out, profile)
		if out == nil {
			u.logger.
				WithField("channel", intent.ChannelID).
				WithField("symbol", intent.Symbol).
				Debug("intent vetoed by filter chain")
			return nil
		}
	}

	return out
}

func (u *filterUseCase) requirePolicy(intent *orderStructs.NewOrderIntent, profile *structs.ChannelProfile) *orderStructs.NewOrderIntent {
	if profile.RequireStop && intent.StopLoss == 0 {
		return nil
	}
	if profile.RequireTarget && len(intent.TakeProfits) == 0 {
		return nil
	}

	return intent
}

func (u *filterUseCase) forceMarket(intent *orderStructs.NewOrderIntent, profile *structs.ChannelProfile) *orderStructs.NewOrderIntent {
	if profile.ForceMarket && orderStructs.IsPending(intent.Side) {
		intent.Side = orderStructs.MarketSide(intent.Side)
	}

	return intent
}

// overrideLevels replaces the stop and targets with predefined pip values,
// or derives a target ladder from the stop distance via risk:reward ratios.
func (u *filterUseCase) overrideLevels(intent *orderStructs.NewOrderIntent, profile *structs.ChannelProfile) *orderStructs.NewOrderIntent {
	if intent.Entry == 0 {
		return intent
	}

	size := PipSize(intent.Symbol)
	sell := orderStructs.IsSell(intent.Side)

	if profile.OverrideStopPips != 0 {
		intent.StopLoss = ResolveStopPips(intent.Entry, profile.OverrideStopPips, size, sell)
	}

	if len(profile.OverrideTargetPips) > 0 {
		intent.TakeProfits = intent.TakeProfits[:0]
		for _, pips := range profile.OverrideTargetPips {
			intent.TakeProfits = append(intent.TakeProfits, ResolveTargetPips(intent.Entry, pips, size, sell))
		}
	}

	if len(profile.RiskReward) > 0 && intent.StopLoss != 0 {
		risk := intent.Entry - intent.StopLoss
		if sell {
			risk = intent.StopLoss - intent.Entry
		}
		if risk <= 0 {
			return intent
		}

		intent.TakeProfits = intent.TakeProfits[:0]
		for _, rr := range profile.RiskReward {
			if sell {
				intent.TakeProfits = append(intent.TakeProfits, roundPrice(intent.Entry-risk*rr, size))
			} else {
				intent.TakeProfits = append(intent.TakeProfits, roundPrice(intent.Entry+risk*rr, size))
			}
		}
	}

	return intent
}

// reverseAndAdjust flips the signal direction when the channel is traded
// inverted, then applies fixed pip adjustments.
func (u *filterUseCase) reverseAndAdjust(intent *orderStructs.NewOrderIntent, profile *structs.ChannelProfile) *orderStructs.NewOrderIntent {
	size := PipSize(intent.Symbol)

	if profile.Reverse && intent.Side != "" {
		wasSell := orderStructs.IsSell(intent.Side)

		if wasSell {
			intent.Side = orderStructs.SideBuy
		} else {
			intent.Side = orderStructs.SideSell
		}

		if profile.ReverseRederive && intent.Entry != 0 {
			// Preserve pip distances on the flipped side.
			sell := !wasSell
			if intent.StopLoss != 0 {
				dist := absDistance(intent.Entry, intent.StopLoss)
				intent.StopLoss = ResolveStopPips(intent.Entry, dist/size, size, sell)
			}
			for i, tp := range intent.TakeProfits {
				dist := absDistance(intent.Entry, tp)
				intent.TakeProfits[i] = ResolveTargetPips(intent.Entry, dist/size, size, sell)
			}
		}
	}

	if intent.Entry != 0 && profile.AdjustEntryPips != 0 {
		intent.Entry = roundPrice(intent.Entry+profile.AdjustEntryPips*size, size)
	}
	if intent.StopLoss != 0 && profile.AdjustStopPips != 0 {
		intent.StopLoss = roundPrice(intent.StopLoss+profile.AdjustStopPips*size, size)
	}
	if profile.AdjustTargetPips != 0 {
		for i, tp := range intent.TakeProfits {
			intent.TakeProfits[i] = roundPrice(tp+profile.AdjustTargetPips*size, size)
		}
	}

	return intent
}

// symbolPolicy applies the deny/allow lists, then the broker rename.
func (u *filterUseCase) symbolPolicy(intent *orderStructs.NewOrderIntent, profile *structs.ChannelProfile) *orderStructs.NewOrderIntent {
	if intent.Symbol == "" {
		return intent
	}

	for _, denied := range profile.DeniedSymbols {
		if strings.EqualFold(denied, intent.Symbol) {
			return nil
		}
	}

	if len(profile.AllowedSymbols) > 0 {
		allowed := false
		for _, a := range profile.AllowedSymbols {
			if strings.EqualFold(a, intent.Symbol) {
				allowed = true
				break
			}
		}
		if !allowed {
			return nil
		}
	}

	for _, exempt := range profile.RenameExempt {
		if strings.EqualFold(exempt, intent.Symbol) {
			return intent
		}
	}

	intent.Symbol = profile.SymbolPrefix + intent.Symbol + profile.SymbolSuffix

	return intent
}

func absDistance(a, b float64) float64 {
	if a > b {
		return a - b
	}
	return b - a
}

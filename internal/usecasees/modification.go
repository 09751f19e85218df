package usecasees

import (
	"strings"

	"signalcopier/internal/repository/mongo/structs"
	"signalcopier/internal/repository/postgres"
	"signalcopier/models"
	orderStructs "signalcopier/internal/usecasees/structs"

	"github.com/sirupsen/logrus"
)

// modUseCase turns reply messages and global commands into UpdateIntents.
// Detection order matters and depends on whether the message is a reply: a
// reply is scoped to one signal, so "close all" inside it means "close this
// signal fully", not "flatten the account".
type modUseCase struct {
	signalRepo postgres.SignalRepo
	logger     *logrus.Logger
}

func NewModUseCase(
	signalRepo postgres.SignalRepo,
	logger *logrus.Logger,
) *modUseCase {
	return &modUseCase{
		signalRepo: signalRepo,
		logger:     logger,
	}
}

var disableTrailingWords = []string{"stop trail", "disable trail", "remove trail", "cancel trail", "no trail"}

// Extract returns nil when the message carries no recognizable modification;
// the caller then falls through to new-signal classification.
func (u *modUseCase) Extract(msg *models.RawMessage, profile *structs.ChannelProfile) *orderStructs.UpdateIntent {
	text := normalize(msg.Text)

	out := &orderStructs.UpdateIntent{
		ChannelID: msg.ChannelID,
		MessageID: msg.MessageID,
		ReplyToID: msg.ReplyToID,
		RawText:   msg.Text,
	}

	if msg.IsReply() {
		signal, err := u.signalRepo.GetByMessage(msg.ChannelID, msg.ReplyToID)
		if err != nil {
			u.logger.
				WithError(err).
				WithField("channel", msg.ChannelID).
				WithField("replyTo", msg.ReplyToID).
				Debug("reply target is not a recorded signal")
			return nil
		}
		out.SignalID = signal.ID
	}

	switch {
	// Breakeven always wins first.
	case containsAny(text, profile.BreakevenKeywords):
		out.Type = orderStructs.ModifyBreakeven

	// Disable-trailing is checked before the generic trailing keyword so a
	// "stop trailing" request is not read as enabling it.
	case containsAny(text, disableTrailingWords):
		out.Type = orderStructs.ModifyDisableTrailing

	case containsAny(text, profile.TrailingKeywords):
		out.Type = orderStructs.ModifyEnableTrailing

	// Account-wide commands only count as such outside a reply.
	case !msg.IsReply() && (strings.Contains(text, "close all") || strings.Contains(text, "delete all")):
		out.Type = orderStructs.ModifyCloseAll
		out.Percentage = 100
		out.AccountWide = true

	case !msg.IsReply() && containsAny(text, profile.CancelKeywords):
		out.Type = orderStructs.ModifyCancelPending
		out.AccountWide = true

	case msg.IsReply() && containsAny(text, profile.CancelKeywords):
		// Scoped to one signal: treated as a full close, preferring delete
		// for members still pending.
		out.Type = orderStructs.ModifyClosePartial
		out.Percentage = 100
		out.WasDelete = true

	case containsAny(text, profile.PartialKeywords):
		out.Type = orderStructs.ModifyClosePartial
		out.Percentage = parsePercentage(text)
		if out.Percentage == 0 {
			out.Percentage = 100
		}

	case containsAny(text, profile.CloseKeywords):
		out.Type = orderStructs.ModifyClosePartial
		out.Percentage = parsePercentage(text)
		if out.Percentage == 0 {
			out.Percentage = 100
		}

	case containsAny(text, profile.StopKeywords):
		out.Type = orderStructs.ModifyUpdateSL

	case containsAny(text, profile.TargetKeywords):
		out.Type = orderStructs.ModifyUpdateTP

	case containsAny(text, profile.EntryKeywords):
		out.Type = orderStructs.ModifyUpdateEntry

	default:
		return nil
	}

	switch out.Type {
	case orderStructs.ModifyUpdateSL, orderStructs.ModifyUpdateTP, orderStructs.ModifyUpdateEntry:
		out.Price = parsePrice(text)
		if out.Price == 0 {
			out.Pips = parsePips(text)
		}

		if out.Price == 0 && out.Pips == 0 {
			u.logger.
				WithField("channel", msg.ChannelID).
				WithField("type", out.Type).
				Debug("modification value unparsable, dropping")
			return nil
		}
	}

	if !msg.IsReply() {
		out.Symbol = extractSymbol(text)
	}

	return out
}

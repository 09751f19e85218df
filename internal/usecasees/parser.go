package usecasees

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"signalcopier/internal/repository/mongo/structs"
	"signalcopier/models"
	orderStructs "signalcopier/internal/usecasees/structs"

	"github.com/sirupsen/logrus"
)

const (
	confidenceWeightSymbol  = 0.3
	confidenceWeightSide    = 0.3
	confidenceWeightEntry   = 0.15
	confidenceWeightStop    = 0.15
	confidenceWeightTargets = 0.1

	confidenceCutoff         = 0.4
	confidenceCutoffFallback = 0.5
)

// SymbolTable is the curated instrument list checked before falling back to
// the XXX/YYY and six-letter-pair patterns.
var SymbolTable = []string{
	"XAUUSD", "XAGUSD",
	"EURUSD", "GBPUSD", "USDJPY", "USDCHF", "USDCAD", "AUDUSD", "NZDUSD",
	"EURJPY", "GBPJPY", "AUDJPY", "CADJPY", "CHFJPY", "NZDJPY",
	"EURGBP", "EURAUD", "EURCHF", "EURCAD", "EURNZD",
	"GBPAUD", "GBPCAD", "GBPCHF", "GBPNZD",
	"AUDCAD", "AUDCHF", "AUDNZD", "CADCHF", "NZDCAD", "NZDCHF",
	"BTCUSD", "ETHUSD",
	"US30", "NAS100", "SPX500", "GER40", "UK100", "USOIL",
}

var currencyCodes = map[string]bool{
	"EUR": true, "GBP": true, "USD": true, "JPY": true, "CHF": true,
	"CAD": true, "AUD": true, "NZD": true, "XAU": true, "XAG": true,
	"BTC": true, "ETH": true,
}

var (
	numberRe     = regexp.MustCompile(`\d+(?:\.\d+)?`)
	pairSlashRe  = regexp.MustCompile(`\b([a-z]{3})\s*/\s*([a-z]{3})\b`)
	pairPlainRe  = regexp.MustCompile(`\b([a-z]{6})\b`)
	rangeRe      = regexp.MustCompile(`(\d+(?:\.\d+)?)\s*-\s*(\d+(?:\.\d+)?)`)
	atPriceRe    = regexp.MustCompile(`@\s*(\d+(?:\.\d+)?)`)
	percentRe    = regexp.MustCompile(`(\d+(?:\.\d+)?)\s*%`)
	closeBareRe  = regexp.MustCompile(`close\s+(\d+(?:\.\d+)?)\b`)
	priceValueRe = regexp.MustCompile(`(?:to|at|:|=)\s*(\d+(?:\.\d+)?)`)
	pipsValueRe  = regexp.MustCompile(`(\d+(?:\.\d+)?)\s*(?:pips?|points?)`)
	byPipsRe     = regexp.MustCompile(`\bby\s+(\d+(?:\.\d+)?)`)
	closeTPNRe   = regexp.MustCompile(`close\s*tp\s*(\d)`)
	setTPNRe     = regexp.MustCompile(`tp\s*(\d)\s*(?:to|at|:|=)?\s*(\d+(?:\.\d+)?)`)
	signedNumRe  = regexp.MustCompile(`[+-]?\d+(?:\.\d+)?`)
)

// priceNoiseFloor keeps level indices ("tp 2") from being read as prices.
const priceNoiseFloor = 0.1

type parserUseCase struct {
	logger *logrus.Logger
}

func NewParserUseCase(logger *logrus.Logger) *parserUseCase {
	return &parserUseCase{logger: logger}
}

// Parse classifies a message against its channel profile. Exactly one of the
// returned intents is non-nil when the message is actionable; both are nil
// when the message is not a signal.
func (u *parserUseCase) Parse(msg *models.RawMessage, profile *structs.ChannelProfile) (*orderStructs.NewOrderIntent, *orderStructs.UpdateIntent) {
	text := normalize(msg.Text)

	if containsAny(text, profile.IgnoreKeywords) {
		u.logger.WithField("channel", msg.ChannelID).Debug("message matched ignore keyword")
		return nil, nil
	}

	if !withinActiveWindow(profile, msg.ReceivedAt) {
		u.logger.WithField("channel", msg.ChannelID).Debug("message outside active window")
		return nil, nil
	}

	if update := u.matchUpdate(msg, text); update != nil {
		return nil, update
	}

	intent := u.extract(msg, text, profile, confidenceCutoff, false)
	if intent == nil && profile.FallbackParser {
		intent = u.extract(msg, text, profile, confidenceCutoffFallback, true)
	}

	return intent, nil
}

// matchUpdate walks the ordered update keyword sets; the first match wins.
func (u *parserUseCase) matchUpdate(msg *models.RawMessage, text string) *orderStructs.UpdateIntent {
	out := &orderStructs.UpdateIntent{
		ChannelID: msg.ChannelID,
		MessageID: msg.MessageID,
		ReplyToID: msg.ReplyToID,
		RawText:   msg.Text,
	}

	switch {
	case closeTPNRe.MatchString(text):
		m := closeTPNRe.FindStringSubmatch(text)
		out.Type = orderStructs.ModifyClosePartial
		out.Level, _ = strconv.Atoi(m[1])
		out.Percentage = 100

	case strings.Contains(text, "close full"):
		out.Type = orderStructs.ModifyClosePartial
		out.Percentage = 100

	case strings.Contains(text, "close half"):
		out.Type = orderStructs.ModifyClosePartial
		out.Percentage = 50

	case strings.Contains(text, "close partial"):
		out.Type = orderStructs.ModifyClosePartial
		out.Percentage = parsePercentage(text)

	case strings.Contains(text, "breakeven") || strings.Contains(text, "break even"):
		out.Type = orderStructs.ModifyBreakeven

	case setTPNRe.MatchString(text) && strings.Contains(text, "set"):
		m := setTPNRe.FindStringSubmatch(text)
		out.Type = orderStructs.ModifyUpdateTP
		out.Level, _ = strconv.Atoi(m[1])
		out.Price, _ = strconv.ParseFloat(m[2], 64)

	case strings.Contains(text, "set tp"):
		out.Type = orderStructs.ModifyUpdateTP
		out.Price = lastNumber(text)

	case strings.Contains(text, "set sl"):
		out.Type = orderStructs.ModifyUpdateSL
		out.Price = lastNumber(text)

	case strings.Contains(text, "delete pending"):
		out.Type = orderStructs.ModifyCancelPending

	case strings.Contains(text, "layer"):
		out.Type = orderStructs.ModifyUpdateEntry
		out.Price = lastNumber(text)

	case strings.Contains(text, "close all"):
		out.Type = orderStructs.ModifyCloseAll
		out.Percentage = 100
		out.AccountWide = true

	case strings.Contains(text, "delete all"):
		out.Type = orderStructs.ModifyCancelPending
		out.AccountWide = true

	case strings.Contains(text, "remove sl"):
		out.Type = orderStructs.ModifyUpdateSL
		out.RemoveStop = true

	default:
		return nil
	}

	if out.Type == orderStructs.ModifyUpdateSL || out.Type == orderStructs.ModifyUpdateTP {
		if out.Price == 0 && !out.RemoveStop {
			if p := parsePrice(text); p != 0 {
				out.Price = p
			} else if pips := parsePips(text); pips != 0 {
				out.Pips = pips
			} else {
				// A valueless update would route as zero and wipe the
				// level on every matched order.
				u.logger.WithField("channel", msg.ChannelID).Debug("update carries no usable value, dropping")
				return nil
			}
		}
	}

	out.Symbol = extractSymbol(text)

	return out
}

// extract attempts new-signal extraction. loose switches on the fallback
// grammar, which searches the whole text instead of keyword-anchored lines.
func (u *parserUseCase) extract(msg *models.RawMessage, text string, profile *structs.ChannelProfile, cutoff float64, loose bool) *orderStructs.NewOrderIntent {
	intent := &orderStructs.NewOrderIntent{
		ChannelID: msg.ChannelID,
		MessageID: msg.MessageID,
		Lots:      profile.DefaultLots,
		RawText:   msg.Text,
	}

	intent.Symbol = extractSymbol(text)
	intent.Side = extractSide(text, profile)

	entries := u.extractEntries(text, intent, profile, loose)
	if len(entries) > 0 {
		intent.Entries = entries
		intent.Entry = selectEntry(entries, profile.EntrySelection)
	}

	stop, stopPips := extractStop(text, profile)
	targets, targetPips := extractTargets(text, profile)

	size := PipSize(intent.Symbol)
	sell := orderStructs.IsSell(intent.Side)

	if profile.StopPipMode && stopPips != 0 && intent.Entry != 0 {
		stop = ResolveStopPips(intent.Entry, stopPips, size, sell)
	}
	intent.StopLoss = stop

	if profile.TargetPipMode && intent.Entry != 0 {
		for _, pips := range targetPips {
			targets = append(targets, ResolveTargetPips(intent.Entry, pips, size, sell))
		}
	}
	intent.TakeProfits = targets

	intent.Confidence = confidence(intent)
	if intent.Confidence < cutoff {
		u.logger.
			WithField("channel", msg.ChannelID).
			WithField("confidence", intent.Confidence).
			Debug("extraction below confidence cutoff")
		return nil
	}

	return intent
}

func confidence(intent *orderStructs.NewOrderIntent) float64 {
	var score float64

	if intent.Symbol != "" {
		score += confidenceWeightSymbol
	}
	if intent.Side != "" {
		score += confidenceWeightSide
	}
	if intent.Entry != 0 {
		score += confidenceWeightEntry
	}
	if intent.StopLoss != 0 {
		score += confidenceWeightStop
	}
	if len(intent.TakeProfits) > 0 {
		score += confidenceWeightTargets
	}

	return score
}

func extractSymbol(text string) string {
	upper := strings.ToUpper(text)

	for _, symbol := range SymbolTable {
		if strings.Contains(upper, symbol) {
			return symbol
		}
	}

	if m := pairSlashRe.FindStringSubmatch(text); m != nil {
		return strings.ToUpper(m[1] + m[2])
	}

	for _, m := range pairPlainRe.FindAllString(text, -1) {
		pair := strings.ToUpper(m)
		if currencyCodes[pair[:3]] && currencyCodes[pair[3:]] {
			return pair
		}
	}

	return ""
}

// extractSide resolves the order side; explicit pending forms take
// precedence over the plain keyword sets.
func extractSide(text string, profile *structs.ChannelProfile) string {
	switch {
	case strings.Contains(text, "buy stop"):
		return orderStructs.SideBuyStop
	case strings.Contains(text, "buy limit"):
		return orderStructs.SideBuyLimit
	case strings.Contains(text, "sell stop"):
		return orderStructs.SideSellStop
	case strings.Contains(text, "sell limit"):
		return orderStructs.SideSellLimit
	}

	if containsAny(text, profile.BuyKeywords) {
		return orderStructs.SideBuy
	}
	if containsAny(text, profile.SellKeywords) {
		return orderStructs.SideSell
	}

	return ""
}

func (u *parserUseCase) extractEntries(text string, intent *orderStructs.NewOrderIntent, profile *structs.ChannelProfile, loose bool) []float64 {
	var out []float64

	appendNum := func(raw string) {
		if v, err := strconv.ParseFloat(raw, 64); err == nil && v > priceNoiseFloor {
			out = append(out, v)
		}
	}

	if m := atPriceRe.FindStringSubmatch(text); m != nil {
		appendNum(m[1])
	}

	for _, line := range strings.Split(text, "\n") {
		if !lineHasAny(line, profile.EntryKeywords) && !sideLine(line, intent.Side, profile) {
			continue
		}
		if lineHasAny(line, profile.StopKeywords) || lineHasAny(line, profile.TargetKeywords) {
			continue
		}

		if m := rangeRe.FindStringSubmatch(line); m != nil {
			appendNum(m[1])
			appendNum(m[2])
			continue
		}

		for _, n := range numberRe.FindAllString(line, -1) {
			appendNum(n)
		}
	}

	if len(out) == 0 && loose {
		// Fallback grammar: the first price-looking number in the text.
		for _, n := range numberRe.FindAllString(text, -1) {
			appendNum(n)
			if len(out) > 0 {
				break
			}
		}
	}

	return out
}

func selectEntry(entries []float64, selection string) float64 {
	switch selection {
	case structs.EntrySecond:
		if len(entries) > 1 {
			return entries[1]
		}
	case structs.EntryAverage:
		var sum float64
		for _, e := range entries {
			sum += e
		}
		return sum / float64(len(entries))
	}

	return entries[0]
}

func extractStop(text string, profile *structs.ChannelProfile) (price float64, pips float64) {
	for _, line := range strings.Split(text, "\n") {
		if !lineHasAny(line, profile.StopKeywords) {
			continue
		}

		if profile.StopPipMode {
			if m := signedNumRe.FindString(stripKeywords(line, profile.StopKeywords)); m != "" {
				pips, _ = strconv.ParseFloat(m, 64)
				return 0, pips
			}
			continue
		}

		if m := numberRe.FindString(stripKeywords(line, profile.StopKeywords)); m != "" {
			price, _ = strconv.ParseFloat(m, 64)
			return price, 0
		}
	}

	return 0, 0
}

// extractTargets supports the two configured conventions: numbered per-level
// keywords ("tp1 4325\ntp2 4320"), or one keyword followed by a separated
// list ("tp 4325, 4320, 4315"). The convention comes from the profile, never
// from the text.
func extractTargets(text string, profile *structs.ChannelProfile) (prices []float64, pips []float64) {
	appendVal := func(raw string) {
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return
		}
		if profile.TargetPipMode {
			pips = append(pips, v)
			return
		}
		if v > priceNoiseFloor {
			prices = append(prices, v)
		}
	}

	if profile.TakeProfitListMode {
		for _, line := range strings.Split(text, "\n") {
			if !lineHasAny(line, profile.TargetKeywords) {
				continue
			}
			for _, n := range numberRe.FindAllString(stripKeywords(line, profile.TargetKeywords), -1) {
				appendVal(n)
			}
			break
		}
		return prices, pips
	}

	for _, line := range strings.Split(text, "\n") {
		if !lineHasAny(line, profile.TargetKeywords) {
			continue
		}

		rest := stripKeywords(line, profile.TargetKeywords)

		// Skip a leading level index glued to the keyword ("tp1", "tp 2:").
		nums := numberRe.FindAllString(rest, -1)
		if len(nums) == 0 {
			continue
		}
		if len(nums) > 1 && isLevelIndex(nums[0]) {
			nums = nums[1:]
		}

		appendVal(nums[0])
	}

	return prices, pips
}

func isLevelIndex(raw string) bool {
	v, err := strconv.Atoi(raw)
	return err == nil && v >= 1 && v <= 5
}

// parsePercentage reads a partial-close fraction from free text.
// "half" is 50, "quarter" is 25, "all" is 100; otherwise "N%" or a bare
// number after a close keyword. Zero means nothing was found.
func parsePercentage(text string) float64 {
	text = normalize(text)

	if m := percentRe.FindStringSubmatch(text); m != nil {
		v, _ := strconv.ParseFloat(m[1], 64)
		return v
	}

	switch {
	case strings.Contains(text, "half"):
		return 50
	case strings.Contains(text, "quarter"):
		return 25
	case strings.Contains(text, "all"):
		return 100
	}

	if m := closeBareRe.FindStringSubmatch(text); m != nil {
		v, _ := strconv.ParseFloat(m[1], 64)
		if v <= 100 {
			return v
		}
	}

	return 0
}

// parsePrice reads a "to/at/:/=" prefixed number above the noise floor.
func parsePrice(text string) float64 {
	text = normalize(text)

	for _, m := range priceValueRe.FindAllStringSubmatch(text, -1) {
		v, _ := strconv.ParseFloat(m[1], 64)
		if v > priceNoiseFloor {
			return v
		}
	}

	return 0
}

// parsePips reads "N pips", "N points" or "by N".
func parsePips(text string) float64 {
	text = normalize(text)

	if m := pipsValueRe.FindStringSubmatch(text); m != nil {
		v, _ := strconv.ParseFloat(m[1], 64)
		return v
	}

	if m := byPipsRe.FindStringSubmatch(text); m != nil {
		v, _ := strconv.ParseFloat(m[1], 64)
		return v
	}

	return 0
}

func withinActiveWindow(profile *structs.ChannelProfile, at time.Time) bool {
	if len(profile.ActiveDays) > 0 {
		ok := false
		for _, d := range profile.ActiveDays {
			if int(at.Weekday()) == d {
				ok = true
				break
			}
		}
		if !ok {
			return false
		}
	}

	if profile.ActiveFrom == "" || profile.ActiveTo == "" {
		return true
	}

	from, errFrom := time.Parse("15:04", profile.ActiveFrom)
	to, errTo := time.Parse("15:04", profile.ActiveTo)
	if errFrom != nil || errTo != nil {
		return true
	}

	minute := at.Hour()*60 + at.Minute()
	fromMin := from.Hour()*60 + from.Minute()
	toMin := to.Hour()*60 + to.Minute()

	if fromMin <= toMin {
		return minute >= fromMin && minute <= toMin
	}

	// Window crossing midnight.
	return minute >= fromMin || minute <= toMin
}

func normalize(text string) string {
	return strings.ToLower(strings.TrimSpace(text))
}

func containsAny(text string, keywords []string) bool {
	for _, k := range keywords {
		if k != "" && strings.Contains(text, strings.ToLower(k)) {
			return true
		}
	}
	return false
}

func lineHasAny(line string, keywords []string) bool {
	return containsAny(line, keywords)
}

func sideLine(line, side string, profile *structs.ChannelProfile) bool {
	if side == "" {
		return false
	}
	if orderStructs.IsSell(side) {
		return containsAny(line, profile.SellKeywords)
	}
	return containsAny(line, profile.BuyKeywords)
}

func stripKeywords(line string, keywords []string) string {
	sorted := append([]string(nil), keywords...)
	// Longest first so "take profit" goes before "tp".
	for i := 0; i < len(sorted); i++ {
		for j := i + 1; j < len(sorted); j++ {
			if len(sorted[j]) > len(sorted[i]) {
				sorted[i], sorted[j] = sorted[j], sorted[i]
			}
		}
	}

	out := line
	for _, k := range sorted {
		out = strings.ReplaceAll(out, strings.ToLower(k), " ")
	}

	return out
}

func lastNumber(text string) float64 {
	nums := numberRe.FindAllString(text, -1)
	if len(nums) == 0 {
		return 0
	}

	v, _ := strconv.ParseFloat(nums[len(nums)-1], 64)

	return v
}

package structs

import "go.mongodb.org/mongo-driver/bson/primitive"

// Entry selection when a message carries more than one entry candidate.
const (
	EntryFirst   = "first"
	EntrySecond  = "second"
	EntryAverage = "average"
	EntryAll     = "all"
)

// ChannelProfile is the per-channel keyword and behavior configuration.
// Consumed read-only by the parser, the filter chain and the modification
// extractor. Every field is explicit; defaults are applied field by field
// in ApplyDefaults, never by reflective merging.
type ChannelProfile struct {
	ID        primitive.ObjectID `bson:"_id,omitempty"`
	ChannelID int64              `bson:"channel_id"`
	Name      string             `bson:"name"`
	Enabled   bool               `bson:"enabled"`

	// Keyword sets for classification.
	IgnoreKeywords    []string `bson:"ignore_keywords"`
	BuyKeywords       []string `bson:"buy_keywords"`
	SellKeywords      []string `bson:"sell_keywords"`
	EntryKeywords     []string `bson:"entry_keywords"`
	StopKeywords      []string `bson:"stop_keywords"`
	TargetKeywords    []string `bson:"target_keywords"`
	BreakevenKeywords []string `bson:"breakeven_keywords"`
	CloseKeywords     []string `bson:"close_keywords"`
	CancelKeywords    []string `bson:"cancel_keywords"`
	PartialKeywords   []string `bson:"partial_keywords"`
	TrailingKeywords  []string `bson:"trailing_keywords"`

	// Extraction behavior.
	TakeProfitListMode bool    `bson:"take_profit_list_mode"`
	StopPipMode        bool    `bson:"stop_pip_mode"`
	TargetPipMode      bool    `bson:"target_pip_mode"`
	EntrySelection     string  `bson:"entry_selection"`
	FallbackParser     bool    `bson:"fallback_parser"`
	DefaultLots        float64 `bson:"default_lots"`

	// Filter/override chain.
	RequireStop        bool      `bson:"require_stop"`
	RequireTarget      bool      `bson:"require_target"`
	ForceMarket        bool      `bson:"force_market"`
	OverrideStopPips   float64   `bson:"override_stop_pips"`
	OverrideTargetPips []float64 `bson:"override_target_pips"`
	RiskReward         []float64 `bson:"risk_reward"`
	Reverse            bool      `bson:"reverse"`
	ReverseRederive    bool      `bson:"reverse_rederive"`
	AdjustEntryPips    float64   `bson:"adjust_entry_pips"`
	AdjustStopPips     float64   `bson:"adjust_stop_pips"`
	AdjustTargetPips   float64   `bson:"adjust_target_pips"`
	AllowedSymbols     []string  `bson:"allowed_symbols"`
	DeniedSymbols      []string  `bson:"denied_symbols"`
	SymbolPrefix       string    `bson:"symbol_prefix"`
	SymbolSuffix       string    `bson:"symbol_suffix"`
	RenameExempt       []string  `bson:"rename_exempt"`

	// Time-of-day gate, "15:04" local, empty means always on.
	ActiveFrom string `bson:"active_from"`
	ActiveTo   string `bson:"active_to"`
	ActiveDays []int  `bson:"active_days"`

	// Group expansion.
	SplitMode        string    `bson:"split_mode"` // "equal" or "weighted"
	SplitPercents    []float64 `bson:"split_percents"`
	LotStep          float64   `bson:"lot_step"`
	MinLots          float64   `bson:"min_lots"`
	BreakevenLevel   int       `bson:"breakeven_level"`
	BreakevenOffset  float64   `bson:"breakeven_offset"`
	TrailingLevel    int       `bson:"trailing_level"`
	CloseAllOnStop   bool      `bson:"close_all_on_stop"`
	TargetedAccounts []string  `bson:"targeted_accounts"`
}

// ApplyDefaults fills the fields a stored profile may omit.
func (p *ChannelProfile) ApplyDefaults() {
	if len(p.BuyKeywords) == 0 {
		p.BuyKeywords = []string{"buy", "long"}
	}
	if len(p.SellKeywords) == 0 {
		p.SellKeywords = []string{"sell", "short"}
	}
	if len(p.EntryKeywords) == 0 {
		p.EntryKeywords = []string{"entry", "enter", "open", "price", "@"}
	}
	if len(p.StopKeywords) == 0 {
		p.StopKeywords = []string{"sl", "stop loss", "stoploss", "stop"}
	}
	if len(p.TargetKeywords) == 0 {
		p.TargetKeywords = []string{"tp", "take profit", "takeprofit", "target"}
	}
	if len(p.BreakevenKeywords) == 0 {
		p.BreakevenKeywords = []string{"breakeven", "break even", "risk free", "be "}
	}
	if len(p.CloseKeywords) == 0 {
		p.CloseKeywords = []string{"close", "exit", "take profit now", "secure"}
	}
	if len(p.CancelKeywords) == 0 {
		p.CancelKeywords = []string{"cancel", "delete", "remove order", "invalid"}
	}
	if len(p.PartialKeywords) == 0 {
		p.PartialKeywords = []string{"partial", "half", "some profit", "reduce"}
	}
	if len(p.TrailingKeywords) == 0 {
		p.TrailingKeywords = []string{"trail"}
	}
	if p.EntrySelection == "" {
		p.EntrySelection = EntryFirst
	}
	if p.DefaultLots == 0 {
		p.DefaultLots = 0.1
	}
	if p.SplitMode == "" {
		p.SplitMode = "weighted"
	}
	if len(p.SplitPercents) == 0 {
		p.SplitPercents = []float64{40, 30, 20, 10, 10}
	}
	if p.LotStep == 0 {
		p.LotStep = 0.01
	}
	if p.MinLots == 0 {
		p.MinLots = 0.01
	}
	if p.BreakevenLevel == 0 {
		p.BreakevenLevel = 1
	}
	if p.TrailingLevel == 0 {
		p.TrailingLevel = 2
	}
}

package structs

const (
	SideBuy       = "BUY"
	SideSell      = "SELL"
	SideBuyLimit  = "BUY LIMIT"
	SideBuyStop   = "BUY STOP"
	SideSellLimit = "SELL LIMIT"
	SideSellStop  = "SELL STOP"
)

// IsSell reports the direction of any of the six side forms.
func IsSell(side string) bool {
	return side == SideSell || side == SideSellLimit || side == SideSellStop
}

// IsPending reports whether a side is a pending-order form.
func IsPending(side string) bool {
	switch side {
	case SideBuyLimit, SideBuyStop, SideSellLimit, SideSellStop:
		return true
	}
	return false
}

// MarketSide maps a pending side to its market equivalent.
func MarketSide(side string) string {
	if IsSell(side) {
		return SideSell
	}
	return SideBuy
}

// NewOrderIntent is the typed result of classifying a channel message as a
// new signal. Prices are absolute; pip-encoded inputs are resolved by the
// parser once the entry is known.
type NewOrderIntent struct {
	ChannelID   int64
	MessageID   int64
	Symbol      string
	Side        string
	Entries     []float64
	Entry       float64
	StopLoss    float64
	TakeProfits []float64
	Lots        float64
	Confidence  float64
	RawText     string
}

func (i *NewOrderIntent) Clone() *NewOrderIntent {
	out := *i
	out.Entries = append([]float64(nil), i.Entries...)
	out.TakeProfits = append([]float64(nil), i.TakeProfits...)
	return &out
}

const (
	ModifyBreakeven       = "BREAKEVEN"
	ModifyClosePartial    = "CLOSE_PARTIAL"
	ModifyCloseAll        = "CLOSE_ALL"
	ModifyCancelPending   = "CANCEL_PENDING"
	ModifyUpdateSL        = "UPDATE_SL"
	ModifyUpdateTP        = "UPDATE_TP"
	ModifyEnableTrailing  = "ENABLE_TRAILING"
	ModifyDisableTrailing = "DISABLE_TRAILING"
	ModifyUpdateEntry     = "UPDATE_ENTRY"
)

// GlobalSignalID is the sentinel meaning "every tracked order on the
// account, no specific signal".
const GlobalSignalID = ""

// UpdateIntent is a parsed change request, typically scoped to one signal
// via the reply chain. Global commands carry GlobalSignalID.
type UpdateIntent struct {
	ChannelID  int64
	MessageID  int64
	ReplyToID  int64
	SignalID   string
	Type       string
	Symbol     string
	Price      float64
	Pips       float64
	Percentage float64
	Level      int
	// WasDelete marks a close request that was textually a delete, so the
	// router can prefer deleting pending orders over closing.
	WasDelete bool
	// RemoveStop marks an explicit request to clear the stop; only then is
	// a zero stop value intentional.
	RemoveStop bool
	// AccountWide widens a global command past the originating channel to
	// every tracked order on the account.
	AccountWide bool
	RawText     string
}

func (i *UpdateIntent) IsGlobal() bool {
	return i.SignalID == GlobalSignalID
}

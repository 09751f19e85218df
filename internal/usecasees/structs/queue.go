package structs

import "time"

// QueuedSignal is the wire envelope served to the execution agent for one
// sub-order. ID is the local correlation id unless the external relay
// assigned its own. Agent-side execution config is deliberately omitted.
type QueuedSignal struct {
	ID            string  `json:"id"`
	SignalGroupID string  `json:"signalGroupId,omitempty"`
	AccountID     string  `json:"accountNumber"`
	Platform      string  `json:"platform"`
	Symbol        string  `json:"symbol"`
	Side          string  `json:"side"`
	EntryPrice    float64 `json:"entryPrice"`
	StopLoss      float64 `json:"stopLoss,omitempty"`
	TakeProfit1   float64 `json:"takeProfit1,omitempty"`
	TakeProfit2   float64 `json:"takeProfit2,omitempty"`
	TakeProfit3   float64 `json:"takeProfit3,omitempty"`
	TakeProfit4   float64 `json:"takeProfit4,omitempty"`
	TakeProfit5   float64 `json:"takeProfit5,omitempty"`
	Lots          float64 `json:"lots"`
	LastInGroup   bool    `json:"lastInGroup,omitempty"`

	// SignalID, OrderID and EnqueuedAt are local bookkeeping, never served.
	SignalID   string    `json:"-"`
	OrderID    string    `json:"-"`
	EnqueuedAt time.Time `json:"-"`
}

type PendingSignalsResponse struct {
	Signals []QueuedSignal `json:"signals"`
}

type AckSignalRequest struct {
	SignalID      string `json:"signalId"`
	AccountNumber string `json:"accountNumber"`
	Status        string `json:"status"`
	Message       string `json:"message"`
}

type PendingModificationsResponse struct {
	Modifications []Command `json:"modifications"`
}

type AckModificationRequest struct {
	AccountNumber string  `json:"accountNumber"`
	Trades        []int64 `json:"trades"`
	Status        string  `json:"status"`
	Message       string  `json:"message"`
}

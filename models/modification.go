package models

import "time"

const (
	ModificationStatusPending = "PENDING"
	ModificationStatusApplied = "APPLIED"
	ModificationStatusFailed  = "FAILED"
	ModificationStatusIgnored = "IGNORED"
)

type Modification struct {
	ID         string    `db:"id"`
	SignalID   string    `db:"signal_id"`
	ChannelID  int64     `db:"channel_id"`
	Type       string    `db:"type"`
	Price      float64   `db:"price"`
	Pips       float64   `db:"pips"`
	Percentage float64   `db:"percentage"`
	Status     string    `db:"status"`
	RawText    string    `db:"raw_text"`
	CreatedAt  time.Time `db:"created_at"`
}

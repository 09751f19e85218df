package models

import "time"

// Signal is the persisted record of an accepted new-order intent, keyed by
// the channel message that produced it so replies can be resolved back.
type Signal struct {
	ID          string    `db:"id"`
	ChannelID   int64     `db:"channel_id"`
	MessageID   int64     `db:"message_id"`
	Symbol      string    `db:"symbol"`
	Side        string    `db:"side"`
	Entry       float64   `db:"entry"`
	StopLoss    float64   `db:"stop_loss"`
	TakeProfit1 float64   `db:"take_profit_1"`
	TakeProfit2 float64   `db:"take_profit_2"`
	TakeProfit3 float64   `db:"take_profit_3"`
	TakeProfit4 float64   `db:"take_profit_4"`
	TakeProfit5 float64   `db:"take_profit_5"`
	Confidence  float64   `db:"confidence"`
	RawText     string    `db:"raw_text"`
	CreatedAt   time.Time `db:"created_at"`
}

func (s *Signal) TakeProfits() []float64 {
	var out []float64
	for _, tp := range []float64{s.TakeProfit1, s.TakeProfit2, s.TakeProfit3, s.TakeProfit4, s.TakeProfit5} {
		if tp != 0 {
			out = append(out, tp)
		}
	}
	return out
}

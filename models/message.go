package models

import "time"

// RawMessage is a single inbound channel message. Produced by the Telegram
// collaborator, consumed once by the pipeline.
type RawMessage struct {
	ChannelID  int64
	MessageID  int64
	ReplyToID  int64
	Text       string
	ReceivedAt time.Time
}

func (m *RawMessage) IsReply() bool {
	return m.ReplyToID != 0
}

package postgres

import (
	"signalcopier/models"

	"github.com/jmoiron/sqlx"
)

type SignalRepository struct {
	conn *sqlx.DB
}

func NewSignalRepository(conn *sqlx.DB) SignalRepo {
	return &SignalRepository{
		conn: conn,
	}
}

func (r *SignalRepository) Store(m *models.Signal) error {
	if _, err := r.conn.NamedExec("INSERT INTO signals (id,channel_id,message_id,symbol,side,entry,stop_loss,take_profit_1,take_profit_2,take_profit_3,take_profit_4,take_profit_5,confidence,raw_text,created_at) VALUES (:id,:channel_id,:message_id,:symbol,:side,:entry,:stop_loss,:take_profit_1,:take_profit_2,:take_profit_3,:take_profit_4,:take_profit_5,:confidence,:raw_text,:created_at)", m); err != nil {
		return err
	}

	return nil
}

func (r *SignalRepository) GetByID(id string) (*models.Signal, error) {
	var signal models.Signal

	if err := r.conn.QueryRowx("SELECT * FROM signals WHERE id = $1 LIMIT 1", id).StructScan(&signal); err != nil {
		return nil, err
	}

	return &signal, nil
}

func (r *SignalRepository) GetByMessage(channelID, messageID int64) (*models.Signal, error) {
	var signal models.Signal

	if err := r.conn.QueryRowx("SELECT * FROM signals WHERE channel_id = $1 AND message_id = $2 ORDER BY created_at DESC LIMIT 1", channelID, messageID).StructScan(&signal); err != nil {
		return nil, err
	}

	return &signal, nil
}

package postgres

import (
	"signalcopier/models"

	"github.com/jmoiron/sqlx"
)

type ModificationRepository struct {
	conn *sqlx.DB
}

func NewModificationRepository(conn *sqlx.DB) ModificationRepo {
	return &ModificationRepository{
		conn: conn,
	}
}

func (r *ModificationRepository) Store(m *models.Modification) error {
	if _, err := r.conn.NamedExec("INSERT INTO modifications (id,signal_id,channel_id,type,price,pips,percentage,status,raw_text,created_at) VALUES (:id,:signal_id,:channel_id,:type,:price,:pips,:percentage,:status,:raw_text,:created_at)", m); err != nil {
		return err
	}

	return nil
}

func (r *ModificationRepository) SetStatus(id string, status string) error {
	if _, err := r.conn.Exec("UPDATE modifications SET status = $1 WHERE id = $2 AND status = 'PENDING';", status, id); err != nil {
		return err
	}

	return nil
}

package postgres

import (
	"time"

	"signalcopier/models"

	"github.com/jmoiron/sqlx"
)

type GroupRepository struct {
	conn *sqlx.DB
}

func NewGroupRepository(conn *sqlx.DB) GroupRepo {
	return &GroupRepository{
		conn: conn,
	}
}

func (r *GroupRepository) Store(m *models.OrderGroup) error {
	if _, err := r.conn.NamedExec("INSERT INTO order_groups (id,signal_id,symbol,side,total_lots,members,open_count,closed_count,hit_levels,current_stop,breakeven,trailing,profit,created_at) VALUES (:id,:signal_id,:symbol,:side,:total_lots,:members,:open_count,:closed_count,:hit_levels,:current_stop,:breakeven,:trailing,:profit,:created_at)", m); err != nil {
		return err
	}

	return nil
}

func (r *GroupRepository) GetByID(id string) (*models.OrderGroup, error) {
	var group models.OrderGroup

	if err := r.conn.QueryRowx("SELECT * FROM order_groups WHERE id = $1 LIMIT 1", id).StructScan(&group); err != nil {
		return nil, err
	}

	return &group, nil
}

func (r *GroupRepository) GetBySignalID(signalID string) (*models.OrderGroup, error) {
	var group models.OrderGroup

	if err := r.conn.QueryRowx("SELECT * FROM order_groups WHERE signal_id = $1 LIMIT 1", signalID).StructScan(&group); err != nil {
		return nil, err
	}

	return &group, nil
}

func (r *GroupRepository) Update(m *models.OrderGroup) error {
	if _, err := r.conn.NamedExec("UPDATE order_groups SET open_count = :open_count, closed_count = :closed_count, hit_levels = :hit_levels, current_stop = :current_stop, breakeven = :breakeven, trailing = :trailing, profit = :profit WHERE id = :id;", m); err != nil {
		return err
	}

	return nil
}

func (r *GroupRepository) PurgeBefore(t time.Time) (int64, error) {
	res, err := r.conn.Exec("DELETE FROM order_groups WHERE created_at < $1;", t.UTC())
	if err != nil {
		return 0, err
	}

	return res.RowsAffected()
}

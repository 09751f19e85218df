package postgres

import (
	"signalcopier/models"

	"github.com/jmoiron/sqlx"
)

type OrderRepository struct {
	conn *sqlx.DB
}

func NewOrderRepository(conn *sqlx.DB) OrderRepo {
	return &OrderRepository{
		conn: conn,
	}
}

func (r *OrderRepository) Store(m *models.Order) error {
	if _, err := r.conn.NamedExec("INSERT INTO orders (id,ticket,signal_id,group_id,channel_id,account_id,platform,symbol,side,entry,stop_loss,take_profit,tp_level,lots,status,created_at) VALUES (:id,:ticket,:signal_id,:group_id,:channel_id,:account_id,:platform,:symbol,:side,:entry,:stop_loss,:take_profit,:tp_level,:lots,:status,:created_at)", m); err != nil {
		return err
	}

	return nil
}

func (r *OrderRepository) GetByID(id string) (*models.Order, error) {
	var order models.Order

	if err := r.conn.QueryRowx("SELECT * FROM orders WHERE id = $1 LIMIT 1", id).StructScan(&order); err != nil {
		return nil, err
	}

	return &order, nil
}

func (r *OrderRepository) GetByTicket(accountID string, ticket int64) (*models.Order, error) {
	var order models.Order

	if err := r.conn.QueryRowx("SELECT * FROM orders WHERE account_id = $1 AND ticket = $2 LIMIT 1", accountID, ticket).StructScan(&order); err != nil {
		return nil, err
	}

	return &order, nil
}

func (r *OrderRepository) GetBySignalID(signalID string, includeClosed bool) ([]models.Order, error) {
	var orders []models.Order

	if includeClosed {
		if err := r.conn.Select(&orders, "SELECT * FROM orders WHERE signal_id = $1 ORDER BY created_at;", signalID); err != nil {
			return nil, err
		}

		return orders, nil
	}

	if err := r.conn.Select(&orders, "SELECT * FROM orders WHERE signal_id = $1 AND status IN ('PENDING','OPEN') ORDER BY created_at;", signalID); err != nil {
		return nil, err
	}

	return orders, nil
}

func (r *OrderRepository) GetBySymbol(symbol, accountID, platform string) ([]models.Order, error) {
	var orders []models.Order

	if err := r.conn.Select(&orders, "SELECT * FROM orders WHERE symbol = $1 AND account_id = $2 AND platform = $3 AND status IN ('PENDING','OPEN') ORDER BY created_at;", symbol, accountID, platform); err != nil {
		return nil, err
	}

	return orders, nil
}

func (r *OrderRepository) GetByChannel(channelID int64, accountID string) ([]models.Order, error) {
	var orders []models.Order

	if err := r.conn.Select(&orders, "SELECT * FROM orders WHERE channel_id = $1 AND account_id = $2 AND status IN ('PENDING','OPEN') ORDER BY created_at;", channelID, accountID); err != nil {
		return nil, err
	}

	return orders, nil
}

func (r *OrderRepository) GetByGroupID(groupID string) ([]models.Order, error) {
	var orders []models.Order

	if err := r.conn.Select(&orders, "SELECT * FROM orders WHERE group_id = $1 AND status IN ('PENDING','OPEN') ORDER BY created_at;", groupID); err != nil {
		return nil, err
	}

	return orders, nil
}

func (r *OrderRepository) GetTracked(accountID string) ([]models.Order, error) {
	var orders []models.Order

	if err := r.conn.Select(&orders, "SELECT * FROM orders WHERE account_id = $1 AND status IN ('PENDING','OPEN') ORDER BY created_at;", accountID); err != nil {
		return nil, err
	}

	return orders, nil
}

func (r *OrderRepository) SetTicket(id string, ticket int64, entry float64) error {
	if _, err := r.conn.Exec("UPDATE orders SET ticket = $1, entry = $2, status = 'OPEN' WHERE id = $3;", ticket, entry, id); err != nil {
		return err
	}

	return nil
}

func (r *OrderRepository) SetStatus(id string, status string) error {
	if _, err := r.conn.Exec("UPDATE orders SET status = $1 WHERE id = $2;", status, id); err != nil {
		return err
	}

	return nil
}

func (r *OrderRepository) SetStopLoss(id string, stopLoss float64) error {
	if _, err := r.conn.Exec("UPDATE orders SET stop_loss = $1 WHERE id = $2;", stopLoss, id); err != nil {
		return err
	}

	return nil
}

func (r *OrderRepository) Delete(id string) error {
	if _, err := r.conn.Exec("DELETE FROM orders WHERE id = $1 AND status = 'PENDING';", id); err != nil {
		return err
	}

	return nil
}

package postgres

import (
	"signalcopier/models"

	"github.com/jmoiron/sqlx"
)

type RiskRepository struct {
	conn *sqlx.DB
}

func NewRiskRepository(conn *sqlx.DB) RiskRepo {
	return &RiskRepository{
		conn: conn,
	}
}

func (r *RiskRepository) Get(accountID, platform, day string) (*models.DailyRiskStats, error) {
	var stats models.DailyRiskStats

	if err := r.conn.QueryRowx("SELECT * FROM daily_risk_stats WHERE account_id = $1 AND platform = $2 AND day = $3 LIMIT 1", accountID, platform, day).StructScan(&stats); err != nil {
		return nil, err
	}

	return &stats, nil
}

func (r *RiskRepository) Store(m *models.DailyRiskStats) error {
	if _, err := r.conn.NamedExec("INSERT INTO daily_risk_stats (id,account_id,platform,day,trades_opened,trades_closed,profit,limit_hit,limit_kind,created_at) VALUES (:id,:account_id,:platform,:day,:trades_opened,:trades_closed,:profit,:limit_hit,:limit_kind,:created_at)", m); err != nil {
		return err
	}

	return nil
}

func (r *RiskRepository) Update(m *models.DailyRiskStats) error {
	if _, err := r.conn.NamedExec("UPDATE daily_risk_stats SET trades_opened = :trades_opened, trades_closed = :trades_closed, profit = :profit, limit_hit = :limit_hit, limit_kind = :limit_kind WHERE id = :id;", m); err != nil {
		return err
	}

	return nil
}

func (r *RiskRepository) Delete(accountID, platform, day string) error {
	if _, err := r.conn.Exec("DELETE FROM daily_risk_stats WHERE account_id = $1 AND platform = $2 AND day = $3;", accountID, platform, day); err != nil {
		return err
	}

	return nil
}

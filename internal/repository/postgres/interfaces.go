package postgres

import (
	"time"

	"signalcopier/models"
)

//go:generate mockery --case=snake --name=OrderRepo
//go:generate mockery --case=snake --name=SignalRepo
//go:generate mockery --case=snake --name=ModificationRepo
//go:generate mockery --case=snake --name=GroupRepo
//go:generate mockery --case=snake --name=RiskRepo

type OrderRepo interface {
	Store(m *models.Order) error
	GetByID(id string) (*models.Order, error)
	GetByTicket(accountID string, ticket int64) (*models.Order, error)
	GetBySignalID(signalID string, includeClosed bool) ([]models.Order, error)
	GetBySymbol(symbol, accountID, platform string) ([]models.Order, error)
	GetByChannel(channelID int64, accountID string) ([]models.Order, error)
	GetByGroupID(groupID string) ([]models.Order, error)
	GetTracked(accountID string) ([]models.Order, error)
	SetTicket(id string, ticket int64, entry float64) error
	SetStatus(id string, status string) error
	SetStopLoss(id string, stopLoss float64) error
	Delete(id string) error
}

type SignalRepo interface {
	Store(m *models.Signal) error
	GetByID(id string) (*models.Signal, error)
	GetByMessage(channelID, messageID int64) (*models.Signal, error)
}

type ModificationRepo interface {
	Store(m *models.Modification) error
	SetStatus(id string, status string) error
}

type GroupRepo interface {
	Store(m *models.OrderGroup) error
	GetByID(id string) (*models.OrderGroup, error)
	GetBySignalID(signalID string) (*models.OrderGroup, error)
	Update(m *models.OrderGroup) error
	PurgeBefore(t time.Time) (int64, error)
}

type RiskRepo interface {
	Get(accountID, platform, day string) (*models.DailyRiskStats, error)
	Store(m *models.DailyRiskStats) error
	Update(m *models.DailyRiskStats) error
	Delete(accountID, platform, day string) error
}

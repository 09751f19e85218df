package mongo

import (
	"signalcopier/internal/repository/mongo/structs"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

//go:generate mockery --case=snake --name=ChannelProfileRepo
//go:generate mockery --case=snake --name=AccountProfileRepo

type ChannelProfileRepo interface {
	SetDefault() error
	Load(channelID int64) (*structs.ChannelProfile, error)
	LoadAll() ([]structs.ChannelProfile, error)
	UpdateEnabled(id primitive.ObjectID, enabled bool) error
}

type AccountProfileRepo interface {
	Load(accountID string) (*structs.AccountProfile, error)
	LoadAll() ([]structs.AccountProfile, error)
	UpdateBalance(id primitive.ObjectID, balance float64) error
}

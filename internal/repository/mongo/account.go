package mongo

import (
	"context"

	"signalcopier/internal/repository/mongo/structs"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

type AccountProfileRepository struct {
	conn       *mongo.Client
	collection *mongo.Collection
}

func NewAccountProfileRepository(conn *mongo.Client) *AccountProfileRepository {
	collection := conn.Database("profiles").Collection("accounts")

	return &AccountProfileRepository{conn: conn, collection: collection}
}

func (r *AccountProfileRepository) Load(accountID string) (*structs.AccountProfile, error) {
	var result structs.AccountProfile

	if err := r.collection.FindOne(context.TODO(), bson.D{{Key: "account_id", Value: accountID}}).Decode(&result); err != nil {
		return &result, err
	}

	return &result, nil
}

func (r *AccountProfileRepository) LoadAll() ([]structs.AccountProfile, error) {
	cursor, err := r.collection.Find(context.TODO(), bson.D{{Key: "enabled", Value: true}})
	if err != nil {
		return nil, err
	}

	var out []structs.AccountProfile

	if err := cursor.All(context.TODO(), &out); err != nil {
		return nil, err
	}

	return out, nil
}

func (r *AccountProfileRepository) UpdateBalance(id primitive.ObjectID, balance float64) error {
	_, err := r.collection.UpdateOne(
		context.TODO(),
		bson.D{{Key: "_id", Value: id}},
		bson.D{{Key: "$set", Value: bson.D{{Key: "balance", Value: balance}}}},
	)
	if err != nil {
		return err
	}

	return nil
}

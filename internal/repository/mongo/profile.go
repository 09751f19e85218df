package mongo

import (
	"context"

	"signalcopier/internal/repository/mongo/structs"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

type ChannelProfileRepository struct {
	conn       *mongo.Client
	collection *mongo.Collection
}

func NewChannelProfileRepository(conn *mongo.Client) *ChannelProfileRepository {
	collection := conn.Database("profiles").Collection("channels")

	return &ChannelProfileRepository{conn: conn, collection: collection}
}

func (r *ChannelProfileRepository) SetDefault() error {
	profiles := []structs.ChannelProfile{
		{
			ChannelID: 0,
			Name:      "default",
			Enabled:   false,
		},
	}

	for _, profile := range profiles {
		check, err := r.Load(profile.ChannelID)
		if err != nil && err != mongo.ErrNoDocuments {
			return err
		}

		if primitive.ObjectID.IsZero(check.ID) {
			profile.ApplyDefaults()

			_, err := r.collection.InsertOne(context.TODO(), profile)
			if err != nil {
				return err
			}
		}
	}

	return nil
}

func (r *ChannelProfileRepository) Load(channelID int64) (*structs.ChannelProfile, error) {
	var result structs.ChannelProfile

	if err := r.collection.FindOne(context.TODO(), bson.D{{Key: "channel_id", Value: channelID}}).Decode(&result); err != nil {
		return &result, err
	}

	result.ApplyDefaults()

	return &result, nil
}

func (r *ChannelProfileRepository) LoadAll() ([]structs.ChannelProfile, error) {
	cursor, err := r.collection.Find(context.TODO(), bson.D{{Key: "enabled", Value: true}})
	if err != nil {
		return nil, err
	}

	var out []structs.ChannelProfile

	if err := cursor.All(context.TODO(), &out); err != nil {
		return nil, err
	}

	for i := range out {
		out[i].ApplyDefaults()
	}

	return out, nil
}

func (r *ChannelProfileRepository) UpdateEnabled(id primitive.ObjectID, enabled bool) error {
	_, err := r.collection.UpdateOne(
		context.TODO(),
		bson.D{{Key: "_id", Value: id}},
		bson.D{{Key: "$set", Value: bson.D{{Key: "enabled", Value: enabled}}}},
	)
	if err != nil {
		return err
	}

	return nil
}

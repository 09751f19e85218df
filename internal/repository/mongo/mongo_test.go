package mongo

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

func initMongoTest(t *testing.T) *mongo.Client {
	credential := options.Credential{
		Username: "signalcopier",
		Password: "signalcopier",
	}

	client, err := mongo.Connect(context.TODO(), options.Client().ApplyURI("mongodb://localhost:27017").SetAuth(credential))
	require.NoError(t, err)

	if err := client.Ping(context.TODO(), nil); err != nil {
		t.Skipf("mongo unavailable: %v", err)
	}

	return client
}

func TestChannelProfileSetDefault(t *testing.T) {
	repo := NewChannelProfileRepository(initMongoTest(t))

	require.NoError(t, repo.SetDefault())

	p, err := repo.Load(0)
	require.NoError(t, err)

	// The seeded profile is disabled and carries the keyword defaults.
	assert.False(t, p.Enabled)
	assert.NotEmpty(t, p.CloseKeywords)
	assert.NotEmpty(t, p.SplitPercents)

	// Seeding twice never duplicates the row.
	require.NoError(t, repo.SetDefault())
}

func TestAccountProfileLoadAllFiltersDisabled(t *testing.T) {
	repo := NewAccountProfileRepository(initMongoTest(t))

	accounts, err := repo.LoadAll()
	require.NoError(t, err)

	for _, a := range accounts {
		assert.True(t, a.Enabled)
	}
}

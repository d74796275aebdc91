package persistence

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/petrijr/formflow/internal/testutil"
)

type MongoEventStoreTestSuite struct {
	suite.Suite
	client *mongo.Client
	store  *MongoEventStore
}

func TestMongoEventStoreSuite(t *testing.T) {
	uri := testutil.GetMongoURI(t)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		t.Fatalf("mongo.Connect failed: %v", err)
	}
	t.Cleanup(func() { _ = client.Disconnect(context.Background()) })

	store, err := NewMongoEventStore(ctx, client, "formflow_test", "")
	if err != nil {
		t.Fatalf("NewMongoEventStore failed: %v", err)
	}

	suite.Run(t, &MongoEventStoreTestSuite{client: client, store: store})
}

func (m *MongoEventStoreTestSuite) SetupTest() {
	_, err := m.store.coll.DeleteMany(context.Background(), bson.M{})
	m.Require().NoError(err)
}

func (m *MongoEventStoreTestSuite) TestContract() {
	assertEventStoreContract(m.T(), m.store)
}

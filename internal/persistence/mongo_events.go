package persistence

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/petrijr/formflow/pkg/api"
)

// MongoEventStore is an EventStore backed by a MongoDB collection.
// Events are ordered by their ObjectID, which is monotonic per process.
type MongoEventStore struct {
	coll *mongo.Collection
}

var _ EventStore = (*MongoEventStore)(nil)

type mongoEventDoc struct {
	ID         primitive.ObjectID `bson:"_id"`
	WizardID   string             `bson:"wizard_id"`
	WizardName string             `bson:"wizard_name"`
	At         time.Time          `bson:"at"`
	Type       string             `bson:"type"`
	Step       int                `bson:"step"`
	Label      string             `bson:"label"`
	Detail     string             `bson:"detail,omitempty"`
	Payload    []byte             `bson:"payload,omitempty"`
}

// NewMongoEventStore creates a Mongo-backed event store and ensures its index.
// dbName defaults to "formflow" if empty, collName defaults to "wizard_events".
func NewMongoEventStore(ctx context.Context, client *mongo.Client, dbName, collName string) (*MongoEventStore, error) {
	if dbName == "" {
		dbName = "formflow"
	}
	if collName == "" {
		collName = "wizard_events"
	}

	s := &MongoEventStore{
		coll: client.Database(dbName).Collection(collName),
	}
	_, err := s.coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "wizard_id", Value: 1}, {Key: "_id", Value: 1}},
	})
	if err != nil {
		return nil, err
	}
	return s, nil
}

func (s *MongoEventStore) AppendEvent(ctx context.Context, ev api.TransitionEvent) error {
	if err := checkEvent(ev); err != nil {
		return err
	}
	payload, err := EncodePayload(ev)
	if err != nil {
		return err
	}

	doc := mongoEventDoc{
		ID:         primitive.NewObjectID(),
		WizardID:   ev.WizardID,
		WizardName: ev.WizardName,
		At:         eventTime(ev).UTC(),
		Type:       string(ev.Type),
		Step:       ev.Step,
		Label:      ev.Label,
		Detail:     ev.Detail,
		Payload:    payload,
	}
	_, err = s.coll.InsertOne(ctx, doc)
	return err
}

func (s *MongoEventStore) ListEvents(ctx context.Context, wizardID string) ([]api.TransitionEvent, error) {
	opts := options.Find().SetSort(bson.D{{Key: "_id", Value: 1}})
	cur, err := s.coll.Find(ctx, bson.M{"wizard_id": wizardID}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var out []api.TransitionEvent
	for cur.Next(ctx) {
		var doc mongoEventDoc
		if err := cur.Decode(&doc); err != nil {
			return nil, err
		}
		ev := api.TransitionEvent{
			WizardID:   doc.WizardID,
			WizardName: doc.WizardName,
			At:         doc.At,
			Type:       api.EventType(doc.Type),
			Step:       doc.Step,
			Label:      doc.Label,
			Detail:     doc.Detail,
		}
		if err := DecodePayload(doc.Payload, &ev); err != nil {
			return nil, err
		}
		out = append(out, ev)
	}
	return out, cur.Err()
}

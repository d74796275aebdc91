package persistence

import (
	"context"

	"github.com/redis/go-redis/v9"

	"github.com/petrijr/formflow/pkg/api"
)

// RedisEventStore is an EventStore backed by Redis lists.
// It uses a simple key structure:
//
//	<prefix>events:<wizard id>  => LIST of gob-encoded events, oldest first
//	<prefix>idx:wizards         => SET of wizard IDs with at least one event
type RedisEventStore struct {
	client *redis.Client
	prefix string
}

var _ EventStore = (*RedisEventStore)(nil)

// NewRedisEventStore creates a RedisEventStore.
// prefix is optional but recommended (e.g. "formflow:").
func NewRedisEventStore(client *redis.Client, prefix string) *RedisEventStore {
	if prefix == "" {
		prefix = "formflow:"
	}
	return &RedisEventStore{
		client: client,
		prefix: prefix,
	}
}

func (s *RedisEventStore) keyEvents(wizardID string) string {
	return s.prefix + "events:" + wizardID
}

func (s *RedisEventStore) keyWizards() string {
	return s.prefix + "idx:wizards"
}

func (s *RedisEventStore) AppendEvent(ctx context.Context, ev api.TransitionEvent) error {
	if err := checkEvent(ev); err != nil {
		return err
	}
	data, err := EncodeEvent(ev)
	if err != nil {
		return err
	}

	pipe := s.client.TxPipeline()
	pipe.RPush(ctx, s.keyEvents(ev.WizardID), data)
	pipe.SAdd(ctx, s.keyWizards(), ev.WizardID)
	_, err = pipe.Exec(ctx)
	return err
}

func (s *RedisEventStore) ListEvents(ctx context.Context, wizardID string) ([]api.TransitionEvent, error) {
	raw, err := s.client.LRange(ctx, s.keyEvents(wizardID), 0, -1).Result()
	if err != nil {
		return nil, err
	}
	out := make([]api.TransitionEvent, 0, len(raw))
	for _, item := range raw {
		ev, err := DecodeEvent([]byte(item))
		if err != nil {
			return nil, err
		}
		out = append(out, ev)
	}
	return out, nil
}

// ListWizards returns the IDs of all wizards with journaled events.
func (s *RedisEventStore) ListWizards(ctx context.Context) ([]string, error) {
	return s.client.SMembers(ctx, s.keyWizards()).Result()
}

package artifact

import (
	"context"
	"fmt"
	"time"

	"github.com/valkey-io/valkey-go"

	"github.com/yanqian/yogava/internal/domain/transcript"
)

// ValkeyStore keeps artifacts as Valkey strings that expire on their own.
type ValkeyStore struct {
	client valkey.Client
	prefix string
	ttl    time.Duration
}

// NewValkeyStore constructs a store backed by Valkey.
func NewValkeyStore(client valkey.Client, prefix string, ttl time.Duration) *ValkeyStore {
	if prefix == "" {
		prefix = "yogava:artifact"
	}
	return &ValkeyStore{client: client, prefix: prefix, ttl: ttl}
}

func (s *ValkeyStore) Put(ctx context.Context, key string, data []byte) (transcript.StoredArtifact, error) {
	builder := s.client.B().Set().Key(s.entryKey(key)).Value(valkey.BinaryString(data))
	var (
		cmd     valkey.Completed
		expires time.Time
	)
	if s.ttl > 0 {
		ttl := max(s.ttl, time.Second)
		cmd = builder.Ex(ttl).Build()
		expires = time.Now().Add(ttl)
	} else {
		cmd = builder.Build()
	}
	if err := s.client.Do(ctx, cmd).Error(); err != nil {
		return transcript.StoredArtifact{}, fmt.Errorf("put artifact %s: %w", key, err)
	}
	return transcript.StoredArtifact{Key: key, Size: int64(len(data)), ExpiresAt: expires}, nil
}

func (s *ValkeyStore) Delete(ctx context.Context, key string) error {
	if err := s.client.Do(ctx, s.client.B().Del().Key(s.entryKey(key)).Build()).Error(); err != nil {
		return fmt.Errorf("delete artifact %s: %w", key, err)
	}
	return nil
}

func (s *ValkeyStore) entryKey(key string) string {
	return fmt.Sprintf("%s:%s", s.prefix, key)
}

var _ transcript.ArtifactStore = (*ValkeyStore)(nil)

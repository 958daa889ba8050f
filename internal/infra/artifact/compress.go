package artifact

import (
	"context"
	"fmt"

	"github.com/klauspost/compress/zstd"

	"github.com/yanqian/yogava/internal/domain/transcript"
)

// CompressedStore zstd-compresses artifacts before handing them to another
// store. Reported sizes are the compressed sizes.
type CompressedStore struct {
	inner   transcript.ArtifactStore
	encoder *zstd.Encoder
}

// NewCompressedStore wraps inner.
func NewCompressedStore(inner transcript.ArtifactStore) (*CompressedStore, error) {
	encoder, err := zstd.NewWriter(nil)
	if err != nil {
		return nil, fmt.Errorf("create zstd encoder: %w", err)
	}
	return &CompressedStore{inner: inner, encoder: encoder}, nil
}

func (s *CompressedStore) Put(ctx context.Context, key string, data []byte) (transcript.StoredArtifact, error) {
	return s.inner.Put(ctx, key, s.encoder.EncodeAll(data, nil))
}

func (s *CompressedStore) Delete(ctx context.Context, key string) error {
	return s.inner.Delete(ctx, key)
}

// Close releases the encoder.
func (s *CompressedStore) Close() error {
	return s.encoder.Close()
}

var _ transcript.ArtifactStore = (*CompressedStore)(nil)

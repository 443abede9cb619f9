package store

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"recipe-viewer/internal/pkg/common"
)

func testDocument(id string) *Document {
	now := time.Now().UTC().Truncate(time.Second)
	return &Document{
		ID: id,
		Payload: common.RecipePayload{
			ParsedIngredients: []common.ParsedIngredient{
				{Name: "butter", Unit: common.StringPtr("tbsp"), Amount: common.FloatPtr(5), Raw: "5 tbsp butter"},
			},
			Steps: []string{"Melt the butter."},
		},
		LinkingEnabled: true,
		Fingerprint:    "abc",
		Version:        1,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
}

func newRedisStore(t *testing.T) (*RedisStore, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	s := NewRedisStoreWithClient(client, "test:doc:", time.Hour)
	t.Cleanup(func() { _ = s.Close() })
	return s, mr
}

func runStoreContract(t *testing.T, s Store) {
	ctx := context.Background()

	require.NoError(t, s.Ping(ctx))

	_, err := s.Get(ctx, "missing")
	assert.ErrorIs(t, err, common.ErrDocumentNotFound)

	doc := testDocument("doc-1")
	require.NoError(t, s.Save(ctx, doc))

	got, err := s.Get(ctx, "doc-1")
	require.NoError(t, err)
	assert.Equal(t, doc.ID, got.ID)
	assert.Equal(t, doc.Payload, got.Payload)
	assert.True(t, got.LinkingEnabled)
	assert.True(t, doc.CreatedAt.Equal(got.CreatedAt))

	got.LinkingEnabled = false
	got.Version = 2
	require.NoError(t, s.Save(ctx, got))
	again, err := s.Get(ctx, "doc-1")
	require.NoError(t, err)
	assert.False(t, again.LinkingEnabled)
	assert.Equal(t, int64(2), again.Version)

	require.NoError(t, s.Delete(ctx, "doc-1"))
	assert.ErrorIs(t, s.Delete(ctx, "doc-1"), common.ErrDocumentNotFound)
	_, err = s.Get(ctx, "doc-1")
	assert.ErrorIs(t, err, common.ErrDocumentNotFound)

	assert.True(t, common.IsValidationError(s.Save(ctx, &Document{})))
}

func TestMemoryStore(t *testing.T) {
	runStoreContract(t, NewMemoryStore())
}

func TestRedisStore(t *testing.T) {
	s, _ := newRedisStore(t)
	runStoreContract(t, s)
}

func TestMemoryStoreReturnsCopies(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	doc := testDocument("doc-1")
	require.NoError(t, s.Save(ctx, doc))

	doc.Payload.Steps[0] = "changed"
	got, err := s.Get(ctx, "doc-1")
	require.NoError(t, err)
	assert.Equal(t, "Melt the butter.", got.Payload.Steps[0])

	got.Payload.Steps[0] = "changed again"
	again, err := s.Get(ctx, "doc-1")
	require.NoError(t, err)
	assert.Equal(t, "Melt the butter.", again.Payload.Steps[0])
	assert.Equal(t, 1, s.Len())
}

func TestRedisStoreTTL(t *testing.T) {
	ctx := context.Background()
	s, mr := newRedisStore(t)

	require.NoError(t, s.Save(ctx, testDocument("doc-1")))
	assert.True(t, mr.Exists("test:doc:doc-1"))
	assert.Equal(t, time.Hour, mr.TTL("test:doc:doc-1"))

	mr.FastForward(2 * time.Hour)
	_, err := s.Get(ctx, "doc-1")
	assert.ErrorIs(t, err, common.ErrDocumentNotFound)
}

func TestRedisStoreCorruptDocument(t *testing.T) {
	ctx := context.Background()
	s, mr := newRedisStore(t)

	require.NoError(t, mr.Set("test:doc:bad", "{not json"))
	_, err := s.Get(ctx, "bad")
	require.Error(t, err)
	assert.NotErrorIs(t, err, common.ErrDocumentNotFound)
}

func TestRedisStoreUnavailable(t *testing.T) {
	ctx := context.Background()
	mr, err := miniredis.Run()
	require.NoError(t, err)
	s := NewRedisStoreWithClient(redis.NewClient(&redis.Options{Addr: mr.Addr()}), "test:doc:", time.Hour)
	defer s.Close()
	mr.Close()

	assert.Error(t, s.Ping(ctx))
	_, err = s.Get(ctx, "doc-1")
	assert.Error(t, err)
}

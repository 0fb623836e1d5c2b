package redis

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupRepo(t *testing.T, key string) (*TokenRepository, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewTokenRepository(client, key), mr
}

func TestTokenRepository_GetMissing(t *testing.T) {
	repo, _ := setupRepo(t, "")

	token, err := repo.Get(context.Background())
	require.NoError(t, err)
	assert.Empty(t, token)
}

func TestTokenRepository_SaveGetDelete(t *testing.T) {
	repo, mr := setupRepo(t, "")
	ctx := context.Background()

	require.NoError(t, repo.Save(ctx, "tok-1"))
	mr.CheckGet(t, DefaultKey, "tok-1")
	assert.Zero(t, mr.TTL(DefaultKey))

	token, err := repo.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, "tok-1", token)

	require.NoError(t, repo.Save(ctx, "tok-2"))
	mr.CheckGet(t, DefaultKey, "tok-2")

	require.NoError(t, repo.Delete(ctx))
	assert.False(t, mr.Exists(DefaultKey))
}

func TestTokenRepository_DeleteMissing(t *testing.T) {
	repo, _ := setupRepo(t, "")
	assert.NoError(t, repo.Delete(context.Background()))
}

func TestTokenRepository_CustomKey(t *testing.T) {
	repo, mr := setupRepo(t, "shopease:token")

	require.NoError(t, repo.Save(context.Background(), "abc"))
	mr.CheckGet(t, "shopease:token", "abc")
	assert.False(t, mr.Exists(DefaultKey))
}

func TestTokenRepository_ServerDown(t *testing.T) {
	repo, mr := setupRepo(t, "")
	mr.Close()

	_, err := repo.Get(context.Background())
	assert.Error(t, err)
	assert.Error(t, repo.Save(context.Background(), "x"))
	assert.Error(t, repo.Ping(context.Background()))
}

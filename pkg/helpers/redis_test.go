package helpers

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRedisJSONRoundTrip(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := NewRedisClient(mr.Addr(), "", 0)
	defer func() { _ = rdb.Close() }()
	ctx := context.Background()

	type payload struct {
		Name string `json:"name"`
	}

	var got payload
	found, err := RedisGetJSON(ctx, rdb, "missing", &got)
	require.NoError(t, err)
	assert.False(t, found)

	require.NoError(t, RedisSetJSON(ctx, rdb, "k", payload{Name: "ada"}, time.Minute))
	found, err = RedisGetJSON(ctx, rdb, "k", &got)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, "ada", got.Name)

	mr.FastForward(2 * time.Minute)
	found, err = RedisGetJSON(ctx, rdb, "k", &got)
	require.NoError(t, err)
	assert.False(t, found)
}

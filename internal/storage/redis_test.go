package storage

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Redis降级运行时Storage.Redis为nil，所有方法必须返回
// ErrRedisUnavailable而不是panic，否则消费者协程会被整个拖垮。
func TestRedisNilReceiverDegradedMode(t *testing.T) {
	storage := &Storage{}
	require.Nil(t, storage.Redis)
	ctx := context.Background()

	assert.NotPanics(t, func() {
		exists, err := storage.Redis.CheckAndAddRawFileMD5(ctx, "d41d8cd98f00b204e9800998ecf8427e")
		assert.False(t, exists)
		assert.ErrorIs(t, err, ErrRedisUnavailable)
	})

	assert.NotPanics(t, func() {
		exists, err := storage.Redis.CheckAndAddParsedTextMD5(ctx, "d41d8cd98f00b204e9800998ecf8427e")
		assert.False(t, exists)
		assert.ErrorIs(t, err, ErrRedisUnavailable)
	})

	assert.NotPanics(t, func() {
		err := storage.Redis.RemoveRawFileMD5(ctx, "d41d8cd98f00b204e9800998ecf8427e")
		assert.ErrorIs(t, err, ErrRedisUnavailable)
	})

	assert.NotPanics(t, func() {
		err := storage.Redis.SetFileMD5ToSubmissionUUID(ctx, "d41d8cd98f00b204e9800998ecf8427e", "uuid")
		assert.ErrorIs(t, err, ErrRedisUnavailable)
	})

	assert.NotPanics(t, func() {
		got, err := storage.Redis.GetSubmissionUUIDByFileMD5(ctx, "d41d8cd98f00b204e9800998ecf8427e")
		assert.Empty(t, got)
		assert.ErrorIs(t, err, ErrRedisUnavailable)
	})

	assert.NotPanics(t, func() {
		err := storage.Redis.CacheProfileJSON(ctx, "abc", "{}")
		assert.ErrorIs(t, err, ErrRedisUnavailable)
	})

	assert.NotPanics(t, func() {
		got, err := storage.Redis.GetCachedProfileJSON(ctx, "abc")
		assert.Empty(t, got)
		assert.ErrorIs(t, err, ErrRedisUnavailable)
	})

	assert.NotPanics(t, func() {
		assert.ErrorIs(t, storage.Redis.Ping(ctx), ErrRedisUnavailable)
		assert.NoError(t, storage.Redis.Close())
	})
}

func TestRedisNilReceiverExpireDurationDefault(t *testing.T) {
	var r *Redis
	assert.Equal(t, 365*24*time.Hour, r.GetMD5ExpireDuration())
}

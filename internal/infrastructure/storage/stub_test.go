package storage

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStubObjectStorage(t *testing.T) {
	ctx := context.Background()
	s := NewStubObjectStorage()

	t.Run("requires a key", func(t *testing.T) {
		_, _, err := s.GenerateUploadURL(ctx, "", "image/png", time.Minute)
		assert.Error(t, err)
		_, _, err = s.GenerateDownloadURL(ctx, "", time.Minute)
		assert.Error(t, err)
		assert.Error(t, s.DeleteObject(ctx, ""))
		_, err = s.ObjectExists(ctx, "")
		assert.Error(t, err)
	})

	t.Run("issued keys exist until deleted", func(t *testing.T) {
		key := "employees/abc/photo.png"
		exists, err := s.ObjectExists(ctx, key)
		require.NoError(t, err)
		assert.False(t, exists)

		url, expiresAt, err := s.GenerateUploadURL(ctx, key, "image/png", time.Minute)
		require.NoError(t, err)
		assert.True(t, strings.HasPrefix(url, "https://storage.example.com/upload/"))
		assert.WithinDuration(t, time.Now().Add(time.Minute), expiresAt, time.Second)

		exists, err = s.ObjectExists(ctx, key)
		require.NoError(t, err)
		assert.True(t, exists)

		require.NoError(t, s.DeleteObject(ctx, key))
		exists, err = s.ObjectExists(ctx, key)
		require.NoError(t, err)
		assert.False(t, exists)
	})

	t.Run("download url", func(t *testing.T) {
		url, _, err := s.GenerateDownloadURL(ctx, "k", time.Minute)
		require.NoError(t, err)
		assert.True(t, strings.HasPrefix(url, "https://storage.example.com/download/k?expires="))
	})
}

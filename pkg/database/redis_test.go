package database

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/tutorconnect-api/internal/config"
)

func TestRedisOptions(t *testing.T) {
	t.Run("single addr", func(t *testing.T) {
		opts, err := RedisOptions(config.RedisConfig{Addr: "localhost:6379", MinRetryBackoff: 8})
		require.NoError(t, err)
		assert.Equal(t, []string{"localhost:6379"}, opts.Addrs)
		assert.Equal(t, int64(8e6), opts.MinRetryBackoff.Nanoseconds())
	})

	t.Run("sentinel requires master", func(t *testing.T) {
		_, err := RedisOptions(config.RedisConfig{Mode: "sentinel", Addrs: []string{"a:1"}})
		assert.Error(t, err)

		opts, err := RedisOptions(config.RedisConfig{Mode: "sentinel", Addrs: []string{"a:1"}, MasterName: "m"})
		require.NoError(t, err)
		assert.Equal(t, "m", opts.MasterName)
	})

	t.Run("errors", func(t *testing.T) {
		_, err := RedisOptions(config.RedisConfig{})
		assert.Error(t, err)
		_, err = RedisOptions(config.RedisConfig{Addr: "x:1", Mode: "ring"})
		assert.Error(t, err)
	})
}

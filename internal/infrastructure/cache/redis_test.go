package cache

import (
	"testing"

	"clinic-scheduler/config"

	"github.com/stretchr/testify/assert"
)

func TestRedisOptions(t *testing.T) {
	opts := redisOptions(config.RedisConfig{Host: "cache", Port: "6380", Password: "pw", DB: 2})

	assert.Equal(t, "cache:6380", opts.Addr)
	assert.Equal(t, "pw", opts.Password)
	assert.Equal(t, 2, opts.DB)
	assert.Equal(t, commandTimeout, opts.ReadTimeout)
}

func TestRedisOptionsIPv6Host(t *testing.T) {
	opts := redisOptions(config.RedisConfig{Host: "::1", Port: "6379"})
	assert.Equal(t, "[::1]:6379", opts.Addr)
}

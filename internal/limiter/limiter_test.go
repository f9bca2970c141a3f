package limiter

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MKhiriev/go-study-platform/internal/config"
	"github.com/MKhiriev/go-study-platform/internal/logger"
)

// fakeScripter answers EvalSha with a canned value and records the call.
type fakeScripter struct {
	redis.Scripter

	val  any
	err  error
	keys []string
	args []any
}

func (f *fakeScripter) EvalSha(ctx context.Context, sha1 string, keys []string, args ...any) *redis.Cmd {
	f.keys = keys
	f.args = args

	cmd := redis.NewCmd(ctx)
	if f.err != nil {
		cmd.SetErr(f.err)
	} else {
		cmd.SetVal(f.val)
	}
	return cmd
}

func newTestLimiter(s redis.Scripter) *redisLimiter {
	l := NewRedisLimiter(s, config.RateLimit{Capacity: 5, RefillInterval: time.Minute}).(*redisLimiter)
	l.now = func() time.Time { return time.UnixMilli(1_700_000_000_000) }
	return l
}

func TestRedisLimiter_Allowed(t *testing.T) {
	s := &fakeScripter{val: []any{int64(1), int64(4), int64(0)}}
	l := newTestLimiter(s)

	res, err := l.Allow(context.Background(), "ada@example.com")
	require.NoError(t, err)
	assert.True(t, res.Allowed)
	assert.Equal(t, int64(4), res.Remaining)
	assert.Zero(t, res.RetryAfter)

	assert.Equal(t, []string{keyPrefix + ":ada@example.com"}, s.keys)
	require.Len(t, s.args, 4)
	assert.Equal(t, int64(1_700_000_000_000), s.args[0])
	assert.Equal(t, 5, s.args[1])
	assert.Equal(t, int64(60_000), s.args[2])
	assert.Equal(t, int64(300), s.args[3])
}

func TestRedisLimiter_Denied(t *testing.T) {
	l := newTestLimiter(&fakeScripter{val: []any{int64(0), int64(0), int64(1500)}})

	res, err := l.Allow(context.Background(), "ada@example.com")
	require.NoError(t, err)
	assert.False(t, res.Allowed)
	assert.Equal(t, 1500*time.Millisecond, res.RetryAfter)
}

func TestRedisLimiter_RedisErrorFailsOpen(t *testing.T) {
	l := newTestLimiter(&fakeScripter{err: errors.New("connection refused")})

	res, err := l.Allow(context.Background(), "ada@example.com")
	require.Error(t, err)
	assert.True(t, res.Allowed)
}

func TestRedisLimiter_UnexpectedResult(t *testing.T) {
	l := newTestLimiter(&fakeScripter{val: "OK"})

	res, err := l.Allow(context.Background(), "ada@example.com")
	assert.ErrorIs(t, err, ErrUnexpectedScriptResult)
	assert.True(t, res.Allowed)
}

func TestNopLimiter(t *testing.T) {
	res, err := NewNopLimiter().Allow(context.Background(), "any")
	require.NoError(t, err)
	assert.True(t, res.Allowed)
}

func TestNew_WithoutRedisIsNop(t *testing.T) {
	l, closeFn, err := New(context.Background(), config.StructuredConfig{}, logger.Nop())
	require.NoError(t, err)
	assert.IsType(t, nopLimiter{}, l)
	assert.NoError(t, closeFn())
}

func TestAsInt64(t *testing.T) {
	assert.Equal(t, int64(3), asInt64(int64(3)))
	assert.Equal(t, int64(3), asInt64(3))
	assert.Equal(t, int64(3), asInt64(float64(3)))
	assert.Equal(t, int64(3), asInt64("3"))
	assert.Equal(t, int64(0), asInt64("x"))
	assert.Equal(t, int64(0), asInt64(nil))
}

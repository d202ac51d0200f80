package session

import (
	"context"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryDeduper_ClaimWithinWindow(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	d := NewMemoryDeduper(time.Second)
	d.now = func() time.Time { return now }
	ctx := context.Background()

	first, err := d.Claim(ctx, "t1-c1")
	require.NoError(t, err)
	second, _ := d.Claim(ctx, "t1-c1")
	other, _ := d.Claim(ctx, "t1-c2")

	assert.True(t, first)
	assert.False(t, second)
	assert.True(t, other)

	now = now.Add(time.Second)
	again, _ := d.Claim(ctx, "t1-c1")
	assert.True(t, again)
	assert.Len(t, d.expires, 2)
}

func TestRedisDeduper_Claim(t *testing.T) {
	m, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(m.Close)

	client := redis.NewClient(&redis.Options{Addr: m.Addr()})
	t.Cleanup(func() {
		if cerr := client.Close(); cerr != nil {
			t.Logf("redis close: %v", cerr)
		}
	})
	d := NewRedisDeduper(client, time.Second)
	ctx := context.Background()

	first, err := d.Claim(ctx, "t1-c1")
	require.NoError(t, err)
	second, err := d.Claim(ctx, "t1-c1")
	require.NoError(t, err)

	assert.True(t, first)
	assert.False(t, second)
	assert.True(t, m.Exists("taskboard:comment:t1-c1"))

	m.FastForward(time.Second)
	again, err := d.Claim(ctx, "t1-c1")
	require.NoError(t, err)
	assert.True(t, again)
}

func TestRedisDeduper_ErrorWhenUnavailable(t *testing.T) {
	m, err := miniredis.Run()
	require.NoError(t, err)
	client := redis.NewClient(&redis.Options{Addr: m.Addr(), MaxRetries: -1})
	t.Cleanup(func() { _ = client.Close() })
	m.Close()

	_, err = NewRedisDeduper(client, time.Second).Claim(context.Background(), "k")

	assert.Error(t, err)
}

func TestHub_FullOutboxDropsWithoutBlocking(t *testing.T) {
	h := NewHub(1, nil)
	slow := h.Add("slow")
	fast := h.Add("fast")

	h.Broadcast([]byte("one"), nil)
	h.Broadcast([]byte("two"), fast)

	assert.Equal(t, "one", string(<-slow.Outbox()))
	select {
	case frame := <-slow.Outbox():
		t.Fatalf("unexpected frame %q", frame)
	default:
	}
	assert.Equal(t, "one", string(<-fast.Outbox()))
}

func TestHub_SendSkipsRemovedSubscriber(t *testing.T) {
	h := NewHub(4, nil)
	sub := h.Add("u1")
	require.True(t, h.Remove(sub))

	h.Send(sub, []byte("late"))

	_, open := <-sub.Outbox()
	assert.False(t, open)
	assert.False(t, h.Remove(sub))
	assert.Empty(t, h.subs)
}

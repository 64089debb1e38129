package notify

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeChannel struct {
	mu      sync.Mutex
	sent    [][]byte
	sendErr error
	closed  bool
}

func (c *fakeChannel) Send(data []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.sendErr != nil {
		return c.sendErr
	}
	c.sent = append(c.sent, data)
	return nil
}

func (c *fakeChannel) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closed = true
	return nil
}

func (c *fakeChannel) messages() [][]byte {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.sent
}

func newTestRegistry() *Registry {
	return NewRegistry(slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func TestDeliverToAttachedChannel(t *testing.T) {
	r := newTestRegistry()
	ch := &fakeChannel{}

	_, replaced := r.Attach("alice", ch)
	assert.False(t, replaced)

	ok, err := r.Deliver("alice", map[string]string{"type": "new_message"})
	require.NoError(t, err)
	assert.True(t, ok)

	require.Len(t, ch.messages(), 1)
	var got map[string]string
	require.NoError(t, json.Unmarshal(ch.messages()[0], &got))
	assert.Equal(t, "new_message", got["type"])
}

func TestDeliverWithoutChannelIsDropped(t *testing.T) {
	r := newTestRegistry()

	ok, err := r.Deliver("nobody", map[string]string{"type": "new_message"})
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestAttachReplacesAndReturnsPrevious(t *testing.T) {
	r := newTestRegistry()
	first := &fakeChannel{}
	second := &fakeChannel{}

	r.Attach("alice", first)
	prev, replaced := r.Attach("alice", second)
	require.True(t, replaced)
	assert.Same(t, first, prev)
	assert.False(t, first.closed, "registry must not close the evicted channel itself")
	assert.Equal(t, 1, r.Len())

	_, err := r.Deliver("alice", "hi")
	require.NoError(t, err)
	assert.Empty(t, first.messages())
	assert.Len(t, second.messages(), 1)
}

func TestDetach(t *testing.T) {
	r := newTestRegistry()
	ch := &fakeChannel{}
	r.Attach("alice", ch)

	got, ok := r.Detach("alice")
	require.True(t, ok)
	assert.Same(t, ch, got)
	assert.False(t, r.Connected("alice"))

	_, ok = r.Detach("alice")
	assert.False(t, ok, "second detach is a no-op")
}

func TestReleaseKeepsSuccessor(t *testing.T) {
	r := newTestRegistry()
	old := &fakeChannel{}
	cur := &fakeChannel{}
	r.Attach("alice", old)
	r.Attach("alice", cur)

	assert.False(t, r.Release("alice", old))
	assert.True(t, r.Connected("alice"))

	assert.True(t, r.Release("alice", cur))
	assert.False(t, r.Connected("alice"))
}

func TestDeliverWriteFailureDetaches(t *testing.T) {
	r := newTestRegistry()
	ch := &fakeChannel{sendErr: errors.New("broken pipe")}
	r.Attach("alice", ch)

	ok, err := r.Deliver("alice", "hi")
	assert.Error(t, err)
	assert.False(t, ok)
	assert.False(t, r.Connected("alice"))
	assert.True(t, ch.closed)
}

func TestDeliverUnmarshalablePayload(t *testing.T) {
	r := newTestRegistry()
	ch := &fakeChannel{}
	r.Attach("alice", ch)

	_, err := r.Deliver("alice", make(chan int))
	assert.Error(t, err)
	assert.True(t, r.Connected("alice"), "marshal errors do not drop the channel")
	assert.Empty(t, ch.messages())
}

func TestConcurrentAttachDeliver(t *testing.T) {
	r := newTestRegistry()
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			r.Attach("alice", &fakeChannel{})
		}()
		go func() {
			defer wg.Done()
			_, _ = r.Deliver("alice", "hi")
		}()
	}
	wg.Wait()
	assert.Equal(t, 1, r.Len())
}

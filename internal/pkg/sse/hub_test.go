package sse

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHub_PublishReachesEveryKeyedStream(t *testing.T) {
	h := NewHub()

	a1, closeA1 := h.Subscribe("manager-1")
	defer closeA1()
	a2, closeA2 := h.Subscribe("manager-1")
	defer closeA2()
	b, closeB := h.Subscribe("agent-1")
	defer closeB()

	h.Publish(Event{Name: "session.updated", Data: 1}, "manager-1")

	require.Len(t, a1, 1)
	require.Len(t, a2, 1)
	assert.Len(t, b, 0)
	assert.Equal(t, "session.updated", (<-a1).Name)

	h.Publish(Event{Name: "session.updated", Data: 2}, "manager-1", "agent-1")
	assert.Len(t, b, 1)
}

func TestHub_CloseRemovesStream(t *testing.T) {
	h := NewHub()

	ch, closeFn := h.Subscribe("agent-1")
	assert.Equal(t, 1, h.Subscribers("agent-1"))

	closeFn()
	closeFn()
	assert.Zero(t, h.Subscribers("agent-1"))

	_, open := <-ch
	assert.False(t, open)

	// Publishing to a key without streams is a no-op
	h.Publish(Event{Name: "session.updated"}, "agent-1")
}

func TestHub_FullStreamDropsInsteadOfBlocking(t *testing.T) {
	h := NewHub()
	ch, closeFn := h.Subscribe("agent-1")
	defer closeFn()

	for i := 0; i < subscriberBuffer+5; i++ {
		h.Publish(Event{Name: "tick", Data: i}, "agent-1")
	}
	assert.Len(t, ch, subscriberBuffer)
}

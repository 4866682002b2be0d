package machine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEventQueue_PushPop(t *testing.T) {
	q := newEventQueue[testState, testEvent]()

	q.push(testEvent{state: "A", id: 1})

	got, ok := q.pop("A")
	require.True(t, ok, "pop should succeed")
	assert.Equal(t, 1, got.id)
	assert.Equal(t, 0, q.total)
}

func TestEventQueue_LIFO(t *testing.T) {
	q := newEventQueue[testState, testEvent]()

	for i := 1; i <= 5; i++ {
		q.push(testEvent{state: "A", id: i})
	}

	for want := 5; want >= 1; want-- {
		got, ok := q.pop("A")
		require.True(t, ok)
		assert.Equal(t, want, got.id)
	}

	_, ok := q.pop("A")
	assert.False(t, ok, "queue should be drained")
}

func TestEventQueue_PopOnlyTouchesRequestedState(t *testing.T) {
	q := newEventQueue[testState, testEvent]()

	q.push(testEvent{state: "A", id: 1})
	q.push(testEvent{state: "B", id: 2})
	q.push(testEvent{state: "A", id: 3})

	_, ok := q.pop("C")
	assert.False(t, ok, "nothing queued for C")

	got, ok := q.pop("A")
	require.True(t, ok)
	assert.Equal(t, 3, got.id)

	assert.Equal(t, 1, q.len("A"))
	assert.Equal(t, 1, q.len("B"))
	assert.Equal(t, 2, q.total)
}

func TestEventQueue_EmptyBucketRemoved(t *testing.T) {
	q := newEventQueue[testState, testEvent]()

	q.push(testEvent{state: "A", id: 1})
	_, ok := q.pop("A")
	require.True(t, ok)

	assert.Empty(t, q.buckets, "drained bucket should be dropped")
	assert.Equal(t, 0, q.len("A"))
}

func TestEventQueue_InterleavedPushPop(t *testing.T) {
	q := newEventQueue[testState, testEvent]()

	q.push(testEvent{state: "A", id: 1})
	q.push(testEvent{state: "A", id: 2})

	got, _ := q.pop("A")
	assert.Equal(t, 2, got.id)

	q.push(testEvent{state: "A", id: 3})

	got, _ = q.pop("A")
	assert.Equal(t, 3, got.id)
	got, _ = q.pop("A")
	assert.Equal(t, 1, got.id)
}

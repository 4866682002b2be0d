package machine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistry_AddReturnsIndex(t *testing.T) {
	r := newRegistry[testState, testEvent, int]()

	assert.Equal(t, 0, r.add(&testConsumer{name: "a", states: []testState{"A"}}))
	assert.Equal(t, 1, r.add(&testConsumer{name: "b", states: []testState{"B"}}))
	assert.Equal(t, 2, r.add(&testConsumer{name: "c"}))
	assert.Equal(t, 3, r.len())
}

func TestRegistry_IndexesEveryDeclaredState(t *testing.T) {
	r := newRegistry[testState, testEvent, int]()

	r.add(&testConsumer{name: "a", states: []testState{"A", "B"}})
	r.add(&testConsumer{name: "b", states: []testState{"B"}})

	assert.Equal(t, []int{0}, r.interest["A"])
	assert.Equal(t, []int{0, 1}, r.interest["B"])
	assert.Equal(t, 0, r.interested("C"))
}

func TestRegistry_DuplicateStatesIndexedOnce(t *testing.T) {
	r := newRegistry[testState, testEvent, int]()

	r.add(&testConsumer{name: "a", states: []testState{"A", "A", "A"}})

	assert.Equal(t, []int{0}, r.interest["A"])
}

func TestRegistry_PrioritizeNoInterest(t *testing.T) {
	r := newRegistry[testState, testEvent, int]()
	r.add(&testConsumer{name: "a", states: []testState{"A"}})

	assert.Empty(t, r.prioritize(testEvent{state: "B"}))
}

func TestRegistry_PrioritizeAscending(t *testing.T) {
	r := newRegistry[testState, testEvent, int]()

	r.add(&testConsumer{name: "p3", states: []testState{"A"}, priority: 3})
	r.add(&testConsumer{name: "p1", states: []testState{"A"}, priority: 1})
	r.add(&testConsumer{name: "p2", states: []testState{"A"}, priority: 2})

	assert.Equal(t, []int{1, 2, 0}, r.prioritize(testEvent{state: "A"}))
}

func TestRegistry_PrioritizeStableOnTies(t *testing.T) {
	r := newRegistry[testState, testEvent, int]()

	r.add(&testConsumer{name: "t0", states: []testState{"A"}, priority: 5})
	r.add(&testConsumer{name: "low", states: []testState{"A"}, priority: 1})
	r.add(&testConsumer{name: "t1", states: []testState{"A"}, priority: 5})
	r.add(&testConsumer{name: "t2", states: []testState{"A"}, priority: 5})

	assert.Equal(t, []int{1, 0, 2, 3}, r.prioritize(testEvent{state: "A"}))
}

func TestRegistry_PrioritizePerEvent(t *testing.T) {
	r := newRegistry[testState, testEvent, int]()

	// Priority depends on the event: even ids favour the second consumer.
	r.add(&testConsumer{name: "a", states: []testState{"A"}, prioritize: func(e testEvent) int {
		return e.id % 2
	}})
	r.add(&testConsumer{name: "b", states: []testState{"A"}, prioritize: func(e testEvent) int {
		return 1 - e.id%2
	}})

	assert.Equal(t, []int{1, 0}, r.prioritize(testEvent{state: "A", id: 1}))
	assert.Equal(t, []int{0, 1}, r.prioritize(testEvent{state: "A", id: 2}))
}

func TestRegistry_PrioritizeIsSnapshot(t *testing.T) {
	r := newRegistry[testState, testEvent, int]()
	r.add(&testConsumer{name: "a", states: []testState{"A"}})

	order := r.prioritize(testEvent{state: "A"})
	require.Len(t, order, 1)

	r.add(&testConsumer{name: "b", states: []testState{"A"}})

	assert.Len(t, order, 1, "existing snapshot must not grow")
	assert.Len(t, r.prioritize(testEvent{state: "A"}), 2)
}

func TestDefaultPriority_Unprioritized(t *testing.T) {
	var u Unprioritized[testEvent]
	assert.Equal(t, DefaultPriority(0), u.Prioritize(testEvent{state: "A", id: 9}))
}

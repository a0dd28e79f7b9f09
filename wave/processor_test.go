package wave

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testCmd struct {
	priority int
	label    string
}

func (c testCmd) Priority() int { return c.priority }

func TestCommandQueueOrdersByPriorityThenFIFO(t *testing.T) {
	var order []string
	q := NewCommandQueue[testCmd]("test", func(c *testCmd) error {
		order = append(order, c.label)
		return nil
	})

	q.Enqueue(func(c *testCmd) { *c = testCmd{priority: 0, label: "low"} })
	q.Enqueue(func(c *testCmd) { *c = testCmd{priority: 5, label: "high"} })
	q.Enqueue(func(c *testCmd) { *c = testCmd{priority: 5, label: "high2"} })

	for q.Len() > 0 {
		_, ok := q.DrainOne()
		require.True(t, ok)
	}
	assert.Equal(t, []string{"high", "high2", "low"}, order)
}

func TestProcessorConvergesWhenQueuesEmpty(t *testing.T) {
	p := NewProcessor(10)
	q := NewCommandQueue[testCmd]("a", func(*testCmd) error { return nil })
	p.Register(q)

	result := p.ProcessAllWaves()
	assert.Equal(t, Converged, result.Outcome)
	assert.Equal(t, 0, result.Waves)
}

func TestProcessorCascadeAcrossQueuesTakesExtraWave(t *testing.T) {
	p := NewProcessor(10)
	var qb *CommandQueue[testCmd]
	qa := NewCommandQueue[testCmd]("a", func(c *testCmd) error {
		qb.Enqueue(func(c2 *testCmd) { *c2 = testCmd{priority: 0, label: "from-a"} })
		return nil
	})
	qb = NewCommandQueue[testCmd]("b", func(*testCmd) error { return nil })
	// qb is registered before qa so the cascade qa produces into qb lands
	// after qb has already been drained for this wave, forcing a second
	// wave to pick it up.
	p.Register(qb)
	p.Register(qa)

	qa.Enqueue(func(c *testCmd) { *c = testCmd{priority: 0, label: "seed"} })

	result := p.ProcessAllWaves()
	assert.Equal(t, Converged, result.Outcome)
	assert.Equal(t, 2, result.Waves)
}

func TestProcessorReentrantEnqueueSameQueueConvergesInOneWave(t *testing.T) {
	p := NewProcessor(10)
	var q *CommandQueue[testCmd]
	calls := 0
	q = NewCommandQueue[testCmd]("a", func(c *testCmd) error {
		calls++
		if c.label == "seed" {
			q.Enqueue(func(c2 *testCmd) { *c2 = testCmd{priority: 0, label: "child"} })
		}
		return nil
	})
	p.Register(q)
	q.Enqueue(func(c *testCmd) { *c = testCmd{priority: 0, label: "seed"} })

	result := p.ProcessAllWaves()
	assert.Equal(t, Converged, result.Outcome)
	assert.Equal(t, 1, result.Waves)
	assert.Equal(t, 2, calls)
}

func TestProcessorDepthExceededOnUnboundedCascade(t *testing.T) {
	p := NewProcessor(3)
	var qb *CommandQueue[testCmd]
	var qa *CommandQueue[testCmd]
	qa = NewCommandQueue[testCmd]("a", func(*testCmd) error {
		qb.Enqueue(func(c *testCmd) { *c = testCmd{label: "bounce"} })
		return nil
	})
	qb = NewCommandQueue[testCmd]("b", func(*testCmd) error {
		qa.Enqueue(func(c *testCmd) { *c = testCmd{label: "bounce"} })
		return nil
	})
	p.Register(qa)
	p.Register(qb)
	qa.Enqueue(func(c *testCmd) { *c = testCmd{label: "seed"} })

	result := p.ProcessAllWaves()
	assert.Equal(t, DepthExceeded, result.Outcome)
	assert.Equal(t, 3, result.Waves)
}

func TestProcessorRecordsHandlerErrorsWithoutAborting(t *testing.T) {
	p := NewProcessor(5)
	processed := 0
	q := NewCommandQueue[testCmd]("a", func(c *testCmd) error {
		processed++
		if c.label == "bad" {
			return errors.New("handler failed")
		}
		return nil
	})
	p.Register(q)
	q.Enqueue(func(c *testCmd) { *c = testCmd{label: "bad"} })
	q.Enqueue(func(c *testCmd) { *c = testCmd{label: "good"} })

	result := p.ProcessAllWaves()
	assert.Equal(t, Converged, result.Outcome)
	assert.Len(t, result.Errors, 1)
	assert.Equal(t, 2, processed)
}

package visits

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func NewCounterValidationSuite(ctx context.Context, counter Counter) *CounterValidationSuite {
	return &CounterValidationSuite{
		counter: counter,
		ctx:     ctx,
	}
}

// CounterValidationSuite checks the behaviour every Counter implementation shares.
type CounterValidationSuite struct {
	counter Counter
	ctx     context.Context
}

func (s *CounterValidationSuite) Run(t *testing.T) {
	t.Run("reads the current count", s.ReadsCurrent)
	t.Run("reading does not count a visit", s.ReadDoesNotIncrement)
	t.Run("increments by one", s.IncrementsByOne)
	t.Run("does not lose concurrent increments", s.ConcurrentIncrements)
}

func (s *CounterValidationSuite) ReadsCurrent(t *testing.T) {
	count, err := s.counter.Current(s.ctx)
	if !assert.Nil(t, err) {
		return
	}

	assert.GreaterOrEqual(t, count, int64(0))
}

func (s *CounterValidationSuite) ReadDoesNotIncrement(t *testing.T) {
	first, err := s.counter.Current(s.ctx)
	if !assert.Nil(t, err) {
		return
	}

	second, err := s.counter.Current(s.ctx)
	if !assert.Nil(t, err) {
		return
	}

	assert.Equal(t, first, second)
}

func (s *CounterValidationSuite) IncrementsByOne(t *testing.T) {
	before, err := s.counter.Current(s.ctx)
	if !assert.Nil(t, err) {
		return
	}

	after, err := s.counter.Increment(s.ctx)
	if !assert.Nil(t, err) {
		return
	}

	assert.Equal(t, before+1, after)

	current, err := s.counter.Current(s.ctx)
	if !assert.Nil(t, err) {
		return
	}

	assert.Equal(t, after, current)
}

func (s *CounterValidationSuite) ConcurrentIncrements(t *testing.T) {
	const visitors = 5

	before, err := s.counter.Current(s.ctx)
	if !assert.Nil(t, err) {
		return
	}

	var wg sync.WaitGroup
	errs := make(chan error, visitors)
	for i := 0; i < visitors; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := s.counter.Increment(s.ctx); err != nil {
				errs <- err
			}
		}()
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		assert.Nil(t, err)
	}

	after, err := s.counter.Current(s.ctx)
	if !assert.Nil(t, err) {
		return
	}

	assert.Equal(t, before+visitors, after)
}

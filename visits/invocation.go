package visits

import (
	"math/rand"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
)

type InvocationID string

func (id InvocationID) String() string {
	return string(id)
}

func (id InvocationID) Time() (time.Time, error) {
	v, err := ulid.Parse(string(id))
	if err != nil {
		return time.Time{}, err
	}

	return ulid.Time(v.Time()).UTC(), nil
}

// InvocationGenerator hands out monotonically ordered ids used to correlate
// the log entries of a single fetch.
type InvocationGenerator struct {
	lk      sync.Mutex
	entropy *ulid.MonotonicEntropy
}

func NewInvocationGenerator() *InvocationGenerator {
	t := time.Now()
	entropy := ulid.Monotonic(rand.New(rand.NewSource(t.UnixNano())), 0)

	return &InvocationGenerator{
		entropy: entropy,
	}
}

func (g *InvocationGenerator) Next(t time.Time) InvocationID {
	g.lk.Lock()
	defer g.lk.Unlock()

	return InvocationID(ulid.MustNew(ulid.Timestamp(t), g.entropy).String())
}

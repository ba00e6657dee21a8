package qstab

import (
	"sync"

	"github.com/theapemachine/errnie"
)

/*
Dispatcher distributes per-row gate work across a fixed pool of workers.
A gate hands the dispatcher a row-index function and blocks until every
row has been processed, so the whole gate appears atomic to the caller
regardless of how the rows were scheduled internally. Row loops below the
configured threshold run inline, since the fork/join overhead dwarfs the
work of flipping a handful of bits.
*/
type Dispatcher struct {
	jobs      chan rowSpan
	quit      chan struct{}
	wg        sync.WaitGroup
	workers   int
	threshold int
}

// rowSpan is one contiguous slice of row indices claimed by a worker.
type rowSpan struct {
	fn         func(int)
	begin, end int
	done       *sync.WaitGroup
}

// NewDispatcher starts the worker pool described by config.
func NewDispatcher(config *Config) *Dispatcher {
	if config == nil {
		config = NewConfig()
	}

	d := &Dispatcher{
		jobs:      make(chan rowSpan, config.Workers),
		quit:      make(chan struct{}),
		workers:   config.Workers,
		threshold: config.ParallelThreshold,
	}

	errnie.Info("NewDispatcher - workers %v, threshold %v", d.workers, d.threshold)

	for i := 0; i < d.workers; i++ {
		d.wg.Add(1)
		go func() {
			defer d.wg.Done()
			d.work()
		}()
	}

	return d
}

func (d *Dispatcher) work() {
	for {
		select {
		case <-d.quit:
			return
		case span := <-d.jobs:
			for i := span.begin; i < span.end; i++ {
				span.fn(i)
			}
			span.done.Done()
		}
	}
}

// ParFor applies fn to every index in [0, count), joining before it
// returns. Calls with no cross-index dependencies only.
func (d *Dispatcher) ParFor(count int, fn func(int)) {
	if d == nil || d.workers < 2 || count < d.threshold {
		for i := 0; i < count; i++ {
			fn(i)
		}
		return
	}

	stride := (count + d.workers - 1) / d.workers
	var done sync.WaitGroup
	for begin := 0; begin < count; begin += stride {
		end := begin + stride
		if end > count {
			end = count
		}
		done.Add(1)
		d.jobs <- rowSpan{fn: fn, begin: begin, end: end, done: &done}
	}
	done.Wait()
}

// Close stops the workers. Pending ParFor calls must have returned.
func (d *Dispatcher) Close() {
	close(d.quit)
	d.wg.Wait()
}

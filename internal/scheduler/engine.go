package scheduler

import (
	"container/heap"
	"context"
	"errors"
	"sync"
	"sync/atomic"

	"github.com/joaoVitorVallim/ToDoList/internal/model"
)

var (
	ErrInvalidJob   = errors.New("scheduler: invalid job")
	ErrDuplicateJob = errors.New("scheduler: job already queued or in flight")
	ErrQueueFull    = errors.New("scheduler: queue full")
	ErrStopped      = errors.New("scheduler: engine stopped")
)

// Job is one reminder waiting for delivery to its owner.
type Job struct {
	Reminder  model.Reminder
	Recipient model.User
}

// DeliverFunc performs a job. Errors are the callee's to log; the engine
// only tracks that the job finished.
type DeliverFunc func(ctx context.Context, job Job)

type queueItem struct {
	job Job
}

type priorityQueue []queueItem

func (pq priorityQueue) Len() int { return len(pq) }

func (pq priorityQueue) Less(i, j int) bool {
	return pq[i].job.Reminder.DeadlineAt.Before(pq[j].job.Reminder.DeadlineAt)
}

func (pq priorityQueue) Swap(i, j int) {
	pq[i], pq[j] = pq[j], pq[i]
}

func (pq *priorityQueue) Push(x any) {
	*pq = append(*pq, x.(queueItem))
}

func (pq *priorityQueue) Pop() any {
	old := *pq
	n := len(old)
	item := old[n-1]
	*pq = old[0 : n-1]
	return item
}

// Engine delivers jobs on a fixed pool of workers, nearest deadline first.
// A reminder key is accepted once until its job finishes, so overlapping
// scans cannot send the same reminder twice.
type Engine struct {
	mu       sync.Mutex
	queue    priorityQueue
	inFlight map[string]struct{}
	idle     chan struct{}
	deliver  DeliverFunc
	workers  int
	capacity int
	wakeup   chan struct{}
	stopCh   chan struct{}
	cancel   context.CancelFunc
	wg       sync.WaitGroup
	started  bool
	stopped  bool
	dropped  uint64
}

func NewEngine(deliver DeliverFunc, workers, capacity int) *Engine {
	if workers <= 0 {
		workers = 1
	}
	if capacity <= 0 {
		capacity = 1
	}
	idle := make(chan struct{})
	close(idle)
	return &Engine{
		queue:    make(priorityQueue, 0),
		inFlight: make(map[string]struct{}),
		idle:     idle,
		deliver:  deliver,
		workers:  workers,
		capacity: capacity,
		wakeup:   make(chan struct{}, workers),
		stopCh:   make(chan struct{}),
	}
}

func (e *Engine) Start(ctx context.Context) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.started || e.stopped {
		return
	}
	e.started = true
	heap.Init(&e.queue)
	runCtx, cancel := context.WithCancel(ctx)
	e.cancel = cancel
	e.wg.Add(e.workers)
	for i := 0; i < e.workers; i++ {
		go e.worker(runCtx)
	}
}

// Stop discards queued jobs and waits for running ones to finish.
func (e *Engine) Stop() {
	e.mu.Lock()
	if e.stopped {
		e.mu.Unlock()
		return
	}
	e.stopped = true
	close(e.stopCh)
	for _, item := range e.queue {
		delete(e.inFlight, item.job.Reminder.Key())
	}
	e.queue = e.queue[:0]
	e.markIdleLocked()
	e.mu.Unlock()

	e.wg.Wait()
	if e.cancel != nil {
		e.cancel()
	}
}

func (e *Engine) Enqueue(job Job) error {
	if err := job.Reminder.Validate(); err != nil {
		return errors.Join(ErrInvalidJob, err)
	}
	key := job.Reminder.Key()

	e.mu.Lock()
	defer e.mu.Unlock()
	if e.stopped {
		return ErrStopped
	}
	if _, ok := e.inFlight[key]; ok {
		return ErrDuplicateJob
	}
	if len(e.queue) >= e.capacity {
		atomic.AddUint64(&e.dropped, 1)
		return ErrQueueFull
	}
	if len(e.inFlight) == 0 {
		e.idle = make(chan struct{})
	}
	e.inFlight[key] = struct{}{}
	heap.Push(&e.queue, queueItem{job: job})
	e.signalWakeup()
	return nil
}

// Flush blocks until every accepted job has finished or ctx is done.
func (e *Engine) Flush(ctx context.Context) error {
	e.mu.Lock()
	idle := e.idle
	e.mu.Unlock()
	select {
	case <-idle:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (e *Engine) Dropped() uint64 {
	return atomic.LoadUint64(&e.dropped)
}

// Pending counts jobs queued or running.
func (e *Engine) Pending() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return len(e.inFlight)
}

func (e *Engine) worker(ctx context.Context) {
	defer e.wg.Done()
	for {
		job, ok := e.pop()
		if !ok {
			select {
			case <-e.wakeup:
				continue
			case <-e.stopCh:
				return
			}
		}
		e.deliver(ctx, job)
		e.finish(job.Reminder.Key())
	}
}

func (e *Engine) signalWakeup() {
	select {
	case e.wakeup <- struct{}{}:
	default:
	}
}

func (e *Engine) pop() (Job, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.stopped || len(e.queue) == 0 {
		return Job{}, false
	}
	item := heap.Pop(&e.queue).(queueItem)
	if len(e.queue) > 0 {
		e.signalWakeup()
	}
	return item.job, true
}

func (e *Engine) finish(key string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	delete(e.inFlight, key)
	e.markIdleLocked()
}

func (e *Engine) markIdleLocked() {
	if len(e.inFlight) != 0 {
		return
	}
	select {
	case <-e.idle:
	default:
		close(e.idle)
	}
}

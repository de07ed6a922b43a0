package worker

import (
	"context"
	"runtime"
	"sync"
	"sync/atomic"
	"time"

	eq "github.com/clinsearch/enquiry"
)

// Parser is the interface the pool uses to parse one document. It is
// satisfied by engine.Parser; the indirection keeps this package free of an
// engine dependency.
type Parser interface {
	Parse(ctx context.Context, xmlText, sourceName string) (*eq.ParseResult, error)
}

// Pool manages worker goroutines that parse documents in parallel. Each
// parse owns its document and code store exclusively, so the only shared
// state is the read-only parser itself.
type Pool struct {
	workers    int
	jobsChan   chan Job
	resultChan chan *JobResult
	parser     Parser
	ctx        context.Context
	cancel     context.CancelFunc
	wg         sync.WaitGroup
	closed     atomic.Bool

	jobsSubmitted atomic.Uint64
	jobsCompleted atomic.Uint64
	totalDuration atomic.Uint64
}

// NewPool creates a pool with the given number of workers. Workers <= 0
// defaults to runtime.NumCPU().
func NewPool(parser Parser, workers int) *Pool {
	if workers <= 0 {
		workers = runtime.NumCPU()
	}

	ctx, cancel := context.WithCancel(context.Background())

	p := &Pool{
		workers:    workers,
		jobsChan:   make(chan Job, workers*2),
		resultChan: make(chan *JobResult, workers*2),
		parser:     parser,
		ctx:        ctx,
		cancel:     cancel,
	}

	p.wg.Add(workers)
	for i := 0; i < workers; i++ {
		go p.worker()
	}

	return p
}

// Submit queues a job, blocking while the queue is full. It returns false
// once the pool is closed.
func (p *Pool) Submit(job Job) bool {
	if p.closed.Load() {
		return false
	}

	select {
	case <-p.ctx.Done():
		return false
	case p.jobsChan <- job:
		p.jobsSubmitted.Add(1)
		return true
	}
}

// SubmitAsync queues a job without blocking. It returns false if the queue
// is full or the pool is closed.
func (p *Pool) SubmitAsync(job Job) bool {
	if p.closed.Load() {
		return false
	}

	select {
	case <-p.ctx.Done():
		return false
	case p.jobsChan <- job:
		p.jobsSubmitted.Add(1)
		return true
	default:
		return false
	}
}

// Results returns the channel job results arrive on.
func (p *Pool) Results() <-chan *JobResult {
	return p.resultChan
}

// Close shuts the pool down and waits for the workers to finish. Drain
// Results first, or use CloseAndWait, to avoid losing pending results.
func (p *Pool) Close() {
	if p.closed.Swap(true) {
		return
	}

	p.cancel()
	close(p.jobsChan)

	// Drain results in background to prevent worker deadlock.
	done := make(chan struct{})
	go func() {
		for range p.resultChan {
		}
		close(done)
	}()

	p.wg.Wait()
	close(p.resultChan)
	<-done
}

// CloseAndWait stops accepting jobs, waits for in-flight work, and returns
// everything that completed.
func (p *Pool) CloseAndWait() *BatchResult {
	if p.closed.Swap(true) {
		return &BatchResult{}
	}

	close(p.jobsChan)

	results := make([]*JobResult, 0)
	done := make(chan struct{})

	go func() {
		p.wg.Wait()
		close(p.resultChan)
		close(done)
	}()

	failed := 0
	for result := range p.resultChan {
		if result.Error != nil {
			failed++
		}
		results = append(results, result)
	}

	<-done
	p.cancel()

	return &BatchResult{
		Results:       results,
		TotalJobs:     int(p.jobsSubmitted.Load()),
		CompletedJobs: int(p.jobsCompleted.Load()),
		FailedJobs:    failed,
		TotalDuration: int64(p.totalDuration.Load()),
	}
}

// Stats returns current pool statistics.
func (p *Pool) Stats() PoolStats {
	return PoolStats{
		Workers:       p.workers,
		JobsSubmitted: p.jobsSubmitted.Load(),
		JobsCompleted: p.jobsCompleted.Load(),
		AvgDuration:   p.averageDuration(),
	}
}

// PoolStats contains pool statistics.
type PoolStats struct {
	Workers       int
	JobsSubmitted uint64
	JobsCompleted uint64
	AvgDuration   time.Duration
}

func (p *Pool) worker() {
	defer p.wg.Done()

	for job := range p.jobsChan {
		select {
		case <-p.ctx.Done():
			return
		default:
		}

		result := p.processJob(job)
		p.jobsCompleted.Add(1)
		p.totalDuration.Add(uint64(result.Duration))

		select {
		case <-p.ctx.Done():
			return
		case p.resultChan <- result:
		}
	}
}

func (p *Pool) processJob(job Job) *JobResult {
	start := time.Now()

	id := job.ID
	if id == "" {
		id = job.Source
	}
	result := &JobResult{
		ID:     id,
		Source: job.Source,
	}

	if p.parser == nil {
		result.Error = ErrNoParser
		result.Duration = time.Since(start).Nanoseconds()
		return result
	}

	parsed, err := p.parser.Parse(p.ctx, job.XML, job.Source)
	result.Result = parsed
	result.Error = err
	result.Duration = time.Since(start).Nanoseconds()
	return result
}

func (p *Pool) averageDuration() time.Duration {
	completed := p.jobsCompleted.Load()
	if completed == 0 {
		return 0
	}
	return time.Duration(p.totalDuration.Load() / completed)
}

// ErrNoParser is returned when the pool has no parser configured.
var ErrNoParser = poolError("no parser configured")

type poolError string

func (e poolError) Error() string {
	return string(e)
}

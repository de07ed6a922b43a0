package worker

import (
	"context"
	"runtime"
	"sync"

	eq "github.com/clinsearch/enquiry"
)

// BatchParser parses a slice of documents in parallel, preserving input
// order in the results. It is the fire-and-collect alternative to managing
// a Pool directly.
type BatchParser struct {
	parse   ParseFunc
	workers int
}

// ParseFunc is the function signature for parsing a single document.
type ParseFunc func(ctx context.Context, xmlText, sourceName string) (*eq.ParseResult, error)

// NewBatchParser creates a batch parser. Workers <= 0 defaults to
// runtime.NumCPU().
func NewBatchParser(parse ParseFunc, workers int) *BatchParser {
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	return &BatchParser{
		parse:   parse,
		workers: workers,
	}
}

// ParseBatch parses every job and returns the results in input order.
func (bp *BatchParser) ParseBatch(ctx context.Context, jobs []Job) *BatchResult {
	if len(jobs) == 0 {
		return &BatchResult{Results: make([]*JobResult, 0)}
	}

	// Parallelism is not worth the setup for one or two documents.
	if len(jobs) <= 2 {
		return bp.parseSequential(ctx, jobs)
	}

	return bp.parseParallel(ctx, jobs)
}

func (bp *BatchParser) parseSequential(ctx context.Context, jobs []Job) *BatchResult {
	results := make([]*JobResult, 0, len(jobs))
	failed := 0

	for _, job := range jobs {
		select {
		case <-ctx.Done():
			return &BatchResult{
				Results:       results,
				TotalJobs:     len(jobs),
				CompletedJobs: len(results),
				FailedJobs:    failed,
			}
		default:
		}

		parsed, err := bp.parse(ctx, job.XML, job.Source)
		if err != nil {
			failed++
		}
		results = append(results, &JobResult{
			ID:     job.ID,
			Source: job.Source,
			Result: parsed,
			Error:  err,
		})
	}

	return &BatchResult{
		Results:       results,
		TotalJobs:     len(jobs),
		CompletedJobs: len(results),
		FailedJobs:    failed,
	}
}

func (bp *BatchParser) parseParallel(ctx context.Context, jobs []Job) *BatchResult {
	numWorkers := bp.workers
	if numWorkers > len(jobs) {
		numWorkers = len(jobs)
	}

	jobChan := make(chan indexedJob, len(jobs))
	resultChan := make(chan *indexedResult, len(jobs))

	var wg sync.WaitGroup
	wg.Add(numWorkers)
	for i := 0; i < numWorkers; i++ {
		go func() {
			defer wg.Done()
			for job := range jobChan {
				select {
				case <-ctx.Done():
					return
				default:
				}

				parsed, err := bp.parse(ctx, job.job.XML, job.job.Source)
				resultChan <- &indexedResult{
					index:  job.index,
					result: parsed,
					err:    err,
				}
			}
		}()
	}

	for i, job := range jobs {
		jobChan <- indexedJob{index: i, job: job}
	}
	close(jobChan)

	go func() {
		wg.Wait()
		close(resultChan)
	}()

	results := make([]*JobResult, len(jobs))
	completed := 0
	failed := 0

	for ir := range resultChan {
		results[ir.index] = &JobResult{
			ID:     jobs[ir.index].ID,
			Source: jobs[ir.index].Source,
			Result: ir.result,
			Error:  ir.err,
		}
		completed++
		if ir.err != nil {
			failed++
		}
	}

	return &BatchResult{
		Results:       results,
		TotalJobs:     len(jobs),
		CompletedJobs: completed,
		FailedJobs:    failed,
	}
}

type indexedJob struct {
	index int
	job   Job
}

type indexedResult struct {
	index  int
	result *eq.ParseResult
	err    error
}

// ParseBatchSimple is a convenience wrapper using NumCPU workers.
func ParseBatchSimple(ctx context.Context, parse ParseFunc, jobs []Job) *BatchResult {
	bp := NewBatchParser(parse, runtime.NumCPU())
	return bp.ParseBatch(ctx, jobs)
}

package worker

import (
	eq "github.com/clinsearch/enquiry"
)

// Job is one document to parse.
type Job struct {
	// ID is a unique identifier for this job. When empty, the Source is
	// used for attribution instead.
	ID string

	// Source names the document for diagnostics (usually the file name).
	Source string

	// XML is the raw document text.
	XML string
}

// JobResult is the outcome of parsing one document.
type JobResult struct {
	// ID matches the Job.ID that produced this result.
	ID string

	// Source echoes the job's source name.
	Source string

	// Result is the parse output. Nil only when Error is set.
	Result *eq.ParseResult

	// Error is set when the document was malformed. Recovered element
	// problems appear as warnings on Result instead.
	Error error

	// Duration is the parse time in nanoseconds.
	Duration int64
}

// BatchResult aggregates the results of a batch of documents.
type BatchResult struct {
	// Results holds one entry per completed job.
	Results []*JobResult

	// TotalJobs is the number of jobs submitted.
	TotalJobs int

	// CompletedJobs is the number of jobs that ran to completion.
	CompletedJobs int

	// FailedJobs counts jobs that failed with a malformed document.
	FailedJobs int

	// TotalDuration is the summed parse time in nanoseconds.
	TotalDuration int64
}

// HasFailures reports whether any document in the batch was malformed.
func (br *BatchResult) HasFailures() bool {
	for _, r := range br.Results {
		if r.Error != nil {
			return true
		}
	}
	return false
}

// WarningCount returns the total recovered warnings across the batch.
func (br *BatchResult) WarningCount() int {
	count := 0
	for _, r := range br.Results {
		if r.Result != nil {
			count += r.Result.WarningCount()
		}
	}
	return count
}

// EntityCount returns the total parsed entities across the batch.
func (br *BatchResult) EntityCount() int {
	count := 0
	for _, r := range br.Results {
		if r.Result != nil {
			count += len(r.Result.Entities)
		}
	}
	return count
}

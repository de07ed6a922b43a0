// Package worker provides a worker pool for parsing documents in parallel.
//
// Parallelism is across documents only: each job owns its document and code
// store exclusively, and the parser shared between workers is read-only, so
// no synchronization is needed inside a parse.
//
// Example usage:
//
//	pool := worker.NewPool(parser, 4)
//
//	for _, doc := range docs {
//	    pool.Submit(worker.Job{Source: doc.Name, XML: doc.Text})
//	}
//
//	batch := pool.CloseAndWait()
//	for _, result := range batch.Results {
//	    if result.Error != nil {
//	        // Malformed document
//	    }
//	    // Process result.Result
//	}
package worker

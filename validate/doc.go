// Package validate runs the LLM alignment judge over a corpus of
// alignment records.
//
// Records are judged concurrently through a bounded worker pool. Judge
// failures are recorded on the affected record as a failed verdict
// rather than aborting the run, and a Summary reports the valid,
// invalid, and errored counts when the pass completes.
package validate

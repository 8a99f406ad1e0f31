// Package errs defines the error categories shared across the pipeline.
package errs

import "github.com/m-mizutani/goerr/v2"

var (
	// TagConfig marks invalid or missing generation parameters. Fatal
	// before any generation starts.
	TagConfig = goerr.NewTag("config")

	// TagCorpus marks missing or malformed research data. Fatal, since
	// sampling cannot proceed without the corpus.
	TagCorpus = goerr.NewTag("corpus")

	// TagConstraint marks a sampled row that would break an acyclic,
	// temporal, or uniqueness invariant. Recovered locally by bounded
	// resampling, then by skipping the row or edge.
	TagConstraint = goerr.NewTag("constraint")

	// TagPersistence marks a rejected batch insert. Fatal to the run; no
	// partial commit is retried.
	TagPersistence = goerr.NewTag("persistence")
)

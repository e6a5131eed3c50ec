package schemas

import _ "embed"

//go:embed raw_jobs_schema.json
var rawJobsSchema string

// RawJobs returns the JSON Schema that raw listing batches must satisfy.
// Both the LLM extraction output and audit files are validated against it.
func RawJobs() string {
	return rawJobsSchema
}

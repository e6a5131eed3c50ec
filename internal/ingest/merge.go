package ingest

// MergeIdentities zips a raw batch with its resolved identities. The two
// slices must be the same length; a mismatch aborts the whole batch and
// returns an empty result, never a partial zip. A resolved identity overlays
// its JobID onto the raw record at the same position; a nil identity passes
// the record through unchanged, leaving the fallback to the caller.
func MergeIdentities(batch []RawJob, ids []*Identity) ([]RawJob, error) {
	if len(batch) != len(ids) {
		return nil, &MergeError{RawLen: len(batch), IdentityLen: len(ids)}
	}

	merged := make([]RawJob, 0, len(batch))
	for i, job := range batch {
		if ids[i] != nil {
			job.JobID = ids[i].JobID
		}
		merged = append(merged, job)
	}
	return merged, nil
}

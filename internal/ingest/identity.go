package ingest

import (
	"log"
	"math/rand"
	"regexp"
	"strings"
)

// jobIDPattern matches the numeric listing id embedded in marketplace hrefs,
// e.g. "/jobs/ai-chatbot-development_~021234567890123456789/".
var jobIDPattern = regexp.MustCompile(`_~(\d+)`)

// SyntheticIDLength is the digit count of fallback identifiers.
const SyntheticIDLength = 21

// ResolveJobID extracts the numeric job id from an href or explicit id
// string. The second return value is false when the input carries no
// recognizable id.
func ResolveJobID(href string) (string, bool) {
	href = strings.TrimSpace(href)
	if href == "" {
		return "", false
	}
	m := jobIDPattern.FindStringSubmatch(href)
	if m == nil {
		return "", false
	}
	return m[1], true
}

// SyntheticJobID returns a random decimal identifier of SyntheticIDLength
// digits, used when a listing yields no stable id. Collisions against stored
// ids are possible in principle and are not checked; at the batch sizes this
// service handles the probability is negligible.
func SyntheticJobID() string {
	digits := make([]byte, SyntheticIDLength)
	for i := range digits {
		digits[i] = byte('0' + rand.Intn(10))
	}
	return string(digits)
}

// ResolveIdentities resolves one identity per batch element. Elements whose
// href yields no id produce a nil entry and a warning; the output length
// always equals the input length so the merge step can zip positionally.
func ResolveIdentities(batch []RawJob) []*Identity {
	ids := make([]*Identity, len(batch))
	for i, job := range batch {
		source := job.Href
		if source == "" {
			source = job.JobID
		}
		id, ok := ResolveJobID(source)
		if !ok {
			log.Printf("Warning: could not extract job id from href: %q", source)
			continue
		}
		ids[i] = &Identity{JobID: id}
	}
	return ids
}

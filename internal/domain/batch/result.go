package batch

import "github.com/kailas-cloud/langprint/internal/domain/fingerprint"

// ItemStatus is the processing outcome of a single batch item.
type ItemStatus string

// Batch item status values.
const (
	StatusOK      ItemStatus = "ok"
	StatusError   ItemStatus = "error"
	StatusSkipped ItemStatus = "skipped"
)

// Result is the outcome of profiling one source in a collection run.
type Result struct {
	source  string
	status  ItemStatus
	profile fingerprint.LanguageProfile
	err     error
}

// NewOK creates a successful batch result carrying the built profile.
func NewOK(source string, p fingerprint.LanguageProfile) Result {
	return Result{source: source, status: StatusOK, profile: p}
}

// NewError creates a failed batch result.
func NewError(source string, err error) Result {
	return Result{source: source, status: StatusError, err: err}
}

// NewSkipped creates a result for an item never processed because the run was aborted.
func NewSkipped(source string, err error) Result {
	return Result{source: source, status: StatusSkipped, err: err}
}

// Source returns the item identifier (usually a URL).
func (r Result) Source() string { return r.source }

// Status returns the processing outcome.
func (r Result) Status() ItemStatus { return r.status }

// Profile returns the built profile; zero unless Status is StatusOK.
func (r Result) Profile() fingerprint.LanguageProfile { return r.profile }

// Err returns the error, if any.
func (r Result) Err() error { return r.err }

// Summary counts results by status.
type Summary struct {
	OK      int
	Failed  int
	Skipped int
}

// Summarize counts results by status.
func Summarize(results []Result) Summary {
	var s Summary
	for _, r := range results {
		switch r.status {
		case StatusOK:
			s.OK++
		case StatusError:
			s.Failed++
		case StatusSkipped:
			s.Skipped++
		}
	}
	return s
}

// Profiles returns the profiles of successful results in input order.
func Profiles(results []Result) []fingerprint.LanguageProfile {
	var out []fingerprint.LanguageProfile
	for _, r := range results {
		if r.status == StatusOK {
			out = append(out, r.profile)
		}
	}
	return out
}

package collect

import "fmt"

// FailurePolicy decides what a collection run does when one page fails.
type FailurePolicy string

const (
	// Skip records the failure and keeps collecting.
	Skip FailurePolicy = "skip"
	// Abort cancels the remaining pages and fails the run.
	Abort FailurePolicy = "abort"
)

// ParsePolicy validates a policy name. Empty means Skip.
func ParsePolicy(s string) (FailurePolicy, error) {
	switch p := FailurePolicy(s); p {
	case "":
		return Skip, nil
	case Skip, Abort:
		return p, nil
	default:
		return "", fmt.Errorf("unknown failure policy %q (want skip or abort)", s)
	}
}

// Package verify talks to the AI oracle that judges proof images.
package verify

import "context"

// Request carries one proof image to the oracle.
type Request struct {
	// ImageDataURL is a data: URL or https URL of the proof image.
	ImageDataURL string
	// Prompt is the proof-type specific question put to the oracle.
	Prompt string
	// ChallengeName and ChallengeDescription give the oracle context about
	// what the participant committed to.
	ChallengeName        string
	ChallengeDescription string
}

// Result is the oracle's verdict on a proof image.
type Result struct {
	Verified bool           `json:"verified"`
	Message  string         `json:"message"`
	Details  map[string]any `json:"extracted_data,omitempty"`
}

// Oracle judges proof images. Implementations must be safe for concurrent
// use.
type Oracle interface {
	Verify(ctx context.Context, req *Request) (*Result, error)
}

// TransientError marks oracle failures worth retrying (rate limits, upstream
// outage). Errors.As-compatible.
type TransientError struct {
	Err error
}

func (e *TransientError) Error() string { return e.Err.Error() }
func (e *TransientError) Unwrap() error { return e.Err }

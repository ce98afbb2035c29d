package resolver

// Outcome classifies a single provider attempt.
type Outcome int

const (
	OutcomeSuccess Outcome = iota
	OutcomeRateLimited
	OutcomeHTTPError
	OutcomeTimeout
	OutcomeMalformed
	OutcomeTransport
)

func (o Outcome) String() string {
	switch o {
	case OutcomeSuccess:
		return "success"
	case OutcomeRateLimited:
		return "rate_limited"
	case OutcomeHTTPError:
		return "http_error"
	case OutcomeTimeout:
		return "timeout"
	case OutcomeMalformed:
		return "malformed"
	case OutcomeTransport:
		return "transport"
	default:
		return "unknown"
	}
}

type Attempt struct {
	Model   string
	Outcome Outcome
	Status  int
	Err     error
}

// Resolution is the terminal state of a fallback run. Text is always usable
// guidance, even when every provider failed.
type Resolution struct {
	Text      string
	Model     string
	Exhausted bool
	Attempts  []Attempt
}

package group

// ParameterError reports that no acceptable group could be constructed,
// e.g. the requested size is below the security floor or the bounded
// safe-prime search was exhausted. It is fatal for the construction.
type ParameterError struct {
	Reason string
}

func (e *ParameterError) Error() string { return "group: " + e.Reason }

// InvalidParameterError reports that malformed parameters were passed to
// key or proof generation. It indicates a caller bug and is never retried.
type InvalidParameterError struct {
	Reason string
}

func (e *InvalidParameterError) Error() string { return "group: invalid parameters: " + e.Reason }

// MalformedProofError reports a structurally invalid transcript: a scalar
// out of its range or a value that is not a member of the expected group.
// It is distinct from an ordinary rejection, which is a boolean result.
type MalformedProofError struct {
	Reason string
}

func (e *MalformedProofError) Error() string { return "malformed proof: " + e.Reason }

package api

// Status is the terminal outcome of one operation invocation.
type Status int

const (
	// StatusSuccess means a normalized payload is available.
	StatusSuccess Status = iota
	// StatusError means the invocation resolved to a classified failure.
	StatusError
)

func (s Status) String() string {
	if s == StatusSuccess {
		return "SUCCESS"
	}
	return "ERROR"
}

// Envelope is the canonical wrapper produced for every invocation: either a
// payload or a classified error, never both. An envelope is owned by the
// view flow that triggered the call and is discarded on the next submission.
type Envelope struct {
	Status     Status
	Payload    Payload
	ErrKind    Kind
	ErrMessage string
}

// Resolve folds an invocation result into an envelope.
func Resolve(p Payload, err error) Envelope {
	if err != nil {
		return Envelope{
			Status:     StatusError,
			ErrKind:    KindOf(err),
			ErrMessage: MessageOf(err),
		}
	}
	return Envelope{Status: StatusSuccess, Payload: p}
}

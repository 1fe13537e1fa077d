package credential

import "errors"

// Kind tags an Error with its place in the authentication error taxonomy.
type Kind int

const (
	KindUnknown Kind = iota
	// KindMissingConfiguration: client ID or secret absent. Never retried.
	KindMissingConfiguration
	// KindCorruptCredential: persisted record unreadable. Treated as a cache miss.
	KindCorruptCredential
	// KindPersistence: the credential could not be written or removed.
	KindPersistence
	// KindMissingAuthorizationCode: the user supplied an empty code.
	KindMissingAuthorizationCode
	// KindTokenExchange: the authorization server rejected the code exchange.
	KindTokenExchange
)

func (k Kind) String() string {
	switch k {
	case KindMissingConfiguration:
		return "missing configuration"
	case KindCorruptCredential:
		return "corrupt credential"
	case KindPersistence:
		return "credential persistence failed"
	case KindMissingAuthorizationCode:
		return "authorization code is required"
	case KindTokenExchange:
		return "token exchange failed"
	default:
		return "unknown error"
	}
}

// Error is the error type returned by credential stores and the auth session.
type Error struct {
	Kind Kind
	Msg  string
	Err  error
}

// Sentinels for errors.Is; they match any *Error of the same Kind.
var (
	ErrMissingConfiguration     = &Error{Kind: KindMissingConfiguration}
	ErrCorruptCredential        = &Error{Kind: KindCorruptCredential}
	ErrPersistence              = &Error{Kind: KindPersistence}
	ErrMissingAuthorizationCode = &Error{Kind: KindMissingAuthorizationCode}
	ErrTokenExchange            = &Error{Kind: KindTokenExchange}
)

// NewError creates an Error of the given kind wrapping err (which may be nil).
func NewError(kind Kind, msg string, err error) *Error {
	return &Error{Kind: kind, Msg: msg, Err: err}
}

func (e *Error) Error() string {
	msg := e.Msg
	if msg == "" {
		msg = e.Kind.String()
	}
	if e.Err != nil {
		return msg + ": " + e.Err.Error()
	}
	return msg
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is reports whether target is an *Error of the same Kind.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Kind == e.Kind
}

// KindOf returns the Kind of the first *Error in err's chain, or KindUnknown.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindUnknown
}

package auth

// Kind classifies auth failures for the HTTP layer
type Kind int

const (
	KindInvalidInput Kind = iota
	KindUnauthorized
	KindConflict
)

// Error is a user-facing auth failure
type Error struct {
	Kind    Kind
	Message string
}

func (e *Error) Error() string {
	return e.Message
}

var (
	ErrInvalidEmail       = &Error{Kind: KindInvalidInput, Message: "A valid email address is required"}
	ErrWeakPassword       = &Error{Kind: KindInvalidInput, Message: "Password must be at least 6 characters"}
	ErrEmailTaken         = &Error{Kind: KindConflict, Message: "An account with this email already exists"}
	ErrInvalidCredentials = &Error{Kind: KindUnauthorized, Message: "Invalid login credentials"}
	ErrEmailNotConfirmed  = &Error{Kind: KindUnauthorized, Message: "Please verify your email address before logging in."}
	ErrInvalidToken       = &Error{Kind: KindUnauthorized, Message: "Invalid or expired token"}
)

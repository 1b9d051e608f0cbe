package domain

// Error is a user-recoverable domain failure. The code feeds structured
// handler logs, the message is internal; user-facing wording lives in the
// bot layer.
type Error struct {
	code string
	msg  string
}

// Error returns the internal message.
func (e *Error) Error() string { return e.msg }

// Code returns a stable machine-readable error code.
func (e *Error) Code() string { return e.code }

var (
	// ErrInvalidCredentials covers unknown usernames and password mismatches.
	ErrInvalidCredentials = &Error{code: "INVALID_CREDENTIALS", msg: "invalid credentials"}
	// ErrAlreadyLoggedIn is returned when a chat attempts a second login.
	ErrAlreadyLoggedIn = &Error{code: "ALREADY_LOGGED_IN", msg: "chat already has a session"}
	// ErrNotLoggedIn is returned for operations that require a session.
	ErrNotLoggedIn = &Error{code: "NOT_LOGGED_IN", msg: "chat has no session"}
	// ErrInvalidQuantity rejects non-numeric or negative quantity input.
	ErrInvalidQuantity = &Error{code: "INVALID_QUANTITY", msg: "quantity must be a non-negative integer"}
	// ErrOrderNotFound marks lookups of nonexistent order ids.
	ErrOrderNotFound = &Error{code: "ORDER_NOT_FOUND", msg: "order not found"}
	// ErrAlreadyDispatched marks a dispatch of an order that left the open state.
	ErrAlreadyDispatched = &Error{code: "ALREADY_DISPATCHED", msg: "order already dispatched"}
)

package types

import "errors"

// Outcome errors. Callers wrap these with context and test with errors.Is.
var (
	// ErrValidation reports malformed input such as a blank title or a
	// non-positive day count.
	ErrValidation = errors.New("invalid input")

	// ErrNotFound reports an unknown item id.
	ErrNotFound = errors.New("item not found")

	// ErrDuplicate reports that an item with the same normalized title and
	// author already exists.
	ErrDuplicate = errors.New("duplicate item")

	// ErrInvalidOperation reports a lifecycle precondition violation, for
	// example lending an item that is already lent.
	ErrInvalidOperation = errors.New("invalid operation")

	// ErrCorruptStore reports an unreadable or malformed persistence document.
	ErrCorruptStore = errors.New("corrupt store")

	// ErrIO reports that the underlying storage is unavailable.
	ErrIO = errors.New("storage unavailable")

	// ErrDetached reports use of a library session after Close.
	ErrDetached = errors.New("library is closed")
)

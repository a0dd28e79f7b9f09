package entityregistry

import "errors"

var (
	// ErrAlreadyRegistered is returned by Register when a handle already
	// has a context.
	ErrAlreadyRegistered = errors.New("entityregistry: handle already registered")
	// ErrNotRegistered is returned by accessors when a handle has no
	// context.
	ErrNotRegistered = errors.New("entityregistry: handle not registered")
)

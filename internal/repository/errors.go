// Package repository defines error types that are reused across multiple
// repositories. These sentinel values allow higher layers such as
// handlers to distinguish between different failure scenarios, for
// example a create that cannot proceed because of existing state.
package repository

import "errors"

// ErrConflict is returned when a create or update cannot be
// performed because of conflicting state, such as requesting a
// connection that already exists. Handlers should translate this
// into an HTTP 409 response.
var ErrConflict = errors.New("conflict")

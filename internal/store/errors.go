// Sentinel errors shared by every store implementation.  Handlers use
// these to pick HTTP status codes without knowing which backend is wired.
package store

import "errors"

// ErrNotFound is returned when the requested row does not exist.
// Handlers translate it into a 404 response.
var ErrNotFound = errors.New("not found")

// ErrEmailExists is returned when creating or updating an account would
// violate email uniqueness within its entity type.
var ErrEmailExists = errors.New("email already exists")

// ErrConflict is returned when an update is not permitted by entity
// state, such as changing the end time of a session that is already
// completed.
var ErrConflict = errors.New("conflict")

// ErrUnavailable is returned when the backing store cannot be reached.
// At startup this is fatal; at request time handlers translate it into a
// generic 500.
var ErrUnavailable = errors.New("store unavailable")

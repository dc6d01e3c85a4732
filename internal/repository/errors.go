// Package repository defines error types that are reused across multiple
// repositories.  These sentinel values allow higher layers such as the
// service and handlers to distinguish between failure scenarios without
// inspecting driver errors.
package repository

import (
	"errors"
	"strings"
)

// ErrNotFound is returned when a lookup by key matches no row.
var ErrNotFound = errors.New("not found")

// ErrEmailExists is returned when a user is created with an email that is
// already registered.
var ErrEmailExists = errors.New("email already exists")

// isDuplicateKey recognises unique-constraint violations from MySQL (error
// 1062) and SQLite.
func isDuplicateKey(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "1062") || strings.Contains(msg, "unique constraint failed")
}

package repository

import (
	"database/sql"
	"errors"
)

// HandleNotFound processes a database query result, converting sql.ErrNoRows
// to a nil result without error. This is a common pattern for Find* operations
// where a missing row is not an error condition. Conditional status-transition
// updates use it the same way: zero rows affected means the guard failed, and
// the caller decides what that means.
//
// Usage:
//
//	var m model.SoloMatching
//	err := r.db.GetContext(ctx, &m, query, args...)
//	return HandleNotFound(&m, err)
func HandleNotFound[T any](result *T, err error) (*T, error) {
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return result, nil
}

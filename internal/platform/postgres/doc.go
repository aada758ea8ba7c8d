// Package postgres provides PostgreSQL implementations of the store
// interfaces defined in internal/store. Each store accepts a store.DBTX,
// so the same implementation works against a *sql.DB or inside a *sql.Tx.
//
// Database errors are translated to the store package's sentinel errors
// (ErrUserNotFound, ErrTaskNotFound, ErrUsernameExists) so callers never
// need to know PostgreSQL error codes.
package postgres

// Package postgres contains the PostgreSQL implementations of the store
// interfaces, plus the error mapping from driver errors to the store
// package's sentinel errors.
package postgres

// Package store defines the persistence contracts for the application:
// the DBTX abstraction over connections and transactions, the
// RunInTransaction discipline, sentinel errors shared by all store
// implementations, and the TaskStore/UserStore interfaces together with
// the filter, page-envelope and stats types they exchange.
//
// Implementations live under internal/platform; services depend only on
// the interfaces declared here.
package store

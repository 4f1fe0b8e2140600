// Package service contains the task mutation engine: the transactional
// orchestration of task state changes against the store, best-effort
// propagation of status events to the notification queue, batch
// mutation semantics and aggregate statistics.
//
// Transaction discipline: every multi-step mutation runs inside one
// atomic unit via store.RunInTransaction; on any error the store
// changes are rolled back before the error surfaces, and the
// transaction handle is released on every exit path. Queue failures are
// terminal at the publish site and never affect a committed mutation.
package service

// Package domain contains the task and user entities along with their
// validation rules. Entities carry no persistence concerns; the store
// package owns durable state.
package domain

// Package store defines the persistence interfaces used by the services.
// Implementations live in internal/platform/postgres. Every store can be
// rebound to a *sql.Tx with WithTx so that a service can run several store
// calls inside one RunInTransaction block.
package store

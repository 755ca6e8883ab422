// Package testdb opens the integration test database, applies the embedded
// migrations once per process, and runs each test inside a transaction that
// is rolled back afterwards.
//
// Integration tests live behind the "integration" build tag and skip
// themselves when no database URL is configured:
//
//	//go:build integration
//
//	func TestSomething(t *testing.T) {
//		db := testdb.GetTestDBWithT(t)
//		testdb.WithTx(t, db, func(t *testing.T, tx *sql.Tx) {
//			...
//		})
//	}
package testdb

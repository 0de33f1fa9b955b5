//go:build integration

// Package testdb provides utilities for database tests.
//
// Each test runs in its own transaction, which is rolled back when the test
// completes, so tests can run in parallel against one database without
// cleanup.
//
//	func TestMyFeature(t *testing.T) {
//	    t.Parallel()
//	    db := testdb.GetTestDBWithT(t)
//
//	    testdb.WithTx(t, db, func(t *testing.T, tx *sql.Tx) {
//	        store := postgres.NewPostgresCardStore(tx, nil)
//	        // ...
//	    })
//	}
//
// Tests are skipped unless WOODPECKER_TEST_DATABASE_URL is set.
package testdb

// Package integrity provides health checks for the archive store.
//
// # Checks Provided
//
//   - Structure: every archive table has been written at least once.
//   - Duplicates: no ledger holds the same playlist/video key twice.
//   - Bucket: the archive bucket exists (object backend only).
//   - Schema: the SQL tables carry the expected columns and types (sql backend only).
//
// # HTTP Endpoints
//
//   - GET /integrity : Runs all checks.
//   - GET /integrity/structure : Runs structure check (supports ?fix=true).
//   - GET /integrity/duplicates : Runs duplicates check (supports ?fix=true).
//   - GET /integrity/bucket : Runs bucket check (supports ?fix=true).
//   - GET /integrity/schema : Runs schema check.
package integrity

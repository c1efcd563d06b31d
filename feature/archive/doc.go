// Package archive runs archive passes and exposes the archive read-only.
//
// Service.Plan fetches the selected accounts, builds the current index and
// classifies it; Service.Apply persists the plan. The HTTP handler serves the
// accounts, the previous index, each ledger and an xlsx export:
//
//	GET /archive/accounts
//	GET /archive/index?account=NAME
//	GET /archive/ledgers/:name
//	GET /archive/export
package archive

// Package report formats transition lists and ledgers for people: console
// tables for the archive run and an xlsx workbook export of every table.
package report

// Package utils provides small conversion helpers shared by the report,
// index and HTTP layers.
package utils

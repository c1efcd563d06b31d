// Package database opens the SQL connection used by the sql archive backend
// and inspects table schemas for the integrity checks.
//
// MySQL is the production driver; sqlite serves local single-file archives
// and tests.
//
// # Usage
//
//	db, err := database.Connect(cfg.Database)
//	if err != nil {
//	    return err
//	}
//
//	columns, err := database.GetTableColumns(db, "prev_index")
package database

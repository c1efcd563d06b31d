package database

import (
	"fmt"
	"strings"

	"gorm.io/gorm"
)

// ColumnInfo is one column of an archive table as reported by the database.
// Field and Type are lower case.
type ColumnInfo struct {
	Field   string
	Type    string
	Null    string
	Key     string
	Default *string
	Extra   string
}

// ColumnSet indexes the columns of one table by name.
type ColumnSet map[string]ColumnInfo

// Has reports whether the table carries the named column.
func (s ColumnSet) Has(name string) bool {
	_, ok := s[strings.ToLower(name)]
	return ok
}

type sqliteColumn struct {
	Cid        int
	Name       string
	Type       string
	Notnull    int
	DefaultVal *string `gorm:"column:dflt_value"`
	Pk         int
}

// GetTableColumns lists the columns of tableName. A table that does not exist
// yields no columns and no error on sqlite.
func GetTableColumns(db *gorm.DB, tableName string) ([]ColumnInfo, error) {
	if strings.ContainsAny(tableName, "`'\"") {
		return nil, fmt.Errorf("invalid table name %q", tableName)
	}

	if db.Dialector.Name() == DriverSQLite {
		var rows []sqliteColumn
		if err := db.Raw(fmt.Sprintf("PRAGMA table_info('%s')", tableName)).Scan(&rows).Error; err != nil {
			return nil, fmt.Errorf("inspect table %s: %w", tableName, err)
		}
		columns := make([]ColumnInfo, 0, len(rows))
		for _, r := range rows {
			col := ColumnInfo{
				Field:   strings.ToLower(r.Name),
				Type:    strings.ToLower(r.Type),
				Null:    "YES",
				Default: r.DefaultVal,
			}
			if r.Notnull != 0 {
				col.Null = "NO"
			}
			if r.Pk != 0 {
				col.Key = "PRI"
			}
			columns = append(columns, col)
		}
		return columns, nil
	}

	var columns []ColumnInfo
	if err := db.Raw(fmt.Sprintf("SHOW COLUMNS FROM `%s`", tableName)).Scan(&columns).Error; err != nil {
		return nil, fmt.Errorf("inspect table %s: %w", tableName, err)
	}
	for i := range columns {
		columns[i].Field = strings.ToLower(columns[i].Field)
		columns[i].Type = strings.ToLower(columns[i].Type)
	}
	return columns, nil
}

// Columns wraps GetTableColumns into a ColumnSet.
func Columns(db *gorm.DB, tableName string) (ColumnSet, error) {
	cols, err := GetTableColumns(db, tableName)
	if err != nil {
		return nil, err
	}
	set := make(ColumnSet, len(cols))
	for _, c := range cols {
		set[c.Field] = c
	}
	return set, nil
}

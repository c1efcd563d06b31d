package checks

import (
	"fmt"
	"reflect"
	"strings"

	"playlist-archiver/core/database"
	"playlist-archiver/core/records"
	"playlist-archiver/core/store"

	"gorm.io/gorm"
)

// SchemaReport is the result of comparing the archive tables with the model.
type SchemaReport struct {
	Dialect string                 `json:"dialect"`
	Matched bool                   `json:"matched"`
	Tables  map[string]TableReport `json:"tables"`
	Errors  []string               `json:"errors"`
}

type TableReport struct {
	MissingColumns []string `json:"missing_columns"`
	TypeMismatches []string `json:"type_mismatches"`
	Status         string   `json:"status"` // "ok", "missing", "error"
}

type expectedColumn struct {
	name, typ string
}

// CheckSchema verifies every archive table against the SQL store's model.
func CheckSchema(db *gorm.DB) (*SchemaReport, error) {
	if db == nil {
		return nil, fmt.Errorf("database connection is nil")
	}

	expected := modelColumns(store.Model())
	report := &SchemaReport{
		Dialect: db.Dialector.Name(),
		Tables:  make(map[string]TableReport),
		Matched: true,
	}

	for _, table := range records.Tables() {
		actual, err := database.Columns(db, table)
		if err != nil {
			report.Errors = append(report.Errors, fmt.Sprintf("Failed to inspect table %s: %v", table, err))
			report.Matched = false
			continue
		}

		tblReport := TableReport{
			MissingColumns: []string{},
			TypeMismatches: []string{},
			Status:         "ok",
		}
		if len(actual) == 0 {
			tblReport.Status = "missing"
			report.Matched = false
			report.Tables[table] = tblReport
			continue
		}

		for _, col := range expected {
			actCol, exists := actual[col.name]
			if !exists {
				tblReport.MissingColumns = append(tblReport.MissingColumns, col.name)
				tblReport.Status = "error"
				report.Matched = false
				continue
			}
			if col.typ != "" && !strings.Contains(actCol.Type, col.typ) {
				mismatch := fmt.Sprintf("%s: expected %s, got %s", col.name, col.typ, actCol.Type)
				tblReport.TypeMismatches = append(tblReport.TypeMismatches, mismatch)
				tblReport.Status = "error"
				report.Matched = false
			}
		}

		report.Tables[table] = tblReport
	}

	return report, nil
}

// modelColumns lists the columns declared through gorm column tags.
func modelColumns(model any) []expectedColumn {
	t := reflect.TypeOf(model)
	var cols []expectedColumn
	for i := 0; i < t.NumField(); i++ {
		tag := t.Field(i).Tag.Get("gorm")
		name := parseGormColumn(tag)
		if name == "" {
			continue
		}
		cols = append(cols, expectedColumn{name: name, typ: strings.ToLower(parseGormType(tag))})
	}
	return cols
}

// Helpers to parse simple GORM tags
func parseGormColumn(tag string) string {
	return tagValue(tag, "column:")
}

func parseGormType(tag string) string {
	return tagValue(tag, "type:")
}

func tagValue(tag, prefix string) string {
	for _, p := range strings.Split(tag, ";") {
		if strings.HasPrefix(p, prefix) {
			return strings.TrimPrefix(p, prefix)
		}
	}
	return ""
}

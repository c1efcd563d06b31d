package checks

import (
	"context"
	"regexp"
	"testing"

	"playlist-archiver/core/records"
	"playlist-archiver/core/store"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/mysql"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("Failed to open mock sql db: %v", err)
	}

	dialector := mysql.New(mysql.Config{
		Conn:                      db,
		SkipInitializeWithVersion: true,
	})

	gormDB, err := gorm.Open(dialector, &gorm.Config{})
	if err != nil {
		t.Fatalf("Failed to open gorm db: %v", err)
	}

	return gormDB, mock
}

func fullColumns(titleType string) *sqlmock.Rows {
	rows := sqlmock.NewRows([]string{"Field", "Type", "Null", "Key", "Default", "Extra"})
	rows.AddRow("id", "bigint(20) unsigned", "NO", "PRI", nil, "auto_increment")
	for _, col := range modelColumns(store.Model()) {
		typ := "varchar(255)"
		switch col.name {
		case "v_title":
			typ = titleType
		case "v_description":
			typ = "text"
		}
		rows.AddRow(col.name, typ, "YES", "", nil, "")
	}
	return rows
}

func TestCheckSchema_NilDB(t *testing.T) {
	report, err := CheckSchema(nil)
	assert.Error(t, err)
	assert.Nil(t, report)
}

func TestCheckSchema_MySQL(t *testing.T) {
	db, mock := setupMockDB(t)

	for _, table := range records.Tables() {
		query := regexp.QuoteMeta("SHOW COLUMNS FROM `" + table + "`")
		if table == string(records.LedgerDeleted) {
			mock.ExpectQuery(query).WillReturnRows(fullColumns("int(11)"))
			continue
		}
		mock.ExpectQuery(query).WillReturnRows(fullColumns("text"))
	}

	report, err := CheckSchema(db)
	require.NoError(t, err)
	assert.Equal(t, "mysql", report.Dialect)
	assert.False(t, report.Matched)

	assert.Equal(t, "ok", report.Tables[records.TableIndex].Status)
	deleted := report.Tables[string(records.LedgerDeleted)]
	assert.Equal(t, "error", deleted.Status)
	assert.Equal(t, []string{"v_title: expected text, got int(11)"}, deleted.TypeMismatches)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCheckSchema_MissingColumn(t *testing.T) {
	db, mock := setupMockDB(t)

	for _, table := range records.Tables() {
		rows := sqlmock.NewRows([]string{"Field", "Type", "Null", "Key", "Default", "Extra"}).
			AddRow("id", "int(11)", "NO", "PRI", nil, "")
		mock.ExpectQuery(regexp.QuoteMeta("SHOW COLUMNS FROM `" + table + "`")).WillReturnRows(rows)
	}

	report, err := CheckSchema(db)
	require.NoError(t, err)
	assert.False(t, report.Matched)
	assert.Contains(t, report.Tables[records.TableIndex].MissingColumns, "v_id")
}

func TestCheckSchema_InspectError(t *testing.T) {
	db, mock := setupMockDB(t)
	for range records.Tables() {
		mock.ExpectQuery(".*").WillReturnError(assert.AnError)
	}

	report, err := CheckSchema(db)
	require.NoError(t, err)
	assert.False(t, report.Matched)
	assert.Len(t, report.Errors, len(records.Tables()))
}

func TestCheckSchema_SQLite(t *testing.T) {
	db, err := gorm.Open(sqlite.Open("file:schema_check?mode=memory&cache=shared"), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)

	ctx := context.Background()
	st := store.NewSQLStore(db)
	require.NoError(t, st.SaveIndex(ctx, []records.VideoRecord{{Account: "alice", PlaylistID: "p1", VideoID: "v1"}}))

	report, err := CheckSchema(db)
	require.NoError(t, err)
	assert.Equal(t, "ok", report.Tables[records.TableIndex].Status)
	assert.Equal(t, "missing", report.Tables[string(records.LedgerDeleted)].Status)
	assert.False(t, report.Matched)
}

func TestParseGormTags(t *testing.T) {
	assert.Equal(t, "id", parseGormColumn("column:id;primaryKey"))
	assert.Equal(t, "v_title", parseGormColumn("column:v_title;type:text"))
	assert.Equal(t, "text", parseGormType("column:v_title;type:text"))
	assert.Equal(t, "", parseGormType("column:p_id;size:255"))
}

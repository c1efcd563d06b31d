package archive

import (
	"context"
	"encoding/json"
	"net/http/httptest"
	"testing"

	"playlist-archiver/core/records"
	"playlist-archiver/core/store"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func setupTestApp(t *testing.T) (*fiber.App, store.Store) {
	app := fiber.New()
	st := store.NewFileStore(t.TempDir())
	svc := NewService(st, nil, zap.NewNop())
	NewHandler(svc).RegisterRoutes(app)
	return app, st
}

func TestHandleAccounts(t *testing.T) {
	app, st := setupTestApp(t)
	require.NoError(t, st.SaveIndex(context.Background(), []records.VideoRecord{
		{Account: "alice", PlaylistID: "PL1", VideoID: "v1"},
	}))

	resp, err := app.Test(httptest.NewRequest("GET", "/archive/accounts", nil))
	require.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)

	var body struct {
		Accounts []AccountSummary `json:"accounts"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, []AccountSummary{{Account: "alice", Playlists: 1, Videos: 1}}, body.Accounts)
}

func TestHandleIndex(t *testing.T) {
	app, st := setupTestApp(t)
	require.NoError(t, st.SaveIndex(context.Background(), []records.VideoRecord{
		{Account: "alice", PlaylistID: "PL1", VideoID: "v1"},
		{Account: "bob", PlaylistID: "PL2", VideoID: "v2"},
	}))

	resp, err := app.Test(httptest.NewRequest("GET", "/archive/index?account=bob", nil))
	require.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)

	var body map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "bob", body["account"])
	assert.Equal(t, float64(1), body["count"])
}

func TestHandleIndex_Empty(t *testing.T) {
	app, _ := setupTestApp(t)

	resp, err := app.Test(httptest.NewRequest("GET", "/archive/index", nil))
	require.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)

	var body map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, []any{}, body["rows"])
}

func TestHandleLedger(t *testing.T) {
	app, _ := setupTestApp(t)

	resp, err := app.Test(httptest.NewRequest("GET", "/archive/ledgers/privated", nil))
	require.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)

	var body map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, string(records.LedgerPrivated), body["ledger"])
	assert.Equal(t, float64(0), body["count"])
}

func TestHandleLedger_Unknown(t *testing.T) {
	app, _ := setupTestApp(t)

	resp, err := app.Test(httptest.NewRequest("GET", "/archive/ledgers/bogus", nil))
	require.NoError(t, err)
	assert.Equal(t, 404, resp.StatusCode)
}

func TestHandleExport(t *testing.T) {
	app, _ := setupTestApp(t)

	resp, err := app.Test(httptest.NewRequest("GET", "/archive/export", nil), 5000)
	require.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)
	assert.Equal(t, workbookType, resp.Header.Get("Content-Type"))
	assert.Contains(t, resp.Header.Get("Content-Disposition"), "archive.xlsx")
}

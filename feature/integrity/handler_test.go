package integrity

import (
	"context"
	"encoding/json"
	"net/http/httptest"
	"testing"

	"playlist-archiver/core/records"
	"playlist-archiver/core/storage/mocks"
	"playlist-archiver/core/store"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func setupTestApp(t *testing.T) (*fiber.App, store.Store) {
	app := fiber.New()
	st := store.NewFileStore(t.TempDir())
	NewHandler(NewService(st, store.Deps{}, zap.NewNop())).RegisterRoutes(app)
	return app, st
}

func decode(t *testing.T, app *fiber.App, url string) (int, map[string]any) {
	t.Helper()
	resp, err := app.Test(httptest.NewRequest("GET", url, nil))
	require.NoError(t, err)

	var body map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	return resp.StatusCode, body
}

func TestHandleStructureCheck(t *testing.T) {
	app, _ := setupTestApp(t)

	code, body := decode(t, app, "/integrity/structure")
	assert.Equal(t, 200, code)
	assert.Equal(t, "checked", body["status"])
	assert.NotEmpty(t, body["missing"])

	code, body = decode(t, app, "/integrity/structure?fix=true")
	assert.Equal(t, 200, code)
	assert.Equal(t, "fixed", body["status"])

	_, body = decode(t, app, "/integrity/structure")
	assert.Empty(t, body["missing"])
}

func TestHandleDuplicatesCheck(t *testing.T) {
	app, st := setupTestApp(t)
	dup := records.LedgerEntry{VideoRecord: records.VideoRecord{PlaylistID: "p1", VideoID: "v1"}}
	require.NoError(t, st.SaveLedger(context.Background(), records.LedgerRecovered, []records.LedgerEntry{dup, dup}))

	code, body := decode(t, app, "/integrity/duplicates")
	assert.Equal(t, 200, code)
	assert.Equal(t, "checked", body["status"])
	assert.NotEmpty(t, body["duplicates"])

	_, body = decode(t, app, "/integrity/duplicates?fix=1")
	assert.Equal(t, "fixed", body["status"])

	_, body = decode(t, app, "/integrity/duplicates")
	assert.Empty(t, body["duplicates"])
}

func TestHandleBucketCheck(t *testing.T) {
	t.Run("Skipped", func(t *testing.T) {
		app, _ := setupTestApp(t)
		code, body := decode(t, app, "/integrity/bucket")
		assert.Equal(t, 200, code)
		assert.Equal(t, "skipped", body["status"])
	})

	t.Run("Failure", func(t *testing.T) {
		mockClient := new(mocks.Client)
		mockClient.On("BucketExists", mock.Anything, "test-bucket").Return(false, assert.AnError)

		app := fiber.New()
		st := store.NewObjectStore(mockClient, "test-bucket", "")
		NewHandler(NewService(st, store.Deps{Client: mockClient, Bucket: "test-bucket"}, zap.NewNop())).RegisterRoutes(app)

		code, _ := decode(t, app, "/integrity/bucket")
		assert.Equal(t, 500, code)
	})
}

func TestHandleSchemaCheck_Skipped(t *testing.T) {
	app, _ := setupTestApp(t)

	code, body := decode(t, app, "/integrity/schema")
	assert.Equal(t, 200, code)
	assert.Equal(t, "skipped", body["status"])
}

func TestHandleIntegrityCheck(t *testing.T) {
	app, _ := setupTestApp(t)

	code, body := decode(t, app, "/integrity")
	assert.Equal(t, 200, code)
	assert.Contains(t, body, "structure")
	assert.Contains(t, body, "duplicates")
	assert.Equal(t, map[string]any{"status": "skipped"}, body["bucket"])
	assert.Equal(t, map[string]any{"status": "skipped"}, body["schema"])
}

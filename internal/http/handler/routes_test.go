package handler

import (
	"context"
	"encoding/json"
	"io"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"osmdev/internal/http/middleware"
	"osmdev/internal/model"
	repoMocks "osmdev/internal/repository/mocks"
	"osmdev/internal/service"
	"osmdev/internal/storage"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func readJSON(t *testing.T, r io.Reader, v any) {
	t.Helper()
	require.NoError(t, json.NewDecoder(r).Decode(v))
}

// newTestApp assembles the app the way cmd/server does: middleware chain,
// real disk store and service, mocked index repository.
func newTestApp(t *testing.T) (*fiber.App, *repoMocks.MockExportRepository, string) {
	t.Helper()

	dir := t.TempDir()
	staticRoot := filepath.Join(dir, "static")
	require.NoError(t, os.MkdirAll(staticRoot, 0o755))

	store, err := storage.NewDisk(filepath.Join(dir, "exports"))
	require.NoError(t, err)

	mRepo := new(repoMocks.MockExportRepository)
	svc, err := service.NewExportService(store, mRepo, "http://localhost:8000", "unknown")
	require.NoError(t, err)

	db, _, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	app := fiber.New(fiber.Config{ErrorHandler: ErrorHandler()})
	app.Use(middleware.RequestID())
	app.Use(middleware.DevCORS())
	RegisterRoutes(app, db, svc, staticRoot)

	return app, mRepo, staticRoot
}

var requiredHeaders = map[string]string{
	"Access-Control-Allow-Origin":  "*",
	"Access-Control-Allow-Methods": "GET, POST, OPTIONS",
	"Access-Control-Allow-Headers": "Content-Type",
	"Cache-Control":                "no-cache, no-store, must-revalidate",
	"Pragma":                       "no-cache",
	"Expires":                      "0",
}

func TestExportRoundTrip(t *testing.T) {
	app, mRepo, _ := newTestApp(t)

	mRepo.On("Upsert", mock.Anything, mock.Anything).
		Return(func(ctx context.Context, e *model.Export) *model.Export {
			out := *e
			return &out
		}, nil)

	tests := []struct {
		name       string
		sequenceID string
		payload    string
	}{
		{name: "plain ascii payload", sequenceID: "42", payload: `<osm version="0.6"></osm>`},
		{name: "multi-byte characters", sequenceID: "jp-1", payload: `<osm><node name="渋谷駅"/></osm>`},
		{name: "underscore id", sequenceID: "a_b", payload: "<osm/>"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			body, err := json.Marshal(map[string]string{
				"sequenceId": tt.sequenceID,
				"osmXml":     tt.payload,
			})
			require.NoError(t, err)

			resp, err := app.Test(httptest.NewRequest("POST", "/export", strings.NewReader(string(body))))
			require.NoError(t, err)
			require.Equal(t, fiber.StatusOK, resp.StatusCode)

			var out exportResponse
			readJSON(t, resp.Body, &out)
			assert.True(t, out.Success)
			assert.Equal(t, "sequence_"+tt.sequenceID+".osm", out.Filename)
			assert.Equal(t, "http://localhost:8000/exports/"+out.Filename, out.URL)

			// Retrieval yields exactly the posted payload
			getResp, err := app.Test(httptest.NewRequest("GET", "/exports/"+out.Filename, nil))
			require.NoError(t, err)
			require.Equal(t, fiber.StatusOK, getResp.StatusCode)
			assert.Equal(t, "application/xml", getResp.Header.Get(fiber.HeaderContentType))

			got, err := io.ReadAll(getResp.Body)
			require.NoError(t, err)
			assert.Equal(t, tt.payload, string(got))
		})
	}
}

func TestExportOverwriteLastWriteWins(t *testing.T) {
	app, mRepo, _ := newTestApp(t)
	mRepo.On("Upsert", mock.Anything, mock.Anything).
		Return(&model.Export{SequenceID: "7", Filename: "sequence_7.osm"}, nil)

	for _, payload := range []string{`<osm>first</osm>`, `<osm>second</osm>`} {
		body, _ := json.Marshal(map[string]string{"sequenceId": "7", "osmXml": payload})
		resp, err := app.Test(httptest.NewRequest("POST", "/export", strings.NewReader(string(body))))
		require.NoError(t, err)
		require.Equal(t, fiber.StatusOK, resp.StatusCode)
	}

	resp, err := app.Test(httptest.NewRequest("GET", "/exports/sequence_7.osm", nil))
	require.NoError(t, err)
	got, _ := io.ReadAll(resp.Body)
	assert.Equal(t, `<osm>second</osm>`, string(got))
}

func TestExportEmptyPayloadCreatesNoFile(t *testing.T) {
	app, _, _ := newTestApp(t)

	resp, err := app.Test(httptest.NewRequest("POST", "/export", strings.NewReader(`{"osmXml":""}`)))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

	body, _ := io.ReadAll(resp.Body)
	assert.JSONEq(t, `{"error":"No OSM XML provided"}`, string(body))

	// Nothing persisted for the default id either
	getResp, err := app.Test(httptest.NewRequest("GET", "/exports/sequence_unknown.osm", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusNotFound, getResp.StatusCode)
}

func TestFixedHeadersOnEveryResponse(t *testing.T) {
	app, mRepo, staticRoot := newTestApp(t)
	mRepo.On("Upsert", mock.Anything, mock.Anything).
		Return(&model.Export{SequenceID: "1", Filename: "sequence_1.osm"}, nil)

	require.NoError(t, os.WriteFile(filepath.Join(staticRoot, "index.html"), []byte("<html></html>"), 0o644))

	cases := []struct {
		name   string
		method string
		path   string
		body   string
	}{
		{name: "options preflight", method: "OPTIONS", path: "/export"},
		{name: "export success", method: "POST", path: "/export", body: `{"sequenceId":"1","osmXml":"<osm/>"}`},
		{name: "export validation error", method: "POST", path: "/export", body: `{"osmXml":""}`},
		{name: "retrieval miss", method: "GET", path: "/exports/sequence_missing.osm"},
		{name: "static file", method: "GET", path: "/index.html"},
		{name: "static miss", method: "GET", path: "/no-such-file.html"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			var req = httptest.NewRequest(tc.method, tc.path, strings.NewReader(tc.body))
			resp, err := app.Test(req)
			require.NoError(t, err)
			for k, v := range requiredHeaders {
				assert.Equal(t, v, resp.Header.Get(k), "%s on %s %s", k, tc.method, tc.path)
			}
		})
	}
}

func TestStaticFallthrough(t *testing.T) {
	app, _, staticRoot := newTestApp(t)

	require.NoError(t, os.WriteFile(filepath.Join(staticRoot, "editor.js"), []byte("console.log(1)"), 0o644))

	t.Run("serves files from the working directory", func(t *testing.T) {
		resp, err := app.Test(httptest.NewRequest("GET", "/editor.js", nil))
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusOK, resp.StatusCode)

		got, _ := io.ReadAll(resp.Body)
		assert.Equal(t, "console.log(1)", string(got))
	})

	t.Run("missing file is a 404", func(t *testing.T) {
		resp, err := app.Test(httptest.NewRequest("GET", "/nope.js", nil))
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
	})
}

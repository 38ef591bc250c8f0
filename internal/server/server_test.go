package server

import (
	"context"
	"encoding/json"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gopsql/dqb/catalog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testSchemas = catalog.Schemas{
	"public": {
		"employees": {
			{Name: "ID", Type: "integer", PrimaryKey: "PRI"},
			{Name: "NAME", Type: "text"},
			{Name: "AGE", Type: "integer"},
			{Name: "CITY", Type: "text"},
			{Name: "DEPARTMENT_ID", Type: "integer", RelatedSchema: "public", RelatedTable: "departments", RelatedColumn: "ID"},
		},
		"departments": {
			{Name: "ID", Type: "integer", PrimaryKey: "PRI"},
			{Name: "DEPT_NAME", Type: "text"},
		},
	},
}

type failingSource struct{ err error }

func (s failingSource) Read(context.Context) (catalog.Schemas, error) {
	return nil, s.err
}

func newTestServer(t *testing.T, cfg Config) *httptest.Server {
	t.Helper()
	if cfg.Source == nil {
		cfg.Source = catalog.StaticSource{Schemas: testSchemas}
	}
	ts := httptest.NewServer(New(cfg).Handler())
	t.Cleanup(ts.Close)
	return ts
}

func decode(t *testing.T, resp *http.Response, v interface{}) {
	t.Helper()
	defer resp.Body.Close()
	assert.Equal(t, "application/json", resp.Header.Get("Content-Type"))
	require.NoError(t, json.NewDecoder(resp.Body).Decode(v))
}

func TestHealth(t *testing.T) {
	ts := newTestServer(t, Config{})
	resp, err := http.Get(ts.URL + "/healthz")
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	var body map[string]string
	decode(t, resp, &body)
	assert.Equal(t, "ok", body["status"])
}

func TestMetadata(t *testing.T) {
	ts := newTestServer(t, Config{})
	resp, err := http.Get(ts.URL + "/api/metadata")
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	var got catalog.Schemas
	decode(t, resp, &got)
	assert.Equal(t, testSchemas, got)
}

func TestTables(t *testing.T) {
	ts := newTestServer(t, Config{})

	resp, err := http.Get(ts.URL + "/api/tables")
	require.NoError(t, err)
	var tables map[string][]string
	decode(t, resp, &tables)
	assert.Equal(t, map[string][]string{
		"EMPLOYEES":   {"ID", "NAME", "AGE", "CITY", "DEPARTMENT_ID"},
		"DEPARTMENTS": {"ID", "DEPT_NAME"},
	}, tables)

	resp, err = http.Get(ts.URL + "/api/tables/departments")
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	var columns []string
	decode(t, resp, &columns)
	assert.Equal(t, []string{"ID", "DEPT_NAME"}, columns)

	resp, err = http.Get(ts.URL + "/api/tables/projects")
	require.NoError(t, err)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	var body errorResponse
	decode(t, resp, &body)
	assert.Equal(t, "table PROJECTS not found", body.Error)
}

func TestQuery(t *testing.T) {
	tests := []struct {
		name       string
		formatted  bool
		path       string
		body       string
		wantStatus int
		wantSQL    string
		wantError  string
	}{
		{
			name:       "compact",
			path:       "/api/query",
			body:       `{"table": "employees", "filters": [{"column": "AGE", "operator": ">", "value": "30"}]}`,
			wantStatus: http.StatusOK,
			wantSQL:    "SELECT * FROM EMPLOYEES WHERE AGE > 30",
		},
		{
			name:       "formatted by query parameter",
			path:       "/api/query?formatted=true",
			body:       `{"table": "employees", "columns": ["NAME"], "limit": 0}`,
			wantStatus: http.StatusOK,
			wantSQL:    "SELECT NAME\nFROM EMPLOYEES\nLIMIT 0",
		},
		{
			name:       "formatted by default",
			formatted:  true,
			path:       "/api/query",
			body:       `{"table": "departments"}`,
			wantStatus: http.StatusOK,
			wantSQL:    "SELECT *\nFROM DEPARTMENTS",
		},
		{
			name:       "query parameter overrides default",
			formatted:  true,
			path:       "/api/query?formatted=false",
			body:       `{"table": "departments"}`,
			wantStatus: http.StatusOK,
			wantSQL:    "SELECT * FROM DEPARTMENTS",
		},
		{
			name:       "unknown table",
			path:       "/api/query",
			body:       `{"table": "projects"}`,
			wantStatus: http.StatusBadRequest,
			wantError:  "undefined or invalid table",
		},
		{
			name:       "unsupported join",
			path:       "/api/query",
			body:       `{"table": "employees", "joins": [{"type": "sideways", "table": "DEPARTMENTS", "on": "1 = 1"}]}`,
			wantStatus: http.StatusBadRequest,
			wantError:  "unsupported join operator: sideways",
		},
		{
			name:       "malformed body",
			path:       "/api/query",
			body:       `{"table": `,
			wantStatus: http.StatusBadRequest,
			wantError:  "invalid query definition",
		},
		{
			name:       "unknown field",
			path:       "/api/query",
			body:       `{"from": "employees"}`,
			wantStatus: http.StatusBadRequest,
			wantError:  "invalid query definition",
		},
		{
			name:       "bad formatted parameter",
			path:       "/api/query?formatted=maybe",
			body:       `{"table": "employees"}`,
			wantStatus: http.StatusBadRequest,
			wantError:  "invalid formatted parameter: maybe",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ts := newTestServer(t, Config{Formatted: tt.formatted})
			resp, err := http.Post(ts.URL+tt.path, "application/json", strings.NewReader(tt.body))
			require.NoError(t, err)
			assert.Equal(t, tt.wantStatus, resp.StatusCode)
			if tt.wantError != "" {
				var body errorResponse
				decode(t, resp, &body)
				assert.Contains(t, body.Error, tt.wantError)
				return
			}
			var body queryResponse
			decode(t, resp, &body)
			assert.Equal(t, tt.wantSQL, body.SQL)
		})
	}
}

func TestSourceErrors(t *testing.T) {
	ts := newTestServer(t, Config{Source: failingSource{err: assert.AnError}})

	for _, path := range []string{"/api/metadata", "/api/tables", "/api/tables/employees"} {
		resp, err := http.Get(ts.URL + path)
		require.NoError(t, err)
		assert.Equal(t, http.StatusBadGateway, resp.StatusCode, path)
		var body errorResponse
		decode(t, resp, &body)
		assert.Equal(t, assert.AnError.Error(), body.Error)
	}

	resp, err := http.Post(ts.URL+"/api/query", "application/json", strings.NewReader(`{"table": "employees"}`))
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadGateway, resp.StatusCode)
	resp.Body.Close()
}

func TestQueryBodyLimit(t *testing.T) {
	ts := newTestServer(t, Config{})

	body := `{"table": "employees", "columns": ["` + strings.Repeat("a", maxBodyBytes) + `"]}`
	resp, err := http.Post(ts.URL+"/api/query", "application/json", strings.NewReader(body))
	require.NoError(t, err)
	assert.Equal(t, http.StatusRequestEntityTooLarge, resp.StatusCode)
	var out errorResponse
	decode(t, resp, &out)
	assert.Equal(t, "query definition exceeds 1048576 bytes", out.Error)

	// just under the limit is still rendered
	body = `{"table": "employees", "columns": ["` + strings.Repeat("a", 1000) + `"]}`
	resp, err = http.Post(ts.URL+"/api/query", "application/json", strings.NewReader(body))
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()
}

func TestWriteJSONEncodeError(t *testing.T) {
	rec := httptest.NewRecorder()
	New(Config{}).writeJSON(rec, http.StatusOK, map[string]interface{}{"bad": make(chan int)})
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	assert.Empty(t, rec.Body.String())
}

func TestStatusOf(t *testing.T) {
	assert.Equal(t, http.StatusServiceUnavailable, statusOf(context.Canceled))
	assert.Equal(t, http.StatusBadGateway, statusOf(assert.AnError))
}

func TestServe(t *testing.T) {
	l, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	addr := l.Addr().String()
	require.NoError(t, l.Close())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- New(Config{Source: catalog.StaticSource{Schemas: testSchemas}, Listen: addr}).Serve(ctx)
	}()

	require.Eventually(t, func() bool {
		resp, err := http.Get("http://" + addr + "/healthz")
		if err != nil {
			return false
		}
		resp.Body.Close()
		return resp.StatusCode == http.StatusOK
	}, 5*time.Second, 20*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(10 * time.Second):
		t.Fatal("Serve() did not return after cancel")
	}
}

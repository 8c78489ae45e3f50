package server

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/agentstation/attendmerge"
	"github.com/agentstation/attendmerge/cmd/application"
	"github.com/agentstation/attendmerge/internal/server/handlers"
	"github.com/agentstation/attendmerge/pkg/constants"
	"github.com/agentstation/attendmerge/pkg/reconcile"
)

func workbookBytes(t *testing.T, rows ...[]interface{}) []byte {
	t.Helper()
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()
	for i := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		require.NoError(t, f.SetSheetRow("Sheet1", cell, &rows[i]))
	}
	buf, err := f.WriteToBuffer()
	require.NoError(t, err)
	return buf.Bytes()
}

func fixtures(t *testing.T) (presence, ledger []byte) {
	presence = workbookBytes(t,
		[]interface{}{"출퇴근 기록"},
		[]interface{}{"일자", "사원번호", "사원명", "소속부서", "출근시간", "퇴근시간", "근무시간(시간단위)"},
		[]interface{}{"2024-05-01", "12", "홍길동", "영업", "09:00", "18:00", 8},
		[]interface{}{"2024-05-02", "12", "홍길동", "영업", "09:00", "18:00", 8},
	)
	ledger = workbookBytes(t,
		[]interface{}{"일자", "사원번호", "소속부서", "사원명", "출근시간", "퇴근시간", "근무시간(시간단위)", "근태내역", "적요"},
		[]interface{}{"2024-05-01", "00012", "영업1팀", "홍길동", "09:00", "18:00", 8, "", ""},
	)
	return presence, ledger
}

func multipartBody(t *testing.T, files map[string][2]string) (*bytes.Buffer, string) {
	t.Helper()
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	for field, f := range files {
		part, err := mw.CreateFormFile(field, f[0])
		require.NoError(t, err)
		_, err = part.Write([]byte(f[1]))
		require.NoError(t, err)
	}
	require.NoError(t, mw.Close())
	return &body, mw.FormDataContentType()
}

func newTestServer(t *testing.T, mutate func(*Config)) http.Handler {
	t.Helper()
	cfg := DefaultConfig()
	cfg.RateLimit = 0
	if mutate != nil {
		mutate(&cfg)
	}
	srv, err := New(&application.Mock{}, cfg)
	require.NoError(t, err)
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	return srv.Handler(ctx)
}

func postMerge(t *testing.T, h http.Handler, query string, presence, ledger []byte) *httptest.ResponseRecorder {
	t.Helper()
	body, contentType := multipartBody(t, map[string][2]string{
		"presence": {"presence.xlsx", string(presence)},
		"ledger":   {"ledger.xlsx", string(ledger)},
	})
	req := httptest.NewRequest(http.MethodPost, "/api/v1/merge"+query, body)
	req.Header.Set("Content-Type", contentType)
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func TestHealth(t *testing.T) {
	h := newTestServer(t, nil)
	for _, path := range []string{"/health", "/api/v1/health", "/api/v1/ready"} {
		w := httptest.NewRecorder()
		h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
		assert.Equal(t, http.StatusOK, w.Code, path)
		assert.NotEmpty(t, w.Header().Get("X-Request-ID"), path)
	}
}

func TestMergeDownload(t *testing.T) {
	presence, ledger := fixtures(t)
	w := postMerge(t, newTestServer(t, nil), "", presence, ledger)

	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, constants.ContentTypeXLSX, w.Header().Get("Content-Type"))
	assert.Equal(t, "1", w.Header().Get(handlers.HeaderAppendedRows))
	assert.NotEmpty(t, w.Header().Get(handlers.HeaderRunID))
	assert.Contains(t, w.Header().Get("Content-Disposition"), "filename*=UTF-8''")

	f, err := excelize.OpenReader(bytes.NewReader(w.Body.Bytes()))
	require.NoError(t, err)
	defer func() { _ = f.Close() }()
	rows, err := f.GetRows(f.GetSheetName(0))
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, []string{"2024-05-02", "00012", "영업1팀", "홍길동", "09:00", "18:00", "8"}, rows[2])
}

func TestMergeDryRunReport(t *testing.T) {
	presence, ledger := fixtures(t)
	w := postMerge(t, newTestServer(t, nil), "?dry_run=true&key_policy=name", presence, ledger)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp struct {
		Data reconcile.Result `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.Data.Success)
	assert.Equal(t, 1, resp.Data.Appended)
	assert.True(t, resp.Data.Metadata.DryRun)
	assert.Equal(t, reconcile.KeyByName, resp.Data.Metadata.KeyPolicy)
}

func TestMergeUsesApplicationDefaults(t *testing.T) {
	presence, ledger := fixtures(t)
	cfg := DefaultConfig()
	cfg.RateLimit = 0
	app := &application.Mock{
		MergeOptionsFunc: func() []attendmerge.Option {
			return []attendmerge.Option{attendmerge.WithRunID("configured")}
		},
	}
	srv, err := New(app, cfg)
	require.NoError(t, err)

	w := postMerge(t, srv.Handler(context.Background()), "", presence, ledger)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "configured", w.Header().Get(handlers.HeaderRunID))
}

func TestMergeErrors(t *testing.T) {
	presence, ledger := fixtures(t)
	h := newTestServer(t, nil)

	t.Run("wrong method", func(t *testing.T) {
		w := httptest.NewRecorder()
		h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/merge", nil))
		assert.Equal(t, http.StatusMethodNotAllowed, w.Code)
	})

	t.Run("missing ledger", func(t *testing.T) {
		body, ct := multipartBody(t, map[string][2]string{"presence": {"p.xlsx", string(presence)}})
		req := httptest.NewRequest(http.MethodPost, "/api/v1/merge", body)
		req.Header.Set("Content-Type", ct)
		w := httptest.NewRecorder()
		h.ServeHTTP(w, req)
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, w.Body.String(), `\"ledger\"`)
	})

	t.Run("malformed ledger", func(t *testing.T) {
		w := postMerge(t, h, "", presence, presence)
		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
		assert.Contains(t, w.Body.String(), "MALFORMED_WORKBOOK")
	})

	t.Run("bad policy", func(t *testing.T) {
		w := postMerge(t, h, "?key_policy=badge", presence, ledger)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("unsupported format", func(t *testing.T) {
		body, ct := multipartBody(t, map[string][2]string{
			"presence": {"p.ods", string(presence)},
			"ledger":   {"l.xlsx", string(ledger)},
		})
		req := httptest.NewRequest(http.MethodPost, "/api/v1/merge", body)
		req.Header.Set("Content-Type", ct)
		w := httptest.NewRecorder()
		h.ServeHTTP(w, req)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("upload too large", func(t *testing.T) {
		small := newTestServer(t, func(c *Config) { c.MaxUploadMB = 1 })
		big := bytes.Repeat([]byte("x"), 2<<20)
		w := postMerge(t, small, "", big, ledger)
		assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)
	})
}

func TestInspectEndpoint(t *testing.T) {
	presence, _ := fixtures(t)
	h := newTestServer(t, nil)

	body, ct := multipartBody(t, map[string][2]string{"file": {"presence.xlsx", string(presence)}})
	req := httptest.NewRequest(http.MethodPost, "/api/v1/inspect?source=presence", body)
	req.Header.Set("Content-Type", ct)
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Contains(t, w.Body.String(), `"rows":2`)
	assert.Contains(t, w.Body.String(), `"header_row":1`)
}

func TestAuthAndCORSWiring(t *testing.T) {
	h := newTestServer(t, func(c *Config) {
		c.APIKey = "k"
		c.CORSEnabled = true
	})

	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/v1/merge", nil))
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))

	w = httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/health", nil))
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestNewRejectsInvalidConfig(t *testing.T) {
	cfg := DefaultConfig()
	cfg.MaxUploadMB = 0
	_, err := New(&application.Mock{}, cfg)
	assert.Error(t, err)
}

func TestServeShutsDownOnCancel(t *testing.T) {
	srv, err := New(&application.Mock{}, DefaultConfig())
	require.NoError(t, err)

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- srv.Serve(ctx, ln) }()

	url := "http://" + ln.Addr().String() + "/health"
	require.Eventually(t, func() bool {
		resp, err := http.Get(url)
		if err != nil {
			return false
		}
		_ = resp.Body.Close()
		return resp.StatusCode == http.StatusOK
	}, 2*time.Second, 20*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not shut down")
	}
}

func TestConfigAddr(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Host = "0.0.0.0"
	cfg.Port = 9090
	assert.Equal(t, "0.0.0.0:9090", cfg.Addr())
	assert.True(t, strings.Contains(cfg.String(), "max_upload_mb=20"))
}

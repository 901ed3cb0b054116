package web

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/xuri/excelize/v2"

	"github.com/byhelaman/sched-planner/internal/config"
	"github.com/byhelaman/sched-planner/internal/core"
	"github.com/byhelaman/sched-planner/internal/store"
)

type testEnv map[string]string

func (e testEnv) get(key string) string { return e[key] }

func newTestServer(t *testing.T, env testEnv) *Server {
	t.Helper()
	if env == nil {
		env = testEnv{}
	}
	if _, ok := env["RATE_LIMIT_ENABLED"]; !ok {
		env["RATE_LIMIT_ENABLED"] = "false"
	}
	cfg, err := config.LoadFrom(env.get)
	if err != nil {
		t.Fatalf("LoadFrom: %v", err)
	}

	svc, err := core.NewServiceFromConfig(cfg, store.NewMemory())
	if err != nil {
		t.Fatalf("NewServiceFromConfig: %v", err)
	}
	s := NewServer(svc, cfg)
	t.Cleanup(func() { s.Shutdown(context.Background()) })
	return s
}

// scheduleWorkbook returns a one-sheet schedule with one class per group.
func scheduleWorkbook(t *testing.T, groups ...string) []byte {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()

	set := func(col, row int, v any) {
		name, err := excelize.CoordinatesToCellName(col, row)
		if err != nil {
			t.Fatal(err)
		}
		if err := f.SetCellValue("Sheet1", name, v); err != nil {
			t.Fatal(err)
		}
	}
	set(1, 1, "Horario")
	set(15, 2, "19/10/2026")
	set(22, 2, "CORPORATE")
	set(1, 5, "IC001")
	set(1, 6, "Jane Doe")
	for i, g := range groups {
		set(1, 8+i, "14:00 (02:00 p.m.)")
		set(4, 8+i, "15:00 (03:00 p.m.)")
		set(18, 8+i, g)
		set(26, 8+i, "Adults 30")
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

type upload struct {
	name string
	data []byte
}

func uploadRequest(t *testing.T, sessionID string, files ...upload) *http.Request {
	t.Helper()
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	for _, f := range files {
		w, err := mw.CreateFormFile("files", f.name)
		if err != nil {
			t.Fatal(err)
		}
		if _, err := w.Write(f.data); err != nil {
			t.Fatal(err)
		}
	}
	if err := mw.Close(); err != nil {
		t.Fatal(err)
	}

	req := httptest.NewRequest(http.MethodPost, "/api/schedules", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	if sessionID != "" {
		req.Header.Set(SessionHeader, sessionID)
	}
	return req
}

func serve(s *Server, req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	s.Router().ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	if err := json.Unmarshal(rec.Body.Bytes(), &v); err != nil {
		t.Fatalf("decode %q: %v", rec.Body.String(), err)
	}
	return v
}

func TestHealth(t *testing.T) {
	s := newTestServer(t, nil)
	rec := serve(s, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if got := rec.Header().Get("X-Content-Type-Options"); got != "nosniff" {
		t.Errorf("X-Content-Type-Options = %q", got)
	}
}

func TestUploadListDeleteExport(t *testing.T) {
	s := newTestServer(t, nil)

	rec := serve(s, uploadRequest(t, "", upload{"lunes.xlsx", scheduleWorkbook(t, "A", "B", "C")}))
	if rec.Code != http.StatusOK {
		t.Fatalf("upload status = %d, body %s", rec.Code, rec.Body)
	}
	res := decode[core.IngestResult](t, rec)
	if res.Added != 3 || !store.ValidID(res.SessionID) {
		t.Fatalf("upload result = %+v", res)
	}

	var cookie *http.Cookie
	for _, c := range rec.Result().Cookies() {
		if c.Name == "sched_session" {
			cookie = c
		}
	}
	if cookie == nil || cookie.Value != res.SessionID || !cookie.HttpOnly {
		t.Fatalf("session cookie = %+v", cookie)
	}

	list := httptest.NewRequest(http.MethodGet, "/api/schedules", nil)
	list.AddCookie(cookie)
	rec = serve(s, list)
	if rec.Code != http.StatusOK {
		t.Fatalf("list status = %d", rec.Code)
	}
	body := decode[scheduleResponse](t, rec)
	if body.Count != 3 || len(body.Columns) != 10 {
		t.Fatalf("list = %+v", body)
	}
	if r := body.Records[0]; r.Area != "CORPORATE" || r.Minutes != "30" || r.StartTime != "02:00 PM" {
		t.Errorf("record = %+v", r)
	}

	form := url.Values{"selected_rows": {"0,2"}}
	del := httptest.NewRequest(http.MethodPost, "/api/schedules/delete", strings.NewReader(form.Encode()))
	del.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	del.AddCookie(cookie)
	rec = serve(s, del)
	if rec.Code != http.StatusOK {
		t.Fatalf("delete status = %d, body %s", rec.Code, rec.Body)
	}
	body = decode[scheduleResponse](t, rec)
	if body.Count != 1 || body.Records[0].Group != "B" {
		t.Errorf("after delete = %+v", body)
	}

	tsv := httptest.NewRequest(http.MethodGet, "/api/schedules/export.tsv", nil)
	tsv.Header.Set(SessionHeader, res.SessionID)
	rec = serve(s, tsv)
	if rec.Code != http.StatusOK {
		t.Fatalf("tsv status = %d", rec.Code)
	}
	if got := rec.Body.String(); strings.Count(got, "\n") != 1 || !strings.Contains(got, "\tB\t") {
		t.Errorf("tsv = %q", got)
	}

	export := httptest.NewRequest(http.MethodGet, "/api/schedules/export?clear=true", nil)
	export.AddCookie(cookie)
	rec = serve(s, export)
	if rec.Code != http.StatusOK {
		t.Fatalf("export status = %d", rec.Code)
	}
	if got := rec.Header().Get("Content-Disposition"); !strings.Contains(got, "schedule.xlsx") {
		t.Errorf("Content-Disposition = %q", got)
	}
	f, err := excelize.OpenReader(rec.Body)
	if err != nil {
		t.Fatalf("export is not a workbook: %v", err)
	}
	f.Close()

	list = httptest.NewRequest(http.MethodGet, "/api/schedules", nil)
	list.AddCookie(cookie)
	rec = serve(s, list)
	if rec.Code != http.StatusNotFound {
		t.Errorf("list after clear: status = %d, want 404", rec.Code)
	}
	if e := decode[ErrorResponse](t, rec); e.Code != "SES001" {
		t.Errorf("code = %q, want SES001", e.Code)
	}
}

func TestUpload_MergesWithSession(t *testing.T) {
	s := newTestServer(t, nil)

	rec := serve(s, uploadRequest(t, "", upload{"a.xlsx", scheduleWorkbook(t, "A")}))
	first := decode[core.IngestResult](t, rec)

	rec = serve(s, uploadRequest(t, first.SessionID,
		upload{"b.xlsx", scheduleWorkbook(t, "B")},
		upload{"readme.txt", []byte("hi")},
	))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body)
	}
	second := decode[core.IngestResult](t, rec)
	if second.SessionID != first.SessionID || second.Total != 2 {
		t.Errorf("second upload = %+v", second)
	}
	if len(second.Ignored) != 1 {
		t.Errorf("Ignored = %v", second.Ignored)
	}
}

func TestUpload_Errors(t *testing.T) {
	s := newTestServer(t, testEnv{"UPLOAD_MAX_FILE_SIZE": "2048"})

	tests := []struct {
		name   string
		req    *http.Request
		status int
		code   string
	}{
		{
			name:   "no files",
			req:    uploadRequest(t, ""),
			status: http.StatusBadRequest,
			code:   "FILE003",
		},
		{
			name:   "no workbooks",
			req:    uploadRequest(t, "", upload{"a.csv", []byte("a,b")}),
			status: http.StatusBadRequest,
			code:   "FILE004",
		},
		{
			name:   "unreadable workbook",
			req:    uploadRequest(t, "", upload{"a.xlsx", []byte("garbage")}),
			status: http.StatusUnprocessableEntity,
			code:   "FILE005",
		},
		{
			name:   "too large",
			req:    uploadRequest(t, "", upload{"big.xlsx", bytes.Repeat([]byte("x"), 4096)}),
			status: http.StatusRequestEntityTooLarge,
			code:   "FILE001",
		},
		{
			name:   "not multipart",
			req:    httptest.NewRequest(http.MethodPost, "/api/schedules", strings.NewReader("x")),
			status: http.StatusBadRequest,
			code:   "FILE003",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := serve(s, tt.req)
			if rec.Code != tt.status {
				t.Fatalf("status = %d, want %d (body %s)", rec.Code, tt.status, rec.Body)
			}
			if e := decode[ErrorResponse](t, rec); e.Code != tt.code {
				t.Errorf("code = %q, want %q", e.Code, tt.code)
			}
		})
	}
}

func TestList_NoSession(t *testing.T) {
	s := newTestServer(t, nil)

	rec := serve(s, httptest.NewRequest(http.MethodGet, "/api/schedules", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if body := decode[scheduleResponse](t, rec); body.Count != 0 || body.Records == nil {
		t.Errorf("body = %+v, want empty records", body)
	}

	req := httptest.NewRequest(http.MethodGet, "/api/schedules", nil)
	req.Header.Set(SessionHeader, "../../etc/passwd")
	if rec := serve(s, req); rec.Code != http.StatusOK {
		t.Errorf("malformed id: status = %d, want 200", rec.Code)
	}
}

func TestExport_NoSession(t *testing.T) {
	s := newTestServer(t, nil)
	rec := serve(s, httptest.NewRequest(http.MethodGet, "/api/schedules/export", nil))
	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", rec.Code)
	}
}

func TestDeleteRows_InvalidSelection(t *testing.T) {
	s := newTestServer(t, nil)
	req := httptest.NewRequest(http.MethodPost, "/api/schedules/delete?selected_rows=1,a", nil)
	req.Header.Set(SessionHeader, store.NewID())

	rec := serve(s, req)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
	if e := decode[ErrorResponse](t, rec); e.Code != "SES002" {
		t.Errorf("code = %q, want SES002", e.Code)
	}
}

func TestDiscard(t *testing.T) {
	s := newTestServer(t, nil)
	res := decode[core.IngestResult](t, serve(s, uploadRequest(t, "", upload{"a.xlsx", scheduleWorkbook(t, "A")})))

	req := httptest.NewRequest(http.MethodDelete, "/api/schedules", nil)
	req.Header.Set(SessionHeader, res.SessionID)
	if rec := serve(s, req); rec.Code != http.StatusNoContent {
		t.Fatalf("status = %d, want 204", rec.Code)
	}

	req = httptest.NewRequest(http.MethodGet, "/api/schedules", nil)
	req.Header.Set(SessionHeader, res.SessionID)
	if rec := serve(s, req); rec.Code != http.StatusNotFound {
		t.Errorf("status after discard = %d, want 404", rec.Code)
	}
}

func TestRateLimit(t *testing.T) {
	s := newTestServer(t, testEnv{
		"RATE_LIMIT_ENABLED":             "true",
		"RATE_LIMIT_REQUESTS_PER_MINUTE": "2",
	})

	for i := 0; i < 2; i++ {
		if rec := serve(s, httptest.NewRequest(http.MethodGet, "/healthz", nil)); rec.Code != http.StatusOK {
			t.Fatalf("request %d: status = %d", i, rec.Code)
		}
	}
	rec := serve(s, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	if rec.Code != http.StatusTooManyRequests {
		t.Fatalf("status = %d, want 429", rec.Code)
	}
	if e := decode[ErrorResponse](t, rec); e.Code != "RATE001" {
		t.Errorf("code = %q, want RATE001", e.Code)
	}
}

func TestCleanFilename(t *testing.T) {
	tests := map[string]string{
		"horario.xlsx":             "horario.xlsx",
		"dir/horario.xlsx":         "horario.xlsx",
		`C:\Users\me\horario.xlsx`: "horario.xlsx",
	}
	for in, want := range tests {
		if got := cleanFilename(in); got != want {
			t.Errorf("cleanFilename(%q) = %q, want %q", in, got, want)
		}
	}
}

package ui

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"clinicsetup/adapters/excel"
	"clinicsetup/app"
	"clinicsetup/internal"
	apperrors "clinicsetup/internal/errors"
	"clinicsetup/internal/session"
	"clinicsetup/internal/testkit"
)

type serverFixture struct {
	extractor *testkit.MockExtractor
	handler   http.Handler
}

func newServerFixture(t *testing.T) *serverFixture {
	t.Helper()
	gin.SetMode(gin.TestMode)

	logger := internal.NewLoggerTo(&bytes.Buffer{}, internal.LogLevelError, "text")
	store := session.NewStore()
	extractor := &testkit.MockExtractor{}
	imports := app.NewImportService(store, excel.NewWorkbookReader(logger), testkit.NewMemoryUploadStore(), extractor, nil, app.ImportConfig{MaxUploadBytes: 1 << 20}, logger)
	sessions := app.NewSessionService(store, logger)

	return &serverFixture{
		extractor: extractor,
		handler:   NewServer(imports, sessions, logger).Handler(),
	}
}

func (f *serverFixture) do(t *testing.T, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	f.handler.ServeHTTP(w, req)
	return w
}

func (f *serverFixture) upload(t *testing.T, path, filename string, data []byte) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile("file", filename)
	require.NoError(t, err)
	_, err = part.Write(data)
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, path, &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	w := httptest.NewRecorder()
	f.handler.ServeHTTP(w, req)
	return w
}

func (f *serverFixture) createSession(t *testing.T) session.Snapshot {
	t.Helper()
	w := f.do(t, http.MethodPost, "/api/sessions", nil)
	require.Equal(t, http.StatusCreated, w.Code)
	var snap session.Snapshot
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &snap))
	return snap
}

func decodeError(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	var body struct {
		Error string `json:"error"`
		Code  string `json:"code"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.NotEmpty(t, body.Error)
	return body.Code
}

func TestHealth(t *testing.T) {
	f := newServerFixture(t)
	w := f.do(t, http.MethodGet, "/healthz", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))
}

func TestSessionLifecycle(t *testing.T) {
	f := newServerFixture(t)
	snap := f.createSession(t)
	assert.NotEmpty(t, snap.ID)
	assert.Equal(t, session.StepPreSetup, snap.CurrentStep)

	w := f.do(t, http.MethodGet, "/api/sessions/"+snap.ID, nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w = f.do(t, http.MethodPut, "/api/sessions/"+snap.ID+"/step", map[string]string{"step": "services"})
	require.Equal(t, http.StatusOK, w.Code)
	var updated session.Snapshot
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &updated))
	assert.Equal(t, "services", updated.CurrentStep)

	w = f.do(t, http.MethodPut, "/api/sessions/"+snap.ID+"/step", map[string]string{"step": "nope"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, apperrors.CodeInvalidInput, decodeError(t, w))

	w = f.do(t, http.MethodDelete, "/api/sessions/"+snap.ID, nil)
	assert.Equal(t, http.StatusNoContent, w.Code)

	w = f.do(t, http.MethodGet, "/api/sessions/"+snap.ID, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, apperrors.CodeNotFound, decodeError(t, w))
}

func TestReplaceCollectionNormalizes(t *testing.T) {
	f := newServerFixture(t)
	snap := f.createSession(t)
	path := "/api/sessions/" + snap.ID + "/collections/services"

	w := f.do(t, http.MethodPut, path, []any{
		map[string]any{"service_name": "Facial", "deposit_amount": "$120"},
	})
	require.Equal(t, http.StatusOK, w.Code)

	w = f.do(t, http.MethodGet, path, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var records []map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &records))
	require.Len(t, records, 1)
	assert.Equal(t, "Facial", records[0]["service_name"])
	assert.Equal(t, 120.0, records[0]["deposit_amount"])

	w = f.do(t, http.MethodPut, path, map[string]any{"not": "an array"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, apperrors.CodeInvalidInput, decodeError(t, w))

	w = f.do(t, http.MethodGet, "/api/sessions/"+snap.ID+"/collections/widgets", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, apperrors.CodeUnknownDomain, decodeError(t, w))
}

func TestImportEndpoint(t *testing.T) {
	f := newServerFixture(t)
	snap := f.createSession(t)

	f.extractor.On("Extract", mock.Anything, mock.Anything).Return(testkit.Response(map[string][]any{
		"memberships": {
			map[string]any{"membership_name": "Gold", "monthly_fee": 60, "payment_frequency": "monthly"},
		},
	}), nil)

	data := testkit.Workbook(t, testkit.SheetData{
		Name: "Memberships",
		Rows: [][]any{
			{"Name", "Monthly Fee", "Billing Cycle"},
			{"Gold", 60, "Monthly"},
		},
	})
	w := f.upload(t, "/api/sessions/"+snap.ID+"/imports/memberships", "memberships.xlsx", data)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var result app.ImportResult
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &result))
	assert.Equal(t, "memberships", result.Domain)
	require.Len(t, result.Collections["memberships"], 1)
	assert.Equal(t, "Gold", result.Collections["memberships"][0]["membership_name"])

	w = f.do(t, http.MethodGet, "/api/sessions/"+snap.ID+"/imports/memberships", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var status app.ImportStatus
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &status))
	assert.False(t, status.InFlight)
}

func TestImportErrorsMapToStatus(t *testing.T) {
	f := newServerFixture(t)
	snap := f.createSession(t)

	tests := []struct {
		name     string
		path     string
		filename string
		data     []byte
		status   int
		code     string
	}{
		{"legacy xls", "/api/sessions/" + snap.ID + "/imports/memberships", "old.xls", []byte("x"), http.StatusBadRequest, apperrors.CodeInvalidFileType},
		{"unknown domain", "/api/sessions/" + snap.ID + "/imports/widgets", "a.xlsx", []byte("x"), http.StatusNotFound, apperrors.CodeUnknownDomain},
		{"unknown session", "/api/sessions/missing/imports/memberships", "a.xlsx", []byte("x"), http.StatusNotFound, apperrors.CodeNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := f.upload(t, tt.path, tt.filename, tt.data)
			assert.Equal(t, tt.status, w.Code)
			assert.Equal(t, tt.code, decodeError(t, w))
		})
	}
	f.extractor.AssertNotCalled(t, "Extract", mock.Anything, mock.Anything)
}

func TestImportRequiresFileField(t *testing.T) {
	f := newServerFixture(t)
	snap := f.createSession(t)

	w := f.do(t, http.MethodPost, "/api/sessions/"+snap.ID+"/imports/memberships", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, apperrors.CodeInvalidInput, decodeError(t, w))
}

func TestUploadsOverTheLimitAreRejected(t *testing.T) {
	f := newServerFixture(t)
	snap := f.createSession(t)
	big := bytes.Repeat([]byte{'x'}, 3<<20)

	for _, path := range []string{"/api/sessions/" + snap.ID + "/imports/memberships", "/api/preview/memberships"} {
		w := f.upload(t, path, "big.xlsx", big)
		assert.Equal(t, http.StatusBadRequest, w.Code, path)
		assert.Equal(t, apperrors.CodeInvalidInput, decodeError(t, w), path)
	}
	f.extractor.AssertNotCalled(t, "Extract", mock.Anything, mock.Anything)
}

func TestBlankSessionIDIsInvalid(t *testing.T) {
	f := newServerFixture(t)

	for _, method := range []string{http.MethodGet, http.MethodDelete} {
		w := f.do(t, method, "/api/sessions/%20", nil)
		assert.Equal(t, http.StatusBadRequest, w.Code, method)
		assert.Equal(t, apperrors.CodeInvalidInput, decodeError(t, w), method)
	}
}

func TestStatusFor(t *testing.T) {
	assert.Equal(t, http.StatusConflict, statusFor(apperrors.CodeImportInFlight))
	assert.Equal(t, http.StatusBadGateway, statusFor(apperrors.CodeExtractionResponseInvalid))
	assert.Equal(t, http.StatusBadRequest, statusFor(apperrors.CodeHeaderNotFound))
	assert.Equal(t, http.StatusInternalServerError, statusFor(apperrors.CodeInternalError))
}

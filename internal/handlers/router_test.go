package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xelth-com/jobintake/internal/config"
	"github.com/xelth-com/jobintake/internal/database"
	"github.com/xelth-com/jobintake/internal/logger"
	"github.com/xelth-com/jobintake/internal/models"
	"github.com/xelth-com/jobintake/internal/render"
	authService "github.com/xelth-com/jobintake/internal/services/auth"
	"github.com/xelth-com/jobintake/internal/services/printer"
	"github.com/xelth-com/jobintake/internal/services/records"
	"github.com/xelth-com/jobintake/internal/session"
	"github.com/xelth-com/jobintake/internal/utils"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

type captureMailer struct {
	mu   sync.Mutex
	last authService.Message
}

func (m *captureMailer) Send(ctx context.Context, msg authService.Message) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.last = msg
	return nil
}

type testEnv struct {
	router *Router
	token  string
	mailer *captureMailer
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	gdb, err := gorm.Open(sqlite.Open("file:"+uuid.NewString()+"?mode=memory&cache=shared"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	db := database.Wrap(gdb, logger.Nop())
	require.NoError(t, db.Migrate())
	t.Cleanup(func() { _ = db.Close() })

	cfg := &config.Config{
		JWTSecret:     "test-secret",
		PublicBaseURL: "https://jobs.example.com",
		PDF:           config.PDFConfig{FooterTimestamp: true},
	}
	log := logger.Nop()
	revoker := session.NewMemoryRevoker()
	mailer := &captureMailer{}

	measurer, err := printer.NewMeasurer()
	require.NoError(t, err)
	renderer, err := render.New(measurer)
	require.NoError(t, err)

	router := NewRouter(cfg, log,
		records.NewService(db, log),
		authService.NewService(db, cfg, revoker, mailer, log),
		renderer, revoker)
	router.now = func() time.Time { return time.Date(2026, 10, 15, 9, 30, 0, 0, time.UTC) }

	token, _, err := utils.GenerateTokens(&models.UserAuth{ID: uuid.NewString(), Email: "alice@example.com"}, cfg)
	require.NoError(t, err)

	return &testEnv{router: router, token: token, mailer: mailer}
}

func (e *testEnv) do(t *testing.T, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	return e.doAs(t, e.token, method, path, body)
}

func (e *testEnv) doAs(t *testing.T, token, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rr := httptest.NewRecorder()
	e.router.ServeHTTP(rr, req)
	return rr
}

func (e *testEnv) createRecord(t *testing.T, in models.RecordInput) models.JobRecord {
	t.Helper()
	rr := e.do(t, http.MethodPost, "/api/records", in)
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())
	var rec models.JobRecord
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &rec))
	return rec
}

func TestHealthAndStatus(t *testing.T) {
	env := newTestEnv(t)

	rr := env.doAs(t, "", http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusOK, rr.Code)

	rr = env.doAs(t, "", http.MethodGet, "/api/status", nil)
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), `"status":"running"`)
}

func TestRecordsRequireSession(t *testing.T) {
	env := newTestEnv(t)

	rr := env.doAs(t, "", http.MethodGet, "/api/records", nil)
	assert.Equal(t, http.StatusUnauthorized, rr.Code)

	rr = env.doAs(t, "not-a-token", http.MethodGet, "/api/records", nil)
	assert.Equal(t, http.StatusUnauthorized, rr.Code)
}

func TestCreateValidation(t *testing.T) {
	env := newTestEnv(t)

	rr := env.do(t, http.MethodPost, "/api/records", models.RecordInput{Location: "Downtown"})
	require.Equal(t, http.StatusUnprocessableEntity, rr.Code)

	var body struct {
		Error  string            `json:"error"`
		Fields map[string]string `json:"fields"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
	assert.Equal(t, "Please fill in all required fields", body.Error)
	assert.Contains(t, body.Fields, "job_name")
	assert.Contains(t, body.Fields, "job_number")

	rr = env.do(t, http.MethodPost, "/api/records", "not an object")
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestRecordLifecycle(t *testing.T) {
	env := newTestEnv(t)

	tower := env.createRecord(t, models.RecordInput{JobName: "Tower A", JobNumber: "J-100", Location: "Downtown", PM: "Alice"})
	bridge := env.createRecord(t, models.RecordInput{JobName: "Bridge B", JobNumber: "J-200"})

	rr := env.do(t, http.MethodGet, "/api/records/"+tower.ID, nil)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), `"job_name":"Tower A"`)

	// search
	rr = env.do(t, http.MethodGet, "/api/records?q=tower", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	var found []models.JobRecord
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &found))
	require.Len(t, found, 1)
	assert.Equal(t, tower.ID, found[0].ID)

	// update
	rr = env.do(t, http.MethodPut, "/api/records/"+bridge.ID, models.RecordInput{JobName: "Bridge C", JobNumber: "J-200"})
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), `"job_name":"Bridge C"`)

	// delete
	rr = env.do(t, http.MethodDelete, "/api/records/"+tower.ID, nil)
	require.Equal(t, http.StatusOK, rr.Code)

	rr = env.do(t, http.MethodGet, "/api/records", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	var all []models.JobRecord
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &all))
	require.Len(t, all, 1)
	assert.Equal(t, bridge.ID, all[0].ID)

	rr = env.do(t, http.MethodGet, "/api/records/"+tower.ID, nil)
	assert.Equal(t, http.StatusNotFound, rr.Code)
	rr = env.do(t, http.MethodDelete, "/api/records/"+tower.ID, nil)
	assert.Equal(t, http.StatusNotFound, rr.Code)
	rr = env.do(t, http.MethodGet, "/api/records/not-a-uuid", nil)
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestListLimit(t *testing.T) {
	env := newTestEnv(t)
	env.createRecord(t, models.RecordInput{JobName: "One", JobNumber: "1"})
	env.createRecord(t, models.RecordInput{JobName: "Two", JobNumber: "2"})

	rr := env.do(t, http.MethodGet, "/api/records?limit=1", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	var list []models.JobRecord
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &list))
	assert.Len(t, list, 1)

	rr = env.do(t, http.MethodGet, "/api/records?limit=abc", nil)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestFormPDF(t *testing.T) {
	env := newTestEnv(t)

	rr := env.do(t, http.MethodPost, "/api/records/pdf", models.RecordInput{JobName: "Tower A", JobNumber: "J-100"})
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	assert.Equal(t, "application/pdf", rr.Header().Get("Content-Type"))
	assert.True(t, bytes.HasPrefix(rr.Body.Bytes(), []byte("%PDF-")))

	want := render.FileName("J-100", "1792056600000")
	assert.Contains(t, rr.Header().Get("Content-Disposition"), want)

	// nothing is saved
	rr = env.do(t, http.MethodGet, "/api/records", nil)
	assert.Equal(t, "[]", strings.TrimSpace(rr.Body.String()))

	rr = env.do(t, http.MethodPost, "/api/records/pdf", models.RecordInput{JobName: "No number"})
	assert.Equal(t, http.StatusUnprocessableEntity, rr.Code)
}

func TestRecordPDF(t *testing.T) {
	env := newTestEnv(t)
	rec := env.createRecord(t, models.RecordInput{JobName: "Tower A", JobNumber: "J/100", Notes: "Bring ID"})

	rr := env.do(t, http.MethodGet, "/api/records/"+rec.ID+"/pdf", nil)
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	assert.True(t, bytes.HasPrefix(rr.Body.Bytes(), []byte("%PDF-")))
	assert.Contains(t, rr.Header().Get("Content-Disposition"), "Job_Intake_J_100.pdf")

	rr = env.do(t, http.MethodGet, "/api/records/"+uuid.NewString()+"/pdf", nil)
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestRecordPDFSurvivesCallerCancellation(t *testing.T) {
	env := newTestEnv(t)
	rec := env.createRecord(t, models.RecordInput{JobName: "Tower A", JobNumber: "J-100"})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	req := httptest.NewRequest(http.MethodGet, "/api/records/"+rec.ID+"/pdf", nil).WithContext(ctx)
	req.Header.Set("Authorization", "Bearer "+env.token)
	rr := httptest.NewRecorder()
	env.router.ServeHTTP(rr, req)

	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	assert.True(t, bytes.HasPrefix(rr.Body.Bytes(), []byte("%PDF-")))
}

func TestConcurrentRecordPDFDownloads(t *testing.T) {
	env := newTestEnv(t)
	rec := env.createRecord(t, models.RecordInput{JobName: "Tower A", JobNumber: "J-100"})

	var wg sync.WaitGroup
	codes := make([]int, 4)
	for i := range codes {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			ctx, cancel := context.WithCancel(context.Background())
			if i == 0 {
				// first caller goes away immediately
				cancel()
			} else {
				defer cancel()
			}
			req := httptest.NewRequest(http.MethodGet, "/api/records/"+rec.ID+"/pdf", nil).WithContext(ctx)
			req.Header.Set("Authorization", "Bearer "+env.token)
			rr := httptest.NewRecorder()
			env.router.ServeHTTP(rr, req)
			codes[i] = rr.Code
		}(i)
	}
	wg.Wait()

	for i, code := range codes {
		assert.Equal(t, http.StatusOK, code, "download %d", i)
	}
}

func TestExportXLSX(t *testing.T) {
	env := newTestEnv(t)
	env.createRecord(t, models.RecordInput{JobName: "Tower A", JobNumber: "J-100"})

	rr := env.do(t, http.MethodGet, "/api/records/export.xlsx", nil)
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	assert.Contains(t, rr.Header().Get("Content-Type"), "spreadsheetml")
	// xlsx is a zip archive
	assert.True(t, bytes.HasPrefix(rr.Body.Bytes(), []byte("PK")))
}

func TestAuthFlow(t *testing.T) {
	env := newTestEnv(t)
	creds := CredentialsRequest{Email: "bob@example.com", Password: "secret1"}

	rr := env.doAs(t, "", http.MethodPost, "/auth/signup", creds)
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())
	assert.Contains(t, rr.Body.String(), "Please check your email to confirm")

	rr = env.doAs(t, "", http.MethodPost, "/auth/signup", creds)
	assert.Equal(t, http.StatusConflict, rr.Code)

	rr = env.doAs(t, "", http.MethodPost, "/auth/login", creds)
	require.Equal(t, http.StatusUnauthorized, rr.Code)
	assert.Contains(t, rr.Body.String(), "Please verify your email address before logging in.")

	confirmToken := env.mailer.last.Link[strings.Index(env.mailer.last.Link, "token=")+len("token="):]
	rr = env.doAs(t, "", http.MethodPost, "/auth/confirm", TokenRequest{Token: confirmToken})
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())

	rr = env.doAs(t, "", http.MethodPost, "/auth/login", creds)
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	var login struct {
		Tokens authService.Tokens `json:"tokens"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &login))
	access := login.Tokens.AccessToken
	require.NotEmpty(t, access)

	rr = env.doAs(t, access, http.MethodGet, "/auth/session", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), "bob@example.com")

	// refresh tokens do not open a session
	rr = env.doAs(t, login.Tokens.RefreshToken, http.MethodGet, "/auth/session", nil)
	assert.Equal(t, http.StatusUnauthorized, rr.Code)

	rr = env.doAs(t, "", http.MethodPost, "/auth/refresh", RefreshRequest{RefreshToken: login.Tokens.RefreshToken})
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	var refreshed struct {
		Tokens authService.Tokens `json:"tokens"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &refreshed))
	require.NotEmpty(t, refreshed.Tokens.AccessToken)

	rr = env.doAs(t, refreshed.Tokens.AccessToken, http.MethodGet, "/auth/session", nil)
	assert.Equal(t, http.StatusOK, rr.Code)

	// used refresh tokens are rejected
	rr = env.doAs(t, "", http.MethodPost, "/auth/refresh", RefreshRequest{RefreshToken: login.Tokens.RefreshToken})
	assert.Equal(t, http.StatusUnauthorized, rr.Code)

	rr = env.doAs(t, access, http.MethodPost, "/auth/logout", RefreshRequest{RefreshToken: refreshed.Tokens.RefreshToken})
	require.Equal(t, http.StatusOK, rr.Code)

	rr = env.doAs(t, "", http.MethodPost, "/auth/refresh", RefreshRequest{RefreshToken: refreshed.Tokens.RefreshToken})
	assert.Equal(t, http.StatusUnauthorized, rr.Code)

	rr = env.doAs(t, access, http.MethodGet, "/auth/session", nil)
	assert.Equal(t, http.StatusUnauthorized, rr.Code)
	rr = env.doAs(t, access, http.MethodGet, "/api/records", nil)
	assert.Equal(t, http.StatusUnauthorized, rr.Code)
}

func TestPasswordResetFlow(t *testing.T) {
	env := newTestEnv(t)

	rr := env.doAs(t, "", http.MethodPost, "/auth/reset-password", CredentialsRequest{Email: "nobody@example.com"})
	assert.Equal(t, http.StatusOK, rr.Code)

	rr = env.doAs(t, "", http.MethodPost, "/auth/reset-password", CredentialsRequest{Email: "bad"})
	assert.Equal(t, http.StatusBadRequest, rr.Code)

	rr = env.doAs(t, "", http.MethodPost, "/auth/update-password", TokenRequest{Token: "garbage", Password: "newsecret"})
	assert.Equal(t, http.StatusUnauthorized, rr.Code)
}

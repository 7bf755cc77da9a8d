package handlers

import (
	"context"
	"net/http"

	"thermocycle"
	"thermocycle/internal/service"

	"github.com/gin-gonic/gin"
)

// ---- Service Mocks ----

type mockAuth struct {
	signUpID      int
	signUpErr     error
	genTokenToken string
	genTokenErr   error
	parseID       int
	parseErr      error

	lastSignUpUsername string
	lastSignUpPassword string
	lastGenUsername    string
	lastGenPassword    string
	lastParseToken     string
}

func (m *mockAuth) SignUp(username, password string) (int, error) {
	m.lastSignUpUsername = username
	m.lastSignUpPassword = password
	return m.signUpID, m.signUpErr
}
func (m *mockAuth) GenerateToken(username, password string) (string, error) {
	m.lastGenUsername = username
	m.lastGenPassword = password
	return m.genTokenToken, m.genTokenErr
}
func (m *mockAuth) ParseToken(token string) (int, error) {
	m.lastParseToken = token
	return m.parseID, m.parseErr
}

type mockProfiles struct {
	generateResp thermocycle.ProfileRun
	generateErr  error
	getResp      thermocycle.ProfileRun
	getErr       error
	listResp     []thermocycle.RunSummary
	listErr      error
	annResp      []thermocycle.LabelPlacement
	annErr       error

	lastGenerate  service.GenerateParams
	lastGetID     string
	lastFilter    service.RunFilter
	lastAnnID     string
	generateCalls int
	listCalls     int
}

func (m *mockProfiles) Generate(ctx context.Context, p service.GenerateParams) (thermocycle.ProfileRun, error) {
	m.generateCalls++
	m.lastGenerate = p
	return m.generateResp, m.generateErr
}
func (m *mockProfiles) Get(ctx context.Context, id string) (thermocycle.ProfileRun, error) {
	m.lastGetID = id
	return m.getResp, m.getErr
}
func (m *mockProfiles) List(ctx context.Context, f service.RunFilter) ([]thermocycle.RunSummary, error) {
	m.listCalls++
	m.lastFilter = f
	return m.listResp, m.listErr
}
func (m *mockProfiles) Annotations(ctx context.Context, id string) ([]thermocycle.LabelPlacement, error) {
	m.lastAnnID = id
	return m.annResp, m.annErr
}

type mockExports struct {
	workbookName string
	workbookRaw  []byte
	workbookErr  error
	chartName    string
	chartRaw     []byte
	chartErr     error

	lastWorkbookID string
	lastChartID    string
}

func (m *mockExports) Workbook(ctx context.Context, id string) (string, []byte, error) {
	m.lastWorkbookID = id
	return m.workbookName, m.workbookRaw, m.workbookErr
}
func (m *mockExports) Chart(ctx context.Context, id string) (string, []byte, error) {
	m.lastChartID = id
	return m.chartName, m.chartRaw, m.chartErr
}

// ---- Shared Test Helpers ----

func newTestRouter(s *service.Service) *gin.Engine {
	h := NewHandler(s, nil)
	gin.SetMode(gin.TestMode)
	return h.InitRoutes()
}

func authHeader(token string) http.Header {
	h := http.Header{}
	if token != "" {
		h.Set("Authorization", "Bearer "+token)
	}
	return h
}

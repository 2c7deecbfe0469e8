package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"medreps/internal/config"
	"medreps/internal/directory"
	"medreps/internal/events"
	"medreps/internal/models"
	"medreps/internal/repository/memory"
	"medreps/internal/service"
)

func newTestRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	cfg := &config.AppConfig{
		Environment: "test",
		Storage:     config.StorageConfig{Driver: config.StorageDriverMemory},
		Security: config.SecurityConfig{
			JWTAccessSecret: "handler-test-secret",
			JWTAccessTTL:    time.Hour,
		},
		Aggregation: config.AggregationConfig{
			Mode:          config.AggregationScan,
			ReportsWindow: 50,
			PlansWindow:   20,
			RecentReports: 10,
		},
	}
	services := service.New(cfg, directory.Default(), memory.NewSet(), events.Discard{}, nil, zerolog.Nop())

	h := NewHandlerSet(zerolog.Nop(), cfg, Dependencies{
		Auth:        services.Auth,
		Plans:       services.Plans,
		Reports:     services.Reports,
		Hospitals:   services.Hospitals,
		Aggregation: services.Aggregation,
	})

	engine := gin.New()
	h.Register(engine.Group("/api"))
	return engine
}

func do(t *testing.T, router http.Handler, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func login(t *testing.T, router http.Handler, code string) string {
	t.Helper()
	rec := do(t, router, http.MethodPost, "/api/v1/auth/login", "", map[string]string{"code": code})
	require.Equal(t, http.StatusOK, rec.Code)

	var resp loginResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.True(t, resp.Success)
	return resp.AccessToken
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	return out
}

func TestLogin(t *testing.T) {
	router := newTestRouter(t)

	rec := do(t, router, http.MethodPost, "/api/v1/auth/login", "", map[string]string{"code": "REP_1"})
	require.Equal(t, http.StatusOK, rec.Code)
	body := decode[map[string]any](t, rec)
	assert.Equal(t, true, body["success"])
	assert.Equal(t, "representative", body["role"])
	assert.Equal(t, "Ahmed Nashaat", body["userName"])
	assert.Len(t, body["areas"], 5)

	rec = do(t, router, http.MethodPost, "/api/v1/auth/login", "", map[string]string{"code": "MANAGER@2026"})
	require.Equal(t, http.StatusOK, rec.Code)
	body = decode[map[string]any](t, rec)
	assert.Equal(t, "manager", body["role"])
	_, hasAreas := body["areas"]
	assert.False(t, hasAreas)

	rec = do(t, router, http.MethodPost, "/api/v1/auth/login", "", map[string]string{"code": "WRONG"})
	require.Equal(t, http.StatusOK, rec.Code)
	body = decode[map[string]any](t, rec)
	assert.Equal(t, false, body["success"])
	assert.Equal(t, "Invalid access code", body["message"])

	rec = do(t, router, http.MethodPost, "/api/v1/auth/login", "", map[string]string{"code": "   "})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestProtectedRoutesNeedToken(t *testing.T) {
	router := newTestRouter(t)

	rec := do(t, router, http.MethodGet, "/api/v1/plans", "", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = do(t, router, http.MethodGet, "/api/v1/plans", "forged", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestLogoutRevokesToken(t *testing.T) {
	router := newTestRouter(t)
	token := login(t, router, "REP_2")

	rec := do(t, router, http.MethodGet, "/api/v1/auth/me", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = do(t, router, http.MethodPost, "/api/v1/auth/logout", token, nil)
	require.Equal(t, http.StatusNoContent, rec.Code)

	rec = do(t, router, http.MethodGet, "/api/v1/auth/me", token, nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestActiveSessionRoute(t *testing.T) {
	router := newTestRouter(t)
	repToken := login(t, router, "REP_1")
	managerToken := login(t, router, "MANAGER@2026")

	rec := do(t, router, http.MethodGet, "/api/v1/auth/sessions/REP_1", managerToken, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	body := decode[map[string]map[string]any](t, rec)
	assert.Equal(t, "REP_1", body["session"]["userCode"])
	assert.Len(t, body["session"]["areas"], 5)

	rec = do(t, router, http.MethodGet, "/api/v1/auth/sessions/REP_3", managerToken, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"session":null}`, rec.Body.String())

	rec = do(t, router, http.MethodGet, "/api/v1/auth/sessions/REP_3", repToken, nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func validPlan() map[string]any {
	return map[string]any{
		"weekStartDate": "2026-01-03",
		"plan": map[string]any{
			"saturday": []map[string]any{
				{"doctorName": "Dr. Samir", "specialty": "Orthopedics", "area": "Gerga", "products": []string{"Etoricox 60"}},
				{"doctorName": "Dr. Hala", "specialty": "Rheumatology", "area": "Gerga", "products": []string{"Flexilax"}},
			},
			"monday": []map[string]any{
				{"doctorName": "Dr. Omar", "specialty": "Internal", "area": "Sohag City", "products": []string{"Miacalcic"}},
			},
		},
	}
}

func TestPlanRoutes(t *testing.T) {
	router := newTestRouter(t)
	token := login(t, router, "REP_1")

	rec := do(t, router, http.MethodPost, "/api/v1/plans", token, validPlan())
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	rec = do(t, router, http.MethodGet, "/api/v1/plans", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	body := decode[struct {
		Plans []models.WeeklyPlan `json:"plans"`
	}](t, rec)
	require.Len(t, body.Plans, 1)
	assert.Equal(t, 3, body.Plans[0].TotalDoctors)
	assert.Equal(t, "REP_1", body.Plans[0].Representative)

	foreign := validPlan()
	foreign["representative"] = "REP_2"
	rec = do(t, router, http.MethodPost, "/api/v1/plans", token, foreign)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = do(t, router, http.MethodGet, "/api/v1/plans?representative=REP_2", token, nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestPlanValidation(t *testing.T) {
	router := newTestRouter(t)
	token := login(t, router, "REP_1")

	empty := map[string]any{"weekStartDate": "2026-01-03", "plan": map[string]any{}}
	rec := do(t, router, http.MethodPost, "/api/v1/plans", token, empty)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	noDate := validPlan()
	delete(noDate, "weekStartDate")
	rec = do(t, router, http.MethodPost, "/api/v1/plans", token, noDate)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	noProducts := map[string]any{
		"weekStartDate": "2026-01-03",
		"plan": map[string]any{
			"sunday": []map[string]any{{"doctorName": "Dr. X", "specialty": "ENT", "products": []string{}}},
		},
	}
	rec = do(t, router, http.MethodPost, "/api/v1/plans", token, noProducts)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	noSpecialty := map[string]any{
		"weekStartDate": "2026-01-03",
		"plan": map[string]any{
			"sunday": []map[string]any{{"doctorName": "Dr. X", "specialty": " ", "products": []string{"Flexilax"}}},
		},
	}
	rec = do(t, router, http.MethodPost, "/api/v1/plans", token, noSpecialty)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestReportRoutes(t *testing.T) {
	router := newTestRouter(t)
	token := login(t, router, "REP_4")

	report := map[string]any{
		"reportDate": "2026-01-04",
		"visits":     []map[string]string{{"doctorName": "Dr. A", "feedback": "interested"}},
	}
	rec := do(t, router, http.MethodPost, "/api/v1/reports", token, report)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	rec = do(t, router, http.MethodPost, "/api/v1/reports", token, map[string]any{"reportDate": "2026-01-04", "visits": []any{}})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(t, router, http.MethodPost, "/api/v1/reports", token, map[string]any{
		"reportDate": "2026-01-04",
		"visits":     []map[string]string{{"doctorName": "Dr. A", "feedback": ""}},
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(t, router, http.MethodGet, "/api/v1/reports", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	body := decode[struct {
		Reports []models.DailyReport `json:"reports"`
	}](t, rec)
	require.Len(t, body.Reports, 1)
	assert.Equal(t, "Mary Hosny", body.Reports[0].RepName)
}

func TestHospitalRoutes(t *testing.T) {
	router := newTestRouter(t)
	token := login(t, router, "REP_1")
	other := login(t, router, "REP_2")

	rec := do(t, router, http.MethodPost, "/api/v1/hospitals", token, map[string]string{
		"name": "Sohag General", "location": "Sohag City", "contactPerson": "Dr. Mona", "phone": "0100",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	id := decode[map[string]string](t, rec)["id"]
	require.NotEmpty(t, id)

	rec = do(t, router, http.MethodPost, "/api/v1/hospitals", token, map[string]string{"name": "Half"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(t, router, http.MethodPost, "/api/v1/hospitals/"+id+"/visits", token, map[string]string{"date": "2026-01-05", "feedback": "good"})
	require.Equal(t, http.StatusNoContent, rec.Code)

	rec = do(t, router, http.MethodPost, "/api/v1/hospitals/"+id+"/visits", token, map[string]string{"date": "2026-01-05"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(t, router, http.MethodPost, "/api/v1/hospitals/missing/visits", token, map[string]string{"date": "2026-01-05", "feedback": "x"})
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.JSONEq(t, `{"error":"hospital_not_found"}`, rec.Body.String())

	rec = do(t, router, http.MethodPost, "/api/v1/hospitals/"+id+"/visits", other, map[string]string{"date": "2026-01-05", "feedback": "x"})
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = do(t, router, http.MethodPut, "/api/v1/hospitals/"+id+"/products/flexilax", token, map[string]string{"status": "active"})
	require.Equal(t, http.StatusNoContent, rec.Code)

	rec = do(t, router, http.MethodGet, "/api/v1/hospitals", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	body := decode[struct {
		Hospitals []models.Hospital `json:"hospitals"`
	}](t, rec)
	require.Len(t, body.Hospitals, 1)
	h := body.Hospitals[0]
	require.Len(t, h.Visits, 1)
	assert.Equal(t, "Ahmed Nashaat", h.Visits[0].VisitedBy)
	assert.Equal(t, models.ProductStatusActive, h.Products[models.ProductFlexilax])
	assert.Equal(t, models.ProductStatusPending, h.Products[models.ProductMiacalcic])
}

func TestDashboardIsManagerOnly(t *testing.T) {
	router := newTestRouter(t)
	repToken := login(t, router, "REP_1")
	managerToken := login(t, router, "MANAGER@2026")

	rec := do(t, router, http.MethodPost, "/api/v1/plans", repToken, validPlan())
	require.Equal(t, http.StatusCreated, rec.Code)
	rec = do(t, router, http.MethodPost, "/api/v1/reports", repToken, map[string]any{
		"reportDate": "2026-01-04",
		"visits":     []map[string]string{{"doctorName": "Dr. A", "feedback": "ok"}},
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	for _, path := range []string{"/api/v1/dashboard/stats", "/api/v1/dashboard/performance", "/api/v1/dashboard/analysis"} {
		rec = do(t, router, http.MethodGet, path, repToken, nil)
		assert.Equal(t, http.StatusForbidden, rec.Code, path)
	}

	rec = do(t, router, http.MethodGet, "/api/v1/dashboard/stats", managerToken, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, models.DashboardStats{WeeklyPlans: 1, DailyReports: 1, TotalVisits: 3}, decode[models.DashboardStats](t, rec))

	rec = do(t, router, http.MethodGet, "/api/v1/dashboard/performance", managerToken, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	rollup := decode[models.PerformanceRollup](t, rec)
	require.Len(t, rollup.Representatives, 1)
	assert.Equal(t, models.RepPerformance{
		Code: "REP_1", Name: "Ahmed Nashaat", TotalVisits: 1, ReportsCount: 1, PlansCount: 1, PlannedDoctors: 3, Tier: models.TierLow,
	}, rollup.Representatives[0])

	rec = do(t, router, http.MethodGet, "/api/v1/dashboard/analysis", managerToken, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	summary := decode[models.AnalysisSummary](t, rec)
	assert.Contains(t, summary.Text, "Top Performer: Ahmed Nashaat")
}

func TestRepresentativesAndHealth(t *testing.T) {
	router := newTestRouter(t)
	token := login(t, router, "MANAGER@2026")

	rec := do(t, router, http.MethodGet, "/api/v1/representatives", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	body := decode[struct {
		Representatives []directory.Representative `json:"representatives"`
	}](t, rec)
	require.Len(t, body.Representatives, 7)
	assert.Equal(t, "REP_1", body.Representatives[0].Code)

	rec = do(t, router, http.MethodGet, "/api/healthz", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	health := decode[healthResponse](t, rec)
	assert.Equal(t, "disabled", health.Database)
	assert.Equal(t, "memory", health.Storage)
}

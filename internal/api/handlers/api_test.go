package handlers_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"jalsetu.io/jalsetu/internal/api/handlers"
	"jalsetu.io/jalsetu/internal/api/middleware"
	"jalsetu.io/jalsetu/internal/app"
	"jalsetu.io/jalsetu/internal/config"
	"jalsetu.io/jalsetu/internal/domain"
	"jalsetu.io/jalsetu/internal/service"
	"jalsetu.io/jalsetu/internal/testutil"
	"jalsetu.io/jalsetu/internal/usecase"
)

const testProviderSecret = "handlers-test-provider-secret"

func init() {
	gin.SetMode(gin.TestMode)
}

// newTestAPI wires the full router against an in-memory database: real
// middleware chain, real role gates, no River and no mail.
func newTestAPI(t *testing.T) (*gin.Engine, *gorm.DB) {
	t.Helper()

	db := testutil.OpenDB(t)

	jwtCfg := middleware.JWTConfig{
		SigningKey: []byte("0123456789abcdef0123456789abcdef"),
		Issuer:     "jalsetu-test",
		ExpiresIn:  time.Hour,
	}

	server := handlers.NewServer(handlers.ServerDeps{
		DB:           db,
		JWTCfg:       jwtCfg,
		Locations:    service.NewLocationService(db),
		Applications: usecase.NewApplicationUseCase(db, nil),
		Assessments:  usecase.NewAssessmentUseCase(db),
		Payments:     usecase.NewPaymentUseCase(db, nil, testProviderSecret),
		Summaries:    usecase.NewSummaryUseCase(db),
		Dashboards:   usecase.NewDashboardUseCase(db),
	})

	cfg := &config.Config{}
	cfg.Server.CORSOrigins = []string{"*"}

	return app.NewRouter(cfg, server, jwtCfg), db
}

func doJSON(t *testing.T, router *gin.Engine, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, "/api/v1"+path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()

	var out map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out), "body: %s", w.Body.String())
	return out
}

// registerUser registers via the API and returns the token and user ID.
func registerUser(t *testing.T, router *gin.Engine, name, role string) (string, string) {
	t.Helper()

	w := doJSON(t, router, http.MethodPost, "/auth/register", "", gin.H{
		"name":     name,
		"email":    name + "@example.com",
		"password": "secret123",
		"role":     role,
	})
	require.Equal(t, http.StatusCreated, w.Code, "register %s: %s", name, w.Body.String())

	body := decodeBody(t, w)
	token, _ := body["token"].(string)
	require.NotEmpty(t, token)
	user, _ := body["user"].(map[string]any)
	require.NotNil(t, user)
	id, _ := user["id"].(string)
	require.NotEmpty(t, id)
	return token, id
}

func TestAuthEndpoints(t *testing.T) {
	router, _ := newTestAPI(t)

	t.Run("register issues a usable token", func(t *testing.T) {
		token, _ := registerUser(t, router, "ramesh", "")

		w := doJSON(t, router, http.MethodGet, "/auth/me", token, nil)
		require.Equal(t, http.StatusOK, w.Code)
		me := decodeBody(t, w)
		assert.Equal(t, "ramesh", me["name"])
		assert.Equal(t, domain.RoleFarmer, me["role"])
		assert.NotContains(t, w.Body.String(), "passwordHash")
	})

	t.Run("duplicate email is rejected", func(t *testing.T) {
		w := doJSON(t, router, http.MethodPost, "/auth/register", "", gin.H{
			"name":     "ramesh again",
			"email":    "ramesh@example.com",
			"password": "secret123",
		})
		require.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, "EMAIL_ALREADY_REGISTERED", decodeBody(t, w)["code"])
	})

	t.Run("unknown role is rejected", func(t *testing.T) {
		w := doJSON(t, router, http.MethodPost, "/auth/register", "", gin.H{
			"name":     "mallory",
			"email":    "mallory@example.com",
			"password": "secret123",
			"role":     "collector",
		})
		require.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, "VALIDATION_FAILED", decodeBody(t, w)["code"])
	})

	t.Run("login succeeds with correct credentials", func(t *testing.T) {
		w := doJSON(t, router, http.MethodPost, "/auth/login", "", gin.H{
			"email":    "Ramesh@Example.com", // case-insensitive
			"password": "secret123",
		})
		require.Equal(t, http.StatusOK, w.Code)
		assert.NotEmpty(t, decodeBody(t, w)["token"])
	})

	t.Run("login with wrong password is opaque", func(t *testing.T) {
		w := doJSON(t, router, http.MethodPost, "/auth/login", "", gin.H{
			"email":    "ramesh@example.com",
			"password": "wrong-password",
		})
		require.Equal(t, http.StatusUnauthorized, w.Code)
		body := decodeBody(t, w)
		assert.Equal(t, "AUTH_FAILED", body["code"])
		assert.Equal(t, "invalid credentials", body["message"])
	})

	t.Run("protected route rejects missing token", func(t *testing.T) {
		w := doJSON(t, router, http.MethodGet, "/auth/me", "", nil)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})
}

func TestLocationEndpoints(t *testing.T) {
	router, _ := newTestAPI(t)

	farmerToken, _ := registerUser(t, router, "farmer1", "")
	adminToken, _ := registerUser(t, router, "admin1", domain.RoleAdmin)

	t.Run("farmer cannot create locations", func(t *testing.T) {
		w := doJSON(t, router, http.MethodPost, "/locations/states", farmerToken, gin.H{"name": "Gujarat"})
		require.Equal(t, http.StatusForbidden, w.Code)
		assert.Equal(t, "FORBIDDEN", decodeBody(t, w)["code"])
	})

	t.Run("admin creates the hierarchy", func(t *testing.T) {
		w := doJSON(t, router, http.MethodPost, "/locations/states", adminToken, gin.H{"name": "Gujarat"})
		require.Equal(t, http.StatusCreated, w.Code)
		stateID, _ := decodeBody(t, w)["id"].(string)
		require.NotEmpty(t, stateID)

		w = doJSON(t, router, http.MethodPost, "/locations/districts", adminToken, gin.H{
			"name": "Anand", "parentId": stateID,
		})
		require.Equal(t, http.StatusCreated, w.Code)
	})

	t.Run("duplicate name under the same parent is rejected", func(t *testing.T) {
		w := doJSON(t, router, http.MethodPost, "/locations/states", adminToken, gin.H{"name": "Gujarat"})
		require.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, "DUPLICATE_LOCATION", decodeBody(t, w)["code"])
	})

	t.Run("district requires a parent", func(t *testing.T) {
		w := doJSON(t, router, http.MethodPost, "/locations/districts", adminToken, gin.H{"name": "Orphan"})
		require.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, "VALIDATION_FAILED", decodeBody(t, w)["code"])
	})

	t.Run("any authenticated user lists locations", func(t *testing.T) {
		w := doJSON(t, router, http.MethodGet, "/locations/states", farmerToken, nil)
		require.Equal(t, http.StatusOK, w.Code)
		var states []domain.State
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &states))
		assert.Len(t, states, 1)
	})
}

func TestApplicationEndpoints(t *testing.T) {
	router, db := newTestAPI(t)

	farmerToken, farmerID := registerUser(t, router, "kisan", "")
	talatiToken, _ := registerUser(t, router, "talati1", domain.RoleTalati)

	var farmer domain.User
	require.NoError(t, db.First(&farmer, "id = ?", farmerID).Error)
	_, _, _, village := testutil.SeedLocationChain(t, db, "Anand")
	profile := testutil.SeedProfile(t, db, farmer, village)
	farm := testutil.SeedFarm(t, db, farmer, village, "101/2", 5.5)

	submit := gin.H{
		"profileId": profile.ID,
		"purpose":   "well construction",
		"farms":     []gin.H{{"farmId": farm.ID}},
	}

	var docNumber, docID string

	t.Run("farmer submits an NOC", func(t *testing.T) {
		w := doJSON(t, router, http.MethodPost, "/applications/noc", farmerToken, submit)
		require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

		body := decodeBody(t, w)
		docNumber, _ = body["number"].(string)
		docID, _ = body["id"].(string)
		assert.Regexp(t, `^NOC-\d{10}-[0-9A-F]{4}$`, docNumber)
		assert.Equal(t, true, body["pending"])
	})

	t.Run("missing purpose yields field errors", func(t *testing.T) {
		w := doJSON(t, router, http.MethodPost, "/applications/noc", farmerToken, gin.H{
			"profileId": profile.ID,
			"farms":     []gin.H{{"farmId": farm.ID}},
		})
		require.Equal(t, http.StatusBadRequest, w.Code)
		body := decodeBody(t, w)
		assert.Equal(t, "VALIDATION_FAILED", body["code"])
		assert.Contains(t, w.Body.String(), `"field":"purpose"`)
	})

	t.Run("unknown document type is rejected", func(t *testing.T) {
		w := doJSON(t, router, http.MethodPost, "/applications/permit", farmerToken, submit)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("farmer cannot approve", func(t *testing.T) {
		w := doJSON(t, router, http.MethodPost, fmt.Sprintf("/applications/noc/%s/approve", docID), farmerToken, nil)
		assert.Equal(t, http.StatusForbidden, w.Code)
	})

	t.Run("talati approves by business number", func(t *testing.T) {
		w := doJSON(t, router, http.MethodPost, fmt.Sprintf("/applications/noc/%s/approve", docNumber), talatiToken, nil)
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())

		body := decodeBody(t, w)
		assert.Equal(t, true, body["approved"])
		assert.Equal(t, false, body["pending"])
		assert.Equal(t, "talati1", body["approvedBy"])
	})

	t.Run("owner sees the decided document", func(t *testing.T) {
		w := doJSON(t, router, http.MethodGet, "/applications/noc/mine", farmerToken, nil)
		require.Equal(t, http.StatusOK, w.Code)

		var apps []domain.Application
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &apps))
		require.Len(t, apps, 1)
		assert.Equal(t, "APPROVED", apps[0].Status())
	})

	t.Run("reviewer listing is gated", func(t *testing.T) {
		w := doJSON(t, router, http.MethodGet, "/applications/noc", farmerToken, nil)
		assert.Equal(t, http.StatusForbidden, w.Code)

		w = doJSON(t, router, http.MethodGet, "/applications/noc", talatiToken, nil)
		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("missing document is a 404", func(t *testing.T) {
		w := doJSON(t, router, http.MethodPost, "/applications/noc/NOC-0000000000-dead/approve", talatiToken, nil)
		require.Equal(t, http.StatusNotFound, w.Code)
		assert.Equal(t, "APPLICATION_NOT_FOUND", decodeBody(t, w)["code"])
	})
}

func TestAssessmentAndPaymentEndpoints(t *testing.T) {
	router, db := newTestAPI(t)

	farmerToken, farmerID := registerUser(t, router, "kisan2", "")
	karkoonToken, _ := registerUser(t, router, "karkoon1", domain.RoleKarkoon)
	engineerToken, _ := registerUser(t, router, "engineer1", domain.RoleEngineer)

	var farmer domain.User
	require.NoError(t, db.First(&farmer, "id = ?", farmerID).Error)
	_, _, _, village := testutil.SeedLocationChain(t, db, "Kheda")
	profile := testutil.SeedProfile(t, db, farmer, village)
	farm := testutil.SeedFarm(t, db, farmer, village, "207/1", 4.0)

	w := doJSON(t, router, http.MethodPost, "/applications/namuna7", farmerToken, gin.H{
		"profileId": profile.ID,
		"farms":     []gin.H{{"farmId": farm.ID, "requestedArea": 2.5, "crop": "wheat", "year": 2026}},
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	requestID, _ := decodeBody(t, w)["id"].(string)

	var assessmentID, assessmentNo string

	t.Run("karkoon creates the assessment", func(t *testing.T) {
		w := doJSON(t, router, http.MethodPut, "/assessments/water-request/"+requestID, karkoonToken, gin.H{
			"ratePerUnit": 100.0,
		})
		require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

		body := decodeBody(t, w)
		assessmentID, _ = body["id"].(string)
		assessmentNo, _ = body["number"].(string)
		assert.Regexp(t, `^FORM12-\d{4}$`, assessmentNo)
		assert.InDelta(t, 250.0, body["totalRate"], 0.001)
	})

	t.Run("farmer cannot upsert", func(t *testing.T) {
		w := doJSON(t, router, http.MethodPut, "/assessments/water-request/"+requestID, farmerToken, gin.H{
			"ratePerUnit": 1.0,
		})
		assert.Equal(t, http.StatusForbidden, w.Code)
	})

	t.Run("re-upsert recomputes in place", func(t *testing.T) {
		w := doJSON(t, router, http.MethodPut, "/assessments/water-request/"+requestID, karkoonToken, gin.H{
			"ratePerUnit": 120.0,
		})
		require.Equal(t, http.StatusOK, w.Code)
		body := decodeBody(t, w)
		assert.Equal(t, assessmentNo, body["number"])
		assert.InDelta(t, 300.0, body["totalRate"], 0.001)
	})

	t.Run("summary before approval is a 404", func(t *testing.T) {
		w := doJSON(t, router, http.MethodGet, "/assessments/summary", farmerToken, nil)
		require.Equal(t, http.StatusNotFound, w.Code)
		assert.Equal(t, "FORM12_NONE_APPROVED", decodeBody(t, w)["code"])
	})

	t.Run("engineer approves", func(t *testing.T) {
		w := doJSON(t, router, http.MethodPost, "/assessments/"+assessmentID+"/approve", karkoonToken, nil)
		assert.Equal(t, http.StatusForbidden, w.Code)

		w = doJSON(t, router, http.MethodPost, "/assessments/"+assessmentID+"/approve", engineerToken, nil)
		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, true, decodeBody(t, w)["approved"])
	})

	t.Run("signature verification round-trip", func(t *testing.T) {
		sig := service.SignPayment("order-1", "pay-1", testProviderSecret)

		w := doJSON(t, router, http.MethodPost, "/payments/verify", farmerToken, gin.H{
			"orderRef": "order-1", "paymentRef": "pay-1", "signature": sig,
		})
		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, true, decodeBody(t, w)["valid"])

		w = doJSON(t, router, http.MethodPost, "/payments/verify", farmerToken, gin.H{
			"orderRef": "order-1", "paymentRef": "pay-1", "signature": "bogus",
		})
		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, false, decodeBody(t, w)["valid"])
	})

	t.Run("tampered signature blocks recording", func(t *testing.T) {
		w := doJSON(t, router, http.MethodPost, "/payments", farmerToken, gin.H{
			"assessmentNo": assessmentNo,
			"orderRef":     "order-1",
			"paymentRef":   "pay-1",
			"signature":    "tampered",
			"amount":       300.0,
			"status":       domain.PaymentSuccess,
		})
		require.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, w.Body.String(), "signature")
	})

	t.Run("successful payment settles the summary", func(t *testing.T) {
		sig := service.SignPayment("order-1", "pay-1", testProviderSecret)
		w := doJSON(t, router, http.MethodPost, "/payments", farmerToken, gin.H{
			"assessmentNo": assessmentNo,
			"orderRef":     "order-1",
			"paymentRef":   "pay-1",
			"signature":    sig,
			"amount":       300.0,
			"status":       domain.PaymentSuccess,
		})
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())

		w = doJSON(t, router, http.MethodGet, "/assessments/summary", farmerToken, nil)
		require.Equal(t, http.StatusOK, w.Code)
		body := decodeBody(t, w)
		assert.InDelta(t, 300.0, body["totalAmount"], 0.001)
	})

	t.Run("dashboard reflects the flow", func(t *testing.T) {
		w := doJSON(t, router, http.MethodGet, "/dashboard/me", farmerToken, nil)
		require.Equal(t, http.StatusOK, w.Code)

		w = doJSON(t, router, http.MethodGet, "/dashboard/admin", farmerToken, nil)
		assert.Equal(t, http.StatusForbidden, w.Code)

		w = doJSON(t, router, http.MethodGet, "/dashboard/admin", engineerToken, nil)
		assert.Equal(t, http.StatusOK, w.Code)
	})
}

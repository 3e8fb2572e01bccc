package controllers_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/Shakilofficial/nextmart-server/controllers"
	"github.com/Shakilofficial/nextmart-server/routes"
	"github.com/Shakilofficial/nextmart-server/services"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// ---- mock reconciliation service ----

type mockService struct {
	initiateURL string
	initiateErr error
	outcome     services.Outcome
	reconcileErr error
	lastTranID  string
}

func (m *mockService) InitiatePayment(_ context.Context, _ string) (string, error) {
	return m.initiateURL, m.initiateErr
}

func (m *mockService) Reconcile(_ context.Context, tranID string) (services.Outcome, error) {
	m.lastTranID = tranID
	return m.outcome, m.reconcileErr
}

func newTestRouter(svc *mockService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	pc := &controllers.PaymentController{
		Service:    svc,
		Logger:     zap.NewNop(),
		SuccessURL: "http://localhost:3000/payment/success",
		FailURL:    "http://localhost:3000/payment/failed",
	}
	routes.RegisterPaymentRoutes(r, pc)
	return r
}

func TestValidatePayment_PaidRedirectsToSuccess(t *testing.T) {
	svc := &mockService{outcome: services.OutcomePaid}
	r := newTestRouter(svc)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/ssl/validate?tran_id=tx-123", nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "http://localhost:3000/payment/success", w.Header().Get("Location"))
	assert.Equal(t, "tx-123", svc.lastTranID)
}

func TestValidatePayment_DeclinedRedirectsToFail(t *testing.T) {
	svc := &mockService{outcome: services.OutcomeDeclined}
	r := newTestRouter(svc)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/ssl/validate?tran_id=tx-123", nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "http://localhost:3000/payment/failed", w.Header().Get("Location"))
}

func TestValidatePayment_InternalErrorNeverImpliesSuccess(t *testing.T) {
	svc := &mockService{reconcileErr: errors.New("db unavailable")}
	r := newTestRouter(svc)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/ssl/validate?tran_id=tx-123", nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "http://localhost:3000/payment/failed", w.Header().Get("Location"))
}

func TestValidatePayment_MissingTranID(t *testing.T) {
	r := newTestRouter(&mockService{})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/ssl/validate", nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestIPN_AcknowledgesWithOutcome(t *testing.T) {
	svc := &mockService{outcome: services.OutcomePaid}
	r := newTestRouter(svc)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/ssl/ipn", strings.NewReader("tran_id=tx-123"))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"status":"received"`)
	assert.Contains(t, w.Body.String(), `"outcome":"Paid"`)
}

func TestIPN_InternalErrorAckDoesNotImplySuccess(t *testing.T) {
	svc := &mockService{reconcileErr: errors.New("db unavailable")}
	r := newTestRouter(svc)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/ssl/ipn", strings.NewReader("tran_id=tx-123"))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"status":"error"`)
	assert.NotContains(t, w.Body.String(), "received")
}

func TestInitiatePayment_ReturnsGatewayURL(t *testing.T) {
	svc := &mockService{initiateURL: "https://sandbox.sslcommerz.com/EasyCheckOut/ABC123"}
	r := newTestRouter(svc)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/payments/initiate", strings.NewReader(`{"order_id":"65f1f77bcf86cd799439011a"}`))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "EasyCheckOut/ABC123")
}

func TestInitiatePayment_OrderNotFound(t *testing.T) {
	svc := &mockService{initiateErr: services.ErrOrderNotFound}
	r := newTestRouter(svc)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/payments/initiate", strings.NewReader(`{"order_id":"65f1f77bcf86cd799439011a"}`))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

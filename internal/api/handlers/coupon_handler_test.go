package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/Cheertaboi/coupon-service/internal/models"
	"github.com/Cheertaboi/coupon-service/internal/service"
)

type MockCouponService struct {
	mock.Mock
}

func (m *MockCouponService) CreateCoupon(ctx context.Context, cmd service.CreateCouponCommand) (service.CouponView, error) {
	args := m.Called(ctx, cmd)
	return args.Get(0).(service.CouponView), args.Error(1)
}

func (m *MockCouponService) GetCoupon(ctx context.Context, id uuid.UUID) (service.CouponView, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(service.CouponView), args.Error(1)
}

func (m *MockCouponService) DeleteCoupon(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func newTestRouter(svc CouponService) http.Handler {
	h := NewCouponHandler(svc)
	r := chi.NewRouter()
	r.Post("/coupon", h.CreateCoupon)
	r.Get("/coupon/{id}", h.GetCoupon)
	r.Delete("/coupon/{id}", h.DeleteCoupon)
	return r
}

func sampleView() service.CouponView {
	return service.CouponView{
		ID:             uuid.MustParse("5f0c7a4e-8f7b-4b57-9a33-0a4c9f3d2b11"),
		Code:           "ABC123",
		Description:    "Spring sale",
		DiscountValue:  decimal.RequireFromString("10.5"),
		ExpirationDate: time.Date(2030, 1, 1, 0, 0, 0, 0, time.UTC),
		Status:         models.StatusActive,
		Published:      true,
	}
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) ErrorResponse {
	t.Helper()
	var body ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func TestCouponHandler_CreateCoupon(t *testing.T) {
	t.Run("created", func(t *testing.T) {
		svc := new(MockCouponService)
		view := sampleView()
		svc.On("CreateCoupon", mock.Anything, mock.MatchedBy(func(cmd service.CreateCouponCommand) bool {
			return cmd.Code == "abc-123" &&
				cmd.Description == "Spring sale" &&
				cmd.DiscountValue.Equal(decimal.RequireFromString("10.5")) &&
				cmd.ExpirationDate.Equal(time.Date(2030, 1, 1, 0, 0, 0, 0, time.UTC)) &&
				cmd.Published
		})).Return(view, nil).Once()

		body := `{"code":"abc-123","description":"Spring sale","discountValue":10.5,"expirationDate":"2030-01-01T00:00:00Z","published":true}`
		req := httptest.NewRequest(http.MethodPost, "/coupon", strings.NewReader(body))
		rec := httptest.NewRecorder()
		newTestRouter(svc).ServeHTTP(rec, req)

		require.Equal(t, http.StatusCreated, rec.Code)
		assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
		assert.Equal(t, "/coupon/"+view.ID.String(), rec.Header().Get("Location"))

		var got map[string]any
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
		assert.Equal(t, view.ID.String(), got["id"])
		assert.Equal(t, "ABC123", got["code"])
		assert.Equal(t, 10.5, got["discountValue"])
		assert.Equal(t, "2030-01-01T00:00:00Z", got["expirationDate"])
		assert.Equal(t, "ACTIVE", got["status"])
		assert.Equal(t, true, got["published"])
		assert.Equal(t, false, got["redeemed"])
		svc.AssertExpectations(t)
	})

	tests := []struct {
		name        string
		body        string
		wantMessage string
	}{
		{name: "malformed json", body: `{"code":`, wantMessage: "malformed request body"},
		{name: "empty body", body: ``, wantMessage: "malformed request body"},
		{name: "bad date format", body: `{"code":"ABC123","description":"d","discountValue":1,"expirationDate":"01/01/2030"}`, wantMessage: "malformed request body"},
		{name: "missing code", body: `{"description":"d","discountValue":1,"expirationDate":"2030-01-01T00:00:00Z"}`, wantMessage: "code is required"},
		{name: "blank description", body: `{"code":"ABC123","description":"   ","discountValue":1,"expirationDate":"2030-01-01T00:00:00Z"}`, wantMessage: "description is required"},
		{name: "missing discount", body: `{"code":"ABC123","description":"d","expirationDate":"2030-01-01T00:00:00Z"}`, wantMessage: "discountValue is required"},
		{name: "null discount", body: `{"code":"ABC123","description":"d","discountValue":null,"expirationDate":"2030-01-01T00:00:00Z"}`, wantMessage: "discountValue is required"},
		{name: "missing expiration", body: `{"code":"ABC123","description":"d","discountValue":1}`, wantMessage: "expirationDate is required"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := new(MockCouponService)

			req := httptest.NewRequest(http.MethodPost, "/coupon", strings.NewReader(tt.body))
			rec := httptest.NewRecorder()
			newTestRouter(svc).ServeHTTP(rec, req)

			require.Equal(t, http.StatusBadRequest, rec.Code)
			body := decodeError(t, rec)
			assert.Equal(t, http.StatusBadRequest, body.Status)
			assert.Equal(t, "Bad Request", body.Error)
			assert.Equal(t, tt.wantMessage, body.Message)
			assert.NotEmpty(t, body.Timestamp)
			svc.AssertNotCalled(t, "CreateCoupon", mock.Anything, mock.Anything)
		})
	}

	t.Run("business rule violation", func(t *testing.T) {
		svc := new(MockCouponService)
		svc.On("CreateCoupon", mock.Anything, mock.Anything).
			Return(service.CouponView{}, models.NewBusinessRuleError("discount value must be at least 0.5")).Once()

		body := `{"code":"ABC123","description":"d","discountValue":0.1,"expirationDate":"2030-01-01T00:00:00Z"}`
		req := httptest.NewRequest(http.MethodPost, "/coupon", strings.NewReader(body))
		rec := httptest.NewRecorder()
		newTestRouter(svc).ServeHTTP(rec, req)

		require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
		got := decodeError(t, rec)
		assert.Equal(t, "discount value must be at least 0.5", got.Message)
		assert.Equal(t, "Unprocessable Entity", got.Error)
	})

	t.Run("unexpected error is hidden", func(t *testing.T) {
		svc := new(MockCouponService)
		svc.On("CreateCoupon", mock.Anything, mock.Anything).
			Return(service.CouponView{}, errors.New("pq: connection refused")).Once()

		body := `{"code":"ABC123","description":"d","discountValue":"2.5","expirationDate":"2030-01-01T00:00:00Z"}`
		req := httptest.NewRequest(http.MethodPost, "/coupon", strings.NewReader(body))
		rec := httptest.NewRecorder()
		newTestRouter(svc).ServeHTTP(rec, req)

		require.Equal(t, http.StatusInternalServerError, rec.Code)
		got := decodeError(t, rec)
		assert.Equal(t, "An unexpected error occurred.", got.Message)
		assert.NotContains(t, rec.Body.String(), "connection refused")
	})
}

func TestCouponHandler_GetCoupon(t *testing.T) {
	t.Run("ok", func(t *testing.T) {
		svc := new(MockCouponService)
		view := sampleView()
		svc.On("GetCoupon", mock.Anything, view.ID).Return(view, nil).Once()

		req := httptest.NewRequest(http.MethodGet, "/coupon/"+view.ID.String(), nil)
		rec := httptest.NewRecorder()
		newTestRouter(svc).ServeHTTP(rec, req)

		require.Equal(t, http.StatusOK, rec.Code)
		var got CouponResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
		assert.Equal(t, view.ID, got.ID)
		assert.Equal(t, json.Number("10.5"), got.DiscountValue)
		assert.Equal(t, "ACTIVE", got.Status)
	})

	t.Run("not found", func(t *testing.T) {
		svc := new(MockCouponService)
		id := uuid.New()
		svc.On("GetCoupon", mock.Anything, id).Return(service.CouponView{}, &models.NotFoundError{ID: id}).Once()

		req := httptest.NewRequest(http.MethodGet, "/coupon/"+id.String(), nil)
		rec := httptest.NewRecorder()
		newTestRouter(svc).ServeHTTP(rec, req)

		require.Equal(t, http.StatusNotFound, rec.Code)
		assert.Equal(t, "coupon not found with id: "+id.String(), decodeError(t, rec).Message)
	})

	t.Run("invalid id", func(t *testing.T) {
		svc := new(MockCouponService)

		req := httptest.NewRequest(http.MethodGet, "/coupon/not-a-uuid", nil)
		rec := httptest.NewRecorder()
		newTestRouter(svc).ServeHTTP(rec, req)

		require.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, "invalid coupon id: not-a-uuid", decodeError(t, rec).Message)
		svc.AssertNotCalled(t, "GetCoupon", mock.Anything, mock.Anything)
	})
}

func TestCouponHandler_DeleteCoupon(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
	}{
		{name: "deleted", err: nil, wantStatus: http.StatusNoContent},
		{name: "not found", err: &models.NotFoundError{}, wantStatus: http.StatusNotFound},
		{name: "already deleted", err: &models.AlreadyDeletedError{}, wantStatus: http.StatusConflict},
		{name: "storage failure", err: errors.New("timeout"), wantStatus: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := new(MockCouponService)
			id := uuid.New()
			svc.On("DeleteCoupon", mock.Anything, id).Return(tt.err).Once()

			req := httptest.NewRequest(http.MethodDelete, "/coupon/"+id.String(), nil)
			rec := httptest.NewRecorder()
			newTestRouter(svc).ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatus, rec.Code)
			if tt.wantStatus == http.StatusNoContent {
				assert.Empty(t, rec.Body.String())
			} else {
				assert.Equal(t, tt.wantStatus, decodeError(t, rec).Status)
			}
			svc.AssertExpectations(t)
		})
	}
}

func TestStatusFor(t *testing.T) {
	id := uuid.New()
	assert.Equal(t, http.StatusUnprocessableEntity, statusFor(models.NewBusinessRuleError("x")))
	assert.Equal(t, http.StatusNotFound, statusFor(&models.NotFoundError{ID: id}))
	assert.Equal(t, http.StatusConflict, statusFor(&models.AlreadyDeletedError{ID: id}))
	assert.Equal(t, http.StatusInternalServerError, statusFor(errors.New("boom")))
}

package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/Cheertaboi/coupon-service/internal/service"
)

// CouponService is what the handlers need from the use-case layer.
type CouponService interface {
	CreateCoupon(ctx context.Context, cmd service.CreateCouponCommand) (service.CouponView, error)
	GetCoupon(ctx context.Context, id uuid.UUID) (service.CouponView, error)
	DeleteCoupon(ctx context.Context, id uuid.UUID) error
}

// --- Request / Response DTOs ---

type CreateCouponRequest struct {
	Code           string           `json:"code" validate:"required,notblank"`
	Description    string           `json:"description" validate:"required,notblank"`
	DiscountValue  *decimal.Decimal `json:"discountValue" validate:"required"`
	ExpirationDate *time.Time       `json:"expirationDate" validate:"required"` // RFC3339
	Published      bool             `json:"published"`
}

type CouponResponse struct {
	ID             uuid.UUID   `json:"id"`
	Code           string      `json:"code"`
	Description    string      `json:"description"`
	DiscountValue  json.Number `json:"discountValue"`
	ExpirationDate time.Time   `json:"expirationDate"`
	Status         string      `json:"status"`
	Published      bool        `json:"published"`
	Redeemed       bool        `json:"redeemed"`
}

func newCouponResponse(v service.CouponView) CouponResponse {
	return CouponResponse{
		ID:             v.ID,
		Code:           v.Code,
		Description:    v.Description,
		DiscountValue:  json.Number(v.DiscountValue.String()),
		ExpirationDate: v.ExpirationDate,
		Status:         v.Status.String(),
		Published:      v.Published,
		Redeemed:       v.Redeemed,
	}
}

type CouponHandler struct {
	svc      CouponService
	validate *validator.Validate
}

func NewCouponHandler(svc CouponService) *CouponHandler {
	return &CouponHandler{
		svc:      svc,
		validate: newValidator(),
	}
}

func writeJSON(w http.ResponseWriter, code int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

// CreateCoupon handles POST /coupon.
func (h *CouponHandler) CreateCoupon(w http.ResponseWriter, r *http.Request) {
	var req CreateCouponRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadRequest(w, "malformed request body")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		writeBadRequest(w, validationMessage(err))
		return
	}

	view, err := h.svc.CreateCoupon(r.Context(), service.CreateCouponCommand{
		Code:           req.Code,
		Description:    req.Description,
		DiscountValue:  *req.DiscountValue,
		ExpirationDate: *req.ExpirationDate,
		Published:      req.Published,
	})
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	w.Header().Set("Location", "/coupon/"+view.ID.String())
	writeJSON(w, http.StatusCreated, newCouponResponse(view))
}

// GetCoupon handles GET /coupon/{id}.
func (h *CouponHandler) GetCoupon(w http.ResponseWriter, r *http.Request) {
	id, ok := couponID(w, r)
	if !ok {
		return
	}

	view, err := h.svc.GetCoupon(r.Context(), id)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, newCouponResponse(view))
}

// DeleteCoupon handles DELETE /coupon/{id}.
func (h *CouponHandler) DeleteCoupon(w http.ResponseWriter, r *http.Request) {
	id, ok := couponID(w, r)
	if !ok {
		return
	}

	if err := h.svc.DeleteCoupon(r.Context(), id); err != nil {
		writeServiceError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func couponID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	raw := chi.URLParam(r, "id")
	id, err := uuid.Parse(raw)
	if err != nil {
		writeBadRequest(w, "invalid coupon id: "+raw)
		return uuid.Nil, false
	}
	return id, true
}

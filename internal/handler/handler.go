package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"
	"github.com/roxdxebec/jenga-biz-sub001/internal/analytics"
	"github.com/roxdxebec/jenga-biz-sub001/internal/middleware"
	"github.com/roxdxebec/jenga-biz-sub001/internal/service"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

type Handler struct {
	svc *service.Service
	log *logrus.Logger
}

func NewHandler(svc *service.Service, log *logrus.Logger) *Handler {
	return &Handler{svc: svc, log: log}
}

func (h *Handler) respondJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		h.log.Errorf("Failed to write response: %v", err)
	}
}

func (h *Handler) respondError(w http.ResponseWriter, err error) {
	if errors.Is(err, service.ErrFetch) {
		h.respondJSON(w, http.StatusBadGateway, map[string]string{"error": "financial records are temporarily unavailable"})
		return
	}
	h.respondJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
}

// Register handles user registration
func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Username string `json:"username"`
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.respondJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}
	if req.Email == "" || req.Password == "" {
		h.respondJSON(w, http.StatusBadRequest, map[string]string{"error": "email and password are required"})
		return
	}

	user, err := h.svc.Register(req.Username, req.Email, req.Password)
	if err != nil {
		h.respondError(w, err)
		return
	}
	h.respondJSON(w, http.StatusCreated, user)
}

// Login handles user authentication
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.respondJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	token, err := h.svc.Login(req.Email, req.Password)
	if err != nil {
		h.respondJSON(w, http.StatusUnauthorized, map[string]string{"error": err.Error()})
		return
	}
	h.respondJSON(w, http.StatusOK, map[string]string{"token": token})
}

// AddRecord stores one aggregated daily record
func (h *Handler) AddRecord(w http.ResponseWriter, r *http.Request) {
	var req struct {
		BusinessID string          `json:"business_id"`
		RecordDate string          `json:"record_date"`
		Revenue    decimal.Decimal `json:"revenue"`
		Expenses   decimal.Decimal `json:"expenses"`
		Currency   string          `json:"currency"`
		Notes      string          `json:"notes"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.respondJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	rec, err := h.svc.AddRecord(req.BusinessID, req.RecordDate, req.Revenue, req.Expenses, req.Currency, req.Notes)
	if err != nil {
		h.respondError(w, err)
		return
	}
	h.log.Debugf("Record %s added by user %s", rec.ID, middleware.UserID(r.Context()))
	h.respondJSON(w, http.StatusCreated, rec)
}

// ListRecords returns the canonical record set for a business
func (h *Handler) ListRecords(w http.ResponseWriter, r *http.Request) {
	records, err := h.svc.CanonicalRecords(mux.Vars(r)["businessID"])
	if err != nil {
		h.respondError(w, err)
		return
	}
	h.respondJSON(w, http.StatusOK, records)
}

// Metrics returns the derived health metrics for a business
func (h *Handler) Metrics(w http.ResponseWriter, r *http.Request) {
	metrics, err := h.svc.Metrics(mux.Vars(r)["businessID"])
	if err != nil {
		h.respondError(w, err)
		return
	}
	h.respondJSON(w, http.StatusOK, metrics)
}

// Cashflow returns the cumulative cashflow series for charting
func (h *Handler) Cashflow(w http.ResponseWriter, r *http.Request) {
	points, err := h.svc.Cashflow(mux.Vars(r)["businessID"])
	if err != nil {
		h.respondError(w, err)
		return
	}
	h.respondJSON(w, http.StatusOK, points)
}

// Aggregates returns period buckets for the requested granularity
func (h *Handler) Aggregates(w http.ResponseWriter, r *http.Request) {
	period, err := analytics.ParsePeriod(r.URL.Query().Get("period"))
	if err != nil {
		h.respondJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}

	buckets, err := h.svc.Aggregates(mux.Vars(r)["businessID"], period)
	if err != nil {
		h.respondError(w, err)
		return
	}
	h.respondJSON(w, http.StatusOK, buckets)
}

// Warnings returns the active sustainability warnings
func (h *Handler) Warnings(w http.ResponseWriter, r *http.Request) {
	warnings, err := h.svc.Warnings(mux.Vars(r)["businessID"])
	if err != nil {
		h.respondError(w, err)
		return
	}
	h.respondJSON(w, http.StatusOK, warnings)
}

// Forecast projects the balance curve from caller-supplied scalars. The
// burn rate defaults to the one computed from the business's records.
func (h *Handler) Forecast(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	balance, err := decimal.NewFromString(q.Get("balance"))
	if err != nil {
		h.respondJSON(w, http.StatusBadRequest, map[string]string{"error": "balance is required and must be a number"})
		return
	}

	var burnRate *decimal.Decimal
	if raw := q.Get("burn_rate"); raw != "" {
		rate, err := decimal.NewFromString(raw)
		if err != nil {
			h.respondJSON(w, http.StatusBadRequest, map[string]string{"error": "burn_rate must be a number"})
			return
		}
		burnRate = &rate
	}

	monthlyRevenue := decimal.Zero
	if raw := q.Get("monthly_revenue"); raw != "" {
		monthlyRevenue, err = decimal.NewFromString(raw)
		if err != nil {
			h.respondJSON(w, http.StatusBadRequest, map[string]string{"error": "monthly_revenue must be a number"})
			return
		}
	}

	months := analytics.DefaultProjectionMonths
	if raw := q.Get("months"); raw != "" {
		months, err = strconv.Atoi(raw)
		if err != nil || months < 1 {
			h.respondJSON(w, http.StatusBadRequest, map[string]string{"error": "months must be a positive integer"})
			return
		}
	}

	forecast, err := h.svc.Forecast(mux.Vars(r)["businessID"], balance, burnRate, monthlyRevenue, months)
	if err != nil {
		h.respondError(w, err)
		return
	}
	h.respondJSON(w, http.StatusOK, forecast)
}

// ExportReport renders the financial report as XML for download
func (h *Handler) ExportReport(w http.ResponseWriter, r *http.Request) {
	period, err := analytics.ParsePeriod(r.URL.Query().Get("period"))
	if err != nil {
		h.respondJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}

	businessID := mux.Vars(r)["businessID"]
	out, err := h.svc.ExportReport(businessID, period, time.Now())
	if err != nil {
		h.respondError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/xml")
	w.Header().Set("Content-Disposition", `attachment; filename="financial-report.xml"`)
	if _, err := w.Write(out); err != nil {
		h.log.Errorf("Failed to write report for business %s: %v", businessID, err)
	}
}

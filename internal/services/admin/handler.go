// Package admin serves the authenticated reporting API.
package admin

import (
	"context"
	"crypto/subtle"
	"encoding/csv"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"tasty-bites/internal/config"
	"tasty-bites/internal/logger"
	"tasty-bites/internal/models"
	"tasty-bites/internal/orders"
)

// Reporting is the read side of the order store.
type Reporting interface {
	List(ctx context.Context) ([]models.Order, error)
	Get(ctx context.Context, orderID int) (*models.Order, error)
	GetAnalytics(ctx context.Context) (*orders.Analytics, error)
}

// Handler handles HTTP requests for the admin API
type Handler struct {
	reporting Reporting
	username  string
	password  string
	logger    *logger.Logger
}

// NewHandler creates a new admin handler
func NewHandler(reporting Reporting, cfg *config.Config, log *logger.Logger) *Handler {
	return &Handler{
		reporting: reporting,
		username:  cfg.Admin.Username,
		password:  cfg.Admin.Password,
		logger:    log,
	}
}

// ListOrders handles GET /admin/api/orders requests
func (h *Handler) ListOrders(w http.ResponseWriter, r *http.Request) {
	requestID := logger.GenerateRequestID()

	if r.Method != http.MethodGet {
		h.writeErrorResponse(w, http.StatusMethodNotAllowed, "Method not allowed", requestID)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	list, err := h.reporting.List(ctx)
	if err != nil {
		h.logger.Error("orders_list_failed", "Failed to list orders", requestID, err, nil)
		h.writeErrorResponse(w, http.StatusInternalServerError, "Internal server error", requestID)
		return
	}
	if list == nil {
		list = []models.Order{}
	}

	h.writeJSON(w, http.StatusOK, map[string]interface{}{
		"status": "success",
		"orders": list,
		"count":  len(list),
	})
}

// GetOrder handles GET /admin/api/orders/{id} requests
func (h *Handler) GetOrder(w http.ResponseWriter, r *http.Request) {
	requestID := logger.GenerateRequestID()

	if r.Method != http.MethodGet {
		h.writeErrorResponse(w, http.StatusMethodNotAllowed, "Method not allowed", requestID)
		return
	}

	idStr := strings.TrimPrefix(r.URL.Path, "/admin/api/orders/")
	orderID, err := strconv.Atoi(idStr)
	if err != nil {
		h.writeErrorResponse(w, http.StatusBadRequest, "Invalid order id", requestID)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	order, err := h.reporting.Get(ctx, orderID)
	if err != nil {
		if errors.Is(err, orders.ErrNotFound) {
			h.writeErrorResponse(w, http.StatusNotFound, "Order not found", requestID)
			return
		}
		h.logger.Error("order_get_failed", "Failed to load order", requestID, err, map[string]interface{}{
			"order_id": orderID,
		})
		h.writeErrorResponse(w, http.StatusInternalServerError, "Internal server error", requestID)
		return
	}

	h.writeJSON(w, http.StatusOK, map[string]interface{}{
		"status": "success",
		"order":  order,
	})
}

// Analytics handles GET /admin/api/analytics requests
func (h *Handler) Analytics(w http.ResponseWriter, r *http.Request) {
	requestID := logger.GenerateRequestID()

	if r.Method != http.MethodGet {
		h.writeErrorResponse(w, http.StatusMethodNotAllowed, "Method not allowed", requestID)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	analytics, err := h.reporting.GetAnalytics(ctx)
	if err != nil {
		h.logger.Error("analytics_failed", "Failed to compute analytics", requestID, err, nil)
		h.writeErrorResponse(w, http.StatusInternalServerError, "Internal server error", requestID)
		return
	}

	h.writeJSON(w, http.StatusOK, map[string]interface{}{
		"status":    "success",
		"analytics": analytics,
	})
}

// ExportOrders handles GET /admin/api/orders/export requests, returning all
// orders as a CSV attachment.
func (h *Handler) ExportOrders(w http.ResponseWriter, r *http.Request) {
	requestID := logger.GenerateRequestID()

	if r.Method != http.MethodGet {
		h.writeErrorResponse(w, http.StatusMethodNotAllowed, "Method not allowed", requestID)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	list, err := h.reporting.List(ctx)
	if err != nil {
		h.logger.Error("orders_export_failed", "Failed to list orders for export", requestID, err, nil)
		h.writeErrorResponse(w, http.StatusInternalServerError, "Internal server error", requestID)
		return
	}

	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", `attachment; filename="orders.csv"`)
	w.WriteHeader(http.StatusOK)

	writer := csv.NewWriter(w)
	writer.Write([]string{"id", "user_phone", "total_amount", "delivery_address", "status", "created_at"})
	for _, order := range list {
		writer.Write([]string{
			strconv.Itoa(order.ID),
			order.UserPhone,
			order.TotalAmount.String(),
			order.DeliveryAddress,
			string(order.Status),
			order.CreatedAt.UTC().Format(time.RFC3339),
		})
	}
	writer.Flush()

	if err := writer.Error(); err != nil {
		h.logger.Error("orders_export_failed", "Failed to write CSV", requestID, err, nil)
	}
}

// RegisterRoutes adds the admin routes to an existing mux
func (h *Handler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("/admin/api/orders", h.withAuth(h.ListOrders))
	mux.HandleFunc("/admin/api/orders/export", h.withAuth(h.ExportOrders))
	mux.HandleFunc("/admin/api/orders/", h.withAuth(h.GetOrder))
	mux.HandleFunc("/admin/api/analytics", h.withAuth(h.Analytics))
}

// withAuth enforces HTTP basic auth against the configured admin credentials
func (h *Handler) withAuth(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		username, password, ok := r.BasicAuth()
		if !ok || !h.credentialsMatch(username, password) {
			w.Header().Set("WWW-Authenticate", `Basic realm="admin"`)
			h.writeErrorResponse(w, http.StatusUnauthorized, "Unauthorized", "")
			return
		}
		next(w, r)
	}
}

func (h *Handler) credentialsMatch(username, password string) bool {
	userOK := subtle.ConstantTimeCompare([]byte(username), []byte(h.username)) == 1
	passOK := subtle.ConstantTimeCompare([]byte(password), []byte(h.password)) == 1
	return userOK && passOK
}

func (h *Handler) writeJSON(w http.ResponseWriter, statusCode int, body map[string]interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)

	if err := json.NewEncoder(w).Encode(body); err != nil {
		h.logger.Error("response_encoding_failed", "Failed to encode response", "", err, nil)
	}
}

// writeErrorResponse writes an error response in JSON format
func (h *Handler) writeErrorResponse(w http.ResponseWriter, statusCode int, message, requestID string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)

	errorResponse := map[string]interface{}{
		"error":      message,
		"timestamp":  time.Now().UTC().Format(time.RFC3339),
		"request_id": requestID,
	}

	json.NewEncoder(w).Encode(errorResponse)
}

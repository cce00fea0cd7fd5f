// Package bot exposes the WhatsApp webhook and the bot's public endpoints.
package bot

import (
	"context"
	"encoding/json"
	"encoding/xml"
	"fmt"
	"net/http"
	"strings"
	"time"

	"tasty-bites/internal/logger"
	"tasty-bites/internal/models"
)

// Dialogue processes one inbound message and returns the reply text.
type Dialogue interface {
	Handle(ctx context.Context, phone, text string) (string, error)
}

// UserRegistry records customer contact and reports the customer count.
type UserRegistry interface {
	Touch(ctx context.Context, phone string) error
	TotalUsers(ctx context.Context) (int, error)
}

// OrderCounter reports how many orders have been placed.
type OrderCounter interface {
	TotalOrders(ctx context.Context) (int, error)
}

// Menu lists the catalog for the public menu endpoint.
type Menu interface {
	Items() []models.MenuItem
}

const apologyReply = "😔 Sorry, something went wrong. Please try again in a moment."

// Handler handles HTTP requests for the bot service
type Handler struct {
	dialogue Dialogue
	users    UserRegistry
	orders   OrderCounter
	menu     Menu
	logger   *logger.Logger
}

// NewHandler creates a new bot handler
func NewHandler(dialogue Dialogue, users UserRegistry, orders OrderCounter, menu Menu, log *logger.Logger) *Handler {
	return &Handler{
		dialogue: dialogue,
		users:    users,
		orders:   orders,
		menu:     menu,
		logger:   log,
	}
}

// twiML is the response document Twilio expects from a webhook.
type twiML struct {
	XMLName xml.Name `xml:"Response"`
	Message string   `xml:"Message"`
}

// Webhook handles POST /webhook requests from Twilio. The sender arrives in
// the From form field prefixed with "whatsapp:", the text in Body.
func (h *Handler) Webhook(w http.ResponseWriter, r *http.Request) {
	requestID := logger.GenerateRequestID()

	if r.Method != http.MethodPost {
		h.writeErrorResponse(w, http.StatusMethodNotAllowed, "Method not allowed", requestID)
		return
	}

	phone := strings.TrimPrefix(r.FormValue("From"), "whatsapp:")
	body := r.FormValue("Body")

	if phone == "" {
		h.logger.Error("validation_failed", "Webhook request without sender", requestID, nil, nil)
		h.writeErrorResponse(w, http.StatusBadRequest, "Missing From field", requestID)
		return
	}

	h.logger.Debug("message_received", "Received WhatsApp message", requestID, map[string]interface{}{
		"phone":       phone,
		"body_length": len(body),
	})

	ctx, cancel := context.WithTimeout(r.Context(), 30*time.Second)
	defer cancel()

	if err := h.users.Touch(ctx, phone); err != nil {
		h.logger.Error("user_touch_failed", "Failed to record user contact", requestID, err, map[string]interface{}{
			"phone": phone,
		})
	}

	reply, err := h.dialogue.Handle(ctx, phone, body)
	if err != nil {
		// Twilio retries non-2xx responses, which would replay the
		// message; answer with an apology instead.
		h.logger.Error("message_handling_failed", "Failed to handle message", requestID, err, map[string]interface{}{
			"phone": phone,
		})
		reply = apologyReply
	}

	h.writeTwiML(w, reply, requestID)
}

// Status handles GET /status requests
func (h *Handler) Status(w http.ResponseWriter, r *http.Request) {
	requestID := logger.GenerateRequestID()

	if r.Method != http.MethodGet {
		h.writeErrorResponse(w, http.StatusMethodNotAllowed, "Method not allowed", requestID)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	totalUsers, err := h.users.TotalUsers(ctx)
	if err != nil {
		h.logger.Error("status_failed", "Failed to count users", requestID, err, nil)
		h.writeErrorResponse(w, http.StatusInternalServerError, "Internal server error", requestID)
		return
	}

	totalOrders, err := h.orders.TotalOrders(ctx)
	if err != nil {
		h.logger.Error("status_failed", "Failed to count orders", requestID, err, nil)
		h.writeErrorResponse(w, http.StatusInternalServerError, "Internal server error", requestID)
		return
	}

	response := map[string]interface{}{
		"status":       "running",
		"timestamp":    time.Now().UTC().Format(time.RFC3339),
		"total_users":  totalUsers,
		"total_orders": totalOrders,
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(response)
}

// MenuList handles GET /menu requests
func (h *Handler) MenuList(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		h.writeErrorResponse(w, http.StatusMethodNotAllowed, "Method not allowed", "")
		return
	}

	response := map[string]interface{}{
		"status": "success",
		"menu":   h.menu.Items(),
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(response)
}

// HealthCheck handles GET /health requests
func (h *Handler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		h.writeErrorResponse(w, http.StatusMethodNotAllowed, "Method not allowed", "")
		return
	}

	response := map[string]interface{}{
		"status":    "ok",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
		"service":   "bot-service",
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(response)
}

// writeTwiML writes the reply as a TwiML document
func (h *Handler) writeTwiML(w http.ResponseWriter, message, requestID string) {
	w.Header().Set("Content-Type", "application/xml")
	w.WriteHeader(http.StatusOK)

	fmt.Fprint(w, xml.Header)
	if err := xml.NewEncoder(w).Encode(twiML{Message: message}); err != nil {
		h.logger.Error("response_encoding_failed", "Failed to encode TwiML response", requestID, err, nil)
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

// SetupRoutes sets up the HTTP routes
func (h *Handler) SetupRoutes() *http.ServeMux {
	mux := http.NewServeMux()

	mux.HandleFunc("/webhook", h.withLogging(h.Webhook))
	mux.HandleFunc("/status", h.withLogging(h.Status))
	mux.HandleFunc("/menu", h.withLogging(h.MenuList))
	mux.HandleFunc("/health", h.withLogging(h.HealthCheck))

	return mux
}

// withLogging adds request logging middleware
func (h *Handler) withLogging(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		requestID := logger.GenerateRequestID()

		h.logger.Debug("request_started",
			fmt.Sprintf("%s %s", r.Method, r.URL.Path),
			requestID,
			map[string]interface{}{
				"method":      r.Method,
				"path":        r.URL.Path,
				"remote_addr": r.RemoteAddr,
				"user_agent":  r.Header.Get("User-Agent"),
			})

		rw := &responseWriter{ResponseWriter: w, statusCode: 200}

		next(rw, r)

		duration := time.Since(start)
		h.logger.Debug("request_completed",
			fmt.Sprintf("%s %s - %d", r.Method, r.URL.Path, rw.statusCode),
			requestID,
			map[string]interface{}{
				"method":      r.Method,
				"path":        r.URL.Path,
				"status_code": rw.statusCode,
				"duration_ms": duration.Milliseconds(),
			})
	}
}

// responseWriter wraps http.ResponseWriter to capture status code
type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

package handlers

import (
	"database/sql"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/Farouk-MY/PFE-sub001/config"
	"github.com/Farouk-MY/PFE-sub001/internal/auth"
	"github.com/Farouk-MY/PFE-sub001/internal/db"
	"github.com/Farouk-MY/PFE-sub001/internal/engine"
	"github.com/Farouk-MY/PFE-sub001/internal/ledger"
	"github.com/Farouk-MY/PFE-sub001/internal/settlement"
	"github.com/Farouk-MY/PFE-sub001/internal/status"
	"github.com/Farouk-MY/PFE-sub001/models"
)

type Handler struct {
	Database db.Database
	Config   *config.Config
	Logger   *zap.SugaredLogger
	Engine   *engine.Engine
}

func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	var credentials models.Credentials
	var customer models.Customer

	if err := json.NewDecoder(r.Body).Decode(&credentials); err != nil {
		h.Logger.Error("error reading decoded credentials", zap.Error(err))
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	passwordBytes, err := bcrypt.GenerateFromPassword([]byte(credentials.Password), 14)
	if err != nil {
		h.Logger.Info("password encryption error", zap.Error(err))
		http.Error(w, "internal error", http.StatusBadRequest)
		return
	}

	customer.Login = credentials.Login
	customer.Password = string(passwordBytes)
	customer.UUID = uuid.New().String()
	customer.Role = models.RoleCustomer

	if err = h.Database.PutUniqueCustomer(r.Context(), customer); err != nil {
		if strings.Contains(err.Error(), "duplicate key value violates unique constraint") {
			h.Logger.Debug("duplicate key value violates unique constraint", zap.Error(err))
			http.Error(w, "login already exists", http.StatusConflict)
			return
		}
		h.Logger.Error("error when trying to put credentials to database", zap.Error(err))
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	token, err := auth.BuildJWT(customer.UUID, customer.Role)
	if err != nil {
		h.Logger.Error("error building JWT", zap.Error(err))
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Authorization", "Bearer "+token)
	w.WriteHeader(http.StatusOK)
}

func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var credentials models.Credentials

	if err := json.NewDecoder(r.Body).Decode(&credentials); err != nil {
		h.Logger.Error("error reading decoded credentials", zap.Error(err))
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	customer, err := h.Database.GetCustomer(r.Context(), credentials.Login)
	if err != nil {
		if strings.Contains(err.Error(), "no rows in result set") {
			h.Logger.Error("login does not exist", zap.Error(err))
			http.Error(w, "login does not exist", http.StatusUnauthorized)
			return
		}
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	err = bcrypt.CompareHashAndPassword([]byte(customer.Password), []byte(credentials.Password))
	if err != nil {
		h.Logger.Error("invalid login or password", zap.Error(err))
		http.Error(w, "invalid login or password", http.StatusUnauthorized)
		return
	}

	token, err := auth.BuildJWT(customer.UUID, customer.Role)
	if err != nil {
		h.Logger.Error("error building JWT", zap.Error(err))
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Authorization", "Bearer "+token)
	w.WriteHeader(http.StatusOK)
}

// Checkout submits a cart for settlement. Discount corrections
// (clamped or floored points) do not fail the request, they come back
// in the adjustments field so the UI can re-confirm with the customer.
func (h *Handler) Checkout(w http.ResponseWriter, r *http.Request) {
	customerID := r.Header.Get("UUID")
	if customerID == "" {
		http.Error(w, "user UUID not found", http.StatusUnauthorized)
		return
	}

	var req models.PlaceOrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.Logger.Error("error decoding checkout request", zap.Error(err))
		http.Error(w, "invalid checkout request", http.StatusBadRequest)
		return
	}
	req.CustomerID = customerID

	confirmation, err := h.Engine.PlaceOrder(r.Context(), req)
	if err != nil {
		h.writeCheckoutError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	if err = json.NewEncoder(w).Encode(confirmation); err != nil {
		h.Logger.Error("error encoding confirmation", zap.Error(err))
	}
}

func (h *Handler) writeCheckoutError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, engine.ErrEmptyCart),
		errors.Is(err, engine.ErrMissingAddress),
		errors.Is(err, engine.ErrInvalidDelivery):
		http.Error(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, ledger.ErrInsufficientPoints):
		http.Error(w, err.Error(), http.StatusPaymentRequired)
	case errors.Is(err, settlement.ErrInvalidTotal):
		h.Logger.Error("settlement invariant breached", zap.Error(err))
		http.Error(w, "internal server error", http.StatusInternalServerError)
	default:
		h.Logger.Error("checkout failed", zap.Error(err))
		http.Error(w, "internal server error", http.StatusInternalServerError)
	}
}

func (h *Handler) OrdersGet(w http.ResponseWriter, r *http.Request) {
	customerID := r.Header.Get("UUID")
	if customerID == "" {
		http.Error(w, "user UUID not found", http.StatusUnauthorized)
		return
	}

	orders, err := h.Database.GetOrdersList(r.Context(), customerID)
	if err != nil {
		h.Logger.Error("error getting orders", zap.Error(err))
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	if len(orders) == 0 {
		w.WriteHeader(http.StatusNoContent)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if err = json.NewEncoder(w).Encode(orders); err != nil {
		h.Logger.Error("error encoding orders", zap.Error(err))
	}
}

func (h *Handler) Balance(w http.ResponseWriter, r *http.Request) {
	customerID := r.Header.Get("UUID")
	if customerID == "" {
		http.Error(w, "user UUID not found", http.StatusUnauthorized)
		return
	}

	balance, err := h.Database.ReadBalance(r.Context(), customerID)
	if err != nil {
		h.Logger.Error("error reading balance", zap.Error(err))
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if err = json.NewEncoder(w).Encode(models.BalanceResponse{Balance: balance}); err != nil {
		h.Logger.Error("error encoding balance", zap.Error(err))
	}
}

func (h *Handler) PointsHistory(w http.ResponseWriter, r *http.Request) {
	customerID := r.Header.Get("UUID")
	if customerID == "" {
		http.Error(w, "user UUID not found", http.StatusUnauthorized)
		return
	}

	entries, err := h.Database.ReadHistory(r.Context(), customerID)
	if err != nil {
		h.Logger.Error("error reading points history", zap.Error(err))
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	if len(entries) == 0 {
		w.WriteHeader(http.StatusNoContent)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if err = json.NewEncoder(w).Encode(entries); err != nil {
		h.Logger.Error("error encoding points history", zap.Error(err))
	}
}

// OrderGet returns one order for the admin order view.
func (h *Handler) OrderGet(w http.ResponseWriter, r *http.Request) {
	orderID := chi.URLParam(r, "orderID")
	if orderID == "" {
		http.Error(w, "order id is required", http.StatusBadRequest)
		return
	}

	order, err := h.Database.GetOrderByID(r.Context(), orderID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			http.Error(w, "order not found", http.StatusNotFound)
			return
		}
		h.Logger.Error("error getting order", zap.Error(err))
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if err = json.NewEncoder(w).Encode(order); err != nil {
		h.Logger.Error("error encoding order", zap.Error(err))
	}
}

// OrderStatus is the admin surface for fulfillment transitions.
func (h *Handler) OrderStatus(w http.ResponseWriter, r *http.Request) {
	orderID := chi.URLParam(r, "orderID")
	if orderID == "" {
		http.Error(w, "order id is required", http.StatusBadRequest)
		return
	}

	var req models.StatusChangeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.Logger.Error("error decoding status change", zap.Error(err))
		http.Error(w, "invalid status change request", http.StatusBadRequest)
		return
	}
	if req.ActorID == "" {
		req.ActorID = r.Header.Get("UUID")
	}

	order, err := h.Engine.ChangeStatus(r.Context(), orderID, req.NewStatus, req.ActorID)
	if err != nil {
		var illegal *status.IllegalTransitionError
		switch {
		case errors.As(err, &illegal):
			http.Error(w, illegal.Error(), http.StatusConflict)
		case errors.Is(err, engine.ErrUnknownStatus):
			http.Error(w, err.Error(), http.StatusBadRequest)
		case errors.Is(err, sql.ErrNoRows):
			http.Error(w, "order not found", http.StatusNotFound)
		default:
			h.Logger.Error("status change failed", zap.Error(err))
			http.Error(w, "internal server error", http.StatusInternalServerError)
		}
		return
	}

	resp := models.StatusChangeResponse{
		OrderID: order.UUID,
		Status:  order.Status,
	}
	if order.DeliveredAt != nil {
		stamp := order.DeliveredAt.Format(time.RFC3339)
		resp.DeliveredAt = &stamp
	}

	w.Header().Set("Content-Type", "application/json")
	if err = json.NewEncoder(w).Encode(resp); err != nil {
		h.Logger.Error("error encoding status change response", zap.Error(err))
	}
}

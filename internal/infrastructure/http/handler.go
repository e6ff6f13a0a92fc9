package httptransport

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	appcatalog "github.com/campusbazaar/marketplace/internal/application/catalog"
	appinventory "github.com/campusbazaar/marketplace/internal/application/inventory"
	apporder "github.com/campusbazaar/marketplace/internal/application/order"
	apppayment "github.com/campusbazaar/marketplace/internal/application/payment"
	domcatalog "github.com/campusbazaar/marketplace/internal/domain/catalog"
	domlisting "github.com/campusbazaar/marketplace/internal/domain/listing"
	domorder "github.com/campusbazaar/marketplace/internal/domain/order"
	dompayment "github.com/campusbazaar/marketplace/internal/domain/payment"
	"github.com/shopspring/decimal"
)

type Handler struct {
	catalogService   *appcatalog.Service
	inventoryService *appinventory.Service
	orderService     *apporder.Service
	paymentService   *apppayment.Service
}

func NewHandler(
	catalogSvc *appcatalog.Service,
	inventorySvc *appinventory.Service,
	orderSvc *apporder.Service,
	paymentSvc *apppayment.Service,
) *Handler {
	return &Handler{
		catalogService:   catalogSvc,
		inventoryService: inventorySvc,
		orderService:     orderSvc,
		paymentService:   paymentSvc,
	}
}

func (h *Handler) Router() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("POST /products/add", h.handleAddProduct)

	mux.HandleFunc("POST /lists/add", h.handleAddListing)
	mux.HandleFunc("PUT /lists/update", h.handleUpdateListing)
	mux.HandleFunc("DELETE /lists/remove", h.handleRemoveListing)

	mux.HandleFunc("POST /orders/create", h.handleCreateOrder)
	mux.HandleFunc("GET /orders/user/{email}", h.handleGetUserOrders)
	mux.HandleFunc("GET /orders/{id}", h.handleGetOrder)
	mux.HandleFunc("POST /order-details/add", h.handleAddOrderDetail)

	mux.HandleFunc("POST /payments/initiate", h.handleInitiatePayment)
	mux.HandleFunc("POST /payments/verify", h.handleVerifyPayment)
	mux.HandleFunc("POST /payments/resend-otp", h.handleResendOTP)

	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	return mux
}

type addProductRequest struct {
	PID         string          `json:"pid"`
	ProductName string          `json:"product_name"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price"`
}

func (h *Handler) handleAddProduct(w http.ResponseWriter, r *http.Request) {
	var req addProductRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	result, err := h.catalogService.AddProduct(r.Context(), appcatalog.AddProductInput{
		ID:          req.PID,
		Name:        req.ProductName,
		Description: req.Description,
		Price:       req.Price,
	})
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{
		"message": "Product added",
		"pid":     result.ProductID,
	})
}

type listingRequest struct {
	EmailID string `json:"email_id"`
	PID     string `json:"pid"`
	Stock   int    `json:"stock"`
}

func (h *Handler) handleAddListing(w http.ResponseWriter, r *http.Request) {
	var req listingRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	if err := h.inventoryService.AddListing(r.Context(), req.EmailID, req.PID, req.Stock); err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"message": "Product added to list"})
}

func (h *Handler) handleUpdateListing(w http.ResponseWriter, r *http.Request) {
	var req listingRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	if err := h.inventoryService.UpdateListing(r.Context(), req.EmailID, req.PID, req.Stock); err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"message": "Listing updated"})
}

func (h *Handler) handleRemoveListing(w http.ResponseWriter, r *http.Request) {
	sellerEmail := r.URL.Query().Get("email_id")
	pid := r.URL.Query().Get("pid")
	if sellerEmail == "" || pid == "" {
		writeError(w, http.StatusBadRequest, errors.New("email_id and pid are required"))
		return
	}

	outcome, err := h.inventoryService.RemoveListing(r.Context(), sellerEmail, pid)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	message := "Listing removed"
	switch {
	case outcome.ProductDeleted:
		message = "Listing removed and product deleted (no longer listed by anyone)"
	case outcome.HasOrderHistory:
		message = "Listing removed. Product kept due to order history."
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"message":           message,
		"product_deleted":   outcome.ProductDeleted,
		"has_order_history": outcome.HasOrderHistory,
	})
}

type createOrderRequest struct {
	EmailID string `json:"email_id"`
}

func (h *Handler) handleCreateOrder(w http.ResponseWriter, r *http.Request) {
	var req createOrderRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	order, err := h.orderService.CreateOrder(r.Context(), req.EmailID)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"message":  "Order created",
		"order_id": order.ID,
	})
}

func (h *Handler) handleGetOrder(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, errors.New("invalid order id"))
		return
	}

	view, err := h.orderService.GetOrder(r.Context(), id)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

func (h *Handler) handleGetUserOrders(w http.ResponseWriter, r *http.Request) {
	views, err := h.orderService.GetUserOrders(r.Context(), r.PathValue("email"))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, views)
}

type addOrderDetailRequest struct {
	OrderID  int64  `json:"order_id"`
	PID      string `json:"pid"`
	OrderQty int    `json:"order_qty"`
}

func (h *Handler) handleAddOrderDetail(w http.ResponseWriter, r *http.Request) {
	var req addOrderDetailRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	if err := h.inventoryService.PlaceOrderLine(r.Context(), req.OrderID, req.PID, req.OrderQty); err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"message": "Order item added"})
}

type initiatePaymentRequest struct {
	EmailID string          `json:"email_id"`
	Amount  decimal.Decimal `json:"amount"`
	OrderID int64           `json:"order_id"`
}

func (h *Handler) handleInitiatePayment(w http.ResponseWriter, r *http.Request) {
	var req initiatePaymentRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	result, err := h.paymentService.Initiate(r.Context(), req.EmailID, req.Amount, req.OrderID)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"message":    "OTP sent to your registered email",
		"email":      result.Email,
		"expires_in": result.ExpiresIn,
	})
}

type verifyPaymentRequest struct {
	EmailID string `json:"email_id"`
	OTP     string `json:"otp"`
	OrderID int64  `json:"order_id"`
}

func (h *Handler) handleVerifyPayment(w http.ResponseWriter, r *http.Request) {
	var req verifyPaymentRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	result, err := h.paymentService.Verify(r.Context(), req.EmailID, req.OTP, req.OrderID)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"message":  "Payment successful",
		"order_id": result.OrderID,
		"amount":   result.Amount,
		"status":   result.Status,
	})
}

type resendOTPRequest struct {
	EmailID string `json:"email_id"`
	OrderID int64  `json:"order_id"`
}

func (h *Handler) handleResendOTP(w http.ResponseWriter, r *http.Request) {
	var req resendOTPRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	result, err := h.paymentService.Resend(r.Context(), req.EmailID, req.OrderID)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"message":    "OTP resent to your registered email",
		"email":      result.Email,
		"expires_in": result.ExpiresIn,
	})
}

func decodeJSON(r *http.Request, dst any) error {
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	return decoder.Decode(dst)
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, map[string]string{"error": err.Error()})
}

func writeDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domcatalog.ErrNotFound),
		errors.Is(err, domlisting.ErrNotFound),
		errors.Is(err, domorder.ErrNotFound):
		writeError(w, http.StatusNotFound, err)
	case errors.Is(err, dompayment.ErrForbidden):
		writeError(w, http.StatusForbidden, err)
	case errors.Is(err, domcatalog.ErrDuplicateID),
		errors.Is(err, domcatalog.ErrInvalidName),
		errors.Is(err, domcatalog.ErrInvalidPrice),
		errors.Is(err, domcatalog.ErrIDExhausted),
		errors.Is(err, domlisting.ErrInvalidQuantity),
		errors.Is(err, domlisting.ErrNegativeStock),
		errors.Is(err, domlisting.ErrUnknownProduct),
		errors.Is(err, domlisting.ErrInsufficientStock),
		errors.Is(err, domlisting.ErrProductUnavailable),
		errors.Is(err, domorder.ErrInvalidBuyer),
		errors.Is(err, domorder.ErrInvalidQuantity),
		errors.Is(err, dompayment.ErrNoChallenge),
		errors.Is(err, dompayment.ErrExpired),
		errors.Is(err, dompayment.ErrOrderMismatch),
		errors.Is(err, dompayment.ErrCodeMismatch):
		writeError(w, http.StatusBadRequest, err)
	default:
		writeError(w, http.StatusInternalServerError, err)
	}
}

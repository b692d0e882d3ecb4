package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	portssvc "github.com/openbooks/ledger_backend/internal/core/ports/services"
	"github.com/openbooks/ledger_backend/internal/dto"
	"github.com/openbooks/ledger_backend/internal/middleware"
)

// paymentHandler handles HTTP requests related to payments and reconciliation.
type paymentHandler struct {
	paymentService portssvc.PaymentSvcFacade
}

func newPaymentHandler(ps portssvc.PaymentSvcFacade) *paymentHandler {
	return &paymentHandler{
		paymentService: ps,
	}
}

// registerPaymentRoutes registers routes related to payments, tranches and
// reconciliations.
func registerPaymentRoutes(rg *gin.RouterGroup, paymentService portssvc.PaymentSvcFacade) {
	h := newPaymentHandler(paymentService)

	payments := rg.Group("/payments")
	{
		payments.POST("", h.createPayment)
		payments.GET("", h.listPayments)
		payments.GET("/:id", h.getPayment)
		payments.POST("/:id/validate", h.validatePayment)
		payments.POST("/:id/post", h.postPayment)
		payments.POST("/:id/cancel", h.cancelPayment)
		payments.POST("/:id/tranches", h.postTranche)
	}

	rg.POST("/tranches/:id/cancel", h.cancelTranche)
	rg.GET("/reconciliations", h.listReconciliations)
}

// createPayment godoc
// @Summary Record a draft payment
// @Description Creates a draft payment for a partner
// @Tags payments
// @Accept  json
// @Produce  json
// @Param   payment body dto.CreatePaymentRequest true "Payment details"
// @Success 201 {object} dto.Response{data=dto.PaymentResponse}
// @Failure 400 {object} dto.Response "Invalid input format or validation error"
// @Failure 401 {object} dto.Response "Unauthorized"
// @Failure 404 {object} dto.Response "Partner or journal not found"
// @Failure 409 {object} dto.Response "Payment number already exists"
// @Failure 500 {object} dto.Response "Failed to create payment"
// @Security BearerAuth
// @Router /payments [post]
func (h *paymentHandler) createPayment(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.CreatePaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindingError(c, err)
		return
	}

	creatorUserID, ok := requireUserID(c)
	if !ok {
		return
	}

	logger.Info("Received request to create payment", slog.String("number", req.Number), slog.String("partner_id", req.PartnerID))

	payment, err := h.paymentService.CreatePayment(c.Request.Context(), req, creatorUserID)
	if err != nil {
		respondError(c, err, "Failed to create payment")
		return
	}

	logger.Info("Payment created successfully", slog.String("payment_id", payment.PaymentID))
	c.JSON(http.StatusCreated, dto.OK(dto.ToPaymentResponse(payment)))
}

// getPayment godoc
// @Summary Get a payment by ID
// @Description Retrieves a payment with its tranches
// @Tags payments
// @Produce  json
// @Param   id path string true "Payment ID"
// @Success 200 {object} dto.Response{data=dto.PaymentResponse}
// @Failure 401 {object} dto.Response "Unauthorized"
// @Failure 404 {object} dto.Response "Payment not found"
// @Failure 500 {object} dto.Response "Failed to retrieve payment"
// @Security BearerAuth
// @Router /payments/{id} [get]
func (h *paymentHandler) getPayment(c *gin.Context) {
	paymentID := c.Param("id")

	payment, err := h.paymentService.GetPaymentByID(c.Request.Context(), paymentID)
	if err != nil {
		respondError(c, err, "Failed to retrieve payment")
		return
	}

	c.JSON(http.StatusOK, dto.OK(dto.ToPaymentResponse(payment)))
}

// listPayments godoc
// @Summary List payments
// @Description Retrieves a paginated list of payments, optionally filtered by partner and status
// @Tags payments
// @Produce  json
// @Param   partnerID query string false "Partner ID filter"
// @Param   status query string false "Payment status filter"
// @Param   page query int false "Page number" default(1)
// @Param   pageSize query int false "Page size" default(20)
// @Success 200 {object} dto.Response{data=dto.ListPaymentsResponse}
// @Failure 400 {object} dto.Response "Invalid query parameters"
// @Failure 401 {object} dto.Response "Unauthorized"
// @Failure 500 {object} dto.Response "Failed to list payments"
// @Security BearerAuth
// @Router /payments [get]
func (h *paymentHandler) listPayments(c *gin.Context) {
	var params dto.ListPaymentsParams
	if err := c.ShouldBindQuery(&params); err != nil {
		bindingError(c, err)
		return
	}

	resp, err := h.paymentService.ListPayments(c.Request.Context(), params)
	if err != nil {
		respondError(c, err, "Failed to list payments")
		return
	}

	c.JSON(http.StatusOK, dto.OK(resp))
}

// validatePayment godoc
// @Summary Validate a draft payment
// @Description Transitions a payment from DRAFT to VALIDATED
// @Tags payments
// @Produce  json
// @Param   id path string true "Payment ID"
// @Success 200 {object} dto.Response{data=dto.PaymentResponse}
// @Failure 401 {object} dto.Response "Unauthorized"
// @Failure 404 {object} dto.Response "Payment not found"
// @Failure 409 {object} dto.Response "Payment is not a draft"
// @Failure 500 {object} dto.Response "Failed to validate payment"
// @Security BearerAuth
// @Router /payments/{id}/validate [post]
func (h *paymentHandler) validatePayment(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	paymentID := c.Param("id")

	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	payment, err := h.paymentService.ValidatePayment(c.Request.Context(), paymentID, userID)
	if err != nil {
		respondError(c, err, "Failed to validate payment")
		return
	}

	logger.Info("Payment validated successfully", slog.String("payment_id", paymentID))
	c.JSON(http.StatusOK, dto.OK(dto.ToPaymentResponse(payment)))
}

// postPayment godoc
// @Summary Post a validated payment
// @Description Transitions a payment from VALIDATED to POSTED. Only posted payments can be allocated to invoices.
// @Tags payments
// @Produce  json
// @Param   id path string true "Payment ID"
// @Success 200 {object} dto.Response{data=dto.PaymentResponse}
// @Failure 401 {object} dto.Response "Unauthorized"
// @Failure 404 {object} dto.Response "Payment not found"
// @Failure 409 {object} dto.Response "Payment is not validated"
// @Failure 500 {object} dto.Response "Failed to post payment"
// @Security BearerAuth
// @Router /payments/{id}/post [post]
func (h *paymentHandler) postPayment(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	paymentID := c.Param("id")

	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	payment, err := h.paymentService.PostPayment(c.Request.Context(), paymentID, userID)
	if err != nil {
		respondError(c, err, "Failed to post payment")
		return
	}

	logger.Info("Payment posted successfully", slog.String("payment_id", paymentID))
	c.JSON(http.StatusOK, dto.OK(dto.ToPaymentResponse(payment)))
}

// cancelPayment godoc
// @Summary Cancel a payment
// @Description Cancels a payment that has no allocated tranches
// @Tags payments
// @Produce  json
// @Param   id path string true "Payment ID"
// @Success 200 {object} dto.Response{data=dto.PaymentResponse}
// @Failure 401 {object} dto.Response "Unauthorized"
// @Failure 404 {object} dto.Response "Payment not found"
// @Failure 409 {object} dto.Response "Payment has allocations or is already cancelled"
// @Failure 500 {object} dto.Response "Failed to cancel payment"
// @Security BearerAuth
// @Router /payments/{id}/cancel [post]
func (h *paymentHandler) cancelPayment(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	paymentID := c.Param("id")

	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	payment, err := h.paymentService.CancelPayment(c.Request.Context(), paymentID, userID)
	if err != nil {
		respondError(c, err, "Failed to cancel payment")
		return
	}

	logger.Info("Payment cancelled successfully", slog.String("payment_id", paymentID))
	c.JSON(http.StatusOK, dto.OK(dto.ToPaymentResponse(payment)))
}

// postTranche godoc
// @Summary Allocate a payment tranche to an invoice
// @Description Allocates part of a posted payment to a posted invoice, adjusting invoice paid/remaining totals and writing a reconciliation record
// @Tags payments
// @Accept  json
// @Produce  json
// @Param   id path string true "Payment ID"
// @Param   tranche body dto.PostTrancheRequest true "Tranche details"
// @Success 201 {object} dto.Response{data=dto.TrancheResponse}
// @Failure 400 {object} dto.Response "Invalid input, partner mismatch or non-positive amount"
// @Failure 401 {object} dto.Response "Unauthorized"
// @Failure 404 {object} dto.Response "Payment or invoice not found"
// @Failure 409 {object} dto.Response "Over-allocation or wrong lifecycle state"
// @Failure 500 {object} dto.Response "Failed to allocate tranche"
// @Security BearerAuth
// @Router /payments/{id}/tranches [post]
func (h *paymentHandler) postTranche(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	paymentID := c.Param("id")

	var req dto.PostTrancheRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindingError(c, err)
		return
	}

	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	logger.Info("Received request to allocate tranche", slog.String("payment_id", paymentID), slog.String("invoice_id", req.InvoiceID))

	tranche, err := h.paymentService.PostTranche(c.Request.Context(), paymentID, req, userID)
	if err != nil {
		respondError(c, err, "Failed to allocate tranche")
		return
	}

	logger.Info("Tranche allocated successfully", slog.String("tranche_id", tranche.TrancheID))
	c.JSON(http.StatusCreated, dto.OK(dto.ToTrancheResponse(tranche)))
}

// cancelTranche godoc
// @Summary Cancel a posted tranche
// @Description Reverses a tranche allocation, restoring invoice and payment totals and cancelling the reconciliation
// @Tags payments
// @Produce  json
// @Param   id path string true "Tranche ID"
// @Success 204 "No Content"
// @Failure 401 {object} dto.Response "Unauthorized"
// @Failure 404 {object} dto.Response "Tranche not found"
// @Failure 409 {object} dto.Response "Tranche is not posted"
// @Failure 500 {object} dto.Response "Failed to cancel tranche"
// @Security BearerAuth
// @Router /tranches/{id}/cancel [post]
func (h *paymentHandler) cancelTranche(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	trancheID := c.Param("id")

	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	if err := h.paymentService.CancelTranche(c.Request.Context(), trancheID, userID); err != nil {
		respondError(c, err, "Failed to cancel tranche")
		return
	}

	logger.Info("Tranche cancelled successfully", slog.String("tranche_id", trancheID))
	c.Status(http.StatusNoContent)
}

// listReconciliations godoc
// @Summary List reconciliation records
// @Description Retrieves reconciliation records filtered by invoice and/or payment
// @Tags payments
// @Produce  json
// @Param   invoiceID query string false "Invoice ID filter"
// @Param   paymentID query string false "Payment ID filter"
// @Success 200 {object} dto.Response{data=[]dto.ReconciliationResponse}
// @Failure 401 {object} dto.Response "Unauthorized"
// @Failure 500 {object} dto.Response "Failed to list reconciliations"
// @Security BearerAuth
// @Router /reconciliations [get]
func (h *paymentHandler) listReconciliations(c *gin.Context) {
	var invoiceID, paymentID *string
	if v := c.Query("invoiceID"); v != "" {
		invoiceID = &v
	}
	if v := c.Query("paymentID"); v != "" {
		paymentID = &v
	}

	recs, err := h.paymentService.ListReconciliations(c.Request.Context(), invoiceID, paymentID)
	if err != nil {
		respondError(c, err, "Failed to list reconciliations")
		return
	}

	c.JSON(http.StatusOK, dto.OK(dto.ToReconciliationResponses(recs)))
}

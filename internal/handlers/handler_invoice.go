package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	portssvc "github.com/openbooks/ledger_backend/internal/core/ports/services"
	"github.com/openbooks/ledger_backend/internal/dto"
	"github.com/openbooks/ledger_backend/internal/middleware"
)

// invoiceHandler handles HTTP requests related to invoices.
type invoiceHandler struct {
	invoiceService portssvc.InvoiceSvcFacade
}

func newInvoiceHandler(is portssvc.InvoiceSvcFacade) *invoiceHandler {
	return &invoiceHandler{
		invoiceService: is,
	}
}

// registerInvoiceRoutes registers routes related to invoices.
func registerInvoiceRoutes(rg *gin.RouterGroup, invoiceService portssvc.InvoiceSvcFacade) {
	h := newInvoiceHandler(invoiceService)

	invoices := rg.Group("/invoices")
	{
		invoices.POST("", h.createInvoice)
		invoices.GET("", h.listInvoices)
		invoices.GET("/:id", h.getInvoice)
		invoices.POST("/:id/validate", h.validateInvoice)
		invoices.POST("/:id/post", h.postInvoice)
		invoices.POST("/:id/cancel", h.cancelInvoice)
	}
}

// createInvoice godoc
// @Summary Create a draft invoice
// @Description Creates a draft invoice; totals are computed from the lines
// @Tags invoices
// @Accept  json
// @Produce  json
// @Param   invoice body dto.CreateInvoiceRequest true "Invoice details"
// @Success 201 {object} dto.Response{data=dto.InvoiceResponse}
// @Failure 400 {object} dto.Response "Invalid input format or validation error"
// @Failure 401 {object} dto.Response "Unauthorized"
// @Failure 404 {object} dto.Response "Partner or journal not found"
// @Failure 409 {object} dto.Response "Invoice number already exists"
// @Failure 500 {object} dto.Response "Failed to create invoice"
// @Security BearerAuth
// @Router /invoices [post]
func (h *invoiceHandler) createInvoice(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.CreateInvoiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindingError(c, err)
		return
	}

	creatorUserID, ok := requireUserID(c)
	if !ok {
		return
	}

	logger.Info("Received request to create invoice", slog.String("number", req.Number), slog.String("partner_id", req.PartnerID))

	invoice, err := h.invoiceService.CreateInvoice(c.Request.Context(), req, creatorUserID)
	if err != nil {
		respondError(c, err, "Failed to create invoice")
		return
	}

	logger.Info("Invoice created successfully", slog.String("invoice_id", invoice.InvoiceID))
	c.JSON(http.StatusCreated, dto.OK(dto.ToInvoiceResponse(invoice)))
}

// getInvoice godoc
// @Summary Get an invoice by ID
// @Description Retrieves an invoice with its lines
// @Tags invoices
// @Produce  json
// @Param   id path string true "Invoice ID"
// @Success 200 {object} dto.Response{data=dto.InvoiceResponse}
// @Failure 401 {object} dto.Response "Unauthorized"
// @Failure 404 {object} dto.Response "Invoice not found"
// @Failure 500 {object} dto.Response "Failed to retrieve invoice"
// @Security BearerAuth
// @Router /invoices/{id} [get]
func (h *invoiceHandler) getInvoice(c *gin.Context) {
	invoiceID := c.Param("id")

	invoice, err := h.invoiceService.GetInvoiceByID(c.Request.Context(), invoiceID)
	if err != nil {
		respondError(c, err, "Failed to retrieve invoice")
		return
	}

	c.JSON(http.StatusOK, dto.OK(dto.ToInvoiceResponse(invoice)))
}

// listInvoices godoc
// @Summary List invoices
// @Description Retrieves a paginated list of invoices, optionally filtered by partner and status
// @Tags invoices
// @Produce  json
// @Param   partnerID query string false "Partner ID filter"
// @Param   status query string false "Invoice status filter"
// @Param   page query int false "Page number" default(1)
// @Param   pageSize query int false "Page size" default(20)
// @Success 200 {object} dto.Response{data=dto.ListInvoicesResponse}
// @Failure 400 {object} dto.Response "Invalid query parameters"
// @Failure 401 {object} dto.Response "Unauthorized"
// @Failure 500 {object} dto.Response "Failed to list invoices"
// @Security BearerAuth
// @Router /invoices [get]
func (h *invoiceHandler) listInvoices(c *gin.Context) {
	var params dto.ListInvoicesParams
	if err := c.ShouldBindQuery(&params); err != nil {
		bindingError(c, err)
		return
	}

	resp, err := h.invoiceService.ListInvoices(c.Request.Context(), params)
	if err != nil {
		respondError(c, err, "Failed to list invoices")
		return
	}

	c.JSON(http.StatusOK, dto.OK(resp))
}

// validateInvoice godoc
// @Summary Validate a draft invoice
// @Description Transitions an invoice from DRAFT to VALIDATED
// @Tags invoices
// @Produce  json
// @Param   id path string true "Invoice ID"
// @Success 200 {object} dto.Response{data=dto.InvoiceResponse}
// @Failure 401 {object} dto.Response "Unauthorized"
// @Failure 404 {object} dto.Response "Invoice not found"
// @Failure 409 {object} dto.Response "Invoice is not a draft"
// @Failure 500 {object} dto.Response "Failed to validate invoice"
// @Security BearerAuth
// @Router /invoices/{id}/validate [post]
func (h *invoiceHandler) validateInvoice(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	invoiceID := c.Param("id")

	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	invoice, err := h.invoiceService.ValidateInvoice(c.Request.Context(), invoiceID, userID)
	if err != nil {
		respondError(c, err, "Failed to validate invoice")
		return
	}

	logger.Info("Invoice validated successfully", slog.String("invoice_id", invoiceID))
	c.JSON(http.StatusOK, dto.OK(dto.ToInvoiceResponse(invoice)))
}

// postInvoice godoc
// @Summary Post a validated invoice
// @Description Transitions an invoice from VALIDATED to POSTED. If the invoice's journal carries default accounts, a balanced journal entry is created and posted.
// @Tags invoices
// @Produce  json
// @Param   id path string true "Invoice ID"
// @Success 200 {object} dto.Response{data=dto.InvoiceResponse}
// @Failure 401 {object} dto.Response "Unauthorized"
// @Failure 404 {object} dto.Response "Invoice not found"
// @Failure 409 {object} dto.Response "Invoice is not validated"
// @Failure 500 {object} dto.Response "Failed to post invoice"
// @Security BearerAuth
// @Router /invoices/{id}/post [post]
func (h *invoiceHandler) postInvoice(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	invoiceID := c.Param("id")

	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	invoice, err := h.invoiceService.PostInvoice(c.Request.Context(), invoiceID, userID)
	if err != nil {
		respondError(c, err, "Failed to post invoice")
		return
	}

	logger.Info("Invoice posted successfully", slog.String("invoice_id", invoiceID))
	c.JSON(http.StatusOK, dto.OK(dto.ToInvoiceResponse(invoice)))
}

// cancelInvoice godoc
// @Summary Cancel an invoice
// @Description Cancels an invoice from any state before PAID. Posted tranches of a partially paid invoice are cancelled and their amounts returned to the payments.
// @Tags invoices
// @Produce  json
// @Param   id path string true "Invoice ID"
// @Success 200 {object} dto.Response{data=dto.InvoiceResponse}
// @Failure 401 {object} dto.Response "Unauthorized"
// @Failure 404 {object} dto.Response "Invoice not found"
// @Failure 409 {object} dto.Response "Invoice is paid or already cancelled"
// @Failure 500 {object} dto.Response "Failed to cancel invoice"
// @Security BearerAuth
// @Router /invoices/{id}/cancel [post]
func (h *invoiceHandler) cancelInvoice(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	invoiceID := c.Param("id")

	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	invoice, err := h.invoiceService.CancelInvoice(c.Request.Context(), invoiceID, userID)
	if err != nil {
		respondError(c, err, "Failed to cancel invoice")
		return
	}

	logger.Info("Invoice cancelled successfully", slog.String("invoice_id", invoiceID))
	c.JSON(http.StatusOK, dto.OK(dto.ToInvoiceResponse(invoice)))
}

package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	portssvc "github.com/openbooks/ledger_backend/internal/core/ports/services"
	"github.com/openbooks/ledger_backend/internal/dto"
	"github.com/openbooks/ledger_backend/internal/middleware"
)

// partnerHandler handles HTTP requests related to the partner directory.
type partnerHandler struct {
	partnerService portssvc.PartnerSvcFacade
}

func newPartnerHandler(ps portssvc.PartnerSvcFacade) *partnerHandler {
	return &partnerHandler{
		partnerService: ps,
	}
}

// registerPartnerRoutes registers partner directory routes.
func registerPartnerRoutes(rg *gin.RouterGroup, partnerService portssvc.PartnerSvcFacade) {
	h := newPartnerHandler(partnerService)

	partners := rg.Group("/partners")
	{
		partners.POST("", h.createPartner)
		partners.GET("", h.listPartners)
		partners.GET("/:id", h.getPartner)
		partners.PUT("/:id", h.updatePartner)
		partners.DELETE("/:id", h.deactivatePartner)
	}
}

// createPartner godoc
// @Summary Create a partner
// @Description Creates a client or supplier partner
// @Tags partners
// @Accept  json
// @Produce  json
// @Param   partner body dto.CreatePartnerRequest true "Partner details"
// @Success 201 {object} dto.Response{data=dto.PartnerResponse}
// @Failure 400 {object} dto.Response "Invalid input format or validation error"
// @Failure 401 {object} dto.Response "Unauthorized"
// @Failure 500 {object} dto.Response "Failed to create partner"
// @Security BearerAuth
// @Router /partners [post]
func (h *partnerHandler) createPartner(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.CreatePartnerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindingError(c, err)
		return
	}

	creatorUserID, ok := requireUserID(c)
	if !ok {
		return
	}

	partner, err := h.partnerService.CreatePartner(c.Request.Context(), req, creatorUserID)
	if err != nil {
		respondError(c, err, "Failed to create partner")
		return
	}

	logger.Info("Partner created successfully", slog.String("partner_id", partner.PartnerID))
	c.JSON(http.StatusCreated, dto.OK(dto.ToPartnerResponse(partner)))
}

// getPartner godoc
// @Summary Get a partner by ID
// @Description Retrieves a single partner
// @Tags partners
// @Produce  json
// @Param   id path string true "Partner ID"
// @Success 200 {object} dto.Response{data=dto.PartnerResponse}
// @Failure 401 {object} dto.Response "Unauthorized"
// @Failure 404 {object} dto.Response "Partner not found"
// @Failure 500 {object} dto.Response "Failed to retrieve partner"
// @Security BearerAuth
// @Router /partners/{id} [get]
func (h *partnerHandler) getPartner(c *gin.Context) {
	partnerID := c.Param("id")

	partner, err := h.partnerService.GetPartnerByID(c.Request.Context(), partnerID)
	if err != nil {
		respondError(c, err, "Failed to retrieve partner")
		return
	}

	c.JSON(http.StatusOK, dto.OK(dto.ToPartnerResponse(partner)))
}

// listPartners godoc
// @Summary List partners
// @Description Retrieves a paginated list of partners, optionally filtered by type
// @Tags partners
// @Produce  json
// @Param   partnerType query string false "Partner type filter (CLIENT, SUPPLIER)"
// @Param   page query int false "Page number" default(1)
// @Param   pageSize query int false "Page size" default(20)
// @Success 200 {object} dto.Response{data=dto.ListPartnersResponse}
// @Failure 400 {object} dto.Response "Invalid query parameters"
// @Failure 401 {object} dto.Response "Unauthorized"
// @Failure 500 {object} dto.Response "Failed to list partners"
// @Security BearerAuth
// @Router /partners [get]
func (h *partnerHandler) listPartners(c *gin.Context) {
	var params dto.ListPartnersParams
	if err := c.ShouldBindQuery(&params); err != nil {
		bindingError(c, err)
		return
	}

	resp, err := h.partnerService.ListPartners(c.Request.Context(), params)
	if err != nil {
		respondError(c, err, "Failed to list partners")
		return
	}

	c.JSON(http.StatusOK, dto.OK(resp))
}

// updatePartner godoc
// @Summary Update a partner
// @Description Updates partner contact details and credit limit
// @Tags partners
// @Accept  json
// @Produce  json
// @Param   id path string true "Partner ID"
// @Param   partner body dto.UpdatePartnerRequest true "Fields to update"
// @Success 200 {object} dto.Response{data=dto.PartnerResponse}
// @Failure 400 {object} dto.Response "Invalid input format or validation error"
// @Failure 401 {object} dto.Response "Unauthorized"
// @Failure 404 {object} dto.Response "Partner not found"
// @Failure 500 {object} dto.Response "Failed to update partner"
// @Security BearerAuth
// @Router /partners/{id} [put]
func (h *partnerHandler) updatePartner(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	partnerID := c.Param("id")

	var req dto.UpdatePartnerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindingError(c, err)
		return
	}

	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	partner, err := h.partnerService.UpdatePartner(c.Request.Context(), partnerID, req, userID)
	if err != nil {
		respondError(c, err, "Failed to update partner")
		return
	}

	logger.Info("Partner updated successfully", slog.String("partner_id", partnerID))
	c.JSON(http.StatusOK, dto.OK(dto.ToPartnerResponse(partner)))
}

// deactivatePartner godoc
// @Summary Deactivate a partner
// @Description Marks a partner inactive. Partners with open invoices cannot be deactivated.
// @Tags partners
// @Produce  json
// @Param   id path string true "Partner ID"
// @Success 204 "No Content"
// @Failure 401 {object} dto.Response "Unauthorized"
// @Failure 404 {object} dto.Response "Partner not found"
// @Failure 409 {object} dto.Response "Partner has open invoices"
// @Failure 500 {object} dto.Response "Failed to deactivate partner"
// @Security BearerAuth
// @Router /partners/{id} [delete]
func (h *partnerHandler) deactivatePartner(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	partnerID := c.Param("id")

	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	if err := h.partnerService.DeactivatePartner(c.Request.Context(), partnerID, userID); err != nil {
		respondError(c, err, "Failed to deactivate partner")
		return
	}

	logger.Info("Partner deactivated successfully", slog.String("partner_id", partnerID))
	c.Status(http.StatusNoContent)
}

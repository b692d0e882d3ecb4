package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	portssvc "github.com/openbooks/ledger_backend/internal/core/ports/services"
	"github.com/openbooks/ledger_backend/internal/dto"
	"github.com/openbooks/ledger_backend/internal/middleware"
)

// journalHandler handles HTTP requests related to the journal registry.
type journalHandler struct {
	journalService portssvc.JournalSvcFacade
}

func newJournalHandler(js portssvc.JournalSvcFacade) *journalHandler {
	return &journalHandler{
		journalService: js,
	}
}

// registerJournalRoutes registers routes related to journals.
func registerJournalRoutes(rg *gin.RouterGroup, journalService portssvc.JournalSvcFacade) {
	h := newJournalHandler(journalService)

	journals := rg.Group("/journals")
	{
		journals.POST("", h.createJournal)
		journals.GET("", h.listJournals)
		journals.GET("/:id", h.getJournal)
		journals.PUT("/:id", h.updateJournal)
	}
}

// createJournal godoc
// @Summary Create a new journal
// @Description Creates a new posting channel with optional default accounts
// @Tags journals
// @Accept  json
// @Produce  json
// @Param   journal body dto.CreateJournalRequest true "Journal details"
// @Success 201 {object} dto.Response{data=dto.JournalResponse}
// @Failure 400 {object} dto.Response "Invalid input format or validation error"
// @Failure 401 {object} dto.Response "Unauthorized"
// @Failure 409 {object} dto.Response "Journal code already exists"
// @Failure 500 {object} dto.Response "Failed to create journal"
// @Security BearerAuth
// @Router /journals [post]
func (h *journalHandler) createJournal(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.CreateJournalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindingError(c, err)
		return
	}

	creatorUserID, ok := requireUserID(c)
	if !ok {
		return
	}

	logger.Info("Received request to create journal", slog.String("code", req.Code), slog.String("journal_type", string(req.JournalType)))

	journal, err := h.journalService.CreateJournal(c.Request.Context(), req, creatorUserID)
	if err != nil {
		respondError(c, err, "Failed to create journal")
		return
	}

	logger.Info("Journal created successfully", slog.String("journal_id", journal.JournalID))
	c.JSON(http.StatusCreated, dto.OK(dto.ToJournalResponse(journal)))
}

// getJournal godoc
// @Summary Get a journal by ID
// @Description Retrieves details for a specific journal
// @Tags journals
// @Produce  json
// @Param   id path string true "Journal ID"
// @Success 200 {object} dto.Response{data=dto.JournalResponse}
// @Failure 401 {object} dto.Response "Unauthorized"
// @Failure 404 {object} dto.Response "Journal not found"
// @Failure 500 {object} dto.Response "Failed to retrieve journal"
// @Security BearerAuth
// @Router /journals/{id} [get]
func (h *journalHandler) getJournal(c *gin.Context) {
	journalID := c.Param("id")

	journal, err := h.journalService.GetJournalByID(c.Request.Context(), journalID)
	if err != nil {
		respondError(c, err, "Failed to retrieve journal")
		return
	}

	c.JSON(http.StatusOK, dto.OK(dto.ToJournalResponse(journal)))
}

// listJournals godoc
// @Summary List journals
// @Description Retrieves a paginated list of journals ordered by code
// @Tags journals
// @Produce  json
// @Param   page query int false "Page number" default(1)
// @Param   pageSize query int false "Page size" default(20)
// @Success 200 {object} dto.Response{data=dto.ListJournalsResponse}
// @Failure 400 {object} dto.Response "Invalid query parameters"
// @Failure 401 {object} dto.Response "Unauthorized"
// @Failure 500 {object} dto.Response "Failed to list journals"
// @Security BearerAuth
// @Router /journals [get]
func (h *journalHandler) listJournals(c *gin.Context) {
	var params dto.ListParams
	if err := c.ShouldBindQuery(&params); err != nil {
		bindingError(c, err)
		return
	}

	resp, err := h.journalService.ListJournals(c.Request.Context(), params)
	if err != nil {
		respondError(c, err, "Failed to list journals")
		return
	}

	c.JSON(http.StatusOK, dto.OK(resp))
}

// updateJournal godoc
// @Summary Update a journal
// @Description Updates a journal's name, default accounts or active flag. Code and type are immutable.
// @Tags journals
// @Accept  json
// @Produce  json
// @Param   id path string true "Journal ID to update"
// @Param   journal body dto.UpdateJournalRequest true "Journal details to update"
// @Success 200 {object} dto.Response{data=dto.JournalResponse}
// @Failure 400 {object} dto.Response "Invalid input"
// @Failure 401 {object} dto.Response "Unauthorized"
// @Failure 404 {object} dto.Response "Journal not found"
// @Failure 500 {object} dto.Response "Failed to update journal"
// @Security BearerAuth
// @Router /journals/{id} [put]
func (h *journalHandler) updateJournal(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	journalID := c.Param("id")

	var req dto.UpdateJournalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindingError(c, err)
		return
	}

	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	journal, err := h.journalService.UpdateJournal(c.Request.Context(), journalID, req, userID)
	if err != nil {
		respondError(c, err, "Failed to update journal")
		return
	}

	logger.Info("Journal updated successfully", slog.String("journal_id", journalID))
	c.JSON(http.StatusOK, dto.OK(dto.ToJournalResponse(journal)))
}

package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	portssvc "github.com/openbooks/ledger_backend/internal/core/ports/services"
	"github.com/openbooks/ledger_backend/internal/dto"
	"github.com/openbooks/ledger_backend/internal/middleware"
)

// entryHandler handles HTTP requests related to journal entries.
type entryHandler struct {
	entryService portssvc.EntrySvcFacade
}

func newEntryHandler(es portssvc.EntrySvcFacade) *entryHandler {
	return &entryHandler{
		entryService: es,
	}
}

// registerEntryRoutes registers routes related to journal entries. The
// per-account line listing lives under /accounts because callers navigate to
// it from an account.
func registerEntryRoutes(rg *gin.RouterGroup, entryService portssvc.EntrySvcFacade) {
	h := newEntryHandler(entryService)

	entries := rg.Group("/entries")
	{
		entries.POST("", h.createEntry)
		entries.GET("", h.listEntries)
		entries.GET("/:id", h.getEntry)
		entries.PUT("/:id", h.updateEntry)
		entries.DELETE("/:id", h.deleteEntry)
		entries.POST("/:id/post", h.postEntry)
		entries.POST("/:id/reverse", h.reverseEntry)
	}

	rg.GET("/accounts/:id/lines", h.listLinesByAccount)
}

// createEntry godoc
// @Summary Create a draft journal entry
// @Description Validates the double-entry invariant and creates a draft entry with its lines
// @Tags entries
// @Accept  json
// @Produce  json
// @Param   entry body dto.CreateEntryRequest true "Entry details"
// @Success 201 {object} dto.Response{data=dto.EntryResponse}
// @Failure 400 {object} dto.Response "Invalid input, unbalanced lines or inactive account"
// @Failure 401 {object} dto.Response "Unauthorized"
// @Failure 404 {object} dto.Response "Journal or account not found"
// @Failure 500 {object} dto.Response "Failed to create entry"
// @Security BearerAuth
// @Router /entries [post]
func (h *entryHandler) createEntry(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.CreateEntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindingError(c, err)
		return
	}

	creatorUserID, ok := requireUserID(c)
	if !ok {
		return
	}

	logger.Info("Received request to create entry", slog.String("journal_id", req.JournalID), slog.Int("line_count", len(req.Lines)))

	entry, err := h.entryService.CreateEntry(c.Request.Context(), req, creatorUserID)
	if err != nil {
		respondError(c, err, "Failed to create entry")
		return
	}

	logger.Info("Entry created successfully", slog.String("entry_id", entry.EntryID))
	c.JSON(http.StatusCreated, dto.OK(dto.ToEntryResponse(entry)))
}

// getEntry godoc
// @Summary Get a journal entry by ID
// @Description Retrieves an entry with its lines
// @Tags entries
// @Produce  json
// @Param   id path string true "Entry ID"
// @Success 200 {object} dto.Response{data=dto.EntryResponse}
// @Failure 401 {object} dto.Response "Unauthorized"
// @Failure 404 {object} dto.Response "Entry not found"
// @Failure 500 {object} dto.Response "Failed to retrieve entry"
// @Security BearerAuth
// @Router /entries/{id} [get]
func (h *entryHandler) getEntry(c *gin.Context) {
	entryID := c.Param("id")

	entry, err := h.entryService.GetEntryByID(c.Request.Context(), entryID)
	if err != nil {
		respondError(c, err, "Failed to retrieve entry")
		return
	}

	c.JSON(http.StatusOK, dto.OK(dto.ToEntryResponse(entry)))
}

// listEntries godoc
// @Summary List journal entries
// @Description Retrieves a paginated list of entries with entry date in [from, to], optionally filtered by status
// @Tags entries
// @Produce  json
// @Param   from query string true "Start date (YYYY-MM-DD)"
// @Param   to query string true "End date (YYYY-MM-DD)"
// @Param   status query string false "Entry status filter (DRAFT, POSTED, REVERSED)"
// @Param   page query int false "Page number" default(1)
// @Param   pageSize query int false "Page size" default(20)
// @Success 200 {object} dto.Response{data=dto.ListEntriesResponse}
// @Failure 400 {object} dto.Response "Invalid query parameters"
// @Failure 401 {object} dto.Response "Unauthorized"
// @Failure 500 {object} dto.Response "Failed to list entries"
// @Security BearerAuth
// @Router /entries [get]
func (h *entryHandler) listEntries(c *gin.Context) {
	var params dto.ListEntriesParams
	if err := c.ShouldBindQuery(&params); err != nil {
		bindingError(c, err)
		return
	}

	resp, err := h.entryService.ListEntries(c.Request.Context(), params)
	if err != nil {
		respondError(c, err, "Failed to list entries")
		return
	}

	c.JSON(http.StatusOK, dto.OK(resp))
}

// updateEntry godoc
// @Summary Update a draft entry
// @Description Replaces a draft entry's header fields and all of its lines. Posted entries are immutable.
// @Tags entries
// @Accept  json
// @Produce  json
// @Param   id path string true "Entry ID to update"
// @Param   entry body dto.UpdateEntryRequest true "Replacement header and lines"
// @Success 200 {object} dto.Response{data=dto.EntryResponse}
// @Failure 400 {object} dto.Response "Invalid input or unbalanced lines"
// @Failure 401 {object} dto.Response "Unauthorized"
// @Failure 404 {object} dto.Response "Entry not found"
// @Failure 409 {object} dto.Response "Entry is not a draft"
// @Failure 500 {object} dto.Response "Failed to update entry"
// @Security BearerAuth
// @Router /entries/{id} [put]
func (h *entryHandler) updateEntry(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	entryID := c.Param("id")

	var req dto.UpdateEntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindingError(c, err)
		return
	}

	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	entry, err := h.entryService.UpdateEntry(c.Request.Context(), entryID, req, userID)
	if err != nil {
		respondError(c, err, "Failed to update entry")
		return
	}

	logger.Info("Entry updated successfully", slog.String("entry_id", entryID))
	c.JSON(http.StatusOK, dto.OK(dto.ToEntryResponse(entry)))
}

// postEntry godoc
// @Summary Post a draft entry
// @Description Transitions a draft entry to POSTED and updates account balances atomically
// @Tags entries
// @Produce  json
// @Param   id path string true "Entry ID to post"
// @Success 200 {object} dto.Response{data=dto.EntryResponse}
// @Failure 401 {object} dto.Response "Unauthorized"
// @Failure 404 {object} dto.Response "Entry not found"
// @Failure 409 {object} dto.Response "Entry is not a draft"
// @Failure 500 {object} dto.Response "Failed to post entry"
// @Security BearerAuth
// @Router /entries/{id}/post [post]
func (h *entryHandler) postEntry(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	entryID := c.Param("id")

	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	entry, err := h.entryService.PostEntry(c.Request.Context(), entryID, userID)
	if err != nil {
		respondError(c, err, "Failed to post entry")
		return
	}

	logger.Info("Entry posted successfully", slog.String("entry_id", entryID))
	c.JSON(http.StatusOK, dto.OK(dto.ToEntryResponse(entry)))
}

// reverseEntry godoc
// @Summary Reverse a posted entry
// @Description Transitions a posted entry to REVERSED. Status change only: balances stay as posted.
// @Tags entries
// @Produce  json
// @Param   id path string true "Entry ID to reverse"
// @Success 200 {object} dto.Response{data=dto.EntryResponse}
// @Failure 401 {object} dto.Response "Unauthorized"
// @Failure 404 {object} dto.Response "Entry not found"
// @Failure 409 {object} dto.Response "Entry is not posted"
// @Failure 500 {object} dto.Response "Failed to reverse entry"
// @Security BearerAuth
// @Router /entries/{id}/reverse [post]
func (h *entryHandler) reverseEntry(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	entryID := c.Param("id")

	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	entry, err := h.entryService.ReverseEntry(c.Request.Context(), entryID, userID)
	if err != nil {
		respondError(c, err, "Failed to reverse entry")
		return
	}

	logger.Info("Entry reversed successfully", slog.String("entry_id", entryID))
	c.JSON(http.StatusOK, dto.OK(dto.ToEntryResponse(entry)))
}

// deleteEntry godoc
// @Summary Delete a draft entry
// @Description Removes a draft entry and its lines. Posted entries cannot be deleted.
// @Tags entries
// @Produce  json
// @Param   id path string true "Entry ID to delete"
// @Success 204 "No Content"
// @Failure 401 {object} dto.Response "Unauthorized"
// @Failure 404 {object} dto.Response "Entry not found"
// @Failure 409 {object} dto.Response "Entry is not a draft"
// @Failure 500 {object} dto.Response "Failed to delete entry"
// @Security BearerAuth
// @Router /entries/{id} [delete]
func (h *entryHandler) deleteEntry(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	entryID := c.Param("id")

	if _, ok := requireUserID(c); !ok {
		return
	}

	if err := h.entryService.DeleteEntry(c.Request.Context(), entryID); err != nil {
		respondError(c, err, "Failed to delete entry")
		return
	}

	logger.Info("Entry deleted successfully", slog.String("entry_id", entryID))
	c.Status(http.StatusNoContent)
}

// listLinesByAccount godoc
// @Summary List posted lines for an account
// @Description Retrieves a cursor-paginated list of posted entry lines for one account, newest first
// @Tags entries
// @Produce  json
// @Param   id path string true "Account ID"
// @Param   limit query int false "Maximum number of lines" default(20)
// @Param   nextToken query string false "Cursor returned by the previous page"
// @Success 200 {object} dto.Response{data=dto.ListEntryLinesResponse}
// @Failure 400 {object} dto.Response "Invalid cursor token"
// @Failure 401 {object} dto.Response "Unauthorized"
// @Failure 404 {object} dto.Response "Account not found"
// @Failure 500 {object} dto.Response "Failed to list lines"
// @Security BearerAuth
// @Router /accounts/{id}/lines [get]
func (h *entryHandler) listLinesByAccount(c *gin.Context) {
	accountID := c.Param("id")

	var params dto.ListEntryLinesParams
	if err := c.ShouldBindQuery(&params); err != nil {
		bindingError(c, err)
		return
	}

	resp, err := h.entryService.ListLinesByAccount(c.Request.Context(), accountID, params)
	if err != nil {
		respondError(c, err, "Failed to list lines")
		return
	}

	c.JSON(http.StatusOK, dto.OK(resp))
}

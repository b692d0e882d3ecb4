package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"github.com/openbooks/ledger_backend/internal/apperrors"
	portssvc "github.com/openbooks/ledger_backend/internal/core/ports/services"
	"github.com/openbooks/ledger_backend/internal/dto"
)

// reportingHandler handles HTTP requests for balance queries and financial
// statements.
type reportingHandler struct {
	reportingService portssvc.ReportingSvcFacade
}

func newReportingHandler(rs portssvc.ReportingSvcFacade) *reportingHandler {
	return &reportingHandler{
		reportingService: rs,
	}
}

// registerReportingRoutes registers balance and reporting routes.
func registerReportingRoutes(rg *gin.RouterGroup, reportingService portssvc.ReportingSvcFacade) {
	h := newReportingHandler(reportingService)

	rg.GET("/accounts/:id/balance", h.getAccountBalance)

	reports := rg.Group("/reports")
	{
		reports.GET("/trial-balance", h.getTrialBalance)
		reports.GET("/profit-and-loss", h.getProfitAndLoss)
		reports.GET("/balance-sheet", h.getBalanceSheet)
	}
}

const reportDateLayout = "2006-01-02"

// parseDateQuery reads a date query parameter in YYYY-MM-DD format. A missing
// parameter yields the fallback.
func parseDateQuery(c *gin.Context, name string, fallback time.Time) (time.Time, error) {
	raw := c.Query(name)
	if raw == "" {
		return fallback, nil
	}
	parsed, err := time.Parse(reportDateLayout, raw)
	if err != nil {
		return time.Time{}, apperrors.NewAppError(http.StatusBadRequest, "invalid "+name+" date, expected YYYY-MM-DD", err)
	}
	return parsed, nil
}

// getAccountBalance godoc
// @Summary Get an account balance
// @Description Returns an account's posted debit/credit totals and signed balance as of a date
// @Tags reports
// @Produce  json
// @Param   id path string true "Account ID"
// @Param   asOf query string false "Balance date (YYYY-MM-DD), defaults to today"
// @Success 200 {object} dto.Response{data=dto.AccountBalanceResponse}
// @Failure 400 {object} dto.Response "Invalid date"
// @Failure 401 {object} dto.Response "Unauthorized"
// @Failure 404 {object} dto.Response "Account not found"
// @Failure 500 {object} dto.Response "Failed to compute balance"
// @Security BearerAuth
// @Router /accounts/{id}/balance [get]
func (h *reportingHandler) getAccountBalance(c *gin.Context) {
	accountID := c.Param("id")

	asOf, err := parseDateQuery(c, "asOf", time.Now().UTC())
	if err != nil {
		respondError(c, err, "Invalid date")
		return
	}

	balance, err := h.reportingService.GetAccountBalance(c.Request.Context(), accountID, asOf)
	if err != nil {
		respondError(c, err, "Failed to compute balance")
		return
	}

	c.JSON(http.StatusOK, dto.OK(dto.AccountBalanceResponse{
		AccountID:   balance.AccountID,
		AccountCode: balance.AccountCode,
		AccountType: balance.AccountType,
		AsOf:        asOf,
		Debit:       balance.Debit,
		Credit:      balance.Credit,
		Balance:     balance.Balance,
	}))
}

// getTrialBalance godoc
// @Summary Get the trial balance
// @Description Returns per-account posted debit and credit totals as of a date, with grand totals
// @Tags reports
// @Produce  json
// @Param   asOf query string false "Report date (YYYY-MM-DD), defaults to today"
// @Success 200 {object} dto.Response{data=dto.TrialBalanceResponse}
// @Failure 400 {object} dto.Response "Invalid date"
// @Failure 401 {object} dto.Response "Unauthorized"
// @Failure 500 {object} dto.Response "Failed to generate trial balance"
// @Security BearerAuth
// @Router /reports/trial-balance [get]
func (h *reportingHandler) getTrialBalance(c *gin.Context) {
	asOf, err := parseDateQuery(c, "asOf", time.Now().UTC())
	if err != nil {
		respondError(c, err, "Invalid date")
		return
	}

	rows, err := h.reportingService.TrialBalance(c.Request.Context(), asOf)
	if err != nil {
		respondError(c, err, "Failed to generate trial balance")
		return
	}

	totalDebit := decimal.Zero
	totalCredit := decimal.Zero
	for _, row := range rows {
		totalDebit = totalDebit.Add(row.Debit)
		totalCredit = totalCredit.Add(row.Credit)
	}

	c.JSON(http.StatusOK, dto.OK(dto.TrialBalanceResponse{
		AsOf:        asOf,
		Rows:        rows,
		TotalDebit:  totalDebit,
		TotalCredit: totalCredit,
	}))
}

// getProfitAndLoss godoc
// @Summary Get the profit and loss report
// @Description Returns revenue and expense totals for a period with the resulting net profit
// @Tags reports
// @Produce  json
// @Param   from query string true "Period start (YYYY-MM-DD)"
// @Param   to query string true "Period end (YYYY-MM-DD)"
// @Success 200 {object} dto.Response{data=dto.PAndLResponse}
// @Failure 400 {object} dto.Response "Invalid or missing dates"
// @Failure 401 {object} dto.Response "Unauthorized"
// @Failure 500 {object} dto.Response "Failed to generate report"
// @Security BearerAuth
// @Router /reports/profit-and-loss [get]
func (h *reportingHandler) getProfitAndLoss(c *gin.Context) {
	from, err := parseDateQuery(c, "from", time.Time{})
	if err != nil {
		respondError(c, err, "Invalid date")
		return
	}
	to, err := parseDateQuery(c, "to", time.Now().UTC())
	if err != nil {
		respondError(c, err, "Invalid date")
		return
	}
	if from.IsZero() {
		respondError(c, apperrors.NewAppError(http.StatusBadRequest, "from date is required", nil), "Invalid date")
		return
	}
	if to.Before(from) {
		respondError(c, apperrors.NewAppError(http.StatusBadRequest, "to date must not be before from date", nil), "Invalid date")
		return
	}

	report, err := h.reportingService.ProfitAndLoss(c.Request.Context(), from, to)
	if err != nil {
		respondError(c, err, "Failed to generate report")
		return
	}

	c.JSON(http.StatusOK, dto.OK(dto.PAndLResponse{
		From:   from,
		To:     to,
		Report: *report,
	}))
}

// getBalanceSheet godoc
// @Summary Get the balance sheet
// @Description Returns asset, liability and equity balances as of a date
// @Tags reports
// @Produce  json
// @Param   asOf query string false "Report date (YYYY-MM-DD), defaults to today"
// @Success 200 {object} dto.Response{data=dto.BalanceSheetResponse}
// @Failure 400 {object} dto.Response "Invalid date"
// @Failure 401 {object} dto.Response "Unauthorized"
// @Failure 500 {object} dto.Response "Failed to generate report"
// @Security BearerAuth
// @Router /reports/balance-sheet [get]
func (h *reportingHandler) getBalanceSheet(c *gin.Context) {
	asOf, err := parseDateQuery(c, "asOf", time.Now().UTC())
	if err != nil {
		respondError(c, err, "Invalid date")
		return
	}

	report, err := h.reportingService.BalanceSheet(c.Request.Context(), asOf)
	if err != nil {
		respondError(c, err, "Failed to generate report")
		return
	}

	c.JSON(http.StatusOK, dto.OK(dto.BalanceSheetResponse{
		AsOf:   asOf,
		Report: *report,
	}))
}

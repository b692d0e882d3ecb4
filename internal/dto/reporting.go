package dto

import (
	"time"

	"github.com/openbooks/ledger_backend/internal/core/domain"
	"github.com/shopspring/decimal"
)

// TrialBalanceResponse is the trial balance report payload.
type TrialBalanceResponse struct {
	AsOf        time.Time                `json:"asOf"`
	Rows        []domain.TrialBalanceRow `json:"rows"`
	TotalDebit  decimal.Decimal          `json:"totalDebit"`
	TotalCredit decimal.Decimal          `json:"totalCredit"`
}

// PAndLResponse is the profit and loss report payload.
type PAndLResponse struct {
	From   time.Time          `json:"from"`
	To     time.Time          `json:"to"`
	Report domain.PAndLReport `json:"report"`
}

// BalanceSheetResponse is the balance sheet report payload.
type BalanceSheetResponse struct {
	AsOf   time.Time                 `json:"asOf"`
	Report domain.BalanceSheetReport `json:"report"`
}

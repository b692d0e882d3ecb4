package accounting_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/openbooks/ledger_backend/internal/core/domain"
	"github.com/openbooks/ledger_backend/internal/utils/accounting"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func debitLine(amount string) domain.EntryLine {
	return domain.EntryLine{AccountID: "acc-debit", Debit: dec(amount), Credit: decimal.Zero}
}

func creditLine(amount string) domain.EntryLine {
	return domain.EntryLine{AccountID: "acc-credit", Debit: decimal.Zero, Credit: dec(amount)}
}

func TestCalculateSignedAmount(t *testing.T) {
	tests := []struct {
		name        string
		line        domain.EntryLine
		accountType domain.AccountType
		want        string
	}{
		{"debit to asset is positive", debitLine("100"), domain.Asset, "100"},
		{"credit to asset is negative", creditLine("100"), domain.Asset, "-100"},
		{"debit to bank is positive", debitLine("250.50"), domain.Bank, "250.50"},
		{"credit to revenue is positive", creditLine("100"), domain.Revenue, "100"},
		{"debit to revenue is negative", debitLine("100"), domain.Revenue, "-100"},
		{"credit to liability is positive", creditLine("75"), domain.Liability, "75"},
		{"credit to payable is positive", creditLine("75"), domain.Payable, "75"},
		{"debit to receivable is positive", debitLine("75"), domain.Receivable, "75"},
		{"credit to vat is positive", creditLine("20"), domain.VAT, "20"},
		{"debit to expense is positive", debitLine("60"), domain.Expense, "60"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := accounting.CalculateSignedAmount(tt.line, tt.accountType)
			require.NoError(t, err)
			assert.True(t, got.Equal(dec(tt.want)), "got %s, want %s", got, tt.want)
		})
	}
}

func TestCalculateSignedAmount_UnknownType(t *testing.T) {
	_, err := accounting.CalculateSignedAmount(debitLine("10"), domain.AccountType("GOODWILL"))
	require.Error(t, err)
}

func TestSumSides(t *testing.T) {
	lines := []domain.EntryLine{
		debitLine("100"),
		debitLine("50.25"),
		creditLine("150.25"),
	}

	debits, credits := accounting.SumSides(lines)

	assert.True(t, debits.Equal(dec("150.25")))
	assert.True(t, credits.Equal(dec("150.25")))
}

func TestValidateEntryBalance(t *testing.T) {
	tests := []struct {
		name    string
		lines   []domain.EntryLine
		wantErr bool
	}{
		{
			name:    "balanced pair",
			lines:   []domain.EntryLine{debitLine("100"), creditLine("100")},
			wantErr: false,
		},
		{
			name:    "balanced within tolerance",
			lines:   []domain.EntryLine{debitLine("100.00"), creditLine("99.99")},
			wantErr: false,
		},
		{
			name:    "imbalance beyond tolerance",
			lines:   []domain.EntryLine{debitLine("100.00"), creditLine("99.98")},
			wantErr: true,
		},
		{
			name:    "no lines",
			lines:   nil,
			wantErr: true,
		},
		{
			name: "negative amount",
			lines: []domain.EntryLine{
				{AccountID: "a", Debit: dec("-10"), Credit: decimal.Zero},
				creditLine("10"),
			},
			wantErr: true,
		},
		{
			name: "both sides set on one line",
			lines: []domain.EntryLine{
				{AccountID: "a", Debit: dec("10"), Credit: dec("10")},
				creditLine("10"),
			},
			wantErr: true,
		},
		{
			name: "neither side set on one line",
			lines: []domain.EntryLine{
				{AccountID: "a", Debit: decimal.Zero, Credit: decimal.Zero},
				debitLine("10"),
				creditLine("10"),
			},
			wantErr: true,
		},
		{
			name: "split lines balance",
			lines: []domain.EntryLine{
				debitLine("60"),
				debitLine("40"),
				creditLine("100"),
			},
			wantErr: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := accounting.ValidateEntryBalance(tt.lines)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestInvoiceLineTotal(t *testing.T) {
	tests := []struct {
		name        string
		quantity    string
		unitPrice   string
		discountPct string
		want        string
	}{
		{"no discount", "10", "50", "0", "500"},
		{"ten percent discount", "2", "100", "10", "180"},
		{"full discount", "3", "40", "100", "0"},
		{"fractional quantity", "1.5", "30", "0", "45"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := accounting.InvoiceLineTotal(dec(tt.quantity), dec(tt.unitPrice), dec(tt.discountPct))
			assert.True(t, got.Equal(dec(tt.want)), "got %s, want %s", got, tt.want)
		})
	}
}

func TestInvoiceLineVAT(t *testing.T) {
	tests := []struct {
		name       string
		lineTotal  string
		vatRatePct string
		want       string
	}{
		{"twenty percent", "500", "20", "100"},
		{"zero rate", "500", "0", "0"},
		{"reduced rate", "200", "5.5", "11"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := accounting.InvoiceLineVAT(dec(tt.lineTotal), dec(tt.vatRatePct))
			assert.True(t, got.Equal(dec(tt.want)), "got %s, want %s", got, tt.want)
		})
	}
}

package accounting

import (
	"fmt"

	"github.com/openbooks/ledger_backend/internal/core/domain"
	"github.com/shopspring/decimal"
)

// BalanceTolerance is the maximum allowed absolute difference between the
// debit and credit sides of an entry. Amounts are entered with two decimal
// places, so anything beyond a cent is a real imbalance.
var BalanceTolerance = decimal.New(1, -2) // 0.01

// CalculateSignedAmount applies the correct sign to a line amount based on the
// account type. Used by both services and repositories so the balance cache
// and the reports agree.
// DEBIT to a debit-normal account (asset, expense, bank, cash, receivable) -> positive.
// CREDIT to a credit-normal account (liability, equity, revenue, VAT, payable) -> positive.
func CalculateSignedAmount(line domain.EntryLine, accountType domain.AccountType) (decimal.Decimal, error) {
	if !accountType.IsValid() {
		return decimal.Zero, fmt.Errorf("unknown account type %q for account ID %s", accountType, line.AccountID)
	}
	amount := line.Debit.Sub(line.Credit)
	if !accountType.IsDebitNormal() {
		amount = amount.Neg()
	}
	return amount, nil
}

// SumSides totals the debit and credit columns across lines.
func SumSides(lines []domain.EntryLine) (debits, credits decimal.Decimal) {
	debits = decimal.Zero
	credits = decimal.Zero
	for _, line := range lines {
		debits = debits.Add(line.Debit)
		credits = credits.Add(line.Credit)
	}
	return debits, credits
}

// ValidateEntryBalance checks the double-entry invariant for a set of lines:
// each line carries exactly one non-zero side, no side is negative, and the
// two column totals agree within BalanceTolerance.
func ValidateEntryBalance(lines []domain.EntryLine) error {
	if len(lines) == 0 {
		return fmt.Errorf("entry must have at least one line")
	}

	for _, line := range lines {
		if line.Debit.IsNegative() || line.Credit.IsNegative() {
			return fmt.Errorf("line amounts must not be negative for account %s", line.AccountID)
		}
		debitSet := line.Debit.IsPositive()
		creditSet := line.Credit.IsPositive()
		if debitSet == creditSet {
			return fmt.Errorf("exactly one of debit and credit must be set for account %s", line.AccountID)
		}
	}

	debits, credits := SumSides(lines)
	if debits.Sub(credits).Abs().GreaterThan(BalanceTolerance) {
		return fmt.Errorf("entry does not balance: debits sum is %s and credits sum is %s",
			debits.String(), credits.String())
	}
	return nil
}

// InvoiceLineTotal computes the tax-exclusive total of one invoice line:
// quantity * unitPrice * (1 - discount/100).
func InvoiceLineTotal(quantity, unitPrice, discountPct decimal.Decimal) decimal.Decimal {
	gross := quantity.Mul(unitPrice)
	if discountPct.IsZero() {
		return gross
	}
	hundred := decimal.NewFromInt(100)
	return gross.Mul(hundred.Sub(discountPct)).Div(hundred)
}

// InvoiceLineVAT computes the VAT amount of one line given its tax-exclusive total.
func InvoiceLineVAT(lineTotal, vatRatePct decimal.Decimal) decimal.Decimal {
	if vatRatePct.IsZero() {
		return decimal.Zero
	}
	return lineTotal.Mul(vatRatePct).Div(decimal.NewFromInt(100))
}

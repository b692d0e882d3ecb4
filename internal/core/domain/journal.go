package domain

// JournalType classifies the posting channel a journal represents.
type JournalType string

const (
	SalesJournal         JournalType = "SALES"
	PurchaseJournal      JournalType = "PURCHASE"
	BankJournal          JournalType = "BANK"
	CashJournal          JournalType = "CASH"
	MiscellaneousJournal JournalType = "MISCELLANEOUS"
)

// IsValid reports whether t is one of the known journal types.
func (t JournalType) IsValid() bool {
	switch t {
	case SalesJournal, PurchaseJournal, BankJournal, CashJournal, MiscellaneousJournal:
		return true
	}
	return false
}

// Journal is a named posting channel. Entries, invoices and payments are
// grouped under exactly one journal.
type Journal struct {
	JournalID              string      `json:"journalID"` // Primary key (UUID)
	Code                   string      `json:"code"`      // Unique journal code, e.g. "SAL"
	Name                   string      `json:"name"`
	JournalType            JournalType `json:"journalType"`
	DefaultDebitAccountID  string      `json:"defaultDebitAccountID"`  // Nullable FK -> accounts
	DefaultCreditAccountID string      `json:"defaultCreditAccountID"` // Nullable FK -> accounts
	IsActive               bool        `json:"isActive"`
	AuditFields
}

package pgsql

import (
	portsrepo "github.com/openbooks/ledger_backend/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5/pgxpool"
)

func NewRepositoryProvider(dbPool *pgxpool.Pool) portsrepo.RepositoryProvider {
	accountRepo := newPgxAccountRepository(dbPool)
	journalRepo := newPgxJournalRepository(dbPool)
	entryRepo := newPgxEntryRepository(dbPool, accountRepo)
	invoiceRepo := newPgxInvoiceRepository(dbPool, accountRepo)
	paymentRepo := newPgxPaymentRepository(dbPool)
	partnerRepo := newPgxPartnerRepository(dbPool)
	reportingRepo := newReportingRepository(dbPool)

	return portsrepo.RepositoryProvider{
		AccountRepo:   accountRepo,
		JournalRepo:   journalRepo,
		EntryRepo:     entryRepo,
		InvoiceRepo:   invoiceRepo,
		PaymentRepo:   paymentRepo,
		PartnerRepo:   partnerRepo,
		ReportingRepo: reportingRepo,
	}
}

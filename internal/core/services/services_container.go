package services

import (
	portsrepo "github.com/openbooks/ledger_backend/internal/core/ports/repositories"
	portssvc "github.com/openbooks/ledger_backend/internal/core/ports/services"
)

// NewServiceContainer creates a new service container with properly initialized dependencies.
func NewServiceContainer(repos portsrepo.RepositoryProvider) *portssvc.ServiceContainer {
	container := &portssvc.ServiceContainer{}

	container.Account = NewAccountService(repos.AccountRepo)
	container.Journal = NewJournalService(repos.JournalRepo, repos.AccountRepo)
	container.Partner = NewPartnerService(repos.PartnerRepo)
	container.Entry = NewEntryService(repos.EntryRepo, repos.AccountRepo, repos.JournalRepo)
	container.Invoice = NewInvoiceService(repos.InvoiceRepo, repos.PartnerRepo, repos.JournalRepo, repos.AccountRepo)
	container.Payment = NewPaymentService(repos.PaymentRepo, repos.InvoiceRepo, repos.PartnerRepo, repos.JournalRepo)
	container.Reporting = NewReportingService(repos.ReportingRepo, repos.AccountRepo)

	return container
}

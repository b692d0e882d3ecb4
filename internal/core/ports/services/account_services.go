package services

import (
	"context"

	"github.com/openbooks/ledger_backend/internal/core/domain"
	"github.com/openbooks/ledger_backend/internal/dto"
)

// AccountSvcFacade defines the chart-of-accounts operations exposed to handlers
// and to other services.
type AccountSvcFacade interface {
	// CreateAccount creates a new account under the optional parent.
	CreateAccount(ctx context.Context, req dto.CreateAccountRequest, creatorUserID string) (*domain.Account, error)

	// GetAccountByID retrieves an account.
	GetAccountByID(ctx context.Context, accountID string) (*domain.Account, error)

	// GetAccountByIDs retrieves multiple accounts keyed by ID.
	GetAccountByIDs(ctx context.Context, accountIDs []string) (map[string]domain.Account, error)

	// ListAccounts retrieves a page of accounts.
	ListAccounts(ctx context.Context, params dto.ListParams) (*dto.ListAccountsResponse, error)

	// ListAccountsByType retrieves active accounts of one type, ordered by code.
	ListAccountsByType(ctx context.Context, accountType domain.AccountType) ([]domain.Account, error)

	// ListChildren retrieves the direct children of an account.
	ListChildren(ctx context.Context, parentAccountID string) ([]domain.Account, error)

	// UpdateAccount updates name, description or the active flag. Historical
	// postings are never touched.
	UpdateAccount(ctx context.Context, accountID string, req dto.UpdateAccountRequest, userID string) (*domain.Account, error)

	// DeleteAccount removes an account that has no children and no postings.
	DeleteAccount(ctx context.Context, accountID string) error
}

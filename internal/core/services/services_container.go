package services

import (
	portsrepo "github.com/SscSPs/ledger_engine/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/ledger_engine/internal/core/ports/services"
)

// NewServiceContainer creates a new service container with properly initialized dependencies
func NewServiceContainer(repos portsrepo.RepositoryProvider, options ...ServiceOption) *portssvc.ServiceContainer {
	if repos.ReportCache != nil {
		options = append(options, WithReportCache(repos.ReportCache))
	}

	account := NewAccountService(repos.AccountRepo, options...)
	return &portssvc.ServiceContainer{
		Account:   account,
		Ledger:    NewLedgerService(repos.TransactionRepo, account, options...),
		Reporting: NewReportService(repos.AccountRepo, repos.TransactionRepo, options...),
	}
}

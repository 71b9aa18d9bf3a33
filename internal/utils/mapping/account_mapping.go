package mapping

import (
	"github.com/commercio/posting_engine/internal/core/domain"
	"github.com/commercio/posting_engine/internal/models"
)

// ToModelAccount converts a domain Account to a model Account.
func ToModelAccount(d domain.Account) models.Account {
	return models.Account{
		AccountID:   d.AccountID,
		Role:        models.AccountRole(d.Role),
		Name:        d.Name,
		Balance:     d.Balance,
		IsActive:    d.IsActive,
		Version:     d.Version,
		AuditFields: ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainAccount converts a model Account to a domain Account.
func ToDomainAccount(m models.Account) domain.Account {
	return domain.Account{
		AccountID:   m.AccountID,
		Role:        domain.AccountRole(m.Role),
		Name:        m.Name,
		Balance:     m.Balance,
		IsActive:    m.IsActive,
		Version:     m.Version,
		AuditFields: ToDomainAuditFields(m.AuditFields),
	}
}

package contract

import "rag-qa-be/internal/entity"

// AccountRepository is the narrow credential-store boundary. Accounts are
// seeded at bootstrap; there is no registration flow.
type AccountRepository interface {
	FindByUsername(username string) (*entity.Account, bool)
}

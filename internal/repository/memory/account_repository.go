package memory

import (
	"rag-qa-be/internal/entity"
	"rag-qa-be/internal/repository/contract"
)

// AccountRepository is a fixed, read-only credential store seeded at
// bootstrap. The map is never mutated after construction so no locking is
// needed.
type AccountRepository struct {
	accounts map[string]*entity.Account
}

var _ contract.AccountRepository = &AccountRepository{}

func NewAccountRepository(accounts []*entity.Account) *AccountRepository {
	byName := make(map[string]*entity.Account, len(accounts))
	for _, acc := range accounts {
		byName[acc.Username] = acc
	}
	return &AccountRepository{accounts: byName}
}

func (r *AccountRepository) FindByUsername(username string) (*entity.Account, bool) {
	acc, found := r.accounts[username]
	return acc, found
}

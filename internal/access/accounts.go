package access

import (
	"sync"

	dErrors "datagov/pkg/domain-errors"
)

// ServiceAccount is a non-human identity (scheduler, CI job) allowed to
// trigger pipeline operations with an API key instead of a user token.
type ServiceAccount struct {
	Name       string
	Role       string
	SecretHash string
}

// Accounts holds registered service accounts. Secrets are stored hashed.
type Accounts struct {
	mu       sync.RWMutex
	accounts map[string]ServiceAccount
}

// NewAccounts builds an empty service-account registry.
func NewAccounts() *Accounts {
	return &Accounts{accounts: make(map[string]ServiceAccount)}
}

// Register stores a service account under its name, hashing the secret.
func (a *Accounts) Register(name, role, secret string) error {
	if name == "" || role == "" {
		return dErrors.New(dErrors.CodeInvalidInput, "service account needs a name and a role")
	}
	hash, err := HashSecret(secret)
	if err != nil {
		return err
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	if _, exists := a.accounts[name]; exists {
		return dErrors.Newf(dErrors.CodeConflict, "service account %q already registered", name)
	}
	a.accounts[name] = ServiceAccount{Name: name, Role: role, SecretHash: hash}
	return nil
}

// Authenticate verifies the secret for the named account and returns its
// role. Unknown accounts and wrong secrets both come back unauthorized, so
// callers cannot probe which account names exist.
func (a *Accounts) Authenticate(name, secret string) (string, error) {
	a.mu.RLock()
	account, ok := a.accounts[name]
	a.mu.RUnlock()
	if !ok {
		return "", dErrors.New(dErrors.CodeUnauthorized, "invalid secret")
	}
	if err := VerifySecret(secret, account.SecretHash); err != nil {
		return "", err
	}
	return account.Role, nil
}

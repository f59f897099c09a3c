package auth

import (
	"os"
	"time"
)

// Environment variables the read-only fallback store understands.
const (
	EnvSessionID = "IGFETCH_SESSION_ID"
	EnvCSRFToken = "IGFETCH_CSRF_TOKEN"
	EnvDSUserID  = "IGFETCH_DS_USER_ID"
	EnvUserAgent = "IGFETCH_USER_AGENT"
)

// EnvironmentStore reads credentials from environment variables. It is
// read-only and holds at most one anonymous account.
type EnvironmentStore struct{}

func NewEnvironmentStore() *EnvironmentStore {
	return &EnvironmentStore{}
}

// Store is not supported for environment variables.
func (e *EnvironmentStore) Store(account *Account) error {
	return ErrStoreUnavailable
}

func (e *EnvironmentStore) Retrieve(username string) (*Account, error) {
	sessionID := os.Getenv(EnvSessionID)
	csrfToken := os.Getenv(EnvCSRFToken)

	if sessionID == "" || csrfToken == "" {
		return nil, ErrCredentialsNotFound
	}

	// The environment carries no username; callers asking for nobody in
	// particular get the default label.
	if username == "" {
		username = "default"
	}

	return &Account{
		Username:     username,
		SessionID:    sessionID,
		CSRFToken:    csrfToken,
		DSUserID:     os.Getenv(EnvDSUserID),
		UserAgent:    os.Getenv(EnvUserAgent),
		LastModified: time.Now(),
	}, nil
}

func (e *EnvironmentStore) List() ([]*Account, error) {
	account, err := e.Retrieve("")
	if err != nil {
		return []*Account{}, nil
	}
	return []*Account{account}, nil
}

// Delete is not supported for environment variables.
func (e *EnvironmentStore) Delete(username string) error {
	return ErrStoreUnavailable
}

func (e *EnvironmentStore) Exists(username string) bool {
	return os.Getenv(EnvSessionID) != "" && os.Getenv(EnvCSRFToken) != ""
}

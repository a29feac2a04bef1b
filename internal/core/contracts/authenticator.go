package contracts

import "context"

// Identity is the verified caller extracted from a bearer credential.
type Identity struct {
	ID    string
	Email string
	Name  string
}

// Authenticator verifies a presented session token. Token issuance and
// credential storage live outside this core.
type Authenticator interface {
	Verify(ctx context.Context, token string) (Identity, error)
}

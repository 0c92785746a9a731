package session

import (
	"context"
	"fmt"
	"strings"

	"github.com/magabrotheeeer/lifeflow/internal/config"
	"github.com/magabrotheeeer/lifeflow/internal/lib/password"
)

// CredentialVerifier проверяет доказательство владения учётной записью.
type CredentialVerifier interface {
	Verify(ctx context.Context, email, proof string) bool
}

// HashedCredentials сверяет пароль с bcrypt-хешем, заданным для email.
type HashedCredentials struct {
	hashes map[string]string
	dummy  string
}

// NewHashedCredentials строит проверку из конфига. Записи с открытым паролем
// хешируются при создании.
func NewHashedCredentials(creds []config.Credential) (*HashedCredentials, error) {
	const op = "services.session.NewHashedCredentials"

	h := &HashedCredentials{hashes: make(map[string]string, len(creds))}
	for _, c := range creds {
		email := strings.ToLower(strings.TrimSpace(c.Email))
		hash := c.PasswordHash
		switch {
		case hash != "":
			if !password.IsHash(hash) {
				return nil, fmt.Errorf("%s: password_hash for %s is not a bcrypt hash", op, email)
			}
		case c.Password != "":
			var err error
			hash, err = password.GetHash(c.Password)
			if err != nil {
				return nil, fmt.Errorf("%s: %w", op, err)
			}
		default:
			return nil, fmt.Errorf("%s: no secret for %s", op, email)
		}
		h.hashes[email] = hash
	}

	dummy, err := password.GetHash("lifeflow-unknown-account")
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	h.dummy = dummy
	return h, nil
}

// Verify возвращает true, если proof совпадает с хешем для email.
// Для неизвестного email сравнение всё равно выполняется, чтобы время ответа не выдавало наличие записи.
func (h *HashedCredentials) Verify(_ context.Context, email, proof string) bool {
	hash, ok := h.hashes[strings.ToLower(strings.TrimSpace(email))]
	if !ok {
		_ = password.CompareHash(h.dummy, proof)
		return false
	}
	return password.CompareHash(hash, proof) == nil
}

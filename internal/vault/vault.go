// Package vault stores remembered login credentials for the "remember me"
// convenience. Credentials are obfuscated with a repeating-key XOR and
// base64-encoded before they hit durable storage.
//
// This is obfuscation against casual inspection of the state file, NOT
// cryptography. Do not strengthen it silently: the stored format is shared
// with every console that ever wrote the key.
package vault

import (
	"context"
	"encoding/base64"
	"encoding/json"

	"go.uber.org/zap"

	"github.com/sksk7108/gzgoodidea-mj-management/internal/domain"
	"github.com/sksk7108/gzgoodidea-mj-management/internal/infra/statestore"
	"github.com/sksk7108/gzgoodidea-mj-management/internal/port"
)

// secretKey is the fixed shared secret. Changing it orphans every blob
// written so far.
const secretKey = "MJ_ADMIN_2023"

// Obfuscate XORs plaintext with the repeating key and base64-encodes the
// result. Empty input maps to empty output. Reveal(Obfuscate(x)) == x.
func Obfuscate(plaintext string) string {
	if plaintext == "" {
		return ""
	}
	return base64.StdEncoding.EncodeToString(xorKey([]byte(plaintext)))
}

// Reveal reverses Obfuscate. A malformed token decodes to "", never an
// error: corrupt stored state is treated as absence.
func Reveal(token string) string {
	if token == "" {
		return ""
	}
	raw, err := base64.StdEncoding.DecodeString(token)
	if err != nil {
		return ""
	}
	return string(xorKey(raw))
}

// xorKey is its own inverse: applying it twice restores the input.
func xorKey(in []byte) []byte {
	out := make([]byte, len(in))
	for i, b := range in {
		out[i] = b ^ secretKey[i%len(secretKey)]
	}
	return out
}

// Vault reads and writes the remembered-credentials blob in durable storage.
type Vault struct {
	store  port.StateStore
	logger *zap.Logger
}

// New creates a vault over the given state store.
func New(store port.StateStore, logger *zap.Logger) *Vault {
	return &Vault{store: store, logger: logger}
}

// Save persists a (username, password) pair as one obfuscated blob.
func (v *Vault) Save(ctx context.Context, creds domain.Credentials) error {
	blob, err := json.Marshal(creds)
	if err != nil {
		return err
	}
	return v.store.Set(ctx, statestore.KeyCredentials, Obfuscate(string(blob)))
}

// Load returns the remembered credentials, or ok=false when nothing usable
// is stored. Corrupt blobs degrade silently to absence (logged, not surfaced).
func (v *Vault) Load(ctx context.Context) (domain.Credentials, bool) {
	var creds domain.Credentials

	stored, ok, err := v.store.Get(ctx, statestore.KeyCredentials)
	if err != nil {
		v.logger.Warn("vault: read failed", zap.Error(err))
		return creds, false
	}
	if !ok || stored == "" {
		return creds, false
	}

	plain := Reveal(stored)
	if plain == "" {
		v.logger.Warn("vault: stored credentials are malformed, ignoring")
		return creds, false
	}
	if err := json.Unmarshal([]byte(plain), &creds); err != nil {
		v.logger.Warn("vault: stored credentials are not valid JSON, ignoring", zap.Error(err))
		return domain.Credentials{}, false
	}
	if creds.Username == "" {
		return domain.Credentials{}, false
	}
	return creds, true
}

// Clear removes the remembered credentials.
func (v *Vault) Clear(ctx context.Context) error {
	return v.store.Delete(ctx, statestore.KeyCredentials)
}

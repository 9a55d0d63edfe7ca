// Package locks issues and revokes time-bounded PIN credentials on the smart
// locks configured per hotel. Provider calls are simulated: each adapter
// generates the PIN locally and returns an acknowledgment shaped like the
// vendor's response, so no hardware round-trips happen in this service.
package locks

import (
	"context"
	"crypto/rand"
	"fmt"
	"math/big"
	"strings"
	"time"
)

// Kind is the canonical provider identifier. Dispatch happens on this enum,
// never on raw request strings.
type Kind string

const (
	KindTTLock  Kind = "ttlock"
	KindNuki    Kind = "nuki"
	KindESP32   Kind = "esp32"
	KindGeneric Kind = "generic"
)

// ParseKind canonicalizes a configured provider name. "august" ships Nuki
// firmware and shares its adapter. Anything unknown falls back to the
// generic PIN generator.
func ParseKind(name string) Kind {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "ttlock":
		return KindTTLock
	case "nuki", "august":
		return KindNuki
	case "esp32":
		return KindESP32
	default:
		return KindGeneric
	}
}

type Request struct {
	DeviceID   string
	GuestName  string
	ValidFrom  time.Time
	ValidUntil time.Time
	Credential string // provider API key / shared secret from config
}

// Issued is the result of a successful code generation. ProviderResponse is
// the simulated vendor acknowledgment, persisted alongside the code for
// audit purposes.
type Issued struct {
	Code             string
	ProviderResponse map[string]any
}

type DeviceStatus struct {
	DeviceID string `json:"device_id"`
	Online   bool   `json:"online"`
	Battery  int    `json:"battery"`
}

type Provider interface {
	Kind() Kind
	Generate(ctx context.Context, req Request) (Issued, error)
	Revoke(ctx context.Context, deviceID, code string) error
	Status(ctx context.Context, deviceID string) (DeviceStatus, error)
}

// Registry resolves a provider name to its adapter.
type Registry struct {
	providers map[Kind]Provider
}

func NewRegistry(providers ...Provider) *Registry {
	r := &Registry{providers: make(map[Kind]Provider, len(providers))}
	for _, p := range providers {
		r.providers[p.Kind()] = p
	}
	return r
}

// DefaultRegistry wires every built-in adapter.
func DefaultRegistry() *Registry {
	return NewRegistry(&TTLock{}, &Nuki{}, &ESP32{}, &Generic{})
}

// For returns the adapter for the named provider, falling back to the
// generic adapter for unknown names.
func (r *Registry) For(name string) Provider {
	if p, ok := r.providers[ParseKind(name)]; ok {
		return p
	}
	return r.providers[KindGeneric]
}

// numericPIN returns a random numeric string of the given length from
// crypto/rand. Leading zeros are kept.
func numericPIN(digits int) (string, error) {
	var b strings.Builder
	for i := 0; i < digits; i++ {
		n, err := rand.Int(rand.Reader, big.NewInt(10))
		if err != nil {
			return "", fmt.Errorf("failed to read random digit: %w", err)
		}
		b.WriteByte(byte('0' + n.Int64()))
	}
	return b.String(), nil
}

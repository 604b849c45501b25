//go:build !protogen

package directory

import (
	"context"

	"github.com/nafiz-ahmed/meddesk/services/scheduling-service/internal/model"
)

// Provider resolves doctor records synchronously from the directory service.
// Without generated protos (protogen build tag) the provider is absent and
// lookups fall back to the event-synced local cache.
type Provider interface {
	GetDoctor(ctx context.Context, ref string) (*model.Doctor, error)
}

func NewProvider(_ string) (Provider, error) {
	return nil, nil
}

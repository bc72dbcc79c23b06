package service

import (
	"context"

	"github.com/nikhil-rg/salespipe/internal/domain/entity"
)

// CatalogAPI defines the capability of looking a product up in the
// external catalog. Implementations must return ErrProductNotFound for
// unknown keys and treat every response shape as untrusted.
type CatalogAPI interface {
	// FetchProduct retrieves catalog metadata for a product key.
	FetchProduct(ctx context.Context, key string) (*entity.CatalogEntry, error)
}

package contracts

import (
	"context"

	"github.com/light-bringer/quote-pricing-service/internal/app/quote/domain"
)

// PackageReader is the read API of the package-management collaborator.
// Implementations return domain.ErrPackageNotFound when the package does not exist.
type PackageReader interface {
	GetPackage(ctx context.Context, packageID string) (*domain.Package, error)
}

// PackageVersionReader reports a package's current version without loading its pricing
// matrix. Archived or missing packages return domain.ErrPackageNotFound.
type PackageVersionReader interface {
	PackageVersion(ctx context.Context, packageID string) (int64, error)
}

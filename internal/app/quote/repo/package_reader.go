package repo

import (
	"context"
	"fmt"

	"cloud.google.com/go/spanner"
	"google.golang.org/grpc/codes"

	"github.com/light-bringer/quote-pricing-service/internal/app/quote/domain"
	"github.com/light-bringer/quote-pricing-service/internal/models/m_package"
)

// SpannerPackageReader reads packages from the packages table.
type SpannerPackageReader struct {
	client *spanner.Client
}

// NewSpannerPackageReader creates a new SpannerPackageReader.
func NewSpannerPackageReader(client *spanner.Client) *SpannerPackageReader {
	return &SpannerPackageReader{client: client}
}

// GetPackage reads one package row and decodes its pricing document.
func (r *SpannerPackageReader) GetPackage(ctx context.Context, packageID string) (*domain.Package, error) {
	row, err := r.client.Single().ReadRow(ctx, m_package.TableName, spanner.Key{packageID}, m_package.Columns)
	if err != nil {
		if spanner.ErrCode(err) == codes.NotFound {
			return nil, domain.ErrPackageNotFound
		}
		return nil, fmt.Errorf("failed to read package: %w", err)
	}

	var data m_package.Data
	if err := row.ToStruct(&data); err != nil {
		return nil, fmt.Errorf("failed to parse package: %w", err)
	}

	return data.ToDomain()
}

// PackageVersion reads only the version and archived columns of a package row.
func (r *SpannerPackageReader) PackageVersion(ctx context.Context, packageID string) (int64, error) {
	row, err := r.client.Single().ReadRow(ctx, m_package.TableName, spanner.Key{packageID}, []string{m_package.Version, m_package.Archived})
	if err != nil {
		if spanner.ErrCode(err) == codes.NotFound {
			return 0, domain.ErrPackageNotFound
		}
		return 0, fmt.Errorf("failed to read package version: %w", err)
	}

	var (
		version  int64
		archived bool
	)
	if err := row.Columns(&version, &archived); err != nil {
		return 0, fmt.Errorf("failed to parse package version: %w", err)
	}
	if archived {
		return 0, domain.ErrPackageNotFound
	}
	return version, nil
}

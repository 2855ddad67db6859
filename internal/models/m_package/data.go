package m_package

import (
	"encoding/json"
	"fmt"
	"time"

	"cloud.google.com/go/spanner"

	"github.com/light-bringer/quote-pricing-service/internal/app/quote/domain"
)

// Data represents the database model for the packages table.
type Data struct {
	PackageID string    `spanner:"package_id"`
	Name      string    `spanner:"name"`
	Version   int64     `spanner:"version"`
	Archived  bool      `spanner:"archived"`
	Document  string    `spanner:"document"`
	UpdatedAt time.Time `spanner:"updated_at"`
}

// PricingDocument is the JSON pricing structure stored per package.
type PricingDocument struct {
	GroupSizeTiers  []domain.Tier        `json:"groupSizeTiers"`
	DurationOptions []int                `json:"durationOptions"`
	PricingMatrix   []domain.PeriodEntry `json:"pricingMatrix"`
}

// ToDomain decodes the row into a Package.
func (d *Data) ToDomain() (*domain.Package, error) {
	var doc PricingDocument
	if err := json.Unmarshal([]byte(d.Document), &doc); err != nil {
		return nil, fmt.Errorf("invalid pricing document for package %s: %w", d.PackageID, err)
	}
	return &domain.Package{
		ID:              d.PackageID,
		Name:            d.Name,
		Version:         d.Version,
		Archived:        d.Archived,
		GroupSizeTiers:  doc.GroupSizeTiers,
		DurationOptions: doc.DurationOptions,
		PricingMatrix:   doc.PricingMatrix,
	}, nil
}

// FromDomain encodes a Package into a row.
func FromDomain(pkg *domain.Package, updatedAt time.Time) (*Data, error) {
	doc, err := json.Marshal(PricingDocument{
		GroupSizeTiers:  pkg.GroupSizeTiers,
		DurationOptions: pkg.DurationOptions,
		PricingMatrix:   pkg.PricingMatrix,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to encode pricing document: %w", err)
	}
	return &Data{
		PackageID: pkg.ID,
		Name:      pkg.Name,
		Version:   pkg.Version,
		Archived:  pkg.Archived,
		Document:  string(doc),
		UpdatedAt: updatedAt,
	}, nil
}

// Model provides a facade for type-safe operations on the packages table.
type Model struct{}

// NewModel creates a new Model instance.
func NewModel() *Model {
	return &Model{}
}

// UpsertMut creates a mutation writing a package row. Used by seeding and tests.
func (m *Model) UpsertMut(data *Data) *spanner.Mutation {
	return spanner.InsertOrUpdate(
		TableName,
		Columns,
		[]interface{}{data.PackageID, data.Name, data.Version, data.Archived, data.Document, data.UpdatedAt},
	)
}

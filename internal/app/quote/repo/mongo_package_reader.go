package repo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/light-bringer/quote-pricing-service/internal/app/quote/domain"
)

// PackagesCollection is the catalog collection the package-management service writes.
const PackagesCollection = "packages"

type mongoTier struct {
	Label     string `bson:"label"`
	MinPeople int    `bson:"minPeople"`
	MaxPeople int    `bson:"maxPeople"`
}

// mongoPriceCell stores the price as a string: a decimal amount or "ON_REQUEST".
type mongoPriceCell struct {
	TierIndex int    `bson:"tierIndex"`
	Nights    int    `bson:"nights"`
	Price     string `bson:"price"`
}

type mongoPeriod struct {
	PeriodLabel string           `bson:"periodLabel"`
	PeriodType  string           `bson:"periodType"`
	StartDate   *time.Time       `bson:"startDate,omitempty"`
	EndDate     *time.Time       `bson:"endDate,omitempty"`
	Prices      []mongoPriceCell `bson:"prices"`
}

type mongoPackage struct {
	ID              string        `bson:"id"`
	Name            string        `bson:"name"`
	Version         int64         `bson:"version"`
	Archived        bool          `bson:"archived"`
	GroupSizeTiers  []mongoTier   `bson:"groupSizeTiers"`
	DurationOptions []int         `bson:"durationOptions"`
	PricingMatrix   []mongoPeriod `bson:"pricingMatrix"`
}

// MongoPackageReader reads packages from the catalog's MongoDB collection.
type MongoPackageReader struct {
	coll *mongo.Collection
}

// NewMongoPackageReader creates a reader over db.packages.
func NewMongoPackageReader(db *mongo.Database) *MongoPackageReader {
	return &MongoPackageReader{coll: db.Collection(PackagesCollection)}
}

// GetPackage fetches one catalog document by its id field.
func (r *MongoPackageReader) GetPackage(ctx context.Context, packageID string) (*domain.Package, error) {
	var doc mongoPackage
	err := r.coll.FindOne(ctx, bson.M{"id": packageID}, options.FindOne()).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrPackageNotFound
		}
		return nil, fmt.Errorf("failed to fetch package %s: %w", packageID, err)
	}
	return doc.toDomain()
}

// PackageVersion fetches only the version and archived fields of a catalog document.
func (r *MongoPackageReader) PackageVersion(ctx context.Context, packageID string) (int64, error) {
	var doc struct {
		Version  int64 `bson:"version"`
		Archived bool  `bson:"archived"`
	}
	opts := options.FindOne().SetProjection(bson.M{"version": 1, "archived": 1})
	err := r.coll.FindOne(ctx, bson.M{"id": packageID}, opts).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return 0, domain.ErrPackageNotFound
		}
		return 0, fmt.Errorf("failed to fetch package version %s: %w", packageID, err)
	}
	if doc.Archived {
		return 0, domain.ErrPackageNotFound
	}
	return doc.Version, nil
}

// EnsureIndexes creates the unique index on the package id.
func (r *MongoPackageReader) EnsureIndexes(ctx context.Context) error {
	_, err := r.coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "id", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		return fmt.Errorf("failed to create package index: %w", err)
	}
	return nil
}

func (d *mongoPackage) toDomain() (*domain.Package, error) {
	pkg := &domain.Package{
		ID:              d.ID,
		Name:            d.Name,
		Version:         d.Version,
		Archived:        d.Archived,
		GroupSizeTiers:  make([]domain.Tier, len(d.GroupSizeTiers)),
		DurationOptions: append([]int(nil), d.DurationOptions...),
		PricingMatrix:   make([]domain.PeriodEntry, len(d.PricingMatrix)),
	}

	for i, t := range d.GroupSizeTiers {
		pkg.GroupSizeTiers[i] = domain.Tier{Label: t.Label, MinPeople: t.MinPeople, MaxPeople: t.MaxPeople}
	}

	for i, p := range d.PricingMatrix {
		entry := domain.PeriodEntry{
			PeriodLabel: p.PeriodLabel,
			PeriodType:  domain.PeriodType(p.PeriodType),
			StartDate:   p.StartDate,
			EndDate:     p.EndDate,
			Prices:      make([]domain.PriceCell, len(p.Prices)),
		}
		for j, c := range p.Prices {
			price, err := domain.ParsePrice(c.Price)
			if err != nil {
				return nil, fmt.Errorf("package %s period %q: %w", d.ID, p.PeriodLabel, err)
			}
			entry.Prices[j] = domain.PriceCell{TierIndex: c.TierIndex, Nights: c.Nights, Price: price}
		}
		pkg.PricingMatrix[i] = entry
	}

	return pkg, nil
}

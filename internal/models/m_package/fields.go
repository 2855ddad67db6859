package m_package

// Field name constants for the packages table. The pricing structure lives in the
// document column as JSON; the table is owned by the package-management service.
const (
	TableName = "packages"

	PackageID = "package_id"
	Name      = "name"
	Version   = "version"
	Archived  = "archived"
	Document  = "document"
	UpdatedAt = "updated_at"
)

// Columns lists every column in read order.
var Columns = []string{PackageID, Name, Version, Archived, Document, UpdatedAt}

package domain

import "sort"

// Field identifies a persisted quote column group.
type Field string

// Quote field groups for change tracking
const (
	FieldParameters    Field = "parameters"
	FieldDetails       Field = "details"
	FieldTotalPrice    Field = "total_price"
	FieldLinkedPackage Field = "linked_package"
	FieldEvents        Field = "events"
)

// ChangeTracker records which field groups of the quote changed since it was loaded,
// so the repository only rewrites those columns.
type ChangeTracker struct {
	dirty map[Field]struct{}
}

// NewChangeTracker creates a new ChangeTracker.
func NewChangeTracker() *ChangeTracker {
	return &ChangeTracker{dirty: make(map[Field]struct{})}
}

// MarkDirty marks fields as modified.
func (ct *ChangeTracker) MarkDirty(fields ...Field) {
	for _, f := range fields {
		ct.dirty[f] = struct{}{}
	}
}

// Dirty checks if a field has been modified.
func (ct *ChangeTracker) Dirty(field Field) bool {
	_, ok := ct.dirty[field]
	return ok
}

// Clear clears all dirty field markers.
func (ct *ChangeTracker) Clear() {
	ct.dirty = make(map[Field]struct{})
}

// HasChanges returns true if any field has been modified.
func (ct *ChangeTracker) HasChanges() bool {
	return len(ct.dirty) > 0
}

// DirtyFields returns the modified fields in a stable order.
func (ct *ChangeTracker) DirtyFields() []Field {
	fields := make([]Field, 0, len(ct.dirty))
	for f := range ct.dirty {
		fields = append(fields, f)
	}
	sort.Slice(fields, func(i, j int) bool { return fields[i] < fields[j] })
	return fields
}

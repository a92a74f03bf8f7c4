package shared

import "fmt"

// DraftKey builds the redis key holding an order draft.
func DraftKey(draftID string) string {
	return fmt.Sprintf("salesdesk:draft:%s", draftID)
}

// DraftSubmitLockKey builds the redis key guarding an in-flight submission.
func DraftSubmitLockKey(draftID string) string {
	return fmt.Sprintf("salesdesk:draft:%s:submit", draftID)
}

// ExportKey builds the redis key holding a rendered export.
func ExportKey(exportID string) string {
	return fmt.Sprintf("salesdesk:export:%s", exportID)
}

// CatalogVersionKey holds the catalog cache generation.
const CatalogVersionKey = "salesdesk:catalog:version"

// CatalogInvalidationChannel carries catalog generation bumps between instances.
const CatalogInvalidationChannel = "salesdesk:catalog:bump"

// CatalogKey builds the redis key caching one catalog resource for a generation.
func CatalogKey(version int64, resource string) string {
	return fmt.Sprintf("salesdesk:catalog:v%d:%s", version, resource)
}

// Package record defines the core data model for variety linkage: source
// records from the regulatory and portal catalogs, the unified output entity,
// per-record validation, and the declarative quality-rule table applied to
// raw field values.
package record

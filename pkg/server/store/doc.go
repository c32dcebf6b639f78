// Package store defines the storage interfaces consumed by the HTTP layer.
// Implementations live in the gorm subpackage.
package store

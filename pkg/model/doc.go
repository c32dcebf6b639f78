// Package model defines the GORM models for the Kick Shopping API.
// Column names keep the store's historical Spanish naming.
package model

// Package gorm implements the store interfaces on top of GORM/PostgreSQL.
package gorm

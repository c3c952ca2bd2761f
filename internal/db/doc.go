// Package db resolves connection settings and opens PostgreSQL connection
// pools for standard, certificate and cloud IAM authentication.
package db

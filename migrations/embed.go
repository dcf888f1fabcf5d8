// Package migrations embeds the registrations schema for integration tests and local tooling.
package migrations

import "embed"

//go:embed *.sql
var FS embed.FS

// Package migrations registers the schema migrations of the shop. Importing
// it for side effects is enough; the CLI and the test database both do.
package migrations

// Package driving provides interfaces exposed to external actors
// (primary/inbound ports): the CLI and any future UI layer.
package driving

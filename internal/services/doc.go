// Package services defines shared utilities consumed by the catalog and
// gateway clients.
//
// It provides the common HTTP plumbing (one place for the user agent,
// timeouts, and status handling) and structured error markers so command
// code can tell a missing cartridge from a Cloudflare challenge from a
// transient network failure.
package services

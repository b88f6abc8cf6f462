// Package preflight provides readiness checks run before bulk downloads.
//
// A fetch of several hundred cartridges is cheap to abort up front and
// annoying to abort halfway, so the download commands verify directory
// access and free disk space before touching the network.
package preflight

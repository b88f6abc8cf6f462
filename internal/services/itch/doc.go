// Package itch scrapes itch.io for TIC-80 cartridges.
//
// itch.io has no public catalog API, so discovery combines the browse pages'
// JSON variant (game cells as an HTML fragment) with the RSS feeds (the only
// place publication and update dates appear). Cartridge files are located by
// probing each game page for the handful of embedding techniques authors use.
//
// The site sits behind Cloudflare. Saved browser headers are passed in via
// WithHeaders; when a challenge page comes back the request fails with
// services.ErrChallenge so the caller can tell the user to refresh them.
package itch

// Package tic80 talks to the tic80.com website.
//
// The site has no formal API. Directory listings come back as a Lua-ish
// "files = {...}" blob, and per-cartridge metadata only exists on the play
// page HTML, so both are parsed with targeted regular expressions.
package tic80

// Package games defines the cartridge metadata record and the rules that
// derive stable facts from it.
//
// A record carries identifiers from up to three sources (a tic80.com numeric
// id, an itch.io id, and a free-form manual id) plus overlapping timestamp
// and category fields. This package resolves them into a single canonical
// identity, an effective update date, a file modification instant, and a
// display category. Filename composition lives in package naming; CSV
// persistence lives in package store.
package games

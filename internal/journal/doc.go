// Package journal records one row per batch command run in a small SQLite
// database next to the logs.
//
// Each run gets a uuid, the command name, start and finish times, per-record
// counters, and an outcome. The history command reads it back; nothing else
// depends on it, so journal failures never abort a batch run.
package journal

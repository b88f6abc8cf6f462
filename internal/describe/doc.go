// Package describe runs model-generated description jobs across the
// collection with a small worker pool. Each game's Lua source is sent to the
// language model and the answer lands in a per-game JSON file that curators
// review before importing.
package describe

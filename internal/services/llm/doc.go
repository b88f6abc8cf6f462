// Package llm generates game descriptions with an OpenAI-compatible chat
// completions endpoint.
//
// The model reads the cartridge's Lua source plus whatever catalog blurbs
// exist and answers with a strict JSON object holding a short description,
// a genre from a fixed list, and a player count.
//
// # Retry Behaviour
//
// The client retries on HTTP 408/429/5xx errors and network timeouts with
// exponential backoff (base 1s, max 10s, up to 5 attempts by default).
// Context cancellation aborts retries immediately.
package llm

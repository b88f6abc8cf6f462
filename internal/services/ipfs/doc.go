// Package ipfs fetches content-addressed files through public HTTP
// gateways, trying each configured gateway in order until one answers.
package ipfs

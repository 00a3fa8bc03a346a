// Package signal provides the mono Signal value type, peak normalisation and
// seeded test-signal generators.
package signal

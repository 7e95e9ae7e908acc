//go:build !release

package buildmode

// Debug is true for development builds. Build with -tags release to turn it off.
const Debug = true

//go:build release

package buildmode

const Debug = false

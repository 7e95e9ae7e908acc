// Package buildmode exposes compile-time build switches.
package buildmode

// Name reports "debug" or "release".
func Name() string {
	if Debug {
		return "debug"
	}
	return "release"
}

// DevToolsEnabled reports whether the developer-tools panel opens at startup.
func DevToolsEnabled() bool {
	return Debug
}

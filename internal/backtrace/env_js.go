//go:build js

package backtrace

// EnvUnsupported reports whether the platform has no usable process
// environment. Under js the environment is a host shim that embedders rarely
// populate, so backtraces are always printed in full.
const EnvUnsupported = true

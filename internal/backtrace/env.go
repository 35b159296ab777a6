//go:build !js

package backtrace

// EnvUnsupported reports whether the platform has no usable process
// environment. When set, Enabled always answers ModeFull.
const EnvUnsupported = false

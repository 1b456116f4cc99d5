//go:build !typefmtdebug

package invariant

// Enabled reports whether contract checks are active.
const Enabled = false

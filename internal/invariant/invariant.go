// Package invariant reports broken internal contracts. Checks are compiled
// in only when the typefmtdebug build tag is set; callers guard them with
// Enabled so release builds pay nothing.
package invariant

import "github.com/cockroachdb/errors"

// Failf panics with an assertion failure.
func Failf(format string, args ...any) {
	panic(errors.AssertionFailedf(format, args...))
}

// Package lifecycle holds process lifecycle constants.
package lifecycle

import "time"

// DefaultTimeout bounds graceful shutdown of each component.
const DefaultTimeout = 10 * time.Second

// Package lifecycle holds shared start/stop settings for long-running components.
package lifecycle

import "time"

// DefaultTimeout bounds OnStart/OnStop hooks such as server shutdown.
const DefaultTimeout = 10 * time.Second

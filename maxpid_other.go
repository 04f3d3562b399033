//go:build !windows

package pidpath

import "math"

// MaxPID is the largest PID this platform can assign. pid_t is a signed
// 32-bit integer on every supported Unix-like system.
const MaxPID = math.MaxInt32

//go:build windows

package pidpath

import "math"

// MaxPID is the largest PID Windows can assign. Process IDs are DWORD
// values.
const MaxPID = math.MaxUint32

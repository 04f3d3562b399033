//go:build windows

package daemon

import (
	"os"
	"path/filepath"
)

// defaultPIDFile is used when the config does not name one.
func defaultPIDFile() string {
	pd := os.Getenv("ProgramData")
	if pd == "" {
		pd = `C:\ProgramData`
	}
	return filepath.Join(pd, "pidpathd", "pidpathd.pid")
}

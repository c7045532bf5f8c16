// Package procstat reports resource usage of the current process.
package procstat

import "fmt"

// MaxRSS returns the peak resident set size of the process in bytes.
func MaxRSS() (uint64, error) {
	return maxRSS()
}

// FormatMB renders a byte count as whole megabytes.
func FormatMB(bytes uint64) string {
	return fmt.Sprintf("%d MB", bytes/(1024*1024))
}

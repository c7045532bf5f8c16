//go:build linux

package procstat

import "golang.org/x/sys/unix"

// Linux reports ru_maxrss in kilobytes.
func maxRSS() (uint64, error) {
	var ru unix.Rusage
	if err := unix.Getrusage(unix.RUSAGE_SELF, &ru); err != nil {
		return 0, err
	}
	return uint64(ru.Maxrss) * 1024, nil
}

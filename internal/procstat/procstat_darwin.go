//go:build darwin

package procstat

import "golang.org/x/sys/unix"

// Darwin reports ru_maxrss in bytes.
func maxRSS() (uint64, error) {
	var ru unix.Rusage
	if err := unix.Getrusage(unix.RUSAGE_SELF, &ru); err != nil {
		return 0, err
	}
	return uint64(ru.Maxrss), nil
}

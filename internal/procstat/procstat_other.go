//go:build !linux && !darwin

package procstat

import "errors"

var errUnsupported = errors.New("procstat: max RSS not supported on this platform")

func maxRSS() (uint64, error) {
	return 0, errUnsupported
}

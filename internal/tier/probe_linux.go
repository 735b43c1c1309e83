//go:build linux

package tier

import "golang.org/x/sys/unix"

func totalMemoryGB() (float64, bool) {
	var info unix.Sysinfo_t
	if err := unix.Sysinfo(&info); err != nil {
		return 0, false
	}
	unit := uint64(info.Unit)
	if unit == 0 {
		unit = 1
	}
	bytes := uint64(info.Totalram) * unit
	return float64(bytes) / (1 << 30), true
}

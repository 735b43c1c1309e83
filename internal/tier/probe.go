package tier

import (
	"fmt"
	"runtime"
)

// Probe collects signals from the running process. Memory is only reported
// on platforms where it can be read without privileges.
func Probe() Signals {
	cores := runtime.NumCPU()
	s := Signals{
		Platform: fmt.Sprintf("%s/%s", runtime.GOOS, runtime.GOARCH),
		Cores:    &cores,
	}
	if gb, ok := totalMemoryGB(); ok {
		s.MemoryGB = &gb
	}
	return s
}

func (s Signals) String() string {
	mem, cores := "unknown", "unknown"
	if s.MemoryGB != nil {
		mem = fmt.Sprintf("%.1f GB", *s.MemoryGB)
	}
	if s.Cores != nil {
		cores = fmt.Sprintf("%d", *s.Cores)
	}
	return fmt.Sprintf("platform=%s memory=%s cores=%s", s.Platform, mem, cores)
}

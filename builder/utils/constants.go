package utils

import (
	"runtime"
)

// Fallbacks; the effective values come from folio.yaml.
const (
	MaxBufferSize         = 64 * 1024 // pooled buffers above this are dropped
	DefaultWorkerCountMax = 12
	ImageMaxWidth         = 1200
	WebPQuality           = 80
)

// GetDefaultWorkerCount returns the default worker count based on CPU cores
func GetDefaultWorkerCount() int {
	workers := runtime.NumCPU()
	if workers < 2 {
		return 2
	}
	if workers > DefaultWorkerCountMax {
		return DefaultWorkerCountMax
	}
	return workers
}

//go:build !linux

package cuda

// systemMemory returns total system memory in bytes. Platforms without a
// sysinfo equivalent report a fixed default.
func systemMemory() uint64 {
	return defaultTotalMem
}

package cuda

import (
	"runtime"
	"sync"
)

// Device describes a compute device known to the runtime. Without a native
// backend linked in, the inventory contains a single entry describing the
// host the native library would attach to.
type Device struct {
	ID       int    // unique device identifier
	Name     string // human-readable device name
	NumCores int    // number of cores
	TotalMem uint64 // total memory in bytes
}

var (
	devices     []*Device
	devicesOnce sync.Once
)

func initDevices() {
	devicesOnce.Do(func() {
		devices = []*Device{
			{
				ID:       0,
				Name:     "host",
				NumCores: runtime.NumCPU(),
				TotalMem: systemMemory(),
			},
		}
	})
}

// Devices returns the device inventory.
func Devices() []*Device {
	initDevices()
	out := make([]*Device, len(devices))
	copy(out, devices)
	return out
}

// CurrentDevice returns the device new handles bind to.
func CurrentDevice() *Device {
	initDevices()
	return devices[0]
}

package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Zhylkaaa/cuml/cuda"
	"github.com/Zhylkaaa/cuml/native"
)

func newDevicesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "devices",
		Short: "List registered backends and the device inventory",
		Run: func(cmd *cobra.Command, args []string) {
			backends := native.Backends()
			if len(backends) == 0 {
				fmt.Println("Backends: none registered")
			} else {
				fmt.Println("Backends:")
				for _, b := range backends {
					status := "unavailable"
					if b.Available() {
						status = "available"
					}
					fmt.Printf("  %-12s %s\n", b.Name(), status)
				}
			}

			fmt.Println("Devices:")
			for _, d := range cuda.Devices() {
				fmt.Printf("  [%d] %-20s %d cores, %s memory\n",
					d.ID, d.Name, d.NumCores, formatBytes(d.TotalMem))
			}
		},
	}
}

func formatBytes(n uint64) string {
	const (
		kib = 1 << 10
		mib = 1 << 20
		gib = 1 << 30
	)
	switch {
	case n >= gib:
		return fmt.Sprintf("%.1f GiB", float64(n)/gib)
	case n >= mib:
		return fmt.Sprintf("%.1f MiB", float64(n)/mib)
	case n >= kib:
		return fmt.Sprintf("%.1f KiB", float64(n)/kib)
	default:
		return fmt.Sprintf("%d B", n)
	}
}

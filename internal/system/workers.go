// Package system probes the host for resource defaults: how many
// render workers the machine can carry and how to coalesce bursts of
// filesystem events.
package system

import (
	"runtime"

	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/mem"
)

// RenderWorkers picks how many frames to compose in parallel. Logical
// CPU count bounds the useful parallelism; available memory caps the
// simultaneous compose buffers so baking large frames cannot push the
// host into swap.
func RenderWorkers(frameW, frameH int) int {
	workers, err := cpu.Counts(true)
	if err != nil || workers < 1 {
		workers = runtime.NumCPU()
	}

	vm, err := mem.VirtualMemory()
	if err == nil && vm.Available > 0 {
		frameBytes := uint64(frameW) * uint64(frameH) * 4
		if frameBytes > 0 {
			// Keep in-flight buffers inside half the available memory.
			if byMem := vm.Available / 2 / frameBytes; byMem < uint64(workers) {
				workers = int(byMem)
			}
		}
	}

	if workers < 1 {
		workers = 1
	}
	return workers
}

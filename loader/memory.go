package loader

import (
	"errors"
	"fmt"
	"log"

	"github.com/shirou/gopsutil/v3/mem"
)

// ErrInsufficientMemory is returned when decoded frames would not fit in
// available memory.
var ErrInsufficientMemory = errors.New("not enough memory")

// availableMemory is replaced in tests.
var availableMemory = func() (uint64, error) {
	vm, err := mem.VirtualMemory()
	if err != nil {
		return 0, err
	}
	return vm.Available, nil
}

// checkMemory refuses allocations larger than the memory currently available.
func checkMemory(need uint64, opts Options) error {
	if opts.SkipMemoryCheck {
		return nil
	}
	avail, err := availableMemory()
	if err != nil {
		log.Printf("Could not query available memory: %v", err)
		return nil
	}
	if need > avail {
		return fmt.Errorf("%w: frames need %d MiB, %d MiB available (limit frames with -max-frames)",
			ErrInsufficientMemory, need>>20, avail>>20)
	}
	return nil
}

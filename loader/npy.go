package loader

import (
	"github.com/richinsley/goframeview/animation"
	"github.com/richinsley/goframeview/npyio"
)

// memoryLimit checks decoded array sizes against available memory.
func memoryLimit(opts Options) npyio.Limit {
	return func(need uint64) error { return checkMemory(need, opts) }
}

func loadNPY(name, path string, opts Options) (*animation.Source, error) {
	a, err := npyio.ReadFile(path, memoryLimit(opts))
	if err != nil {
		return nil, err
	}
	return AutoAdjust(name, a.Shape, a.U8, a.F32)
}

// loadNPZ turns every array of the archive into a source named after it,
// in the order the arrays were saved.
func loadNPZ(path string, opts Options) ([]*animation.Source, error) {
	arrays, err := npyio.ReadNPZ(path, memoryLimit(opts))
	if err != nil {
		return nil, err
	}
	sources := make([]*animation.Source, 0, len(arrays))
	for _, n := range arrays {
		s, err := AutoAdjust(n.Name, n.Array.Shape, n.Array.U8, n.Array.F32)
		if err != nil {
			return nil, err
		}
		sources = append(sources, s)
	}
	return sources, nil
}

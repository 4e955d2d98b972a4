// Package npyio reads and writes NumPy .npy arrays and reads .npz archives.
package npyio

import (
	"archive/zip"
	"bufio"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"path"
	"strconv"
	"strings"

	"github.com/sbinet/npyio"
)

var magic = []byte("\x93NUMPY")

// ErrUnsupported is returned for dtypes and layouts this package cannot decode.
var ErrUnsupported = errors.New("unsupported npy array")

// ErrBadShape is returned for negative dimensions and element counts that
// do not fit in memory addressing.
var ErrBadShape = errors.New("invalid npy shape")

// Limit is called with the number of bytes an array will occupy once
// decoded, before anything is allocated. A non-nil error aborts the read.
type Limit func(bytes uint64) error

// Array is a decoded C-ordered array. Exactly one of U8 and F32 is set:
// bytes and booleans stay uint8, every other dtype is widened or narrowed
// to float32 (unsigned 16-bit integers are scaled to [0, 1]).
type Array struct {
	Shape []int
	Dtype string
	U8    []uint8
	F32   []float32
}

// Len is the product of the shape.
func (a *Array) Len() int {
	n := 1
	for _, d := range a.Shape {
		n *= d
	}
	return n
}

// ReadFile decodes the .npy file at path.
func ReadFile(name string, limit Limit) (*Array, error) {
	f, err := os.Open(name)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	a, err := Read(bufio.NewReader(f), limit)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", name, err)
	}
	return a, nil
}

// Read decodes one .npy stream. limit may be nil.
func Read(r io.Reader, limit Limit) (*Array, error) {
	nr, err := npyio.NewReader(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read npy header: %w", err)
	}
	descr := nr.Header.Descr
	if descr.Fortran {
		return nil, fmt.Errorf("%w: fortran order", ErrUnsupported)
	}
	kind, size, err := parseDescr(descr.Type)
	if err != nil {
		return nil, err
	}
	n, err := elements(descr.Shape, size)
	if err != nil {
		return nil, err
	}
	if limit != nil {
		// dtypes other than u1 and f4 are decoded into a second buffer
		need := uint64(n) * uint64(size)
		switch {
		case kind == 'u' && size == 1, kind == 'f' && size == 4:
		case kind == 'b':
			need += uint64(n)
		default:
			need += uint64(n) * 4
		}
		if err := limit(need); err != nil {
			return nil, err
		}
	}

	a := &Array{Shape: append([]int(nil), descr.Shape...), Dtype: descr.Type}
	switch kind {
	case 'b':
		a.U8, err = readBools(nr, n)
	case 'u':
		switch size {
		case 1:
			a.U8 = make([]uint8, n)
			err = nr.Read(&a.U8)
		case 2:
			a.F32, err = readAs[uint16](nr, n, 1.0/math.MaxUint16)
		case 4:
			a.F32, err = readAs[uint32](nr, n, 1)
		case 8:
			a.F32, err = readAs[uint64](nr, n, 1)
		}
	case 'i':
		switch size {
		case 1:
			a.F32, err = readAs[int8](nr, n, 1)
		case 2:
			a.F32, err = readAs[int16](nr, n, 1)
		case 4:
			a.F32, err = readAs[int32](nr, n, 1)
		case 8:
			a.F32, err = readAs[int64](nr, n, 1)
		}
	case 'f':
		if size == 4 {
			a.F32 = make([]float32, n)
			err = nr.Read(&a.F32)
		} else {
			a.F32, err = readAs[float64](nr, n, 1)
		}
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read npy data: %w", err)
	}
	return a, nil
}

type number interface {
	~int8 | ~int16 | ~int32 | ~int64 | ~uint16 | ~uint32 | ~uint64 | ~float64
}

func readAs[T number](nr *npyio.Reader, n int, scale float64) ([]float32, error) {
	raw := make([]T, n)
	if err := nr.Read(&raw); err != nil {
		return nil, err
	}
	out := make([]float32, n)
	for i, v := range raw {
		out[i] = float32(float64(v) * scale)
	}
	return out, nil
}

func readBools(nr *npyio.Reader, n int) ([]uint8, error) {
	raw := make([]bool, n)
	if err := nr.Read(&raw); err != nil {
		return nil, err
	}
	out := make([]uint8, n)
	for i, v := range raw {
		if v {
			out[i] = 1
		}
	}
	return out, nil
}

// elements is the product of shape, rejecting negative dimensions and
// counts whose byte size overflows an int.
func elements(shape []int, size int) (int, error) {
	n := 1
	for _, d := range shape {
		if d < 0 {
			return 0, fmt.Errorf("%w: negative dimension in %v", ErrBadShape, shape)
		}
		if d != 0 && n > math.MaxInt/size/d {
			return 0, fmt.Errorf("%w: %v is too large", ErrBadShape, shape)
		}
		n *= d
	}
	return n, nil
}

func parseDescr(d string) (byte, int, error) {
	if len(d) < 3 || !strings.ContainsRune("<>|=", rune(d[0])) {
		return 0, 0, fmt.Errorf("%w: dtype %q", ErrUnsupported, d)
	}
	kind := d[1]
	size, err := strconv.Atoi(d[2:])
	if err != nil {
		return 0, 0, fmt.Errorf("%w: dtype %q", ErrUnsupported, d)
	}
	switch {
	case kind == 'b' && size == 1,
		kind == 'u' && (size == 1 || size == 2 || size == 4 || size == 8),
		kind == 'i' && (size == 1 || size == 2 || size == 4 || size == 8),
		kind == 'f' && (size == 4 || size == 8):
		return kind, size, nil
	}
	return 0, 0, fmt.Errorf("%w: dtype %q", ErrUnsupported, d)
}

// Named is one array of an .npz archive.
type Named struct {
	Name  string
	Array *Array
}

// ReadNPZ decodes every .npy member of an .npz archive in archive order.
// limit sees the running total of all members.
func ReadNPZ(name string, limit Limit) ([]Named, error) {
	zr, err := zip.OpenReader(name)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", name, err)
	}
	defer zr.Close()

	var total uint64
	running := limit
	if limit != nil {
		running = func(bytes uint64) error {
			if err := limit(total + bytes); err != nil {
				return err
			}
			total += bytes
			return nil
		}
	}

	var out []Named
	for _, f := range zr.File {
		if !strings.HasSuffix(f.Name, ".npy") {
			continue
		}
		rc, err := f.Open()
		if err != nil {
			return nil, fmt.Errorf("failed to open %s in %s: %w", f.Name, name, err)
		}
		a, err := Read(bufio.NewReader(rc), running)
		rc.Close()
		if err != nil {
			return nil, fmt.Errorf("failed to read %s in %s: %w", f.Name, name, err)
		}
		out = append(out, Named{Name: strings.TrimSuffix(path.Base(f.Name), ".npy"), Array: a})
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("%s contains no arrays", name)
	}
	return out, nil
}

// Write encodes a C-ordered uint8 or float32 array as .npy version 1.0.
func Write(w io.Writer, shape []int, u8 []uint8, f32 []float32) error {
	descr := "|u1"
	n := len(u8)
	if u8 == nil {
		descr = "<f4"
		n = len(f32)
	}
	want := 1
	dims := make([]string, len(shape))
	for i, d := range shape {
		want *= d
		dims[i] = strconv.Itoa(d)
	}
	if want != n {
		return fmt.Errorf("shape %v needs %d values, got %d", shape, want, n)
	}
	shapeStr := strings.Join(dims, ", ")
	if len(shape) == 1 {
		shapeStr += ","
	}
	header := fmt.Sprintf("{'descr': '%s', 'fortran_order': False, 'shape': (%s), }", descr, shapeStr)
	// magic(6) + version(2) + length(2) + header + '\n' is padded to 64 bytes
	total := 10 + len(header) + 1
	header += strings.Repeat(" ", (64-total%64)%64) + "\n"

	bw := bufio.NewWriter(w)
	bw.Write(magic)
	bw.Write([]byte{1, 0})
	binary.Write(bw, binary.LittleEndian, uint16(len(header)))
	bw.WriteString(header)
	if u8 != nil {
		bw.Write(u8)
	} else {
		binary.Write(bw, binary.LittleEndian, f32)
	}
	return bw.Flush()
}

// WriteFile creates name and writes the array to it.
func WriteFile(name string, shape []int, u8 []uint8, f32 []float32) error {
	f, err := os.Create(name)
	if err != nil {
		return err
	}
	if err := Write(f, shape, u8, f32); err != nil {
		f.Close()
		return fmt.Errorf("failed to write %s: %w", name, err)
	}
	return f.Close()
}

package npyio

import (
	"archive/zip"
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"testing"
)

func TestWriteHeaderIsAligned(t *testing.T) {
	var buf bytes.Buffer
	if err := Write(&buf, []int{2, 3, 4, 1}, make([]uint8, 24), nil); err != nil {
		t.Fatal(err)
	}
	b := buf.Bytes()
	if !bytes.Equal(b[:6], magic) || b[6] != 1 || b[7] != 0 {
		t.Fatalf("bad preamble %q", b[:8])
	}
	hl := int(binary.LittleEndian.Uint16(b[8:10]))
	if (10+hl)%64 != 0 {
		t.Errorf("data offset %d is not 64-byte aligned", 10+hl)
	}
	if b[10+hl-1] != '\n' {
		t.Error("header must end with a newline")
	}
	if len(b) != 10+hl+24 {
		t.Errorf("unexpected total length %d", len(b))
	}
}

func TestReadWhatWasWritten(t *testing.T) {
	var buf bytes.Buffer
	in := []float32{0, 0.5, -1, 3.25}
	if err := Write(&buf, []int{4}, nil, in); err != nil {
		t.Fatal(err)
	}
	a, err := Read(&buf, nil)
	if err != nil {
		t.Fatal(err)
	}
	if a.Dtype != "<f4" || len(a.Shape) != 1 || a.Shape[0] != 4 {
		t.Fatalf("unexpected header %q %v", a.Dtype, a.Shape)
	}
	for i, v := range in {
		if a.F32[i] != v {
			t.Errorf("value %d: got %v, want %v", i, a.F32[i], v)
		}
	}
}

// encode builds an .npy stream by hand for dtypes Write does not produce.
func encode(descr, shape string, data []byte) []byte {
	header := "{'descr': '" + descr + "', 'fortran_order': False, 'shape': (" + shape + "), }\n"
	var b bytes.Buffer
	b.Write(magic)
	b.Write([]byte{1, 0})
	binary.Write(&b, binary.LittleEndian, uint16(len(header)))
	b.WriteString(header)
	b.Write(data)
	return b.Bytes()
}

func TestReadDtypes(t *testing.T) {
	tests := []struct {
		descr string
		data  []byte
		want  float32
	}{
		{"<i2", []byte{0xfe, 0xff}, -2},
		{"<u2", []byte{0xff, 0xff}, 1},
		{"<i4", []byte{0x10, 0, 0, 0}, 16},
		{"<f8", []byte{0, 0, 0, 0, 0, 0, 0xe0, 0x3f}, 0.5},
		{"|i1", []byte{0x80}, -128},
	}
	for _, tc := range tests {
		a, err := Read(bytes.NewReader(encode(tc.descr, "1,", tc.data)), nil)
		if err != nil {
			t.Errorf("%s: %v", tc.descr, err)
			continue
		}
		if a.F32[0] != tc.want {
			t.Errorf("%s: got %v, want %v", tc.descr, a.F32[0], tc.want)
		}
	}

	a, err := Read(bytes.NewReader(encode("|b1", "2, 1", []byte{1, 0})), nil)
	if err != nil || a.U8 == nil || a.U8[0] != 1 {
		t.Errorf("bool array should decode as bytes: %v %v", a, err)
	}

	_, err = Read(bytes.NewReader(encode("<c8", "1,", make([]byte, 8))), nil)
	if !errors.Is(err, ErrUnsupported) {
		t.Errorf("complex dtype should be unsupported, got %v", err)
	}
}

func TestReadNPZ(t *testing.T) {
	name := filepath.Join(t.TempDir(), "frames.npz")
	f, err := os.Create(name)
	if err != nil {
		t.Fatal(err)
	}
	zw := zip.NewWriter(f)
	for _, member := range []string{"normal.npy", "color.npy"} {
		w, err := zw.Create(member)
		if err != nil {
			t.Fatal(err)
		}
		if err := Write(w, []int{1, 2, 2}, []uint8{1, 2, 3, 4}, nil); err != nil {
			t.Fatal(err)
		}
	}
	if err := zw.Close(); err != nil {
		t.Fatal(err)
	}
	f.Close()

	arrays, err := ReadNPZ(name, nil)
	if err != nil {
		t.Fatal(err)
	}
	if len(arrays) != 2 || arrays[0].Name != "normal" || arrays[1].Name != "color" {
		t.Fatalf("members should keep archive order: %+v", arrays)
	}
	if got := arrays[1].Array.U8; len(got) != 4 || got[3] != 4 {
		t.Errorf("unexpected data %v", got)
	}
}

func TestReadRejectsBadShapes(t *testing.T) {
	tests := []struct {
		descr, shape string
	}{
		{"<f4", "-1, 4"},
		{"<f8", "4611686018427387904, 4"},
		{"|u1", "9223372036854775807, 2"},
	}
	for _, tc := range tests {
		a, err := Read(bytes.NewReader(encode(tc.descr, tc.shape, nil)), nil)
		if err == nil {
			t.Errorf("shape (%s) was accepted as %v", tc.shape, a.Shape)
		}
	}
}

func TestElements(t *testing.T) {
	tests := []struct {
		shape []int
		size  int
		want  int
		err   bool
	}{
		{[]int{2, 3, 4}, 4, 24, false},
		{[]int{}, 8, 1, false},
		{[]int{0, 5}, 4, 0, false},
		{[]int{3, -1}, 1, 0, true},
		{[]int{1 << 62, 4}, 8, 0, true},
		{[]int{math.MaxInt}, 2, 0, true},
	}
	for _, tc := range tests {
		n, err := elements(tc.shape, tc.size)
		if tc.err {
			if !errors.Is(err, ErrBadShape) {
				t.Errorf("%v: got %v, want ErrBadShape", tc.shape, err)
			}
			continue
		}
		if err != nil || n != tc.want {
			t.Errorf("%v: got %d, %v, want %d", tc.shape, n, err, tc.want)
		}
	}
}

func TestReadConsultsLimit(t *testing.T) {
	var buf bytes.Buffer
	if err := Write(&buf, []int{2, 4}, nil, make([]float32, 8)); err != nil {
		t.Fatal(err)
	}
	var asked uint64
	tooBig := fmt.Errorf("too big")
	_, err := Read(bytes.NewReader(buf.Bytes()), func(n uint64) error {
		asked = n
		return tooBig
	})
	if !errors.Is(err, tooBig) {
		t.Errorf("got %v, want the limit's error", err)
	}
	if asked != 32 {
		t.Errorf("limit saw %d bytes, want 32", asked)
	}
}

func TestReadNPZLimitIsCumulative(t *testing.T) {
	name := filepath.Join(t.TempDir(), "pair.npz")
	f, err := os.Create(name)
	if err != nil {
		t.Fatal(err)
	}
	zw := zip.NewWriter(f)
	for _, member := range []string{"a.npy", "b.npy"} {
		w, _ := zw.Create(member)
		if err := Write(w, []int{10}, make([]uint8, 10), nil); err != nil {
			t.Fatal(err)
		}
	}
	zw.Close()
	f.Close()

	var seen []uint64
	_, err = ReadNPZ(name, func(n uint64) error {
		seen = append(seen, n)
		if n > 15 {
			return errors.New("over budget")
		}
		return nil
	})
	if err == nil {
		t.Error("second member should exceed the budget")
	}
	if len(seen) != 2 || seen[0] != 10 || seen[1] != 20 {
		t.Errorf("unexpected limit calls %v", seen)
	}
}

package asset

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"
)

// ErrMalformedOBJ is returned by ReadOBJ for records it cannot parse.
var ErrMalformedOBJ = errors.New("asset: malformed OBJ")

// ReadOBJ reads the geometry of a Wavefront OBJ file. Only vertex
// positions ("v") and faces ("f") are used; faces with more than three
// corners are fan-triangulated and "v/vt/vn" corner references are
// accepted. Every other record is ignored.
func ReadOBJ(r io.Reader) (Mesh, error) {
	var m Mesh
	sc := bufio.NewScanner(r)
	line := 0
	for sc.Scan() {
		line++
		fields := strings.Fields(sc.Text())
		if len(fields) == 0 || strings.HasPrefix(fields[0], "#") {
			continue
		}
		switch fields[0] {
		case "v":
			if len(fields) < 4 {
				return Mesh{}, fmt.Errorf("%w: line %d: vertex needs 3 coordinates", ErrMalformedOBJ, line)
			}
			for _, f := range fields[1:4] {
				v, err := strconv.ParseFloat(f, 32)
				if err != nil {
					return Mesh{}, fmt.Errorf("%w: line %d: %w", ErrMalformedOBJ, line, err)
				}
				m.Vertices = append(m.Vertices, float32(v))
			}
			if m.VertexCount() > math.MaxUint16+1 {
				return Mesh{}, fmt.Errorf("%w: line %d: more than %d vertices", ErrMalformedOBJ, line, math.MaxUint16+1)
			}
		case "f":
			if len(fields) < 4 {
				return Mesh{}, fmt.Errorf("%w: line %d: face needs 3 corners", ErrMalformedOBJ, line)
			}
			corners := make([]uint16, 0, len(fields)-1)
			for _, f := range fields[1:] {
				idx, err := cornerIndex(f, m.VertexCount())
				if err != nil {
					return Mesh{}, fmt.Errorf("%w: line %d: %w", ErrMalformedOBJ, line, err)
				}
				corners = append(corners, idx)
			}
			for i := 1; i+1 < len(corners); i++ {
				m.addTriangle(corners[0], corners[i], corners[i+1])
			}
		}
	}
	if err := sc.Err(); err != nil {
		return Mesh{}, err
	}
	if err := m.Validate(); err != nil {
		return Mesh{}, err
	}
	return m, nil
}

// cornerIndex resolves a face corner ("7", "7/1", "7//3", "-1") against
// the vertices read so far.
func cornerIndex(ref string, count int) (uint16, error) {
	pos, _, _ := strings.Cut(ref, "/")
	n, err := strconv.Atoi(pos)
	if err != nil {
		return 0, fmt.Errorf("bad corner %q", ref)
	}
	switch {
	case n > 0:
		n--
	case n < 0:
		n += count
	default:
		return 0, fmt.Errorf("corner index 0 in %q", ref)
	}
	if n < 0 || n >= count {
		return 0, fmt.Errorf("corner %q out of range (%d vertices)", ref, count)
	}
	return uint16(n), nil
}

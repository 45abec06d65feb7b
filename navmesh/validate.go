package navmesh

import (
	"fmt"

	"go.uber.org/multierr"
)

// Validate checks index bounds, adjacency symmetry and that neighbours share exactly
// one edge. Every violation is reported; nothing panics. Intended for tests and debug
// builds: it costs O(n).
func (m *Mesh) Validate() error {
	var err error
	if len(m.Verts) != 3*len(m.Tris) {
		err = multierr.Append(err, fmt.Errorf("navmesh: %d vertices for %d triangles", len(m.Verts), len(m.Tris)))
	}
	for i := range m.Tris {
		t := &m.Tris[i]
		ii := int32(i)
		vertsOK := true
		for _, v := range t.Verts {
			if v < 0 || int(v) >= len(m.Verts) {
				err = multierr.Append(err, fmt.Errorf("navmesh: triangle %d vertex index %d out of range", i, v))
				vertsOK = false
			}
		}
		if !vertsOK {
			continue
		}
		for k, n := range t.Neighbors {
			if n == -1 {
				continue
			}
			switch {
			case !m.valid(n):
				err = multierr.Append(err, fmt.Errorf("navmesh: triangle %d neighbour %d out of range", i, n))
				continue
			case n == ii:
				err = multierr.Append(err, fmt.Errorf("navmesh: triangle %d lists itself", i))
				continue
			}
			for k2 := k + 1; k2 < 3; k2++ {
				if t.Neighbors[k2] == n {
					err = multierr.Append(err, fmt.Errorf("navmesh: triangle %d lists %d twice", i, n))
				}
			}
			if !m.Tris[n].hasNeighbor(ii) {
				err = multierr.Append(err, fmt.Errorf("navmesh: triangle %d lists %d but not vice versa", i, n))
			}
			if !m.validVerts(n) {
				continue
			}
			if c := m.sharedVertexCount(ii, n); c != 2 {
				err = multierr.Append(err, fmt.Errorf("navmesh: triangles %d and %d share %d vertices", i, n, c))
			}
		}
	}
	return err
}

func (m *Mesh) validVerts(i int32) bool {
	for _, v := range m.Tris[i].Verts {
		if v < 0 || int(v) >= len(m.Verts) {
			return false
		}
	}
	return true
}

package navmesh

import (
	"errors"
	"fmt"
	"math"

	"github.com/gorustyt/navcore/common"
)

var ErrInvalidHeightmap = errors.New("navmesh: invalid heightmap")

// Heightmap is a regular grid of sample heights on the xz-plane. NaN marks a hole.
type Heightmap struct {
	Width, Depth int
	CellSize     float32
	Origin       common.Vec3
	Heights      []float32 // row-major, z*Width+x
}

func NewHeightmap(width, depth int, cellSize float32, origin common.Vec3) (*Heightmap, error) {
	hm := &Heightmap{
		Width:    width,
		Depth:    depth,
		CellSize: cellSize,
		Origin:   origin,
	}
	if width >= 0 && depth >= 0 {
		hm.Heights = make([]float32, width*depth)
	}
	if err := hm.check(); err != nil {
		return nil, err
	}
	return hm, nil
}

func (hm *Heightmap) check() error {
	if hm.Width < 2 || hm.Depth < 2 {
		return fmt.Errorf("%w: need at least 2x2 samples, got %dx%d", ErrInvalidHeightmap, hm.Width, hm.Depth)
	}
	if hm.CellSize <= 0 || common.IsInf(hm.CellSize) {
		return fmt.Errorf("%w: cell size %v", ErrInvalidHeightmap, hm.CellSize)
	}
	if len(hm.Heights) != hm.Width*hm.Depth {
		return fmt.Errorf("%w: %d samples for %dx%d", ErrInvalidHeightmap, len(hm.Heights), hm.Width, hm.Depth)
	}
	return nil
}

func (hm *Heightmap) inRange(x, z int) bool {
	return x >= 0 && z >= 0 && x < hm.Width && z < hm.Depth
}

func (hm *Heightmap) Set(x, z int, h float32) {
	if hm.inRange(x, z) {
		hm.Heights[z*hm.Width+x] = h
	}
}

func (hm *Heightmap) SetHole(x, z int) {
	hm.Set(x, z, float32(math.NaN()))
}

// Fill samples fn at every grid point.
func (hm *Heightmap) Fill(fn func(x, z int) float32) {
	for z := 0; z < hm.Depth; z++ {
		for x := 0; x < hm.Width; x++ {
			hm.Heights[z*hm.Width+x] = fn(x, z)
		}
	}
}

// Valid reports whether (x, z) is in range and not a hole.
func (hm *Heightmap) Valid(x, z int) bool {
	if !hm.inRange(x, z) {
		return false
	}
	h := hm.Heights[z*hm.Width+x]
	return !math.IsNaN(float64(h)) && !math.IsInf(float64(h), 0)
}

func (hm *Heightmap) Position(x, z int) common.Vec3 {
	var h float32
	if hm.inRange(x, z) {
		h = hm.Heights[z*hm.Width+x]
	}
	return common.Vec3{
		hm.Origin[0] + float32(x)*hm.CellSize,
		hm.Origin[1] + h,
		hm.Origin[2] + float32(z)*hm.CellSize,
	}
}

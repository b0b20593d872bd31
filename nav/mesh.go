package nav

import (
	"errors"
	"fmt"
	"math"

	"github.com/jakecoffman/cp"
)

var (
	ErrNoRegions = errors.New("nav: no walkable regions")
	ErrBadBounds = errors.New("nav: bounds are empty")
	ErrCellSize  = errors.New("nav: cell size must be positive")
)

// Mesh is a walkable surface made of axis-aligned boxes. Nearest-point
// queries go through a cp space of static shapes; paths are found with A*
// over a grid laid across the bounds.
type Mesh struct {
	space    *cp.Space
	bounds   cp.BB
	regions  []cp.BB
	cellSize float64
	gridW    int
	gridH    int
	walkable []bool
	maxNodes int
}

// NewMesh builds a mesh. maxNodes bounds A* expansions per query; values
// <= 0 leave it unbounded.
func NewMesh(bounds cp.BB, regions []cp.BB, cellSize float64, maxNodes int) (*Mesh, error) {
	if len(regions) == 0 {
		return nil, ErrNoRegions
	}
	if bounds.R <= bounds.L || bounds.T <= bounds.B {
		return nil, fmt.Errorf("%w: %+v", ErrBadBounds, bounds)
	}
	if cellSize <= 0 {
		return nil, ErrCellSize
	}

	m := &Mesh{
		space:    cp.NewSpace(),
		bounds:   bounds,
		regions:  append([]cp.BB(nil), regions...),
		cellSize: cellSize,
		maxNodes: maxNodes,
	}
	for _, r := range regions {
		shape := cp.NewBox2(m.space.StaticBody, r, 0)
		m.space.AddShape(shape)
	}

	m.gridW = int(math.Ceil((bounds.R - bounds.L) / cellSize))
	m.gridH = int(math.Ceil((bounds.T - bounds.B) / cellSize))
	m.walkable = make([]bool, m.gridW*m.gridH)
	for y := 0; y < m.gridH; y++ {
		for x := 0; x < m.gridW; x++ {
			m.walkable[y*m.gridW+x] = m.Contains(m.cellCenter(gridPos{x: x, y: y}))
		}
	}
	return m, nil
}

// SampleNearest returns p itself when it lies on a walkable region, the
// closest region point when one is within radius, and false otherwise.
func (m *Mesh) SampleNearest(p cp.Vector, radius float64) (cp.Vector, bool) {
	if m == nil || m.space == nil {
		return cp.Vector{}, false
	}
	info := m.space.PointQueryNearest(p, radius, cp.SHAPE_FILTER_ALL)
	if info == nil || info.Shape == nil {
		return cp.Vector{}, false
	}
	if info.Distance <= 0 {
		return p, true
	}
	return info.Point, true
}

// Contains reports whether p lies on a walkable region.
func (m *Mesh) Contains(p cp.Vector) bool {
	if m == nil {
		return false
	}
	for _, r := range m.regions {
		if r.ContainsVect(p) {
			return true
		}
	}
	return false
}

func (m *Mesh) Bounds() cp.BB        { return m.bounds }
func (m *Mesh) Regions() []cp.BB     { return m.regions }
func (m *Mesh) CellSize() float64    { return m.cellSize }
func (m *Mesh) GridSize() (int, int) { return m.gridW, m.gridH }

// Walkable reports whether grid cell (x, y) can be traversed.
func (m *Mesh) Walkable(x, y int) bool {
	if m == nil || x < 0 || y < 0 || x >= m.gridW || y >= m.gridH {
		return false
	}
	return m.walkable[y*m.gridW+x]
}

// FindPath returns waypoints from (excluding) from to (including) to. The
// final waypoint is to itself rather than its cell centre, and waypoints
// that can be skipped along a straight walkable line are dropped.
func (m *Mesh) FindPath(from, to cp.Vector) ([]cp.Vector, bool) {
	if m == nil || !m.Contains(to) {
		return nil, false
	}
	start := m.cellOf(from)
	goal, ok := m.walkableCellNear(to)
	if !ok {
		return nil, false
	}
	if start == goal {
		return []cp.Vector{to}, true
	}

	cells := astarPath(start, goal, m.walkable, m.gridW, m.gridH, m.maxNodes)
	if len(cells) == 0 {
		return nil, false
	}
	path := make([]cp.Vector, 0, len(cells))
	for _, c := range cells[1 : len(cells)-1] {
		path = append(path, m.cellCenter(c))
	}
	path = append(path, to)
	return m.smooth(from, path), true
}

// walkableCellNear returns the cell holding p, or the closest walkable
// neighbour when p sits on a region edge inside a blocked cell.
func (m *Mesh) walkableCellNear(p cp.Vector) (gridPos, bool) {
	c := m.cellOf(p)
	if m.Walkable(c.x, c.y) {
		return c, true
	}
	best, bestDist, found := c, math.Inf(1), false
	for _, d := range directions {
		n := gridPos{x: c.x + d.x, y: c.y + d.y}
		if !m.Walkable(n.x, n.y) {
			continue
		}
		if dist := m.cellCenter(n).DistanceSq(p); dist < bestDist {
			best, bestDist, found = n, dist, true
		}
	}
	return best, found
}

func (m *Mesh) smooth(from cp.Vector, path []cp.Vector) []cp.Vector {
	out := make([]cp.Vector, 0, len(path))
	anchor := from
	for i := 0; i < len(path); i++ {
		if i+1 < len(path) && m.clearLine(anchor, path[i+1]) {
			continue
		}
		out = append(out, path[i])
		anchor = path[i]
	}
	return out
}

func (m *Mesh) clearLine(a, b cp.Vector) bool {
	step := m.cellSize * 0.25
	n := int(math.Ceil(a.Distance(b) / step))
	for i := 0; i <= n; i++ {
		t := 1.0
		if n > 0 {
			t = float64(i) / float64(n)
		}
		if !m.Contains(a.Lerp(b, t)) {
			return false
		}
	}
	return true
}

func (m *Mesh) cellOf(p cp.Vector) gridPos {
	x := int(math.Floor((p.X - m.bounds.L) / m.cellSize))
	y := int(math.Floor((p.Y - m.bounds.B) / m.cellSize))
	return gridPos{x: clampInt(x, 0, m.gridW-1), y: clampInt(y, 0, m.gridH-1)}
}

func (m *Mesh) cellCenter(c gridPos) cp.Vector {
	return cp.Vector{
		X: m.bounds.L + (float64(c.x)+0.5)*m.cellSize,
		Y: m.bounds.B + (float64(c.y)+0.5)*m.cellSize,
	}
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

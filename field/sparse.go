package field

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/spatial/kdtree"
)

// Vector is one sparse wind sample in grid space, as delivered by callers
// that ship a strided vector list instead of a dense grid.
type Vector struct {
	X, Y      float64
	VX, VY    float64
	Magnitude float64
}

// Sparse is a wind-field snapshot backed by a sparse vector list, the shape
// the strided solver export arrives in. Lookups resolve to the nearest
// stored vector through a k-d tree, keeping the per-particle query cost
// logarithmic. Like Field, a Sparse snapshot is immutable once built.
type Sparse struct {
	Vectors []Vector
	Width   int
	Height  int
	Bounds  Bounds

	tree           *kdtree.Tree
	minMag, maxMag float64
}

// NewSparse indexes a vector list for nearest-neighbor sampling. Width and
// height describe the source grid the vectors were sampled from, so the
// coordinate mapper can place them geographically.
func NewSparse(vectors []Vector, width, height int, bounds Bounds) (*Sparse, error) {
	if len(vectors) == 0 {
		return nil, fmt.Errorf("%w: empty vector list", ErrMalformed)
	}
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("%w: source grid %dx%d", ErrMalformed, width, height)
	}
	pts := make(vectorPoints, len(vectors))
	s := &Sparse{
		Vectors: vectors,
		Width:   width,
		Height:  height,
		Bounds:  bounds,
		minMag:  math.Inf(1),
		maxMag:  math.Inf(-1),
	}
	for i, v := range vectors {
		pts[i] = vectorPoint{v}
		if v.Magnitude < s.minMag {
			s.minMag = v.Magnitude
		}
		if v.Magnitude > s.maxMag {
			s.maxMag = v.Magnitude
		}
	}
	s.tree = kdtree.New(pts, false)
	return s, nil
}

// GridSize returns the source grid cell counts.
func (s *Sparse) GridSize() (w, h int) { return s.Width, s.Height }

// GeoBounds returns the geographic rectangle the source grid covers.
func (s *Sparse) GeoBounds() Bounds { return s.Bounds }

// MagnitudeRange returns the (min, max) of the stored vector magnitudes.
func (s *Sparse) MagnitudeRange() (float64, float64) { return s.minMag, s.maxMag }

// Nearest returns the stored vector closest to a grid-space point.
func (s *Sparse) Nearest(gx, gy float64) Vector {
	got, _ := s.tree.Nearest(vectorPoint{Vector{X: gx, Y: gy}})
	return got.(vectorPoint).Vector
}

// Sample implements Sampler by nearest-vector lookup.
func (s *Sparse) Sample(gx, gy float64) Sample {
	v := s.Nearest(gx, gy)
	return Sample{U: v.VX, V: v.VY, Speed: math.Hypot(v.VX, v.VY)}
}

// vectorPoint adapts Vector to the kdtree.Comparable interface.
type vectorPoint struct {
	Vector
}

var (
	_ kdtree.Comparable = vectorPoint{}
	_ kdtree.Interface  = vectorPoints{}
)

func (p vectorPoint) Compare(c kdtree.Comparable, d kdtree.Dim) float64 {
	q := c.(vectorPoint)
	switch d {
	case 0:
		return p.X - q.X
	default:
		return p.Y - q.Y
	}
}

func (p vectorPoint) Dims() int { return 2 }

func (p vectorPoint) Distance(c kdtree.Comparable) float64 {
	q := c.(vectorPoint)
	dx := p.X - q.X
	dy := p.Y - q.Y
	return dx*dx + dy*dy
}

// vectorPoints implements kdtree.Interface over a vector list.
type vectorPoints []vectorPoint

func (p vectorPoints) Index(i int) kdtree.Comparable { return p[i] }
func (p vectorPoints) Len() int                      { return len(p) }
func (p vectorPoints) Slice(start, end int) kdtree.Interface {
	return p[start:end]
}
func (p vectorPoints) Pivot(d kdtree.Dim) int {
	return vectorPlane{Dim: d, vectorPoints: p}.Pivot()
}

// vectorPlane sorts vectorPoints along a single dimension for tree building.
type vectorPlane struct {
	kdtree.Dim
	vectorPoints
}

func (p vectorPlane) Less(i, j int) bool {
	switch p.Dim {
	case 0:
		return p.vectorPoints[i].X < p.vectorPoints[j].X
	default:
		return p.vectorPoints[i].Y < p.vectorPoints[j].Y
	}
}
func (p vectorPlane) Pivot() int { return kdtree.Partition(p, kdtree.MedianOfMedians(p)) }
func (p vectorPlane) Slice(start, end int) kdtree.SortSlicer {
	p.vectorPoints = p.vectorPoints[start:end]
	return p
}
func (p vectorPlane) Swap(i, j int) {
	p.vectorPoints[i], p.vectorPoints[j] = p.vectorPoints[j], p.vectorPoints[i]
}

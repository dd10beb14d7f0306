// Package spatial keeps an R-tree over resolved records so radius searches
// only run the exact distance check on records near the target.
package spatial

import (
	"math"
	"slices"

	"github.com/dhconnelly/rtreego"
	"github.com/paulmach/orb"

	"locator/internal/domain/entity"
	"locator/internal/domain/service"
)

const (
	dimensions = 2
	minBranch  = 25
	maxBranch  = 50

	// pointSize is the side of the box stored for a single record, in degrees.
	pointSize = 1e-9
)

type indexedRecord struct {
	position int
	rect     rtreego.Rect
}

func (r *indexedRecord) Bounds() rtreego.Rect {
	return r.rect
}

// RTreeIndex implements entity.SpatialIndex. Positions refer to the record
// slice the index was built from.
type RTreeIndex struct {
	tree *rtreego.Rtree
}

var _ entity.SpatialIndex = (*RTreeIndex)(nil)

// Search returns the positions of records inside bound, ascending.
func (idx *RTreeIndex) Search(bound orb.Bound) []int {
	if idx.tree.Size() == 0 {
		return nil
	}

	width := math.Max(bound.Max.Lon()-bound.Min.Lon(), pointSize)
	height := math.Max(bound.Max.Lat()-bound.Min.Lat(), pointSize)

	rect, err := rtreego.NewRect(rtreego.Point{bound.Min.Lon(), bound.Min.Lat()}, []float64{width, height})
	if err != nil {
		return nil
	}

	hits := idx.tree.SearchIntersect(rect)
	positions := make([]int, 0, len(hits))
	for _, hit := range hits {
		positions = append(positions, hit.(*indexedRecord).position)
	}
	slices.Sort(positions)

	return positions
}

// Len returns the number of indexed records.
func (idx *RTreeIndex) Len() int {
	return idx.tree.Size()
}

// RTreeIndexer builds RTreeIndex values.
type RTreeIndexer struct{}

var _ service.SpatialIndexer = (*RTreeIndexer)(nil)

// NewRTreeIndexer creates the indexer used by the dataset loader.
func NewRTreeIndexer() service.SpatialIndexer {
	return &RTreeIndexer{}
}

// Build indexes every record with a present coordinate.
func (RTreeIndexer) Build(records []entity.Record) entity.SpatialIndex {
	tree := rtreego.NewTree(dimensions, minBranch, maxBranch)

	for i := range records {
		coord := records[i].Coordinate
		if coord.IsAbsent() {
			continue
		}

		rect, err := rtreego.NewRect(rtreego.Point{coord.Lng(), coord.Lat()}, []float64{pointSize, pointSize})
		if err != nil {
			continue
		}
		tree.Insert(&indexedRecord{position: i, rect: rect})
	}

	return &RTreeIndex{tree: tree}
}

package poster

import (
	"math"

	"github.com/streamlytics/streamlytics/pkg/errors"
)

// Auto-column bounds. The clamp keeps large collections from producing
// excessively thin or excessively wide grids. This is a deliberate
// heuristic, not a universal optimum.
const (
	minAutoColumns = 5
	maxAutoColumns = 15
)

// Plan is the computed grid geometry for one layout operation: how many
// rows and columns, the pixel size of each cell, and where on the canvas
// the grid begins after the text block and margins are reserved.
type Plan struct {
	Rows    int
	Cols    int
	CellW   int
	CellH   int
	OriginX int
	OriginY int
}

// Cells returns the total cell count of the plan.
func (p Plan) Cells() int {
	return p.Rows * p.Cols
}

// AutoColumns derives a column count from the image count:
// ceil(sqrt(n)) clamped to [5, 15], aiming for a grid as square as
// practical.
func AutoColumns(n int) int {
	cols := int(math.Ceil(math.Sqrt(float64(n))))
	if cols < minAutoColumns {
		cols = minAutoColumns
	}
	if cols > maxAutoColumns {
		cols = maxAutoColumns
	}
	return cols
}

// PlanRows returns ceil(n / cols), the row count needed to place n images
// in a grid with the given column count.
func PlanRows(n, cols int) int {
	return (n + cols - 1) / cols
}

// planGrid resolves the (rows, cols) shape for n images. An explicit
// column count wins; otherwise the auto heuristic applies. n must be
// positive - callers surface NO_IMAGES before planning.
func planGrid(n, columns int) (rows, cols int, err error) {
	if n <= 0 {
		return 0, 0, errors.New(errors.ErrCodeNoImages, "no images available to lay out")
	}
	cols = columns
	if cols <= 0 {
		cols = AutoColumns(n)
	}
	return PlanRows(n, cols), cols, nil
}

// BillboardGrid maps an image count to the tiered square-ish grid used by
// the billboard and collage layouts. The tiers always pick a grid whose
// capacity is at most n, so every cell is filled after truncation.
func BillboardGrid(n int) (rows, cols int) {
	switch {
	case n >= 100:
		return 10, 10
	case n >= 96:
		return 8, 12
	case n >= 80:
		return 10, 8
	case n >= 64:
		return 8, 8
	case n >= 49:
		return 7, 7
	case n >= 36:
		return 6, 6
	case n >= 25:
		return 5, 5
	case n >= 16:
		return 4, 4
	case n >= 9:
		return 3, 3
	case n >= 4:
		return 2, 2
	default:
		return 1, 1
	}
}

package poster

import (
	"testing"

	"github.com/streamlytics/streamlytics/pkg/errors"
)

func TestAutoColumns(t *testing.T) {
	tests := []struct {
		n    int
		want int
	}{
		{1, 5},    // sqrt(1)=1, clamped up to the minimum
		{9, 5},    // sqrt(9)=3, clamped up
		{24, 5},   // ceil(sqrt(24))=5
		{25, 5},   // sqrt(25)=5
		{26, 6},   // ceil(sqrt(26))=6
		{100, 10}, // sqrt(100)=10
		{225, 15}, // sqrt(225)=15, at the upper bound
		{500, 15}, // ceil(sqrt(500))=23, clamped down
	}

	for _, tt := range tests {
		if got := AutoColumns(tt.n); got != tt.want {
			t.Errorf("AutoColumns(%d) = %d, want %d", tt.n, got, tt.want)
		}
	}
}

func TestPlanRows(t *testing.T) {
	tests := []struct {
		n, cols int
		want    int
	}{
		{9, 5, 2},
		{10, 5, 2},
		{11, 5, 3},
		{1, 5, 1},
		{100, 10, 10},
		{7, 7, 1},
	}

	for _, tt := range tests {
		if got := PlanRows(tt.n, tt.cols); got != tt.want {
			t.Errorf("PlanRows(%d, %d) = %d, want %d", tt.n, tt.cols, got, tt.want)
		}
	}
}

func TestPlanGridCapacity(t *testing.T) {
	// rows*cols must always cover n, for explicit and auto columns.
	for _, n := range []int{1, 2, 9, 24, 25, 99, 100, 500} {
		for _, cols := range []int{0, 1, 3, 5, 12} {
			rows, gotCols, err := planGrid(n, cols)
			if err != nil {
				t.Fatalf("planGrid(%d, %d) error: %v", n, cols, err)
			}
			if rows*gotCols < n {
				t.Errorf("planGrid(%d, %d) = %dx%d, capacity %d < %d",
					n, cols, rows, gotCols, rows*gotCols, n)
			}
		}
	}
}

func TestPlanGridScenarioA(t *testing.T) {
	// 9 images with auto columns: sqrt(9)=3 clamps to 5 columns,
	// ceil(9/5)=2 rows, 10 cells with one left empty.
	rows, cols, err := planGrid(9, 0)
	if err != nil {
		t.Fatalf("planGrid error: %v", err)
	}
	if cols != 5 || rows != 2 {
		t.Errorf("planGrid(9, auto) = %dx%d, want 2x5", rows, cols)
	}
	if p := (Plan{Rows: rows, Cols: cols}); p.Cells() != 10 {
		t.Errorf("Cells() = %d, want 10", p.Cells())
	}
}

func TestPlanGridEmpty(t *testing.T) {
	_, _, err := planGrid(0, 5)
	if err == nil {
		t.Fatal("planGrid(0, 5) should fail")
	}
	if !errors.Is(err, errors.ErrCodeNoImages) {
		t.Errorf("error code = %v, want NO_IMAGES", errors.GetCode(err))
	}
}

func TestBillboardGrid(t *testing.T) {
	tests := []struct {
		n          int
		rows, cols int
	}{
		{150, 10, 10},
		{100, 10, 10},
		{99, 8, 12},
		{96, 8, 12},
		{95, 10, 8},
		{80, 10, 8},
		{79, 8, 8},
		{64, 8, 8},
		{49, 7, 7},
		{36, 6, 6},
		{25, 5, 5},
		{16, 4, 4},
		{9, 3, 3},
		{4, 2, 2},
		{3, 1, 1},
		{1, 1, 1},
	}

	for _, tt := range tests {
		rows, cols := BillboardGrid(tt.n)
		if rows != tt.rows || cols != tt.cols {
			t.Errorf("BillboardGrid(%d) = %dx%d, want %dx%d", tt.n, rows, cols, tt.rows, tt.cols)
		}
		// The tiers never exceed the image count, so every cell fills.
		if rows*cols > tt.n {
			t.Errorf("BillboardGrid(%d) capacity %d exceeds image count", tt.n, rows*cols)
		}
	}
}

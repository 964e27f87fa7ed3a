package gishelpers

import (
	"errors"
	"testing"
)

func collectChunks(t *testing.T, it *ChunkIterator) []RasterBound {
	t.Helper()
	var out []RasterBound
	for b, ok := it.Next(); ok; b, ok = it.Next() {
		if b.XSize < 1 || b.YSize < 1 {
			t.Fatalf("produced a degenerate chunk %v", b)
		}
		out = append(out, b)
	}
	return out
}

func TestChunksExample(t *testing.T) {
	it, err := Chunks(10, 10, 4, 4)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []RasterBound{
		{0, 0, 4, 4}, {0, 4, 4, 4}, {0, 8, 4, 2},
		{4, 0, 4, 4}, {4, 4, 4, 4}, {4, 8, 4, 2},
		{8, 0, 2, 4}, {8, 4, 2, 4}, {8, 8, 2, 2},
	}
	got := collectChunks(t, it)
	if len(got) != len(want) {
		t.Fatalf("expected %d chunks, got %d", len(want), len(got))
	}
	area := 0
	for i := range got {
		if got[i] != want[i] {
			t.Errorf("chunk %d: got %v, want %v", i, got[i], want[i])
		}
		area += got[i].Area()
	}
	if area != 100 {
		t.Errorf("chunk areas sum to %d, want 100", area)
	}
}

func TestChunksCoverage(t *testing.T) {
	const width, height = 101, 57
	it, err := Chunks(width, height, 16, 10)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if it.Count() != 7*6 {
		t.Errorf("expected %d chunks, Count returned %d", 7*6, it.Count())
	}
	covered := make([]int, width*height)
	count := 0
	for b, ok := it.Next(); ok; b, ok = it.Next() {
		for y := b.YOff; y < b.YOff+b.YSize; y++ {
			for x := b.XOff; x < b.XOff+b.XSize; x++ {
				covered[y*width+x]++
			}
		}
		count++
	}
	if count != 7*6 {
		t.Errorf("expected %d chunks, got %d", 7*6, count)
	}
	for i, c := range covered {
		if c != 1 {
			t.Fatalf("pixel (%d, %d) covered %d times", i%width, i/width, c)
		}
	}
}

func TestChunksBoundaryTiles(t *testing.T) {
	it, err := Chunks(101, 57, 16, 10)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for b, ok := it.Next(); ok; b, ok = it.Next() {
		if b.XSize > 16 || b.YSize > 10 {
			t.Errorf("chunk %v exceeds the maximum chunk size", b)
		}
		wantX := 16
		if b.XOff == 6*16 {
			wantX = 101 - 6*16
		}
		wantY := 10
		if b.YOff == 5*10 {
			wantY = 57 - 5*10
		}
		if b.XSize != wantX || b.YSize != wantY {
			t.Errorf("chunk %v: expected size (%d, %d)", b, wantX, wantY)
		}
	}
}

func TestChunksRestartable(t *testing.T) {
	first, err := Chunks(37, 23, 8, 8)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	second, err := Chunks(37, 23, 8, 8)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	a := collectChunks(t, first)
	b := collectChunks(t, second)
	if len(a) != len(b) {
		t.Fatalf("sequences differ in length: %d vs %d", len(a), len(b))
	}
	for i := range a {
		if a[i] != b[i] {
			t.Errorf("chunk %d differs between runs: %v vs %v", i, a[i], b[i])
		}
	}
}

func TestChunksPartialConsumption(t *testing.T) {
	it, err := Chunks(10, 10, 4, 4)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	b, ok := it.Next()
	if !ok || b != MakeBound(0, 0, 4, 4) {
		t.Errorf("first chunk is %v", b)
	}
	b, ok = it.Next()
	if !ok || b != MakeBound(0, 4, 4, 4) {
		t.Errorf("second chunk is %v", b)
	}
}

func TestChunksInvalidInput(t *testing.T) {
	cases := [][4]int{
		{0, 10, 4, 4},
		{10, -1, 4, 4},
		{10, 10, 0, 4},
		{10, 10, 4, 0},
		{-5, 10, 4, 4},
	}
	for _, c := range cases {
		it, err := Chunks(c[0], c[1], c[2], c[3])
		if !errors.Is(err, ErrInvalidArgument) {
			t.Errorf("Chunks(%v): expected ErrInvalidArgument, got %v", c, err)
		}
		if it != nil {
			t.Errorf("Chunks(%v): expected a nil iterator on error", c)
		}
	}
}

func TestMemoryLimitedChunksWholeRaster(t *testing.T) {
	it, err := MemoryLimitedChunks(1, 100, 100, 1000, DefaultBytesPerPixel)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	got := collectChunks(t, it)
	if len(got) != 1 {
		t.Fatalf("expected a single chunk, got %d", len(got))
	}
	if got[0] != MakeBound(0, 0, 100, 100) {
		t.Errorf("expected the whole raster, got %v", got[0])
	}
}

func TestMemoryLimitedChunksTiling(t *testing.T) {
	// 1 MB over 4 byte pixels allows 250000 pixels, i.e. 500x500 square
	// chunks over the 10000x10000 raster.
	it, err := MemoryLimitedChunks(1, 10000, 10000, 1, DefaultBytesPerPixel)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	got := collectChunks(t, it)
	if len(got) != 400 {
		t.Fatalf("expected 400 chunks, got %d", len(got))
	}
	area := 0
	for _, b := range got {
		if b.XSize != 500 || b.YSize != 500 {
			t.Errorf("chunk %v is not 500x500", b)
		}
		area += b.Area()
	}
	if area != 10000*10000 {
		t.Errorf("chunk areas sum to %d, want %d", area, 10000*10000)
	}
	if got[0] != MakeBound(0, 0, 500, 500) {
		t.Errorf("first chunk is %v", got[0])
	}
	if got[399] != MakeBound(9500, 9500, 500, 500) {
		t.Errorf("last chunk is %v", got[399])
	}
}

func TestMemoryLimitedChunksInvalidInput(t *testing.T) {
	if _, err := MemoryLimitedChunks(0, 100, 100, 1, 4); !errors.Is(err, ErrInvalidArgument) {
		t.Errorf("zero n_rasters: expected ErrInvalidArgument, got %v", err)
	}
	if _, err := MemoryLimitedChunks(1, 100, 100, 1, 0); !errors.Is(err, ErrInvalidArgument) {
		t.Errorf("zero bytes_per_pixel: expected ErrInvalidArgument, got %v", err)
	}
	// budget below one pixel per raster: the derived chunk size is zero
	if _, err := MemoryLimitedChunks(1000000, 10, 10, 1, 4); !errors.Is(err, ErrInvalidArgument) {
		t.Errorf("tiny budget: expected ErrInvalidArgument, got %v", err)
	}
}

package tile

import "sort"

// Order selects the sequence tiles are handed out in.
type Order int

const (
	OrderCenter Order = iota
	OrderRightToLeft
	OrderLeftToRight
	OrderTopToBottom
	OrderBottomToTop
	OrderHilbert
)

// buildOrder returns a permutation of the grid's row-major tile
// indices (cols*rows of them) describing the sequence NextTile should
// hand them out in. Computed once at reset time, exactly as spec'd:
// "The ordering is computed at reset time and stored as an integer
// permutation."
func buildOrder(cols, rows int, order Order) []int {
	n := cols * rows
	perm := make([]int, n)

	switch order {
	case OrderRightToLeft:
		for row := 0; row < rows; row++ {
			for col := 0; col < cols; col++ {
				perm[row*cols+col] = row*cols + (cols - 1 - col)
			}
		}
	case OrderLeftToRight:
		for i := range perm {
			perm[i] = i
		}
	case OrderTopToBottom:
		for i := range perm {
			perm[i] = i
		}
	case OrderBottomToTop:
		k := 0
		for row := rows - 1; row >= 0; row-- {
			for col := 0; col < cols; col++ {
				perm[k] = row*cols + col
				k++
			}
		}
	case OrderHilbert:
		perm = hilbertOrder(cols, rows)
	default: // OrderCenter
		perm = centerOutOrder(cols, rows)
	}
	return perm
}

// centerOutOrder returns tile indices sorted by ascending squared
// distance from the grid's center, a spiral-like "render the middle
// first" ordering without needing to walk an explicit spiral path.
func centerOutOrder(cols, rows int) []int {
	n := cols * rows
	perm := make([]int, n)
	for i := range perm {
		perm[i] = i
	}
	cx, cy := float64(cols-1)/2, float64(rows-1)/2
	dist := func(idx int) float64 {
		x, y := float64(idx%cols), float64(idx/cols)
		dx, dy := x-cx, y-cy
		return dx*dx + dy*dy
	}
	sort.SliceStable(perm, func(i, j int) bool { return dist(perm[i]) < dist(perm[j]) })
	return perm
}

// hilbertOrder returns tile indices sorted along a Hilbert space-
// filling curve over the smallest power-of-two square containing the
// grid, which keeps spatially adjacent tiles close together in the
// processing sequence — good cache/texture-locality behavior for a
// renderer reading neighboring tiles during denoising.
func hilbertOrder(cols, rows int) []int {
	side := 1
	for side < cols || side < rows {
		side *= 2
	}

	type entry struct {
		idx int
		d   int
	}
	n := cols * rows
	entries := make([]entry, 0, n)
	for row := 0; row < rows; row++ {
		for col := 0; col < cols; col++ {
			entries = append(entries, entry{idx: row*cols + col, d: hilbertXY2D(side, col, row)})
		}
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].d < entries[j].d })

	perm := make([]int, n)
	for i, e := range entries {
		perm[i] = e.idx
	}
	return perm
}

// hilbertXY2D converts (x, y) within a side x side grid to its distance
// along the Hilbert curve, the standard bit-rotation algorithm.
func hilbertXY2D(side, x, y int) int {
	d := 0
	for s := side / 2; s > 0; s /= 2 {
		var rx, ry int
		if (x & s) > 0 {
			rx = 1
		}
		if (y & s) > 0 {
			ry = 1
		}
		d += s * s * ((3 * rx) ^ ry)
		x, y = hilbertRotate(s, x, y, rx, ry)
	}
	return d
}

func hilbertRotate(s, x, y, rx, ry int) (int, int) {
	if ry == 0 {
		if rx == 1 {
			x = s - 1 - x
			y = s - 1 - y
		}
		x, y = y, x
	}
	return x, y
}

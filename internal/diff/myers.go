package diff

// Myers returns a shortest edit script turning a into b.
//
// The forward pass walks edit distance d = 0, 1, ... and, for each diagonal
// k = x - y in [-d, d], records the furthest x reachable with d edits. A
// snapshot of the d+1 diagonals reachable with d edits (those with the
// parity of d) is kept per d so the backtrack from (n, m) can tell which
// neighbouring diagonal each step came from. The snapshots hold about D²/2
// ints for an edit distance D.
func Myers(a, b []string) []Edit {
	n, m := len(a), len(b)
	maxD := n + m
	offset := maxD + 1
	v := make([]int, 2*maxD+3)
	v[offset+1] = 0

	var trace [][]int
	for d := 0; d <= maxD; d++ {
		done := false
		for k := -d; k <= d; k += 2 {
			var x int
			if k == -d || (k != d && v[offset+k-1] < v[offset+k+1]) {
				x = v[offset+k+1]
			} else {
				x = v[offset+k-1] + 1
			}
			y := x - k
			for x < n && y < m && a[x] == b[y] {
				x++
				y++
			}
			v[offset+k] = x
			if x >= n && y >= m {
				done = true
				break
			}
		}
		snap := make([]int, d+1)
		for i := range snap {
			snap[i] = v[offset-d+2*i]
		}
		trace = append(trace, snap)
		if done {
			break
		}
	}

	return backtrack(trace, a, b)
}

// furthest returns the x recorded on diagonal k in the snapshot for d, or
// -1 when k lies outside [-d, d]. k must have the parity of d.
func furthest(snap []int, d, k int) int {
	if k < -d || k > d {
		return -1
	}
	return snap[(k+d)/2]
}

func backtrack(trace [][]int, a, b []string) []Edit {
	x, y := len(a), len(b)
	edits := make([]Edit, 0, x+y)

	for d := len(trace) - 1; d > 0; d-- {
		prev := trace[d-1]
		k := x - y
		var prevK int
		if k == -d || (k != d && furthest(prev, d-1, k-1) < furthest(prev, d-1, k+1)) {
			prevK = k + 1
		} else {
			prevK = k - 1
		}
		prevX := furthest(prev, d-1, prevK)
		prevY := prevX - prevK

		for x > prevX && y > prevY {
			edits = append(edits, Edit{Op: OpContext, Line: a[x-1]})
			x--
			y--
		}
		if x == prevX {
			edits = append(edits, Edit{Op: OpInsert, Line: b[y-1]})
			y--
		} else {
			edits = append(edits, Edit{Op: OpDelete, Line: a[x-1]})
			x--
		}
	}

	for x > 0 && y > 0 {
		edits = append(edits, Edit{Op: OpContext, Line: a[x-1]})
		x--
		y--
	}
	for x > 0 {
		edits = append(edits, Edit{Op: OpDelete, Line: a[x-1]})
		x--
	}
	for y > 0 {
		edits = append(edits, Edit{Op: OpInsert, Line: b[y-1]})
		y--
	}

	for i, j := 0, len(edits)-1; i < j; i, j = i+1, j-1 {
		edits[i], edits[j] = edits[j], edits[i]
	}
	return edits
}

package keypoint

// point is a plain 2D coordinate used by the homography solver, kept
// separate from KeyPoint so the linear-algebra code has no dependency on
// descriptors.
type point struct{ x, y float64 }

// mat3 is a row-major 3x3 matrix, the shape of a planar homography.
type mat3 [9]float64

func (m mat3) apply(p point) point {
	x := m[0]*p.x + m[1]*p.y + m[2]
	y := m[3]*p.x + m[4]*p.y + m[5]
	w := m[6]*p.x + m[7]*p.y + m[8]

	if w == 0 {
		return point{}
	}

	return point{x / w, y / w}
}

// findHomographyRANSAC estimates the planar homography mapping src onto dst,
// using direct linear transform (DLT) over the deterministic 4-point samples
// from quadCombinations, each scored by its inlier count under threshold.
// It returns the best-scoring homography, the inlier fraction (used as the
// match's raw confidence), and false if fewer than 4 correspondences exist.
func findHomographyRANSAC(src, dst []point, threshold float64) (mat3, float64, bool) {
	n := len(src)
	if n < 4 {
		return mat3{}, 0, false
	}

	var (
		bestH       mat3
		bestInliers int
		found       bool
	)

	combos := quadCombinations(n)

	for _, combo := range combos {
		h, ok := dlt(
			[]point{src[combo[0]], src[combo[1]], src[combo[2]], src[combo[3]]},
			[]point{dst[combo[0]], dst[combo[1]], dst[combo[2]], dst[combo[3]]},
		)
		if !ok {
			continue
		}

		inliers := 0

		for i := range src {
			proj := h.apply(src[i])
			if distPoint(proj, dst[i]) <= threshold {
				inliers++
			}
		}

		if inliers > bestInliers {
			bestInliers, bestH, found = inliers, h, true
		}
	}

	if !found {
		return mat3{}, 0, false
	}

	return bestH, float64(bestInliers) / float64(n), true
}

// quadCombinations enumerates 4-point index combinations to try as a RANSAC
// minimal sample in lexicographic order, stopping after the first 60 so the
// solver stays bounded rather than O(n^4); with many points the later
// combinations are never tried.
func quadCombinations(n int) [][4]int {
	const maxCombos = 60

	var combos [][4]int

	for i := 0; i < n && len(combos) < maxCombos; i++ {
		for j := i + 1; j < n && len(combos) < maxCombos; j++ {
			for k := j + 1; k < n && len(combos) < maxCombos; k++ {
				for l := k + 1; l < n && len(combos) < maxCombos; l++ {
					combos = append(combos, [4]int{i, j, k, l})
				}
			}
		}
	}

	return combos
}

// dlt solves for the homography mapping src onto dst using the direct linear
// transform (without coordinate normalization) over exactly 4 point correspondences, via Gaussian
// elimination on the 8x8 linear system (the scale/shear/translation/
// perspective unknowns, with h[8]=1 fixed).
func dlt(src, dst []point) (mat3, bool) {
	a := make([][8]float64, 8)
	b := make([]float64, 8)

	for i := 0; i < 4; i++ {
		x, y := src[i].x, src[i].y
		u, v := dst[i].x, dst[i].y

		a[2*i] = [8]float64{x, y, 1, 0, 0, 0, -x * u, -y * u}
		b[2*i] = u

		a[2*i+1] = [8]float64{0, 0, 0, x, y, 1, -x * v, -y * v}
		b[2*i+1] = v
	}

	sol, ok := solve8(a, b)
	if !ok {
		return mat3{}, false
	}

	return mat3{sol[0], sol[1], sol[2], sol[3], sol[4], sol[5], sol[6], sol[7], 1}, true
}

// solve8 solves an 8x8 linear system by Gaussian elimination with partial pivoting.
func solve8(a [][8]float64, b []float64) ([8]float64, bool) {
	const n = 8

	aug := make([][9]float64, n)
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			aug[i][j] = a[i][j]
		}

		aug[i][n] = b[i]
	}

	for col := 0; col < n; col++ {
		pivot := col

		for row := col + 1; row < n; row++ {
			if abs(aug[row][col]) > abs(aug[pivot][col]) {
				pivot = row
			}
		}

		if abs(aug[pivot][col]) < 1e-12 {
			return [8]float64{}, false
		}

		aug[col], aug[pivot] = aug[pivot], aug[col]

		for row := 0; row < n; row++ {
			if row == col {
				continue
			}

			factor := aug[row][col] / aug[col][col]
			for k := col; k <= n; k++ {
				aug[row][k] -= factor * aug[col][k]
			}
		}
	}

	var out [8]float64
	for i := 0; i < n; i++ {
		out[i] = aug[i][n] / aug[i][i]
	}

	return out, true
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}

	return v
}

func distPoint(a, b point) float64 {
	return dist(a.x, a.y, b.x, b.y)
}

package sight

import "math"

// GetIntersection returns where ray crosses segment.
//
// The ray is unbounded forward (ray.A + t1*(ray.B-ray.A), t1 >= 0) while the
// segment is bounded (segment.A + t2*(segment.B-segment.A), 0 <= t2 <= 1).
// Only rays running in exactly the same direction as the segment are treated
// as parallel; an antiparallel pair goes through the general solve and
// produces infinite or NaN parameters. Degenerate input is not rejected and
// may yield an Intersection with NaN fields.
func GetIntersection(ray, segment Segment) (Intersection, bool) {
	// Ray: P = r + t1 * rd
	rpx := ray.A.X
	rpy := ray.A.Y
	rdx := ray.B.X - ray.A.X
	rdy := ray.B.Y - ray.A.Y

	// Segment: Q = s + t2 * sd
	spx := segment.A.X
	spy := segment.A.Y
	sdx := segment.B.X - segment.A.X
	sdy := segment.B.Y - segment.A.Y

	// Same unit vector means parallel and pointing the same way
	rmag := math.Sqrt(rdx*rdx + rdy*rdy)
	smag := math.Sqrt(sdx*sdx + sdy*sdy)
	if rdx/rmag == sdx/smag && rdy/rmag == sdy/smag {
		return Intersection{}, false
	}

	// rpx + rdx*t1 = spx + sdx*t2 and rpy + rdy*t1 = spy + sdy*t2
	t2 := (rdx*(spy-rpy) + rdy*(rpx-spx)) / (sdx*rdy - sdy*rdx)
	t1 := (spx + sdx*t2 - rpx) / rdx

	if t1 < 0 {
		return Intersection{}, false
	}
	if t2 < 0 || t2 > 1 {
		return Intersection{}, false
	}

	return Intersection{
		X:     rpx + rdx*t1,
		Y:     rpy + rdy*t1,
		Param: t1,
	}, true
}

// ClosestIntersect returns the hit with the smallest Param among all
// segments crossed by ray. A hit whose Param is NaN only wins when no
// segment produced a real distance.
func ClosestIntersect(segments []Segment, ray Segment) (Intersection, bool) {
	var closest Intersection
	found := false

	for _, seg := range segments {
		intersect, ok := GetIntersection(ray, seg)
		if !ok {
			continue
		}
		if !found || lessKey(intersect.Param, closest.Param) {
			closest = intersect
			found = true
		}
	}

	return closest, found
}

// lessKey orders float keys ascending with NaN after every number.
// Two NaNs compare equal.
func lessKey(a, b float64) bool {
	if math.IsNaN(a) {
		return false
	}
	if math.IsNaN(b) {
		return true
	}
	return a < b
}

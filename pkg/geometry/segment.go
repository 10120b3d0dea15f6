package geometry

import (
	"math"

	"gonum.org/v1/gonum/spatial/r2"
)

// DistanceToSegment returns the distance from p to the segment a-b.
// The projection parameter is clamped so the nearest point stays on the segment.
func DistanceToSegment(p, a, b Point2D) float64 {
	ab := r2.Sub(b.Vec(), a.Vec())
	ap := r2.Sub(p.Vec(), a.Vec())
	lenSq := r2.Dot(ab, ab)
	if lenSq == 0 {
		return r2.Norm(ap)
	}
	t := r2.Dot(ap, ab) / lenSq
	t = math.Max(0, math.Min(1, t))
	nearest := r2.Add(a.Vec(), r2.Scale(t, ab))
	return r2.Norm(r2.Sub(p.Vec(), nearest))
}

// DistanceToPolyline returns the distance from p to the nearest segment
// formed by consecutive points. A single point degenerates to point distance.
func DistanceToPolyline(p Point2D, points []Point2D) float64 {
	switch len(points) {
	case 0:
		return math.Inf(1)
	case 1:
		return p.Distance(points[0])
	}
	best := math.Inf(1)
	for i := 1; i < len(points); i++ {
		if d := DistanceToSegment(p, points[i-1], points[i]); d < best {
			best = d
		}
	}
	return best
}

// ArrowHead returns the two back vertices of an arrowhead at end.
// The head has the given length and half-angle, measured from the line
// direction start->end.
func ArrowHead(start, end Point2D, length, halfAngle float64) (Point2D, Point2D) {
	theta := math.Atan2(end.Y-start.Y, end.X-start.X)
	p1 := Point2D{
		X: end.X - length*math.Cos(theta-halfAngle),
		Y: end.Y - length*math.Sin(theta-halfAngle),
	}
	p2 := Point2D{
		X: end.X - length*math.Cos(theta+halfAngle),
		Y: end.Y - length*math.Sin(theta+halfAngle),
	}
	return p1, p2
}

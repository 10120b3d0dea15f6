package geometry

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRectFromPointsNormalizes(t *testing.T) {
	want := Rect{X: 10, Y: 20, Width: 30, Height: 40}
	corners := [][2]Point2D{
		{{10, 20}, {40, 60}},
		{{40, 60}, {10, 20}},
		{{40, 20}, {10, 60}},
		{{10, 60}, {40, 20}},
	}
	for _, c := range corners {
		assert.Equal(t, want, RectFromPoints(c[0], c[1]))
	}
}

func TestDistanceToSegment(t *testing.T) {
	a, b := Point2D{0, 0}, Point2D{10, 0}
	tests := []struct {
		name string
		p    Point2D
		want float64
	}{
		{"above middle", Point2D{5, 3}, 3},
		{"past end", Point2D{13, 4}, 5},
		{"before start", Point2D{-3, 0}, 3},
		{"on segment", Point2D{7, 0}, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, DistanceToSegment(tt.p, a, b), 1e-9)
		})
	}
	assert.InDelta(t, 5, DistanceToSegment(Point2D{3, 4}, a, a), 1e-9)
}

func TestDistanceToPolyline(t *testing.T) {
	pts := []Point2D{{0, 0}, {10, 0}, {10, 10}}
	assert.InDelta(t, 2, DistanceToPolyline(Point2D{12, 5}, pts), 1e-9)
	assert.True(t, math.IsInf(DistanceToPolyline(Point2D{}, nil), 1))
}

func TestArrowHeadHorizontal(t *testing.T) {
	p1, p2 := ArrowHead(Point2D{0, 0}, Point2D{100, 0}, 15, math.Pi/6)
	assert.InDelta(t, 100-15*math.Cos(math.Pi/6), p1.X, 1e-9)
	assert.InDelta(t, 7.5, p1.Y, 1e-9)
	assert.InDelta(t, 87.01, p2.X, 0.01)
	assert.InDelta(t, -7.5, p2.Y, 1e-9)
}

func TestRectHelpers(t *testing.T) {
	r := NewRect(0, 0, 10, 10)
	assert.True(t, r.Contains(Point2D{10, 10}))
	assert.False(t, r.Contains(Point2D{11, 5}))
	assert.Equal(t, Rect{X: -2, Y: -2, Width: 14, Height: 14}, r.Inflate(2))
	assert.True(t, r.Intersects(NewRect(5, 5, 10, 10)))
	assert.False(t, r.Intersects(NewRect(10, 0, 5, 5)))
	assert.Equal(t, NewRect(0, 0, 20, 15), r.Union(NewRect(15, 5, 5, 10)))
	assert.Equal(t, 11, NewRect(0.5, 0, 10, 1).Image().Max.X)
}

func TestPointInShapes(t *testing.T) {
	r := NewRect(0, 0, 20, 10)
	assert.True(t, PointInEllipse(Point2D{10, 5}, r))
	assert.False(t, PointInEllipse(Point2D{1, 1}, r))

	tri := []Point2D{{0, 0}, {10, 0}, {5, 10}}
	assert.True(t, PointInPolygon(Point2D{5, 3}, tri))
	assert.False(t, PointInPolygon(Point2D{0, 9}, tri))
}

func TestPointOps(t *testing.T) {
	p := Point2D{3, 4}
	assert.InDelta(t, 5, p.Distance(Point2D{}), 1e-9)
	assert.Equal(t, Point2D{6, 8}, p.Scale(2))
	assert.Equal(t, Point2D{4, 5}, p.Add(Point2D{1, 1}))
	assert.Equal(t, []Point2D{{4, 6}}, Translate([]Point2D{p}, 1, 2))
}

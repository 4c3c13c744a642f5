package shared

import "fmt"

// Point is a tile coordinate on the world grid.
type Point struct{ X, Y int }

// Pt is a convenience constructor for Point.
func Pt(x, y int) Point { return Point{x, y} }

// Add adds another point's values to a copy of this point, returning the copy.
func (pt Point) Add(other Point) Point {
	pt.X += other.X
	pt.Y += other.Y
	return pt
}

// Sub subtracts another point's values from a copy of this point, returning
// the copy.
func (pt Point) Sub(other Point) Point {
	pt.X -= other.X
	pt.Y -= other.Y
	return pt
}

// Manhattan returns the taxicab distance between two points.
func (pt Point) Manhattan(other Point) int {
	d := pt.Sub(other)
	return abs(d.X) + abs(d.Y)
}

// Neighbors returns the four orthogonal neighbors in up, down, left, right order.
func (pt Point) Neighbors() [4]Point {
	return [4]Point{
		{pt.X, pt.Y - 1},
		{pt.X, pt.Y + 1},
		{pt.X - 1, pt.Y},
		{pt.X + 1, pt.Y},
	}
}

func (pt Point) String() string {
	return fmt.Sprintf("(%d,%d)", pt.X, pt.Y)
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}

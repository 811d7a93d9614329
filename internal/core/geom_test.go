package core

import "testing"

func TestRectClampPoint(t *testing.T) {
	board := NewRect(0, 0, 10, 10)

	tests := []struct {
		name     string
		in       Point
		expected Point
	}{
		{"inside", Point{3, 4}, Point{3, 4}},
		{"left of board", Point{-1, 4}, Point{0, 4}},
		{"past right edge", Point{10, 4}, Point{9, 4}},
		{"above and past right", Point{12, -3}, Point{9, 0}},
		{"below", Point{5, 10}, Point{5, 9}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := board.ClampPoint(tc.in); got != tc.expected {
				t.Errorf("ClampPoint(%v) = %v, expected %v", tc.in, got, tc.expected)
			}
		})
	}

	if got := NewRect(2, 3, 0, 0).ClampPoint(Point{9, 9}); got != (Point{2, 3}) {
		t.Errorf("empty rect ClampPoint = %v, expected origin", got)
	}
}

func TestPointAdd(t *testing.T) {
	p := Point{2, 3}.Add(-1, 4)
	if p != (Point{1, 7}) {
		t.Errorf("Add() = %v, expected {1 7}", p)
	}
}

func TestRectEdges(t *testing.T) {
	r := NewRect(5, 10, 20, 15)

	if r.Right() != 25 {
		t.Errorf("Right() = %d, expected 25", r.Right())
	}
	if r.Bottom() != 25 {
		t.Errorf("Bottom() = %d, expected 25", r.Bottom())
	}
}

func TestClamp(t *testing.T) {
	tests := []struct {
		val, min, max, expected int
	}{
		{5, 0, 10, 5},   // within range
		{-5, 0, 10, 0},  // below min
		{15, 0, 10, 10}, // above max
		{0, 0, 10, 0},   // at min
		{10, 0, 10, 10}, // at max
	}

	for _, tc := range tests {
		result := Clamp(tc.val, tc.min, tc.max)
		if result != tc.expected {
			t.Errorf("Clamp(%d, %d, %d) = %d, expected %d", tc.val, tc.min, tc.max, result, tc.expected)
		}
	}
}

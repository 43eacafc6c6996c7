package core

import (
	"math"
	"testing"
)

func TestRay_At(t *testing.T) {
	tests := []struct {
		name     string
		ray      Ray
		t        float64
		expected Vec3
	}{
		{"unit diagonal", NewRay(NewVec3(0, 0, 0), NewVec3(1, 1, 1)), 2, NewVec3(2, 2, 2)},
		{"zero direction", NewRay(NewVec3(0, 0, 0), NewVec3(0, 0, 0)), 5, NewVec3(0, 0, 0)},
		{"negative t", NewRay(NewVec3(3.5, -2.2, 19), NewVec3(-20, 12, 42.68)), -102, NewVec3(2043.5, -1226.2, -4334.36)},
		{"t zero is origin", NewRay(NewVec3(1, 2, 3), NewVec3(4, 5, 6)), 0, NewVec3(1, 2, 3)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.ray.At(tt.t)
			want := tt.ray.Origin.Add(tt.ray.Direction.Multiply(tt.t))
			if got != want {
				t.Errorf("At(%v) = %v, want origin + t*direction = %v", tt.t, got, want)
			}

			const tolerance = 1e-9
			if got.Subtract(tt.expected).Length() > tolerance {
				t.Errorf("Expected %v, got %v", tt.expected, got)
			}
		})
	}
}

func TestRay_DirectionNotNormalized(t *testing.T) {
	direction := NewVec3(0, 0, -4)
	ray := NewRay(NewVec3(0, 0, 0), direction)
	if ray.Direction != direction {
		t.Errorf("Ray direction should be stored as given, got %v", ray.Direction)
	}
}

func TestInterval_Surrounds(t *testing.T) {
	i := NewInterval(0.001, 10)

	tests := []struct {
		x    float64
		want bool
	}{
		{0.001, false},
		{10, false},
		{0.0010001, true},
		{5, true},
		{-1, false},
		{math.Inf(1), false},
	}

	for _, tt := range tests {
		if got := i.Surrounds(tt.x); got != tt.want {
			t.Errorf("Surrounds(%v) = %t, want %t", tt.x, got, tt.want)
		}
	}

	open := NewInterval(0.001, math.Inf(1))
	if !open.Surrounds(1e300) {
		t.Error("Unbounded interval should contain large values")
	}
}

func TestVec3_Cross(t *testing.T) {
	x := NewVec3(1, 0, 0)
	y := NewVec3(0, 1, 0)
	if got := x.Cross(y); got != NewVec3(0, 0, 1) {
		t.Errorf("x cross y = %v, want (0,0,1)", got)
	}
	if got := y.Cross(x); got != NewVec3(0, 0, -1) {
		t.Errorf("y cross x = %v, want (0,0,-1)", got)
	}
}

func TestVec3_NearZero(t *testing.T) {
	if !NewVec3(1e-9, -1e-9, 0).NearZero() {
		t.Error("Expected tiny vector to be near zero")
	}
	if NewVec3(1e-9, 1e-7, 0).NearZero() {
		t.Error("A single component above 1e-8 should not be near zero")
	}
}

func TestVec3_NormalizeZero(t *testing.T) {
	if got := NewVec3(0, 0, 0).Normalize(); got != NewVec3(0, 0, 0) {
		t.Errorf("Normalizing zero vector should return zero, got %v", got)
	}
}

func TestLerp(t *testing.T) {
	white := NewVec3(1, 1, 1)
	blue := NewVec3(0.5, 0.7, 1.0)

	if got := Lerp(0, white, blue); got != white {
		t.Errorf("Lerp(0) = %v, want %v", got, white)
	}
	if got := Lerp(1, white, blue); got != blue {
		t.Errorf("Lerp(1) = %v, want %v", got, blue)
	}
	mid := Lerp(0.5, white, blue)
	if math.Abs(mid.Y-0.85) > 1e-12 {
		t.Errorf("Lerp(0.5).Y = %f, want 0.85", mid.Y)
	}
}

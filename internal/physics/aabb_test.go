package physics

import "testing"

func TestAABB_Intersects(t *testing.T) {
	box := AABB{Min: V2(0, 0), Max: V2(10, 10)}

	tests := []struct {
		name  string
		other AABB
		want  bool
	}{
		{"overlapping", AABB{Min: V2(5, 5), Max: V2(15, 15)}, true},
		{"inside", AABB{Min: V2(2, 2), Max: V2(3, 3)}, true},
		{"touching edge", AABB{Min: V2(10, 0), Max: V2(20, 10)}, true},
		{"touching corner", AABB{Min: V2(10, 10), Max: V2(11, 11)}, true},
		{"left", AABB{Min: V2(-5, 0), Max: V2(-0.1, 10)}, false},
		{"below", AABB{Min: V2(0, 10.1), Max: V2(10, 12)}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := box.Intersects(tt.other); got != tt.want {
				t.Errorf("Intersects(%+v) = %v, want %v", tt.other, got, tt.want)
			}
			if got := tt.other.Intersects(box); got != tt.want {
				t.Errorf("reverse Intersects = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestAABB_Contains(t *testing.T) {
	box := AABB{Min: V2(0, 0), Max: V2(10, 10)}

	if !box.Contains(AABB{Min: V2(0, 0), Max: V2(10, 10)}) {
		t.Error("box should contain itself")
	}
	if box.Contains(AABB{Min: V2(5, 5), Max: V2(11, 9)}) {
		t.Error("box should not contain a box poking out")
	}
	if !box.ContainsPoint(V2(10, 0)) {
		t.Error("edge point should be contained")
	}
	if box.ContainsPoint(V2(10.01, 5)) {
		t.Error("outside point should not be contained")
	}
}

func TestAABB_Quadrants(t *testing.T) {
	box := AABB{Min: V2(0, 0), Max: V2(8, 4)}
	want := [4]AABB{
		{Min: V2(0, 0), Max: V2(4, 2)},
		{Min: V2(4, 0), Max: V2(8, 2)},
		{Min: V2(0, 2), Max: V2(4, 4)},
		{Min: V2(4, 2), Max: V2(8, 4)},
	}
	if got := box.quadrants(); got != want {
		t.Errorf("quadrants() = %+v, want %+v", got, want)
	}
}

func TestVec2_Normalize(t *testing.T) {
	tests := []struct {
		name string
		v    Vec2
		want Vec2
	}{
		{"axis", V2(3, 0), V2(1, 0)},
		{"diagonal", V2(3, 4), V2(0.6, 0.8)},
		{"zero", V2(0, 0), V2(0, 0)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.v.Normalize(); !got.Approx(tt.want, 1e-12) {
				t.Errorf("%v.Normalize() = %v, want %v", tt.v, got, tt.want)
			}
		})
	}
}

func TestCirclesOverlap(t *testing.T) {
	tests := []struct {
		name   string
		p1, p2 Vec2
		r1, r2 float64
		want   bool
	}{
		{"apart", V2(0, 0), V2(13, 0), 6, 6, false},
		{"touching", V2(0, 0), V2(12, 0), 6, 6, true},
		{"overlapping", V2(0, 0), V2(3, 4), 3, 3, true},
		{"same centre", V2(1, 1), V2(1, 1), 1, 1, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CirclesOverlap(tt.p1, tt.r1, tt.p2, tt.r2); got != tt.want {
				t.Errorf("CirclesOverlap() = %v, want %v", got, tt.want)
			}
		})
	}
}

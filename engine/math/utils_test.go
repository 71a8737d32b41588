package math

import "testing"

func TestClamp(t *testing.T) {
	if got := Clamp(float32(1.5), -1, 1); got != 1 {
		t.Errorf("expected 1, got %f", got)
	}
	if got := Clamp(-7, -1, 1); got != -1 {
		t.Errorf("expected -1, got %d", got)
	}
	if got := Clamp(0.25, 0, 1); got != 0.25 {
		t.Errorf("expected 0.25, got %f", got)
	}
}

func TestInRange(t *testing.T) {
	if !InRange(float32(0), 0, 1) || !InRange(float32(1), 0, 1) {
		t.Error("expected bounds to be inclusive")
	}
	if InRange(1.01, 0, 1) {
		t.Error("expected 1.01 to be out of range")
	}
}

func TestVec3AddScale(t *testing.T) {
	v := NewVec3(1, 2, 3).Add(NewVec3(1, 1, 1)).Scale(2)
	if v != NewVec3(4, 6, 8) {
		t.Errorf("expected (4,6,8), got %+v", v)
	}
}

func TestMat4Identity(t *testing.T) {
	m := NewMat4Identity()
	for i := 0; i < 16; i++ {
		want := float32(0)
		if i%5 == 0 {
			want = 1
		}
		if m.Data[i] != want {
			t.Errorf("element %d: expected %f, got %f", i, want, m.Data[i])
		}
	}
}

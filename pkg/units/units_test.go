package units

import (
	"errors"
	"testing"
)

func TestFromString(t *testing.T) {
	cases := []struct {
		in   string
		want Unit
	}{
		{"m", M},
		{"mm", MM},
		{"M", M},
		{"MM", MM},
		{" mm ", MM},
	}
	for _, tc := range cases {
		got, err := FromString(tc.in)
		if err != nil {
			t.Errorf("FromString(%q): unexpected error %v", tc.in, err)
			continue
		}
		if got != tc.want {
			t.Errorf("FromString(%q) = %v, want %v", tc.in, got, tc.want)
		}
	}
}

func TestFromStringInvalid(t *testing.T) {
	for _, in := range []string{"", "cm", "inch", "meters"} {
		_, err := FromString(in)
		if !errors.Is(err, ErrInvalidUnit) {
			t.Errorf("FromString(%q): want ErrInvalidUnit, got %v", in, err)
		}
	}
}

func TestScaleFactorIdentity(t *testing.T) {
	for _, u := range []Unit{M, MM} {
		if f := ScaleFactor(u, u); f != 1.0 {
			t.Errorf("ScaleFactor(%v, %v) = %v, want 1.0", u, u, f)
		}
	}
}

func TestScaleFactorReciprocal(t *testing.T) {
	f1 := ScaleFactor(M, MM)
	f2 := ScaleFactor(MM, M)
	if f1 != 1000.0 || f2 != 0.001 {
		t.Fatalf("cross factors = %v, %v, want 1000, 0.001", f1, f2)
	}
	if f1*f2 != 1.0 {
		t.Errorf("cross factors are not exact reciprocals: %v * %v = %v", f1, f2, f1*f2)
	}
}

package ephem

import (
	"errors"
	"math"
	"testing"
	"time"
)

func TestJ2000(t *testing.T) {
	if jd := JulianDate(J2000); jd != 2451545.0 {
		t.Errorf("JD(J2000) = %v", jd)
	}
	if c := Centuries(J2000); math.Abs(c) > 1e-12 {
		t.Errorf("T(J2000) = %v, want 0", c)
	}
	later := J2000.AddDate(100, 0, 0)
	if c := Centuries(later); math.Abs(c-1) > 1e-3 {
		t.Errorf("T(J2100) = %v, want ~1", c)
	}
}

func TestJulianDateMonotonic(t *testing.T) {
	prev := JulianDate(J2000.AddDate(-300, 0, 0))
	for d := J2000.AddDate(-300, 0, 1); d.Before(J2000.AddDate(300, 0, 0)); d = d.AddDate(0, 7, 3) {
		jd := JulianDate(d)
		if jd <= prev {
			t.Fatalf("JD not increasing at %v", d)
		}
		prev = jd
	}
}

func TestElementsValidate(t *testing.T) {
	tests := []struct {
		name string
		el   OrbitalElements
		ok   bool
	}{
		{"circular", OrbitalElements{A: 1}, true},
		{"zero a", OrbitalElements{A: 0}, false},
		{"negative e", OrbitalElements{A: 1, E: -0.1}, false},
		{"parabolic", OrbitalElements{A: 1, E: 1}, false},
		{"nan", OrbitalElements{A: 1, I: math.NaN()}, false},
		{"inf rate", OrbitalElements{A: 1, Rates: Rates{L: math.Inf(1)}}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.el.Validate()
			if tt.ok && err != nil {
				t.Errorf("unexpected error: %v", err)
			}
			if !tt.ok && !errors.Is(err, ErrInvalidElements) {
				t.Errorf("expected ErrInvalidElements, got %v", err)
			}
		})
	}
}

func TestElementsAt(t *testing.T) {
	el := OrbitalElements{A: 1, E: 0.1, L: 0.5, Rates: Rates{A: 0.01, E: 0.001, L: 2}}
	cur := el.At(2)
	if math.Abs(cur.A-1.02) > 1e-12 || math.Abs(cur.E-0.102) > 1e-12 || math.Abs(cur.L-4.5) > 1e-12 {
		t.Errorf("drift wrong: %+v", cur)
	}
	back := el.At(-1)
	if math.Abs(back.L-(-1.5)) > 1e-12 {
		t.Errorf("backwards extrapolation wrong: L=%v", back.L)
	}
}

func TestCircularOrbitRadius(t *testing.T) {
	el := OrbitalElements{A: 2.5, I: 0.3, L: 1, W: 0.4, Node: 0.2, Rates: Rates{L: 30}}
	for d := J2000.AddDate(-50, 0, 0); d.Before(J2000.AddDate(50, 0, 0)); d = d.Add(97 * 24 * time.Hour) {
		st := Propagate(el, JulianDate(d), PlanetSolver)
		if math.Abs(st.R-2.5) > 1e-12 {
			t.Fatalf("r = %v at %v, want 2.5", st.R, d)
		}
	}
}

func TestEarthAtEpoch(t *testing.T) {
	reg := DefaultRegistry()
	earth, _ := reg.Lookup("earth")
	st := Propagate(earth.Elements, JulianDate(J2000), PlanetSolver)

	if math.Abs(st.R-0.9833) > 1e-3 {
		t.Errorf("r = %.6f AU, want ~0.9833", st.R)
	}

	el := earth.Elements
	want := el.A * (1 - el.E*math.Cos(st.EccentricAnomaly))
	if st.R != want {
		t.Errorf("r = %v, want a(1 - e cos E) = %v", st.R, want)
	}
	if norm := math.Sqrt(st.Position.X*st.Position.X + st.Position.Y*st.Position.Y + st.Position.Z*st.Position.Z); math.Abs(norm-st.R) > 1e-12 {
		t.Errorf("|position| = %v, r = %v", norm, st.R)
	}
	if math.Abs(st.SpeedProxy-1/math.Sqrt(st.R)) > 1e-15 {
		t.Errorf("speed proxy = %v", st.SpeedProxy)
	}
}

func TestEclipticPlaneForZeroInclination(t *testing.T) {
	el := OrbitalElements{A: 1, E: 0.3, L: 2, W: 1, Node: 0.5}
	st := Propagate(el, JulianDate(J2000), PlanetSolver)
	if math.Abs(st.Position.Z) > 1e-15 {
		t.Errorf("z = %v for an orbit in the ecliptic", st.Position.Z)
	}
}

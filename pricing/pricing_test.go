package pricing

import (
	"errors"
	"math"
	"testing"

	"github.com/etnz/optionpl/date"
)

func TestNormCDF(t *testing.T) {
	testCases := []struct {
		x    float64
		want float64
	}{
		{0, 0.5},
		{1, 0.8413447},
		{-1, 0.1586553},
		{1.96, 0.9750021},
		{-2.5, 0.0062097},
		{6, 1},
	}
	for _, tc := range testCases {
		if got := NormCDF(tc.x); math.Abs(got-tc.want) > 1e-6 {
			t.Errorf("NormCDF(%v) = %v, want %v", tc.x, got, tc.want)
		}
	}
}

func TestNormCDF_Polynomial(t *testing.T) {
	// Abramowitz & Stegun 26.2.17 written out term by term.
	zelenSevero := func(x float64) float64 {
		z := math.Abs(x)
		k := 1 / (1 + 0.2316419*z)
		poly := 0.319381530*k - 0.356563782*math.Pow(k, 2) + 1.781477937*math.Pow(k, 3) -
			1.821255978*math.Pow(k, 4) + 1.330274429*math.Pow(k, 5)
		tail := 0.39894228 * math.Exp(-z*z/2) * poly
		if x < 0 {
			return tail
		}
		return 1 - tail
	}
	for _, x := range []float64{1, -1, 2.5, -2.5, 0.3} {
		got, want := NormCDF(x), zelenSevero(x)
		if math.Abs(got-want) > 1e-15 {
			t.Errorf("NormCDF(%v) = %.17g, want %.17g", x, got, want)
		}
	}
	// The approximation, not the exact CDF, is what prices options.
	for _, x := range []float64{1, -1} {
		if exact := 0.5 * math.Erfc(-x/math.Sqrt2); math.Abs(NormCDF(x)-exact) < 1e-9 {
			t.Errorf("NormCDF(%v) = %.17g matches the exact CDF %.17g", x, NormCDF(x), exact)
		}
	}
}

func TestNormCDF_Symmetry(t *testing.T) {
	for _, x := range []float64{0.1, 0.5, 1.3, 2.7, 4} {
		if got := NormCDF(x) + NormCDF(-x); math.Abs(got-1) > 1e-12 {
			t.Errorf("NormCDF(%v)+NormCDF(-%v) = %v, want 1", x, x, got)
		}
	}
}

func TestTheoreticalPricePerShare(t *testing.T) {
	// Reference values from the closed form with an exact CDF; the
	// polynomial approximation stays within 1e-4 on these.
	testCases := []struct {
		name string
		in   Inputs
		want float64
	}{
		{"atm call", Inputs{Underlying: 100, Strike: 100, Rate: 0.05, Years: 1, Volatility: 0.2, Call: true}, 10.450584},
		{"atm put", Inputs{Underlying: 100, Strike: 100, Rate: 0.05, Years: 1, Volatility: 0.2}, 5.573526},
		{"itm call", Inputs{Underlying: 110, Strike: 100, Rate: 0.05, Years: 0.5, Volatility: 0.25, Call: true}, 15.166386},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := TheoreticalPricePerShare(tc.in)
			if err != nil {
				t.Fatalf("TheoreticalPricePerShare() error = %v", err)
			}
			if math.Abs(got-tc.want) > 1e-4 {
				t.Errorf("TheoreticalPricePerShare() = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestTheoreticalPricePerShare_Parity(t *testing.T) {
	for _, in := range []Inputs{
		{Underlying: 100, Strike: 100, Rate: 0.05, Years: 1, Volatility: 0.2},
		{Underlying: 250, Strike: 300, Rate: 0.01, Years: 0.1, Volatility: 0.6},
		{Underlying: 42, Strike: 35, Rate: 0, Years: 2.5, Volatility: 0.35},
		{Underlying: 90, Strike: 100, Rate: 0.08, Years: 30.0 / 365.25, Volatility: 0.15},
	} {
		call := in
		call.Call = true
		c, err := TheoreticalPricePerShare(call)
		if err != nil {
			t.Fatalf("call error = %v", err)
		}
		p, err := TheoreticalPricePerShare(in)
		if err != nil {
			t.Fatalf("put error = %v", err)
		}
		want := in.Underlying - in.Strike*math.Exp(-in.Rate*in.Years)
		if got := c - p; math.Abs(got-want) > 1e-6 {
			t.Errorf("%+v: call - put = %v, want %v", in, got, want)
		}
	}
}

func TestTheoreticalPricePerShare_Expired(t *testing.T) {
	testCases := []struct {
		in   Inputs
		want float64
	}{
		{Inputs{Underlying: 110, Strike: 100, Volatility: 0.3, Call: true}, 10},
		{Inputs{Underlying: 90, Strike: 100, Volatility: 0.3, Call: true}, 0},
		{Inputs{Underlying: 90, Strike: 100, Volatility: 0.3, Years: -0.1}, 10},
		{Inputs{Underlying: 110, Strike: 100, Volatility: 0.3}, 0},
	}
	for _, tc := range testCases {
		got, err := TheoreticalPricePerShare(tc.in)
		if err != nil {
			t.Fatalf("TheoreticalPricePerShare(%+v) error = %v", tc.in, err)
		}
		if got != tc.want {
			t.Errorf("TheoreticalPricePerShare(%+v) = %v, want exactly %v", tc.in, got, tc.want)
		}
		if intrinsic := Intrinsic(tc.in.Underlying, tc.in.Strike, tc.in.Call); got != intrinsic {
			t.Errorf("expired price %v != intrinsic %v", got, intrinsic)
		}
	}
}

func TestTheoreticalPricePerShare_Invalid(t *testing.T) {
	for _, in := range []Inputs{
		{Underlying: 0, Strike: 100, Years: 1, Volatility: 0.2},
		{Underlying: 100, Strike: -5, Years: 1, Volatility: 0.2},
		{Underlying: 100, Strike: 100, Years: 1, Volatility: 0},
		{Underlying: math.NaN(), Strike: 100, Years: 1, Volatility: 0.2},
		{Underlying: 100, Strike: 100, Years: 1, Volatility: math.Inf(1)},
	} {
		got, err := TheoreticalPricePerShare(in)
		if !errors.Is(err, ErrInvalidInput) {
			t.Errorf("TheoreticalPricePerShare(%+v) error = %v, want ErrInvalidInput", in, err)
		}
		if got != 0 {
			t.Errorf("TheoreticalPricePerShare(%+v) = %v, want 0", in, got)
		}
	}
}

func TestYearsToExpiration(t *testing.T) {
	today := date.MustParse("2025-01-01")
	if got := YearsToExpiration(today, today); got != 0 {
		t.Errorf("YearsToExpiration(same day) = %v, want 0", got)
	}
	got := YearsToExpiration(today, date.MustParse("2025-01-31"))
	if want := 30 / 365.25; math.Abs(got-want) > 1e-12 {
		t.Errorf("YearsToExpiration() = %v, want %v", got, want)
	}
}

func TestPositionValue(t *testing.T) {
	if got := PositionValue(2.5, 3, false); got != 750 {
		t.Errorf("PositionValue(long) = %v, want 750", got)
	}
	if got := PositionValue(2.5, 3, true); got != -750 {
		t.Errorf("PositionValue(short) = %v, want -750", got)
	}
}

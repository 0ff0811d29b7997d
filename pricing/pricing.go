// Package pricing values option contracts with the Black-Scholes formula.
//
// All functions are pure and work on float64. Prices are per share unless
// stated otherwise; one contract covers [Multiplier] shares.
package pricing

import (
	"errors"
	"fmt"
	"math"

	"github.com/etnz/optionpl/date"
)

// Multiplier is the number of shares covered by one contract.
const Multiplier = 100

var (
	// ErrInvalidInput is returned for a non-positive or non-finite underlying
	// price, strike or volatility.
	ErrInvalidInput = errors.New("invalid pricing input")
	// ErrNotFinite is returned when the formula does not produce a finite number.
	ErrNotFinite = errors.New("non-finite option price")
)

// Zelen & Severo (1964) coefficients, Abramowitz & Stegun 26.2.17.
const (
	b1 = 0.319381530
	b2 = -0.356563782
	b3 = 1.781477937
	b4 = -1.821255978
	b5 = 1.330274429
	p  = 0.2316419
	c  = 0.39894228
)

// NormCDF approximates the standard normal cumulative distribution function
// with the Zelen & Severo polynomial. Its absolute error is below 7.5e-8.
func NormCDF(x float64) float64 {
	if x >= 0 {
		t := 1 / (1 + p*x)
		return 1 - c*math.Exp(-x*x/2)*t*(t*(t*(t*(t*b5+b4)+b3)+b2)+b1)
	}
	t := 1 / (1 - p*x)
	return c * math.Exp(-x*x/2) * t * (t*(t*(t*(t*b5+b4)+b3)+b2) + b1)
}

// Inputs are the parameters of a single option valuation.
type Inputs struct {
	Underlying float64 // S, price of the underlying
	Strike     float64 // K
	Rate       float64 // r, annual risk-free rate as a decimal
	Years      float64 // T, time to expiration in years
	Volatility float64 // σ, annual implied volatility as a decimal
	Call       bool    // false for a put
}

func (in Inputs) validate() error {
	switch {
	case !(in.Underlying > 0) || math.IsInf(in.Underlying, 0):
		return fmt.Errorf("%w: underlying price %v", ErrInvalidInput, in.Underlying)
	case !(in.Strike > 0) || math.IsInf(in.Strike, 0):
		return fmt.Errorf("%w: strike %v", ErrInvalidInput, in.Strike)
	case !(in.Volatility > 0) || math.IsInf(in.Volatility, 0):
		return fmt.Errorf("%w: volatility %v", ErrInvalidInput, in.Volatility)
	case math.IsNaN(in.Rate) || math.IsInf(in.Rate, 0) || math.IsNaN(in.Years):
		return fmt.Errorf("%w: rate %v, years %v", ErrInvalidInput, in.Rate, in.Years)
	}
	return nil
}

// Intrinsic returns the value of an option exercised immediately.
func Intrinsic(underlying, strike float64, call bool) float64 {
	if call {
		return math.Max(0, underlying-strike)
	}
	return math.Max(0, strike-underlying)
}

// TheoreticalPricePerShare returns the Black-Scholes value of one share of
// the option. When no time is left it returns the intrinsic value.
//
// Invalid inputs or a non-finite result return 0 and an error wrapping
// [ErrInvalidInput] or [ErrNotFinite].
func TheoreticalPricePerShare(in Inputs) (float64, error) {
	if err := in.validate(); err != nil {
		return 0, err
	}
	S, K, r, T, v := in.Underlying, in.Strike, in.Rate, in.Years, in.Volatility
	if T <= 0 {
		return Intrinsic(S, K, in.Call), nil
	}

	sqrtT := math.Sqrt(T)
	d1 := (math.Log(S/K) + (r+v*v/2)*T) / (v * sqrtT)
	d2 := d1 - v*sqrtT
	discount := K * math.Exp(-r*T)

	var price float64
	if in.Call {
		price = S*NormCDF(d1) - discount*NormCDF(d2)
	} else {
		price = discount*NormCDF(-d2) - S*NormCDF(-d1)
	}
	if math.IsNaN(price) || math.IsInf(price, 0) {
		return 0, fmt.Errorf("%w: S=%v K=%v r=%v T=%v σ=%v", ErrNotFinite, S, K, r, T, v)
	}
	return price, nil
}

// YearsToExpiration returns the time between two calendar days in years of
// 365.25 days. It is zero or negative once the option has expired.
func YearsToExpiration(today, expiration date.Date) float64 {
	return today.YearsUntil(expiration)
}

// PositionValue returns the value of quantity contracts priced perShare,
// negated for a short position.
func PositionValue(perShare, quantity float64, short bool) float64 {
	v := perShare * quantity * Multiplier
	if short {
		return -v
	}
	return v
}

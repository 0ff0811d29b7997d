// Package curve projects the profit and loss of open positions over a range
// of hypothetical underlying prices.
package curve

import (
	"errors"
	"fmt"
	"math"

	"github.com/etnz/optionpl"
	"github.com/etnz/optionpl/date"
	"github.com/etnz/optionpl/pricing"
	"go.uber.org/zap"
)

// ErrMismatchedCurves is returned when two curves are not sampled on the same prices.
var ErrMismatchedCurves = errors.New("curves are not sampled on the same prices")

// Point is a sample of a P/L curve at one underlying price.
type Point struct {
	Price      float64 `json:"price"`
	ProfitLoss float64 `json:"profitLoss"`
}

// Sweep is an evenly spaced range of underlying prices, Steps+1 samples from
// Low to High included.
type Sweep struct {
	Low, High float64
	Steps     int
}

// Valid reports whether the sweep yields any price.
func (s Sweep) Valid() bool {
	return s.Steps > 0 && s.Low < s.High && !math.IsInf(s.Low, 0) && !math.IsInf(s.High, 0)
}

// Prices returns the sampled prices, or nil for a degenerate sweep.
func (s Sweep) Prices() []float64 {
	if !s.Valid() {
		return nil
	}
	prices := make([]float64, s.Steps+1)
	for i := range prices {
		prices[i] = s.Low + float64(i)*(s.High-s.Low)/float64(s.Steps)
	}
	return prices
}

// Market holds the valuation assumptions of the theoretical curve.
type Market struct {
	AsOf       date.Date // valuation day
	Volatility float64   // implied volatility, as a decimal
	Rate       float64   // risk-free rate, as a decimal
}

// Generator computes curves. Its zero value is ready to use and logs nothing.
type Generator struct {
	Log *zap.Logger
}

// NewGenerator returns a Generator reporting pricing failures to log.
func NewGenerator(log *zap.Logger) *Generator {
	return &Generator{Log: log}
}

func (g *Generator) logger() *zap.Logger {
	if g == nil || g.Log == nil {
		return zap.NewNop()
	}
	return g.Log
}

// CostBasis returns the total cost of the open positions: share cost bases,
// plus premiums paid for long series, minus premiums received for short
// ones, plus the commissions attributed to open contracts.
func CostBasis(pos optionpl.Positions) float64 {
	var cost float64
	for _, s := range pos.Shares {
		cost += s.CostBasis.Float()
	}
	for _, o := range pos.Options {
		cost += o.Commission.Float() - o.NetPremium.Float()
	}
	return cost
}

// profitLoss samples pos over sweep, valuing each option contract with perShare.
func profitLoss(pos optionpl.Positions, sweep Sweep, perShare func(o optionpl.OptionPosition, price float64) float64) []Point {
	prices := sweep.Prices()
	if prices == nil {
		return nil
	}
	cost := CostBasis(pos)
	points := make([]Point, len(prices))
	for i, price := range prices {
		var value float64
		for _, s := range pos.Shares {
			value += s.Quantity.Float() * price
		}
		for _, o := range pos.Options {
			value += pricing.PositionValue(perShare(o, price), o.Quantity.Float(), o.IsShort())
		}
		points[i] = Point{Price: price, ProfitLoss: value - cost}
	}
	return points
}

// Theoretical returns the P/L of pos at each price of sweep, valuing options
// with Black-Scholes as of m.AsOf. Options expired on that day count for
// their intrinsic value. A contract that cannot be priced counts for zero and
// is logged once.
func (g *Generator) Theoretical(pos optionpl.Positions, sweep Sweep, m Market) []Point {
	failures := make(map[string]error)
	points := profitLoss(pos, sweep, func(o optionpl.OptionPosition, price float64) float64 {
		v, err := pricing.TheoreticalPricePerShare(pricing.Inputs{
			Underlying: price,
			Strike:     o.Strike.Float(),
			Rate:       m.Rate,
			Years:      pricing.YearsToExpiration(m.AsOf, o.Expiration),
			Volatility: m.Volatility,
			Call:       o.Kind.IsCall(),
		})
		if err != nil {
			if _, seen := failures[o.OptionID]; !seen {
				failures[o.OptionID] = err
			}
			return 0
		}
		return v
	})
	for id, err := range failures {
		g.logger().Warn("pricing failure", zap.String("optionId", id), zap.Error(err))
	}
	return points
}

// Expiration returns the P/L of pos at each price of sweep if every option
// expired at that price: entry premium against intrinsic payoff.
func (g *Generator) Expiration(pos optionpl.Positions, sweep Sweep) []Point {
	return profitLoss(pos, sweep, func(o optionpl.OptionPosition, price float64) float64 {
		return pricing.Intrinsic(price, o.Strike.Float(), o.Kind.IsCall())
	})
}

// Benchmark returns the linear P/L of holding quantity shares bought at
// costBasis per share. A non-positive quantity yields nil.
func Benchmark(quantity, costBasis float64, sweep Sweep) []Point {
	if !(quantity > 0) {
		return nil
	}
	prices := sweep.Prices()
	if prices == nil {
		return nil
	}
	points := make([]Point, len(prices))
	for i, price := range prices {
		points[i] = Point{Price: price, ProfitLoss: quantity * (price - costBasis)}
	}
	return points
}

// Holding describes the benchmark: shares bought at a cost per share.
type Holding struct {
	Quantity  float64 `yaml:"quantity"`
	CostBasis float64 `yaml:"cost_basis"`
}

// Analysis gathers every curve computed for one set of positions.
type Analysis struct {
	Sweep       Sweep
	Market      Market
	Theoretical []Point
	Expiration  []Point
	Benchmark   []Point   // nil without a benchmark
	Crossovers  []float64 // expiration curve against benchmark
	Breakevens  []float64 // expiration curve against zero
}

// Analyze computes the curves of pos over sweep. The benchmark is optional.
func (g *Generator) Analyze(pos optionpl.Positions, sweep Sweep, m Market, bench *Holding) (Analysis, error) {
	a := Analysis{
		Sweep:       sweep,
		Market:      m,
		Theoretical: g.Theoretical(pos, sweep, m),
		Expiration:  g.Expiration(pos, sweep),
	}
	a.Breakevens = Breakevens(a.Expiration)
	if bench == nil {
		return a, nil
	}
	a.Benchmark = Benchmark(bench.Quantity, bench.CostBasis, sweep)
	if a.Benchmark == nil {
		return a, nil
	}
	crossings, err := FindCrossovers(a.Expiration, a.Benchmark)
	if err != nil {
		return a, fmt.Errorf("cannot compare with benchmark: %w", err)
	}
	a.Crossovers = crossings
	return a, nil
}

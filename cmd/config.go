package cmd

import (
	"flag"
	"fmt"
	"math"
	"os"

	"github.com/etnz/optionpl/curve"
	"github.com/etnz/optionpl/date"
	"gopkg.in/yaml.v3"
)

// valuation holds the assumptions shared by the reports. It is read from the
// -config file, then overridden by the flags set on the command line.
type valuation struct {
	Low        float64        `yaml:"low"`
	High       float64        `yaml:"high"`
	Steps      int            `yaml:"steps"`
	Volatility float64        `yaml:"volatility"`
	Rate       float64        `yaml:"rate"`
	AsOf       date.Date      `yaml:"as_of"`
	Currency   string         `yaml:"currency"`
	Benchmark  *curve.Holding `yaml:"benchmark"`
}

// loadValuation reads a valuation file. An empty path yields the defaults.
// Values set in the file, even to zero, replace the defaults.
func loadValuation(path string) (*valuation, error) {
	v := &valuation{Steps: 20, Volatility: 0.3, Currency: "USD"}
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("cannot read config %q: %w", path, err)
		}
		if err := yaml.Unmarshal(data, v); err != nil {
			return nil, fmt.Errorf("cannot parse config %q: %w", path, err)
		}
	}

	if v.AsOf.IsZero() {
		v.AsOf = date.Today()
	}
	if v.Currency == "" {
		v.Currency = "USD"
	}
	return v, nil
}

// valuationFlags are the command line overrides of a valuation.
type valuationFlags struct {
	low, high  float64
	steps      int
	volatility float64
	rate       float64
	asOf       string
	benchQty   float64
	benchCost  float64
}

func (c *valuationFlags) SetFlags(f *flag.FlagSet) {
	f.Float64Var(&c.low, "low", 0, "Lowest underlying price of the sweep")
	f.Float64Var(&c.high, "high", 0, "Highest underlying price of the sweep")
	f.IntVar(&c.steps, "steps", 20, "Number of intervals in the sweep")
	f.Float64Var(&c.volatility, "volatility", 0.3, "Implied volatility, as a decimal")
	f.Float64Var(&c.rate, "rate", 0, "Risk-free rate, as a decimal")
	f.StringVar(&c.asOf, "asof", date.Today().String(), "Valuation date (YYYY-MM-DD)")
	f.Float64Var(&c.benchQty, "bench-qty", 0, "Number of shares of the benchmark holding")
	f.Float64Var(&c.benchCost, "bench-cost", 0, "Cost per share of the benchmark holding")
}

// load reads the -config file and applies the flags explicitly set in f.
func (c *valuationFlags) load(f *flag.FlagSet) (*valuation, error) {
	v, err := loadValuation(*configFile)
	if err != nil {
		return nil, err
	}
	var visitErr error
	f.Visit(func(fl *flag.Flag) {
		switch fl.Name {
		case "low":
			v.Low = c.low
		case "high":
			v.High = c.high
		case "steps":
			v.Steps = c.steps
		case "volatility":
			v.Volatility = c.volatility
		case "rate":
			v.Rate = c.rate
		case "asof":
			day, err := date.Parse(c.asOf)
			if err != nil {
				visitErr = fmt.Errorf("invalid -asof: %w", err)
				return
			}
			v.AsOf = day
		case "bench-qty":
			if v.Benchmark == nil {
				v.Benchmark = &curve.Holding{}
			}
			v.Benchmark.Quantity = c.benchQty
		case "bench-cost":
			if v.Benchmark == nil {
				v.Benchmark = &curve.Holding{}
			}
			v.Benchmark.CostBasis = c.benchCost
		}
	})
	return v, visitErr
}

// validate rejects the prices and benchmark a curve cannot be drawn from.
// Market assumptions are left to the pricing model, which reports them.
func (v *valuation) validate() error {
	if err := finite("low", v.Low); err != nil {
		return err
	}
	if err := finite("high", v.High); err != nil {
		return err
	}
	if v.Benchmark == nil {
		return nil
	}
	if err := finite("benchmark quantity", v.Benchmark.Quantity); err != nil {
		return err
	}
	return finite("benchmark cost basis", v.Benchmark.CostBasis)
}

func finite(name string, x float64) error {
	if math.IsNaN(x) || math.IsInf(x, 0) {
		return fmt.Errorf("%s must be a finite number, got %v", name, x)
	}
	return nil
}

// sweep returns the price range of the valuation. Without explicit bounds,
// it spans 50% to 150% of the reference price.
func (v *valuation) sweep(reference float64) curve.Sweep {
	s := curve.Sweep{Low: v.Low, High: v.High, Steps: v.Steps}
	if s.Low == 0 && s.High == 0 && reference > 0 {
		s.Low, s.High = reference*0.5, reference*1.5
	}
	return s
}

func (v *valuation) market() curve.Market {
	return curve.Market{AsOf: v.AsOf, Volatility: v.Volatility, Rate: v.Rate}
}

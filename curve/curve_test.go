package curve

import (
	"errors"
	"math"
	"slices"
	"testing"

	"github.com/etnz/optionpl"
	"github.com/etnz/optionpl/date"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func points(pl ...float64) []Point {
	c := make([]Point, len(pl))
	for i, v := range pl {
		c[i] = Point{Price: float64(i), ProfitLoss: v}
	}
	return c
}

func equalFloats(a, b []float64) bool {
	return slices.EqualFunc(a, b, func(x, y float64) bool { return math.Abs(x-y) < 1e-9 })
}

var expiration = date.New(2025, 6, 20)

func shortCall(strike, premium float64) optionpl.OptionPosition {
	return optionpl.OptionPosition{
		OptionID:   "XYZ-C",
		Ticker:     "XYZ",
		Kind:       optionpl.Call,
		Direction:  optionpl.Short,
		Strike:     optionpl.M(strike),
		Expiration: expiration,
		Quantity:   optionpl.Q(1),
		NetPremium: optionpl.M(premium),
	}
}

func longOption(kind optionpl.OptionKind, strike float64, contracts int, premium float64) optionpl.OptionPosition {
	return optionpl.OptionPosition{
		OptionID:   "XYZ-L-" + string(kind),
		Ticker:     "XYZ",
		Kind:       kind,
		Direction:  optionpl.Long,
		Strike:     optionpl.M(strike),
		Expiration: expiration,
		Quantity:   optionpl.Q(contracts),
		NetPremium: optionpl.M(-premium),
	}
}

func TestCostBasis(t *testing.T) {
	withCommission := shortCall(110, 200)
	withCommission.Commission = optionpl.M(1.3)
	testCases := []struct {
		name string
		pos  optionpl.Positions
		want float64
	}{
		{"empty", optionpl.Positions{}, 0},
		{"long premium adds to cost", optionpl.Positions{Options: []optionpl.OptionPosition{longOption(optionpl.Put, 100, 2, 600)}}, 600},
		{"short premium reduces cost", optionpl.Positions{Options: []optionpl.OptionPosition{shortCall(100, 500)}}, -500},
		{"shares, options and commission", optionpl.Positions{
			Shares:  []optionpl.SharePosition{{Ticker: "XYZ", Quantity: optionpl.Q(100), CostBasis: optionpl.M(10000)}},
			Options: []optionpl.OptionPosition{withCommission, longOption(optionpl.Call, 120, 1, 150)},
		}, 10000 - 200 + 1.3 + 150},
	}
	for _, tc := range testCases {
		if got := CostBasis(tc.pos); math.Abs(got-tc.want) > 1e-9 {
			t.Errorf("%s: CostBasis() = %v, want %v", tc.name, got, tc.want)
		}
	}
}

func TestSweep_Prices(t *testing.T) {
	testCases := []struct {
		sweep Sweep
		want  []float64
	}{
		{Sweep{Low: 250, High: 350, Steps: 2}, []float64{250, 300, 350}},
		{Sweep{Low: 0, High: 1, Steps: 4}, []float64{0, 0.25, 0.5, 0.75, 1}},
		{Sweep{Low: 10, High: 10, Steps: 5}, nil},
		{Sweep{Low: 20, High: 10, Steps: 5}, nil},
		{Sweep{Low: 10, High: 20, Steps: 0}, nil},
		{Sweep{Low: 10, High: math.Inf(1), Steps: 3}, nil},
	}
	for _, tc := range testCases {
		if got := tc.sweep.Prices(); !equalFloats(got, tc.want) {
			t.Errorf("%+v.Prices() = %v, want %v", tc.sweep, got, tc.want)
		}
	}
}

func TestBenchmark(t *testing.T) {
	got := Benchmark(200, 290, Sweep{Low: 250, High: 350, Steps: 2})
	want := []Point{{250, -8000}, {300, 2000}, {350, 12000}}
	if !slices.Equal(got, want) {
		t.Errorf("Benchmark() = %v, want %v", got, want)
	}

	if got := Benchmark(0, 290, Sweep{Low: 250, High: 350, Steps: 2}); got != nil {
		t.Errorf("Benchmark(0 shares) = %v, want nil", got)
	}
	if got := Benchmark(200, 290, Sweep{Low: 350, High: 250, Steps: 2}); got != nil {
		t.Errorf("Benchmark(inverted range) = %v, want nil", got)
	}
}

func TestExpiration_ShortCall(t *testing.T) {
	pos := optionpl.Positions{Options: []optionpl.OptionPosition{shortCall(100, 500)}}
	var g Generator
	got := g.Expiration(pos, Sweep{Low: 90, High: 110, Steps: 4})
	want := []Point{{90, 500}, {95, 500}, {100, 500}, {105, 0}, {110, -500}}
	if !slices.Equal(got, want) {
		t.Errorf("Expiration() = %v, want %v", got, want)
	}
	if be := Breakevens(got); !equalFloats(be, []float64{105}) {
		t.Errorf("Breakevens() = %v, want [105]", be)
	}
}

func TestExpiration_Long(t *testing.T) {
	sweep := Sweep{Low: 80, High: 120, Steps: 4}
	testCases := []struct {
		name       string
		option     optionpl.OptionPosition
		want       []Point
		breakevens []float64
	}{
		{
			name:       "put",
			option:     longOption(optionpl.Put, 100, 2, 600),
			want:       []Point{{80, 3400}, {90, 1400}, {100, -600}, {110, -600}, {120, -600}},
			breakevens: []float64{97},
		},
		{
			name:       "call",
			option:     longOption(optionpl.Call, 100, 1, 300),
			want:       []Point{{80, -300}, {90, -300}, {100, -300}, {110, 700}, {120, 1700}},
			breakevens: []float64{103},
		},
	}
	var g Generator
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got := g.Expiration(optionpl.Positions{Options: []optionpl.OptionPosition{tc.option}}, sweep)
			if !slices.Equal(got, tc.want) {
				t.Errorf("Expiration() = %v, want %v", got, tc.want)
			}
			if be := Breakevens(got); !equalFloats(be, tc.breakevens) {
				t.Errorf("Breakevens() = %v, want %v", be, tc.breakevens)
			}
		})
	}
}

func TestExpiration_CoveredCallAgainstBenchmark(t *testing.T) {
	pos := optionpl.Positions{
		Shares:  []optionpl.SharePosition{{Ticker: "XYZ", Quantity: optionpl.Q(100), CostBasis: optionpl.M(10000)}},
		Options: []optionpl.OptionPosition{shortCall(110, 200)},
	}
	sweep := Sweep{Low: 80, High: 140, Steps: 6}
	var g Generator
	exp := g.Expiration(pos, sweep)
	if exp[0].ProfitLoss != -1800 || exp[6].ProfitLoss != 1200 {
		t.Errorf("Expiration() ends = %v and %v, want -1800 and 1200", exp[0], exp[6])
	}

	crossings, err := FindCrossovers(exp, Benchmark(100, 100, sweep))
	if err != nil {
		t.Fatalf("FindCrossovers() error = %v", err)
	}
	if !equalFloats(crossings, []float64{112}) {
		t.Errorf("FindCrossovers() = %v, want [112]", crossings)
	}
}

func TestTheoretical_SharesOnly(t *testing.T) {
	pos := optionpl.Positions{
		Shares: []optionpl.SharePosition{{Ticker: "XYZ", Quantity: optionpl.Q(10), CostBasis: optionpl.M(505)}},
	}
	got := NewGenerator(nil).Theoretical(pos, Sweep{Low: 40, High: 60, Steps: 2}, Market{AsOf: expiration, Volatility: 0.3})
	want := []Point{{40, -105}, {50, -5}, {60, 95}}
	if !slices.Equal(got, want) {
		t.Errorf("Theoretical() = %v, want %v", got, want)
	}
}

func TestTheoretical_ExpiredMatchesExpiration(t *testing.T) {
	pos := optionpl.Positions{Options: []optionpl.OptionPosition{shortCall(100, 500)}}
	sweep := Sweep{Low: 80, High: 120, Steps: 8}
	var g Generator
	theo := g.Theoretical(pos, sweep, Market{AsOf: expiration.Add(1), Volatility: 0.25, Rate: 0.03})
	exp := g.Expiration(pos, sweep)
	if !slices.Equal(theo, exp) {
		t.Errorf("Theoretical() after expiration = %v, want %v", theo, exp)
	}
}

func TestTheoretical_TimeValue(t *testing.T) {
	pos := optionpl.Positions{Options: []optionpl.OptionPosition{shortCall(100, 500)}}
	sweep := Sweep{Low: 80, High: 120, Steps: 4}
	var g Generator
	theo := g.Theoretical(pos, sweep, Market{AsOf: expiration.Add(-90), Volatility: 0.3, Rate: 0.02})
	exp := g.Expiration(pos, sweep)
	for i := range theo {
		// a short option is worth less to its writer before expiration
		if !(theo[i].ProfitLoss < exp[i].ProfitLoss) {
			t.Errorf("at %v theoretical %v should be below expiration %v", theo[i].Price, theo[i].ProfitLoss, exp[i].ProfitLoss)
		}
	}
}

func TestTheoretical_LongTimeValue(t *testing.T) {
	sweep := Sweep{Low: 80, High: 120, Steps: 4}
	m := Market{AsOf: expiration.Add(-90), Volatility: 0.3}
	var g Generator
	for _, o := range []optionpl.OptionPosition{
		longOption(optionpl.Put, 100, 2, 600),
		longOption(optionpl.Call, 100, 1, 300),
	} {
		pos := optionpl.Positions{Options: []optionpl.OptionPosition{o}}
		theo := g.Theoretical(pos, sweep, m)
		exp := g.Expiration(pos, sweep)
		for i := range theo {
			// a long option is worth more to its holder before expiration
			if !(theo[i].ProfitLoss > exp[i].ProfitLoss) {
				t.Errorf("%s at %v: theoretical %v should be above expiration %v", o.Kind, theo[i].Price, theo[i].ProfitLoss, exp[i].ProfitLoss)
			}
		}
	}
}

func TestTheoretical_PricingFailure(t *testing.T) {
	core, logs := observer.New(zapcore.WarnLevel)
	g := NewGenerator(zap.New(core))
	pos := optionpl.Positions{Options: []optionpl.OptionPosition{shortCall(100, 500)}}

	got := g.Theoretical(pos, Sweep{Low: 90, High: 110, Steps: 4}, Market{AsOf: expiration.Add(-30), Volatility: 0})
	for _, p := range got {
		if p.ProfitLoss != 500 {
			t.Errorf("unpriceable contract should count for zero, got %v", p)
		}
	}
	if n := logs.FilterMessage("pricing failure").Len(); n != 1 {
		t.Errorf("logged %d pricing failures, want 1", n)
	}
}

func TestFindCrossovers(t *testing.T) {
	testCases := []struct {
		name string
		a, b []Point
		want []float64
	}{
		{"identical", points(1, -2, 3), points(1, -2, 3), nil},
		{"constant offset", points(1, 2, 3), points(11, 12, 13), nil},
		{"single crossing", points(-1, 1), points(0, 0), []float64{0.5}},
		{"interpolated", points(-3, 1, 5), points(0, 0, 0), []float64{0.75}},
		{"through a sample", points(-2, 0, 2), points(0, 0, 0), []float64{1}},
		{"touching", points(-2, 0, -2), points(0, 0, 0), []float64{1}},
		{"leading zero", points(0, 1, 2), points(0, 0, 0), nil},
		{"leading zero then crossing", points(0, -1, 1), points(0, 0, 0), []float64{1.5}},
		{"two crossings", points(1, -1, 1), points(0, 0, 0), []float64{0.5, 1.5}},
		{"single point", points(-1), points(1), nil},
		{"empty", nil, nil, nil},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := FindCrossovers(tc.a, tc.b)
			if err != nil {
				t.Fatalf("FindCrossovers() error = %v", err)
			}
			if !equalFloats(got, tc.want) {
				t.Errorf("FindCrossovers() = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestFindCrossovers_Mismatched(t *testing.T) {
	if _, err := FindCrossovers(points(1, 2), points(1, 2, 3)); !errors.Is(err, ErrMismatchedCurves) {
		t.Errorf("different lengths: error = %v, want ErrMismatchedCurves", err)
	}
	shifted := points(1, 2)
	shifted[1].Price = 1.5
	if _, err := FindCrossovers(points(1, 2), shifted); !errors.Is(err, ErrMismatchedCurves) {
		t.Errorf("different prices: error = %v, want ErrMismatchedCurves", err)
	}
}

func TestGenerator_Analyze(t *testing.T) {
	pos := optionpl.Positions{
		Shares:  []optionpl.SharePosition{{Ticker: "XYZ", Quantity: optionpl.Q(100), CostBasis: optionpl.M(10000)}},
		Options: []optionpl.OptionPosition{shortCall(110, 200)},
	}
	sweep := Sweep{Low: 80, High: 140, Steps: 6}
	m := Market{AsOf: expiration.Add(-30), Volatility: 0.3, Rate: 0.01}
	var g Generator

	a, err := g.Analyze(pos, sweep, m, &Holding{Quantity: 100, CostBasis: 100})
	if err != nil {
		t.Fatalf("Analyze() error = %v", err)
	}
	if len(a.Theoretical) != 7 || len(a.Expiration) != 7 || len(a.Benchmark) != 7 {
		t.Fatalf("Analyze() curves have %d, %d and %d points, want 7", len(a.Theoretical), len(a.Expiration), len(a.Benchmark))
	}
	if !equalFloats(a.Crossovers, []float64{112}) {
		t.Errorf("Crossovers = %v, want [112]", a.Crossovers)
	}
	// 100p - 9800 crosses zero at 98
	if !equalFloats(a.Breakevens, []float64{98}) {
		t.Errorf("Breakevens = %v, want [98]", a.Breakevens)
	}

	a, err = g.Analyze(pos, sweep, m, nil)
	if err != nil {
		t.Fatalf("Analyze() error = %v", err)
	}
	if a.Benchmark != nil || a.Crossovers != nil {
		t.Errorf("Analyze() without benchmark = %v and %v, want nil", a.Benchmark, a.Crossovers)
	}
}

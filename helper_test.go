package optionpl

import (
	"testing"

	"github.com/etnz/optionpl/date"
)

// day is a helper for tests to create a date from a const.
func day(s string) date.Date { return date.MustParse(s) }

// assertMoney fails the test if got is not want.
func assertMoney(t *testing.T, what string, got Money, want float64) {
	t.Helper()
	if !got.Equal(M(want)) {
		t.Errorf("%s = %v, want %v", what, got, want)
	}
}

// assertIssues fails the test unless s holds exactly these kinds of issues, in order.
func assertIssues(t *testing.T, s *State, kinds ...IssueKind) {
	t.Helper()
	if len(s.Issues) != len(kinds) {
		t.Fatalf("got %d issues %v, want %v", len(s.Issues), s.Issues, kinds)
	}
	for i, k := range kinds {
		if s.Issues[i].Kind != k {
			t.Errorf("issue #%d is %v, want %v", i, s.Issues[i], k)
		}
	}
}

// buy, sell, open and friends build transactions on ticker XYZ without id
// nor commission.
func buy(on string, qty, price float64) BuyShare {
	return NewBuyShare(day(on), "", "XYZ", Q(qty), M(price), Money{})
}

func sell(on string, qty, price float64) SellShare {
	return NewSellShare(day(on), "", "XYZ", Q(qty), M(price), Money{})
}

func open(on, id string, kind OptionKind, dir Direction, strike, qty, premium float64) OpenOption {
	return NewOpenOption(day(on), "", "XYZ", id, kind, dir, M(strike), day("2025-06-20"), Q(qty), M(premium), Money{})
}

func closeOpt(on, id string, qty, premium float64) CloseOption {
	return NewCloseOption(day(on), "", "XYZ", id, Q(qty), M(premium), Money{})
}

func expire(on, id string, qty float64) ExpireOption {
	return NewExpireOption(day(on), "", "XYZ", id, Q(qty))
}

func assign(on, id string, qty float64) AssignOrExercise {
	return NewAssignOrExercise(day(on), "", "XYZ", id, Q(qty), Money{}, Money{})
}

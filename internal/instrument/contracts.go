package instrument

import (
	"sort"
	"time"

	"github.com/rxtech-lab/argo-history/internal/types"
)

// OrderedContracts is the chain of futures contracts of one root symbol,
// ordered by auto close date.
type OrderedContracts struct {
	root      string
	contracts []types.Instrument
}

// NewOrderedContracts sorts the contracts of a root by auto close date.
// Contracts sharing an auto close date are ordered by symbol.
func NewOrderedContracts(root string, contracts []types.Instrument) *OrderedContracts {
	sorted := make([]types.Instrument, len(contracts))
	copy(sorted, contracts)

	sort.SliceStable(sorted, func(i, j int) bool {
		a, b := sorted[i].Future.AutoCloseDate, sorted[j].Future.AutoCloseDate
		if a.Equal(b) {
			return sorted[i].Symbol < sorted[j].Symbol
		}

		return a.Before(b)
	})

	return &OrderedContracts{
		root:      root,
		contracts: sorted,
	}
}

// RootSymbol returns the root of the chain.
func (oc *OrderedContracts) RootSymbol() string {
	return oc.root
}

// Contracts returns the chain in auto close order.
func (oc *OrderedContracts) Contracts() []types.Instrument {
	return oc.contracts
}

// Len returns the number of contracts in the chain.
func (oc *OrderedContracts) Len() int {
	return len(oc.contracts)
}

// StartDate is the earliest start date of any contract in the chain.
func (oc *OrderedContracts) StartDate() time.Time {
	var start time.Time

	for _, c := range oc.contracts {
		if start.IsZero() || (!c.StartDate.IsZero() && c.StartDate.Before(start)) {
			start = c.StartDate
		}
	}

	return start
}

// EndDate is the latest end date of any contract in the chain.
func (oc *OrderedContracts) EndDate() time.Time {
	var end time.Time

	for _, c := range oc.contracts {
		if c.EndDate.After(end) {
			end = c.EndDate
		}
	}

	return end
}

// PrimaryIndex returns the index of the contract with the next upcoming auto
// close date as of session. A contract stops being primary on its auto close date.
// It returns Len() when every contract has auto closed.
func (oc *OrderedContracts) PrimaryIndex(session time.Time) int {
	session = types.NormalizeSession(session)

	return sort.Search(len(oc.contracts), func(i int) bool {
		return oc.contracts[i].Future.AutoCloseDate.After(session)
	})
}

// ContractBeforeAutoClose returns the contract with the next upcoming auto close
// date as of session.
func (oc *OrderedContracts) ContractBeforeAutoClose(session time.Time) (types.Instrument, bool) {
	idx := oc.PrimaryIndex(session)
	if idx >= len(oc.contracts) {
		return types.Instrument{}, false
	}

	return oc.contracts[idx], true
}

// ContractAtOffset returns the contract offset positions after the primary one as of session.
func (oc *OrderedContracts) ContractAtOffset(session time.Time, offset int) (types.Instrument, bool) {
	idx := oc.PrimaryIndex(session) + offset
	if offset < 0 || idx >= len(oc.contracts) {
		return types.Instrument{}, false
	}

	return oc.contracts[idx], true
}

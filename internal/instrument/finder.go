package instrument

import (
	"fmt"
	"sort"
	"sync"

	"github.com/rxtech-lab/argo-history/internal/types"
	"github.com/rxtech-lab/argo-history/pkg/errors"
)

// Finder resolves symbols into instrument metadata.
type Finder interface {
	// Retrieve resolves a single symbol.
	Retrieve(symbol string) (types.Instrument, error)
	// RetrieveAll resolves a batch of symbols, preserving order.
	// Every unresolved symbol is reported in one SymbolsNotFoundError.
	RetrieveAll(symbols []string) ([]types.Instrument, error)
	// LookupKinds returns the kind of each symbol; unknown symbols map to KindUnknown.
	LookupKinds(symbols []string) map[string]types.InstrumentKind
	// OrderedContracts returns the futures chain for a root symbol.
	OrderedContracts(root string) (*OrderedContracts, error)
}

// InMemoryFinder is a Finder over a fixed set of instruments.
type InMemoryFinder struct {
	instruments map[string]types.Instrument
	chains      map[string]*OrderedContracts
	mu          sync.RWMutex
}

// NewInMemoryFinder creates a finder seeded with the given instruments.
func NewInMemoryFinder(instruments ...types.Instrument) *InMemoryFinder {
	f := &InMemoryFinder{
		instruments: make(map[string]types.Instrument, len(instruments)),
		chains:      make(map[string]*OrderedContracts),
		mu:          sync.RWMutex{},
	}

	for _, instrument := range instruments {
		f.instruments[instrument.Symbol] = instrument
	}

	return f
}

// Add registers instruments, replacing existing entries with the same symbol.
// Cached futures chains of affected roots are dropped.
func (f *InMemoryFinder) Add(instruments ...types.Instrument) {
	f.mu.Lock()
	defer f.mu.Unlock()

	for _, instrument := range instruments {
		f.instruments[instrument.Symbol] = instrument
		if instrument.Future != nil {
			delete(f.chains, instrument.Future.RootSymbol)
		}
	}
}

// Retrieve implements Finder.
func (f *InMemoryFinder) Retrieve(symbol string) (types.Instrument, error) {
	f.mu.RLock()
	defer f.mu.RUnlock()

	instrument, ok := f.instruments[symbol]
	if !ok {
		return types.Instrument{}, errors.NewSymbolsNotFoundError([]string{symbol})
	}

	return instrument, nil
}

// RetrieveAll implements Finder.
func (f *InMemoryFinder) RetrieveAll(symbols []string) ([]types.Instrument, error) {
	f.mu.RLock()
	defer f.mu.RUnlock()

	out := make([]types.Instrument, len(symbols))

	var missing []string

	for i, symbol := range symbols {
		instrument, ok := f.instruments[symbol]
		if !ok {
			missing = append(missing, symbol)

			continue
		}

		out[i] = instrument
	}

	if len(missing) > 0 {
		return nil, errors.NewSymbolsNotFoundError(missing)
	}

	return out, nil
}

// LookupKinds implements Finder.
func (f *InMemoryFinder) LookupKinds(symbols []string) map[string]types.InstrumentKind {
	f.mu.RLock()
	defer f.mu.RUnlock()

	out := make(map[string]types.InstrumentKind, len(symbols))
	for _, symbol := range symbols {
		out[symbol] = f.instruments[symbol].Kind
	}

	return out
}

// OrderedContracts implements Finder.
func (f *InMemoryFinder) OrderedContracts(root string) (*OrderedContracts, error) {
	f.mu.RLock()
	oc, ok := f.chains[root]
	f.mu.RUnlock()

	if ok {
		return oc, nil
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	var contracts []types.Instrument

	for _, instrument := range f.instruments {
		if instrument.Kind == types.KindFuture && instrument.Future != nil && instrument.Future.RootSymbol == root {
			contracts = append(contracts, instrument)
		}
	}

	if len(contracts) == 0 {
		return nil, errors.Newf(errors.ErrCodeContractChainNotFound, "no futures contracts found for root symbol %s", root)
	}

	oc = NewOrderedContracts(root, contracts)
	f.chains[root] = oc

	return oc, nil
}

// CreateContinuousFuture registers and returns the continuous future for a chain.
func (f *InMemoryFinder) CreateContinuousFuture(root string, offset int, rollStyle types.RollStyle, style types.AdjustmentStyle) (types.Instrument, error) {
	if !style.Valid() {
		return types.Instrument{}, errors.Newf(errors.ErrCodeInvalidAdjustmentStyle,
			"invalid adjustment style %q, allowed adjustment styles are %q, %q and %q",
			style, types.AdjustmentStyleNone, types.AdjustmentStyleMultiply, types.AdjustmentStyleAdd)
	}

	oc, err := f.OrderedContracts(root)
	if err != nil {
		return types.Instrument{}, err
	}

	head := oc.Contracts()[0]
	cf := types.Instrument{
		Symbol:     ContinuousFutureSymbol(root, offset, rollStyle, style),
		Kind:       types.KindContinuousFuture,
		Name:       fmt.Sprintf("%s continuous (offset %d)", root, offset),
		Exchange:   head.Exchange,
		TickSize:   head.TickSize,
		Multiplier: head.Multiplier,
		StartDate:  oc.StartDate(),
		EndDate:    oc.EndDate(),
		Continuous: &types.ContinuousDetail{
			RootSymbol:      root,
			Offset:          offset,
			RollStyle:       rollStyle,
			AdjustmentStyle: style,
		},
	}

	f.Add(cf)

	return cf, nil
}

// ContinuousFutureSymbol builds the identifier of a continuous future.
func ContinuousFutureSymbol(root string, offset int, rollStyle types.RollStyle, style types.AdjustmentStyle) string {
	symbol := fmt.Sprintf("%s_%d_%s", root, offset, rollStyle)
	if style != types.AdjustmentStyleNone {
		symbol += "_" + string(style)
	}

	return symbol
}

// SortedSymbols returns every registered symbol in lexical order.
func (f *InMemoryFinder) SortedSymbols() []string {
	f.mu.RLock()
	defer f.mu.RUnlock()

	out := make([]string, 0, len(f.instruments))
	for symbol := range f.instruments {
		out = append(out, symbol)
	}

	sort.Strings(out)

	return out
}

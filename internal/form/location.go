package form

import "context"

// LocationLookup is the hierarchical lookup service the wizard consumes to
// populate dependent dropdowns. Unknown inputs yield empty lists, not errors.
type LocationLookup interface {
	GetStates(ctx context.Context, country string) ([]string, error)
	GetCities(ctx context.Context, state string) ([]string, error)
}

// SelectStatus is the lifecycle of a dependent dropdown.
type SelectStatus int

const (
	// SelectIdle: nothing selected upstream, control disabled.
	SelectIdle SelectStatus = iota
	// SelectLoading: a lookup is pending, control shows a placeholder and is
	// not selectable.
	SelectLoading
	// SelectReady: options are populated.
	SelectReady
	// SelectFailed: the lookup errored or timed out; the control shows an
	// explicit error option instead of sitting silently empty.
	SelectFailed
)

// SelectState is one dependent dropdown's visible state.
type SelectState struct {
	Status  SelectStatus
	Options []string
}

// LookupToken identifies one issued lookup. Zero means no lookup was issued.
type LookupToken uint64

// DependentSelects models the country → state → city chain. Each upstream
// change supersedes any in-flight lookup for the controls below it: the
// token issued last wins, and resolutions carrying a stale token are
// discarded, so a slow response can never repopulate the wrong list.
type DependentSelects struct {
	stateSeq uint64
	citySeq  uint64

	State SelectState
	City  SelectState
}

// CountryChanged clears and disables state and city and issues a state
// lookup. An empty country just resets both controls.
func (d *DependentSelects) CountryChanged(country string) LookupToken {
	d.citySeq++
	d.City = SelectState{Status: SelectIdle}

	d.stateSeq++
	if country == "" {
		d.State = SelectState{Status: SelectIdle}
		return 0
	}
	d.State = SelectState{Status: SelectLoading}
	return LookupToken(d.stateSeq)
}

// ResolveStates applies a state-lookup result. It reports false and changes
// nothing when the token has been superseded.
func (d *DependentSelects) ResolveStates(tok LookupToken, states []string, err error) bool {
	if tok == 0 || uint64(tok) != d.stateSeq {
		return false
	}
	if err != nil {
		d.State = SelectState{Status: SelectFailed}
	} else {
		d.State = SelectState{Status: SelectReady, Options: states}
	}
	return true
}

// StateChanged clears and disables city and issues a city lookup. An empty
// state just resets the control.
func (d *DependentSelects) StateChanged(state string) LookupToken {
	d.citySeq++
	if state == "" {
		d.City = SelectState{Status: SelectIdle}
		return 0
	}
	d.City = SelectState{Status: SelectLoading}
	return LookupToken(d.citySeq)
}

// ResolveCities applies a city-lookup result, discarding stale tokens.
func (d *DependentSelects) ResolveCities(tok LookupToken, cities []string, err error) bool {
	if tok == 0 || uint64(tok) != d.citySeq {
		return false
	}
	if err != nil {
		d.City = SelectState{Status: SelectFailed}
	} else {
		d.City = SelectState{Status: SelectReady, Options: cities}
	}
	return true
}

// FetchStates runs the issued state lookup through lk and applies the result.
// A superseded or zero token leaves the chain untouched and reports false.
func (d *DependentSelects) FetchStates(ctx context.Context, lk LocationLookup, tok LookupToken, country string) bool {
	if tok == 0 {
		return false
	}
	states, err := lk.GetStates(ctx, country)
	return d.ResolveStates(tok, states, err)
}

// FetchCities is FetchStates for the city control.
func (d *DependentSelects) FetchCities(ctx context.Context, lk LocationLookup, tok LookupToken, state string) bool {
	if tok == 0 {
		return false
	}
	cities, err := lk.GetCities(ctx, state)
	return d.ResolveCities(tok, cities, err)
}

// Locations exposes the wizard's dependent dropdown chain.
func (w *Wizard) Locations() *DependentSelects { return &w.loc }

// SelectCountry records the country value, clears the dependent state and
// city values, and issues a state lookup through the chain.
func (w *Wizard) SelectCountry(country string) LookupToken {
	w.SetValue("country", country)
	w.SetValue("state")
	w.SetValue("city")
	return w.loc.CountryChanged(country)
}

// SelectState records the state value, clears the dependent city value, and
// issues a city lookup through the chain.
func (w *Wizard) SelectState(state string) LookupToken {
	w.SetValue("state", state)
	w.SetValue("city")
	return w.loc.StateChanged(state)
}

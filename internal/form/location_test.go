package form

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDependentSelects_HappyChain(t *testing.T) {
	var d DependentSelects

	tok := d.CountryChanged("India")
	assert.Equal(t, SelectLoading, d.State.Status)
	assert.Equal(t, SelectIdle, d.City.Status)

	require.True(t, d.ResolveStates(tok, []string{"Karnataka", "Kerala"}, nil))
	assert.Equal(t, SelectReady, d.State.Status)
	assert.Equal(t, []string{"Karnataka", "Kerala"}, d.State.Options)

	ctok := d.StateChanged("Karnataka")
	assert.Equal(t, SelectLoading, d.City.Status)
	require.True(t, d.ResolveCities(ctok, []string{"Bengaluru"}, nil))
	assert.Equal(t, SelectReady, d.City.Status)
}

func TestDependentSelects_StaleResponseDiscarded(t *testing.T) {
	var d DependentSelects

	first := d.CountryChanged("India")
	second := d.CountryChanged("Nepal")

	// The slow first response arrives after being superseded: dropped.
	assert.False(t, d.ResolveStates(first, []string{"Karnataka"}, nil))
	assert.Equal(t, SelectLoading, d.State.Status)

	require.True(t, d.ResolveStates(second, []string{"Bagmati"}, nil))
	assert.Equal(t, []string{"Bagmati"}, d.State.Options)
}

func TestDependentSelects_CountryChangeSupersedesCityLookup(t *testing.T) {
	var d DependentSelects

	tok := d.CountryChanged("India")
	d.ResolveStates(tok, []string{"Karnataka"}, nil)
	ctok := d.StateChanged("Karnataka")

	// Changing country while the city lookup is in flight invalidates it.
	d.CountryChanged("Nepal")
	assert.False(t, d.ResolveCities(ctok, []string{"Bengaluru"}, nil))
	assert.Equal(t, SelectIdle, d.City.Status)
}

func TestDependentSelects_LookupFailure(t *testing.T) {
	var d DependentSelects

	tok := d.CountryChanged("India")
	require.True(t, d.ResolveStates(tok, nil, errors.New("lookup timed out")))
	assert.Equal(t, SelectFailed, d.State.Status, "failure is an explicit error state, not a silent empty list")
}

func TestDependentSelects_ClearedCountry(t *testing.T) {
	var d DependentSelects

	d.CountryChanged("India")
	tok := d.CountryChanged("")
	assert.Equal(t, LookupToken(0), tok)
	assert.Equal(t, SelectIdle, d.State.Status)
}

func TestWizard_SelectCountryClearsDependents(t *testing.T) {
	w := NewWizard(VendorForm())
	w.SetValue("state", "Karnataka")
	w.SetValue("city", "Bengaluru")

	tok := w.SelectCountry("India")
	assert.NotEqual(t, LookupToken(0), tok)
	assert.Empty(t, w.Values()["state"])
	assert.Empty(t, w.Values()["city"])

	w.Locations().ResolveStates(tok, []string{"Karnataka"}, nil)
	w.SelectState("Karnataka")
	assert.Empty(t, w.Values()["city"])
	assert.Equal(t, []string{"Karnataka"}, w.Values()["state"])
}

type fakeLookup struct {
	states map[string][]string
	cities map[string][]string
	err    error
}

func (f fakeLookup) GetStates(_ context.Context, country string) ([]string, error) {
	return f.states[country], f.err
}

func (f fakeLookup) GetCities(_ context.Context, state string) ([]string, error) {
	return f.cities[state], f.err
}

func TestDependentSelects_FetchChain(t *testing.T) {
	ctx := context.Background()
	lk := fakeLookup{
		states: map[string][]string{"India": {"Karnataka"}},
		cities: map[string][]string{"Karnataka": {"Bengaluru", "Mysuru"}},
	}

	var d DependentSelects
	tok := d.CountryChanged("India")
	require.True(t, d.FetchStates(ctx, lk, tok, "India"))
	assert.Equal(t, []string{"Karnataka"}, d.State.Options)

	ctok := d.StateChanged("Karnataka")
	require.True(t, d.FetchCities(ctx, lk, ctok, "Karnataka"))
	assert.Equal(t, []string{"Bengaluru", "Mysuru"}, d.City.Options)
}

func TestDependentSelects_FetchSupersededTokenDiscarded(t *testing.T) {
	ctx := context.Background()
	lk := fakeLookup{states: map[string][]string{"India": {"Karnataka"}}}

	var d DependentSelects
	stale := d.CountryChanged("India")
	d.CountryChanged("Nepal")

	assert.False(t, d.FetchStates(ctx, lk, stale, "India"))
	assert.Equal(t, SelectLoading, d.State.Status)
}

func TestDependentSelects_FetchFailure(t *testing.T) {
	ctx := context.Background()
	lk := fakeLookup{err: errors.New("lookup down")}

	var d DependentSelects
	tok := d.CountryChanged("India")
	require.True(t, d.FetchStates(ctx, lk, tok, "India"))
	assert.Equal(t, SelectFailed, d.State.Status)
}

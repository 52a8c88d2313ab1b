package session

import (
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"clinicsetup/domain/core"
	"clinicsetup/domain/record"
)

func TestAggregateStartsEmpty(t *testing.T) {
	a := NewAggregate("s1")

	for _, name := range []string{"business_information", "clinic_locations", "staff", "services", "equipment", "resources", "inventory", "packages", "memberships"} {
		c, err := a.Get(name)
		require.NoError(t, err, name)
		assert.NotNil(t, c, name)
		assert.Empty(t, c, name)
	}
	assert.Equal(t, StepPreSetup, a.CurrentStep())
}

func TestAggregateReplaceCopies(t *testing.T) {
	a := NewAggregate("s1")
	records := record.Collection{{"membership_name": "Gold", "tags": []string{"a"}}}

	require.NoError(t, a.Replace("memberships", records))

	records[0]["membership_name"] = "Changed"
	records[0]["tags"].([]string)[0] = "z"

	got, err := a.Get("memberships")
	require.NoError(t, err)
	assert.Equal(t, "Gold", got[0]["membership_name"])
	assert.Equal(t, []string{"a"}, got[0]["tags"])

	got[0]["membership_name"] = "Mutated"
	again, err := a.Get("memberships")
	require.NoError(t, err)
	assert.Equal(t, "Gold", again[0]["membership_name"])
}

func TestAggregateUnknownDomain(t *testing.T) {
	a := NewAggregate("s1")

	err := a.Replace("payroll", record.Collection{})
	assert.True(t, errors.Is(err, core.ErrUnknownDomain))

	_, err = a.Get("payroll")
	assert.True(t, errors.Is(err, core.ErrUnknownDomain))
}

func TestAggregateReplaceAllIsAtomic(t *testing.T) {
	a := NewAggregate("s1")

	err := a.ReplaceAll(map[string]record.Collection{
		"equipment": {{"name": "Laser"}},
		"payroll":   {{"name": "x"}},
	})
	require.Error(t, err)

	got, err := a.Get("equipment")
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestAggregateSteps(t *testing.T) {
	a := NewAggregate("s1")

	require.NoError(t, a.SetStep("inventory"))
	assert.Equal(t, "inventory", a.CurrentStep())

	err := a.SetStep("checkout")
	assert.True(t, errors.Is(err, core.ErrInvalidInput))
	assert.Equal(t, "inventory", a.CurrentStep())
}

func TestAggregateCompletePreSetup(t *testing.T) {
	a := NewAggregate("s1")

	err := a.CompletePreSetup(map[string]record.Collection{
		"services": {{"service_name": "Facial"}},
	})
	require.NoError(t, err)

	snap := a.Snapshot()
	assert.True(t, snap.PreSetupDone)
	assert.Equal(t, "business_information", snap.CurrentStep)
	assert.Len(t, snap.Collections["services"], 1)
	assert.Len(t, snap.Collections, 9)
}

func TestAggregateConcurrentAccess(t *testing.T) {
	a := NewAggregate("s1")

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(2)
		go func(i int) {
			defer wg.Done()
			_ = a.Replace("services", record.Collection{{"n": float64(i)}})
		}(i)
		go func() {
			defer wg.Done()
			_, _ = a.Get("services")
		}()
	}
	wg.Wait()

	got, err := a.Get("services")
	require.NoError(t, err)
	assert.Len(t, got, 1)
}

func TestStore(t *testing.T) {
	s := NewStore()

	a := s.Create()
	require.NotEmpty(t, a.ID())

	got, err := s.Get(a.ID())
	require.NoError(t, err)
	assert.Same(t, a, got)
	assert.Equal(t, []string{a.ID()}, s.IDs())

	s.Delete(a.ID())
	_, err = s.Get(a.ID())
	assert.True(t, errors.Is(err, core.ErrNotFound))
}

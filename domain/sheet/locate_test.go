package sheet

import (
	"errors"
	"testing"

	"clinicsetup/domain/core"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var equipmentHeaders = HeaderSpec{
	Kind: "Equipment",
	Labels: []string{
		"Name of Device",
		"Which Clinic houses this device?",
		"What is the schedule for this device?",
	},
}

func TestLocateFindsScatteredLabelsAfterInstructions(t *testing.T) {
	s := &RawSheet{Name: "Equipment", Rows: []Row{
		{"Fill in one device per row", nil},
		{nil, nil, nil},
		{"Notes", "What is the schedule for this device?", nil, "Name of  Device ", "  Which Clinic houses\tthis device?"},
		{"Laser", "Mon-Fri 9-5", nil, "Laser", "Downtown"},
	}}

	idx, err := Locate(s, equipmentHeaders)
	require.NoError(t, err)
	assert.Equal(t, 2, idx)
}

func TestLocateFirstQualifyingRowWins(t *testing.T) {
	header := Row{"Name", "Category"}
	s := &RawSheet{Rows: []Row{{"intro"}, header, {"A", "B"}, header}}

	idx, err := Locate(s, HeaderSpec{Kind: "Inventory", Labels: []string{"Category", "Name"}})
	require.NoError(t, err)
	assert.Equal(t, 1, idx)
}

func TestLocateIsCaseSensitive(t *testing.T) {
	s := &RawSheet{Rows: []Row{{"name", "category"}}}

	_, err := Locate(s, HeaderSpec{Kind: "Inventory", Labels: []string{"Name", "Category"}})
	require.Error(t, err)
	assert.True(t, errors.Is(err, core.ErrHeaderNotFound))
}

func TestLocateHeaderNotFound(t *testing.T) {
	s := &RawSheet{Name: "Sheet1", Rows: []Row{{"foo", "bar"}}}

	idx, err := Locate(s, HeaderSpec{Kind: "Inventory", Labels: []string{"Name", "Category"}})
	assert.Equal(t, -1, idx)
	require.Error(t, err)
	assert.True(t, errors.Is(err, core.ErrHeaderNotFound))

	var notFound *HeaderNotFoundError
	require.True(t, errors.As(err, &notFound))
	assert.Equal(t, "Inventory", notFound.Kind)
	assert.ElementsMatch(t, []string{"Name", "Category"}, notFound.Missing)
	assert.Contains(t, err.Error(), "Inventory")
}

func TestLocateReportsClosestCandidate(t *testing.T) {
	s := &RawSheet{Rows: []Row{
		{"Name"},
		{"Name", "Category", "Price"},
	}}

	_, err := Locate(s, HeaderSpec{Kind: "Inventory", Labels: []string{"Name", "Category", "Price", "Tax"}})
	var notFound *HeaderNotFoundError
	require.True(t, errors.As(err, &notFound))
	assert.Equal(t, []string{"Tax"}, notFound.Missing)
}

func TestLocateEmptySheet(t *testing.T) {
	_, err := Locate(&RawSheet{}, HeaderSpec{Kind: "Staff", Labels: []string{"First Name"}})
	assert.True(t, errors.Is(err, core.ErrHeaderNotFound))

	_, err = Locate(&RawSheet{}, HeaderSpec{Kind: "Staff"})
	assert.True(t, errors.Is(err, core.ErrHeaderNotFound))
}

func TestLocateMatchesNumericHeaderCells(t *testing.T) {
	s := &RawSheet{Rows: []Row{{"Year", 2024.0}}}

	idx, err := Locate(s, HeaderSpec{Kind: "Report", Labels: []string{"2024", "Year"}})
	require.NoError(t, err)
	assert.Equal(t, 0, idx)
}

func TestNormalizeLabel(t *testing.T) {
	assert.Equal(t, "Which Clinic houses this device?", NormalizeLabel("  Which   Clinic\nhouses this device? "))
	assert.Equal(t, "", NormalizeLabel(" \t "))
}

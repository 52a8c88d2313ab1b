package sheet

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFilterDropsOnlyBlankRows(t *testing.T) {
	rows := []Row{
		{"Gold", 100.0},
		{nil, "", "   "},
		{},
		{nil, 0.0},
		{false},
		{"", "Silver"},
	}

	got := Filter(rows)

	assert.Equal(t, []Row{
		{"Gold", 100.0},
		{nil, 0.0},
		{false},
		{"", "Silver"},
	}, got)
	for _, row := range got {
		assert.False(t, IsBlankRow(row))
	}
}

func TestFilterEmptyInput(t *testing.T) {
	assert.Empty(t, Filter(nil))
}

func TestSliceWithHeaderSpec(t *testing.T) {
	s := &RawSheet{Rows: []Row{
		{"Inventory template"},
		{"Category", "Product Name"},
		{nil, nil},
		{"Skincare", "Serum"},
	}}

	table, err := Slice(s, HeaderSpec{Kind: "Inventory", Labels: []string{"Category", "Product Name"}})
	require.NoError(t, err)
	assert.Equal(t, 1, table.HeaderIndex)
	assert.Equal(t, Row{"Category", "Product Name"}, table.Header)
	assert.Equal(t, []Row{{"Skincare", "Serum"}}, table.Rows)
}

func TestSliceHeaderless(t *testing.T) {
	s := &RawSheet{Rows: []Row{
		{nil},
		{"Membership Name", "Monthly Fee"},
		{"Gold", 100.0},
		{"", nil},
	}}

	table, err := Slice(s, HeaderSpec{Kind: "Memberships"})
	require.NoError(t, err)
	assert.Equal(t, "Memberships", table.Kind)
	assert.Equal(t, Row{"Membership Name", "Monthly Fee"}, table.Header)
	assert.Equal(t, []Row{{"Gold", 100.0}}, table.Rows)
}

func TestSliceHeaderlessBlankSheet(t *testing.T) {
	table, err := Slice(&RawSheet{Rows: []Row{{nil}}}, HeaderSpec{Kind: "Services"})
	require.NoError(t, err)
	assert.Empty(t, table.Header)
	assert.NotNil(t, table.Rows)
	assert.Empty(t, table.Rows)
}

func TestWorkbookSheetLookup(t *testing.T) {
	wb := &Workbook{Sheets: []*RawSheet{{Name: "Equipment"}, {Name: " resources "}}}

	s, ok := wb.SheetByName("Resources")
	require.True(t, ok)
	assert.Equal(t, " resources ", s.Name)

	_, ok = wb.SheetByName("Staff")
	assert.False(t, ok)

	s, ok = wb.SheetAt(0)
	require.True(t, ok)
	assert.Equal(t, "Equipment", s.Name)

	_, ok = wb.SheetAt(2)
	assert.False(t, ok)
	assert.Equal(t, []string{"Equipment", " resources "}, wb.SheetNames())
}

package dataset

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rotisserie/eris"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testHeader = "area_code,area_name,num_pubs,pop,pubs_per_capita,country,median_pay_2017,area_sqkm,coastal,pop_dens,life_exp_female,life_exp_male"

func testCSV(rows ...string) string {
	return testHeader + "\n" + strings.Join(rows, "\n") + "\n"
}

func TestRead(t *testing.T) {
	csv := testCSV(
		"E06000001,Hartlepool,40,93242,0.00042899,England,479.9,93.56,Coastal,996.6,81.2,77.2",
		"N09000003,Belfast,215,341877,0.00062888,Northern Ireland,NA,132.54,NA,2579.4,81.5,76.9",
		"E06000053,Isles of Scilly,7,2242,0.00312221,England,NA,16.33,Coastal,137.3,NA,NA",
	)

	obs, err := Read(strings.NewReader(csv))
	require.NoError(t, err)
	require.Len(t, obs, 3)

	hartlepool := obs[0]
	assert.Equal(t, "E06000001", hartlepool.AreaCode)
	assert.Equal(t, "Hartlepool", hartlepool.AreaName)
	assert.Equal(t, 40, hartlepool.NumPubs)
	assert.Equal(t, 93242, hartlepool.Population)
	assert.Equal(t, England, hartlepool.Country)
	assert.Equal(t, CoastalCoastal, hartlepool.Coastal)
	require.NotNil(t, hartlepool.MedianPay2017)
	assert.InDelta(t, 479.9, *hartlepool.MedianPay2017, 1e-9)

	belfast := obs[1]
	assert.Equal(t, NorthernIreland, belfast.Country)
	assert.Nil(t, belfast.MedianPay2017)
	assert.Equal(t, CoastalUnknown, belfast.Coastal)
	require.NotNil(t, belfast.LifeExpMale)
	assert.InDelta(t, 76.9, *belfast.LifeExpMale, 1e-9)

	scilly := obs[2]
	assert.Nil(t, scilly.LifeExpFemale)
	assert.Nil(t, scilly.LifeExpMale)
}

func TestReadHeaderOrderInsensitive(t *testing.T) {
	csv := "area_name,area_code,pop,num_pubs,pubs_per_capita,country,median_pay_2017,area_sqkm,coastal,pop_dens,life_exp_female,life_exp_male\n" +
		"Hartlepool,E06000001,93242,40,0.00042899,England,479.9,93.56,Coastal,996.6,81.2,77.2\n"

	obs, err := Read(strings.NewReader(csv))
	require.NoError(t, err)
	require.Len(t, obs, 1)
	assert.Equal(t, "E06000001", obs[0].AreaCode)
	assert.Equal(t, 40, obs[0].NumPubs)
}

func TestReadSchemaErrors(t *testing.T) {
	tests := []struct {
		name string
		csv  string
	}{
		{
			"missing column",
			"area_code,area_name,num_pubs\nE1,Somewhere,3\n",
		},
		{
			"unknown column",
			testHeader + ",extra\nE1,Somewhere,3,100,0.03,England,400,10,Inland,10,80,76,x\n",
		},
		{
			"duplicate column",
			testHeader + ",area_code\n",
		},
		{
			"malformed count",
			testCSV("E1,Somewhere,lots,100,0.03,England,400,10,Inland,10,80,76"),
		},
		{
			"negative count",
			testCSV("E1,Somewhere,-3,100,0.03,England,400,10,Inland,10,80,76"),
		},
		{
			"bad country",
			testCSV("E1,Somewhere,3,100,0.03,France,400,10,Inland,10,80,76"),
		},
		{
			"bad coastal",
			testCSV("E1,Somewhere,3,100,0.03,England,400,10,Offshore,10,80,76"),
		},
		{
			"malformed optional float",
			testCSV("E1,Somewhere,3,100,0.03,England,lots,10,Inland,10,80,76"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Read(strings.NewReader(tt.csv))
			require.Error(t, err)
			assert.True(t, eris.Is(err, ErrSchema), "want ErrSchema, got %v", err)
		})
	}
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.csv"))
	require.Error(t, err)
	assert.False(t, eris.Is(err, ErrSchema))
}

func TestLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pubs.csv")
	csv := testCSV("E06000001,Hartlepool,40,93242,0.00042899,England,479.9,93.56,Coastal,996.6,81.2,77.2")
	require.NoError(t, os.WriteFile(path, []byte(csv), 0o644))

	obs, err := Load(path)
	require.NoError(t, err)
	assert.Len(t, obs, 1)
}

func TestParseColumn(t *testing.T) {
	c, err := ParseColumn("median_pay_2017")
	require.NoError(t, err)
	assert.Equal(t, ColMedianPay2017, c)

	_, err = ParseColumn("beer_quality")
	require.Error(t, err)
	assert.True(t, eris.Is(err, ErrUnknownColumn))
}

func TestNumericValue(t *testing.T) {
	pay := 479.9
	o := Observation{NumPubs: 40, Population: 93242, MedianPay2017: &pay}

	v, present, err := NumericValue(o, ColNumPubs)
	require.NoError(t, err)
	assert.True(t, present)
	assert.Equal(t, 40.0, v)

	v, present, err = NumericValue(o, ColMedianPay2017)
	require.NoError(t, err)
	assert.True(t, present)
	assert.InDelta(t, 479.9, v, 1e-9)

	_, present, err = NumericValue(Observation{}, ColLifeExpMale)
	require.NoError(t, err)
	assert.False(t, present)

	_, _, err = NumericValue(o, ColAreaName)
	require.Error(t, err)
	assert.True(t, eris.Is(err, ErrUnknownColumn))
}

package finance

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNormalizeCode(t *testing.T) {
	require.Equal(t, "1.4.2", NormalizeCode("01.04.02"))
	require.Equal(t, "1.4.2", NormalizeCode("1.4.2"))
	require.Equal(t, "1.4.2", NormalizeCode("1.04.02"))
	require.Equal(t, "2.10.98", NormalizeCode("2.10.98"))
	require.Equal(t, "2.10.98", NormalizeCode(" 2.10.98 "))
	require.Equal(t, "1.0.2", NormalizeCode("01.00.02"))
	require.Equal(t, "", NormalizeCode(""))
	require.Equal(t, "", NormalizeCode("abc"))
}

func TestCodesEqual(t *testing.T) {
	require.True(t, CodesEqual("01.04.02", "1.4.2"))
	require.True(t, CodesEqual("1.04.02", "1.04.02"))
	require.True(t, CodesEqual("2.10.98", "02.10.98"))
	require.False(t, CodesEqual("1.04.02", "2.10.98"))
	require.False(t, CodesEqual("", ""))
}

func TestIsExcludedFromCosts(t *testing.T) {
	require.True(t, isExcludedFromCosts("2.10.98"))
	require.True(t, isExcludedFromCosts("02.10.98"))
	require.True(t, isExcludedFromCosts("2.10.99"))
	require.False(t, isExcludedFromCosts("1.04.02"))
	require.False(t, isExcludedFromCosts("3.01"))
}

func TestNamesMatch(t *testing.T) {
	require.True(t, namesMatch("Residencial Alfa", "residencial  alfa"))
	require.True(t, namesMatch("Residencial Alfa", "Residencial Alfa - SP"))
	require.False(t, namesMatch("Residencial Alfa", "Comercial Beta"))
	require.False(t, namesMatch("", "Residencial Alfa"))
}

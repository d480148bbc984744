package integration

import (
	"testing"

	"github.com/rpgo/glidepath/pkg/dateutil"
	"github.com/stretchr/testify/require"
)

func cfgMonth(t *testing.T, s string) dateutil.YearMonth {
	t.Helper()
	ym, err := dateutil.ParseYearMonth(s)
	require.NoError(t, err)
	return ym
}

package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/Ruby405/double-entry/internal/domain"
	"github.com/Ruby405/double-entry/internal/infrastructure/config"
)

const chartJSON = `{
  "accounts": [
    {"identifier": "checking", "scoped": true, "currency": "USD"},
    {"identifier": "savings", "scoped": true, "positive_only": true, "currency": "USD"},
    {"identifier": "cash"}
  ],
  "transfers": [
    {"from": "checking", "to": "savings", "code": "deposit"},
    {"from": "savings", "to": "checking", "code": "withdraw"}
  ]
}`

func TestParseChart(t *testing.T) {
	accounts, registry, err := config.ParseChart([]byte(chartJSON))
	require.NoError(t, err)

	require.Equal(t, 2, registry.Len())
	_, err = registry.Lookup("checking", "savings", "deposit")
	require.NoError(t, err)

	ref, err := accounts.Account("savings", "user-1")
	require.NoError(t, err)
	require.True(t, ref.PositiveOnly)
	require.Equal(t, "USD", ref.Currency)

	// Accounts without an explicit currency default to USD.
	ref, err = accounts.Account("cash", "")
	require.NoError(t, err)
	require.Equal(t, "USD", ref.Currency)
}

func TestParseChartInvalid(t *testing.T) {
	t.Run("malformed json", func(t *testing.T) {
		_, _, err := config.ParseChart([]byte("{"))
		require.Error(t, err)
	})

	t.Run("duplicate account", func(t *testing.T) {
		_, _, err := config.ParseChart([]byte(`{"accounts":[{"identifier":"cash"},{"identifier":"cash"}]}`))
		require.ErrorIs(t, err, domain.ErrDuplicateAccountDefinition)
	})

	t.Run("duplicate transfer", func(t *testing.T) {
		_, _, err := config.ParseChart([]byte(`{"transfers":[{"from":"a","to":"b","code":"pay"},{"from":"a","to":"b","code":"pay"}]}`))
		require.ErrorIs(t, err, domain.ErrDuplicateTransferDefinition)
	})
}

func TestLoadChart(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "chart.json")
	require.NoError(t, os.WriteFile(path, []byte(chartJSON), 0o600))

	accounts, registry, err := config.LoadChart(path)
	require.NoError(t, err)
	require.NotNil(t, accounts)
	require.Equal(t, 2, registry.Len())

	_, _, err = config.LoadChart(filepath.Join(dir, "missing.json"))
	require.Error(t, err)
}

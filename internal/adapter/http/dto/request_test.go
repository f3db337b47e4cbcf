package dto_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/Ruby405/double-entry/internal/adapter/http/dto"
	"github.com/Ruby405/double-entry/internal/domain"
)

func testAccounts(t *testing.T) *domain.AccountSet {
	t.Helper()

	set, err := domain.NewAccountSet(
		domain.AccountDefinition{Identifier: "checking", Scoped: true, Currency: "USD"},
		domain.AccountDefinition{Identifier: "savings", Scoped: true, Currency: "USD"},
	)
	require.NoError(t, err)

	return set
}

func TestMetadataValuesUnmarshal(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want dto.MetadataValues
	}{
		{name: "scalar", in: `"AU"`, want: dto.MetadataValues{"AU"}},
		{name: "array", in: `["GST", "VAT"]`, want: dto.MetadataValues{"GST", "VAT"}},
		{name: "empty array", in: `[]`, want: dto.MetadataValues{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got dto.MetadataValues
			require.NoError(t, json.Unmarshal([]byte(tt.in), &got))
			require.Equal(t, tt.want, got)
		})
	}

	var got dto.MetadataValues
	require.Error(t, json.Unmarshal([]byte(`42`), &got))
}

func TestCreateTransferRequestToInput(t *testing.T) {
	accounts := testAccounts(t)

	raw := `{
		"from": {"identifier": "checking", "scope": "user-1"},
		"to": {"identifier": "savings", "scope": "user-1"},
		"amount": "10.50",
		"code": "deposit",
		"metadata": {"country": "AU", "tax": ["GST", "VAT"]}
	}`

	var req dto.CreateTransferRequest
	require.NoError(t, json.Unmarshal([]byte(raw), &req))

	input, err := req.ToInput(accounts)
	require.NoError(t, err)

	require.Equal(t, "10.5", input.Amount.String())
	require.Equal(t, "checking/user-1/USD", input.From.Key())
	require.Equal(t, "savings/user-1/USD", input.To.Key())
	require.Equal(t, "deposit", input.Code)
	require.Equal(t, []string{"AU"}, []string(input.Metadata["country"]))
	require.Equal(t, []string{"GST", "VAT"}, []string(input.Metadata["tax"]))
}

func TestCreateTransferRequestToInputErrors(t *testing.T) {
	accounts := testAccounts(t)

	t.Run("invalid amount", func(t *testing.T) {
		req := dto.CreateTransferRequest{
			From:   dto.AccountParam{Identifier: "checking", Scope: "u"},
			To:     dto.AccountParam{Identifier: "savings", Scope: "u"},
			Amount: "ten",
		}
		_, err := req.ToInput(accounts)
		require.Error(t, err)
	})

	t.Run("unknown account", func(t *testing.T) {
		req := dto.CreateTransferRequest{
			From:   dto.AccountParam{Identifier: "vault"},
			To:     dto.AccountParam{Identifier: "savings", Scope: "u"},
			Amount: "1",
		}
		_, err := req.ToInput(accounts)
		require.ErrorIs(t, err, domain.ErrUnknownAccount)
	})

	t.Run("missing scope", func(t *testing.T) {
		req := dto.CreateTransferRequest{
			From:   dto.AccountParam{Identifier: "checking"},
			To:     dto.AccountParam{Identifier: "savings", Scope: "u"},
			Amount: "1",
		}
		_, err := req.ToInput(accounts)
		require.ErrorIs(t, err, domain.ErrAccountScopeMismatch)
	})
}

package config

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/Ruby405/double-entry/internal/domain"
)

// Chart file shape:
//
//	{
//	  "accounts": [
//	    {"identifier": "checking", "scoped": true, "currency": "USD"},
//	    {"identifier": "savings", "scoped": true, "positive_only": true, "currency": "USD"}
//	  ],
//	  "transfers": [
//	    {"from": "checking", "to": "savings", "code": "deposit"}
//	  ]
//	}
type chartFile struct {
	Accounts  []chartAccount  `json:"accounts"`
	Transfers []chartTransfer `json:"transfers"`
}

type chartAccount struct {
	Identifier   string `json:"identifier"`
	Scoped       bool   `json:"scoped"`
	PositiveOnly bool   `json:"positive_only"`
	Currency     string `json:"currency"`
}

type chartTransfer struct {
	From string `json:"from"`
	To   string `json:"to"`
	Code string `json:"code"`
}

// LoadChart reads the chart-of-accounts file and builds the account set and
// transfer registry. Both are populated once here at process start and
// read-only afterwards.
func LoadChart(path string) (*domain.AccountSet, *domain.TransferRegistry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read chart file: %w", err)
	}

	return ParseChart(data)
}

// ParseChart builds the account set and transfer registry from chart JSON.
func ParseChart(data []byte) (*domain.AccountSet, *domain.TransferRegistry, error) {
	var chart chartFile
	if err := json.Unmarshal(data, &chart); err != nil {
		return nil, nil, fmt.Errorf("failed to parse chart file: %w", err)
	}

	defs := make([]domain.AccountDefinition, 0, len(chart.Accounts))
	for _, a := range chart.Accounts {
		defs = append(defs, domain.AccountDefinition{
			Identifier:   a.Identifier,
			Scoped:       a.Scoped,
			PositiveOnly: a.PositiveOnly,
			Currency:     a.Currency,
		})
	}

	accounts, err := domain.NewAccountSet(defs...)
	if err != nil {
		return nil, nil, err
	}

	transfers := make([]domain.TransferDefinition, 0, len(chart.Transfers))
	for _, t := range chart.Transfers {
		transfers = append(transfers, domain.TransferDefinition{From: t.From, To: t.To, Code: t.Code})
	}

	registry, err := domain.NewTransferRegistry(transfers...)
	if err != nil {
		return nil, nil, err
	}

	return accounts, registry, nil
}

package domain_test

import (
	"encoding/json"
	"testing"

	"github.com/SscSPs/ledger_engine/internal/core/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewMoneyFromDecimal(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    domain.Money
		wantErr error
	}{
		{name: "whole amount", input: "100", want: 10000},
		{name: "two decimals", input: "12.34", want: 1234},
		{name: "one decimal", input: "0.5", want: 50},
		{name: "negative", input: "-3.10", want: -310},
		{name: "trailing zeros beyond precision", input: "1.2300", want: 123},
		{name: "too many decimals", input: "1.234", wantErr: domain.ErrTooManyDecimals},
		{name: "overflow", input: "999999999999999999999", wantErr: domain.ErrAmountOverflow},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := domain.NewMoneyFromDecimal(decimal.RequireFromString(tt.input))
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestMoney_String(t *testing.T) {
	assert.Equal(t, "100.00", domain.Money(10000).String())
	assert.Equal(t, "-0.05", domain.Money(-5).String())
	assert.Equal(t, "0.00", domain.Money(0).String())
}

func TestMoney_Add(t *testing.T) {
	sum, err := domain.Money(150).Add(-50)
	require.NoError(t, err)
	assert.Equal(t, domain.Money(100), sum)

	_, err = domain.Money(1<<62).Add(1 << 62)
	assert.ErrorIs(t, err, domain.ErrAmountOverflow)
}

func TestMoney_JSON(t *testing.T) {
	var payload struct {
		Amount domain.Money `json:"amount"`
	}
	require.NoError(t, json.Unmarshal([]byte(`{"amount": 12.5}`), &payload))
	assert.Equal(t, domain.Money(1250), payload.Amount)

	require.NoError(t, json.Unmarshal([]byte(`{"amount": "7.25"}`), &payload))
	assert.Equal(t, domain.Money(725), payload.Amount)

	out, err := json.Marshal(payload)
	require.NoError(t, err)
	assert.JSONEq(t, `{"amount":"7.25"}`, string(out))

	assert.Error(t, json.Unmarshal([]byte(`{"amount": "1.001"}`), &payload))
}

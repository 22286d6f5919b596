package coerce

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDecimal(t *testing.T) {
	tests := []struct {
		name    string
		input   any
		want    string
		absent  bool
		wantErr bool
	}{
		{name: "currency with thousands", input: "R$ 1.234,56", want: "1234.56"},
		{name: "several thousand separators", input: "1.234.567,89", want: "1234567.89"},
		{name: "comma decimal", input: "500,00", want: "500"},
		{name: "plain dot decimal", input: "750.00", want: "750"},
		{name: "float passes through", input: 12.5, want: "12.5"},
		{name: "int passes through", input: 42, want: "42"},
		{name: "json number", input: json.Number("99.90"), want: "99.9"},
		{name: "empty string", input: "", absent: true},
		{name: "nil", input: nil, absent: true},
		{name: "garbage", input: "abc", absent: true, wantErr: true},
		{name: "currency marker only", input: "R$", absent: true, wantErr: true},
		{name: "unsupported type", input: []string{"1"}, absent: true, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseDecimal(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
			if tt.absent {
				assert.False(t, got.Valid)
				return
			}
			require.True(t, got.Valid)
			assert.True(t, decimal.RequireFromString(tt.want).Equal(got.Decimal), "got %s", got.Decimal)
		})
	}
}

func TestParseDate(t *testing.T) {
	tests := []struct {
		name    string
		input   any
		want    string
		wantErr bool
	}{
		{name: "day month year", input: "15/03/2024", want: "2024-03-15"},
		{name: "iso passes through", input: "2024-03-15", want: "2024-03-15"},
		{name: "dashed day first", input: "15-03-2024", want: "2024-03-15"},
		{name: "slashed year first", input: "2024/03/15", want: "2024-03-15"},
		{name: "single digit parts", input: "5/3/2024", want: "2024-03-05"},
		{name: "invalid month", input: "15-13-2024", wantErr: true},
		{name: "free text", input: "amanhã", wantErr: true},
		{name: "empty", input: ""},
		{name: "nil", input: nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseDate(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				assert.Nil(t, got)
				return
			}
			require.NoError(t, err)
			if tt.want == "" {
				assert.Nil(t, got)
				return
			}
			require.NotNil(t, got)
			assert.Equal(t, tt.want, *got)
		})
	}
}

func TestParseDateTime(t *testing.T) {
	got, err := ParseDateTime("15/03/2024 14:30")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "2024-03-15 14:30:00", *got)

	got, err = ParseDateTime("2024-03-15T14:30:00")
	assert.Error(t, err)
	assert.Nil(t, got)

	got, err = ParseDateTime("")
	assert.NoError(t, err)
	assert.Nil(t, got)
}

func TestCoercerLogsWarnings(t *testing.T) {
	var buf bytes.Buffer
	c := New(slog.New(slog.NewTextHandler(&buf, nil)))

	assert.False(t, c.Decimal("abc").Valid)
	assert.Contains(t, buf.String(), "invalid decimal value")

	buf.Reset()
	assert.False(t, c.Decimal("").Valid)
	assert.Empty(t, buf.String())

	buf.Reset()
	assert.Nil(t, c.Date("31/02/2024"))
	assert.Contains(t, buf.String(), "unrecognized date format")

	buf.Reset()
	assert.Nil(t, c.DateTime("ontem"))
	assert.Contains(t, buf.String(), "invalid date-time format")
}

func TestCoercerRate(t *testing.T) {
	c := New(nil)

	rate := c.Rate("2,5 %")
	require.True(t, rate.Valid)
	assert.Equal(t, "2.5", rate.Decimal.String())

	rate = c.Rate(5)
	require.True(t, rate.Valid)
	assert.Equal(t, "5", rate.Decimal.String())

	assert.False(t, c.Rate("%").Valid)
}

package pricing

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func assertMoney(t *testing.T, want string, got decimal.Decimal) {
	t.Helper()
	assert.True(t, d(want).Equal(got), "want %s, got %s", want, got)
}

func TestCalculate_BelowThreshold(t *testing.T) {
	got := Calculate([]Line{{UnitPrice: d("20.00"), Quantity: 2}})

	assertMoney(t, "40.00", got.Subtotal)
	assertMoney(t, "4.00", got.Tax)
	assertMoney(t, "9.99", got.Shipping)
	assertMoney(t, "53.99", got.Total)
}

func TestCalculate_AboveThreshold(t *testing.T) {
	got := Calculate([]Line{{UnitPrice: d("30.00"), Quantity: 2}})

	assertMoney(t, "60.00", got.Subtotal)
	assertMoney(t, "6.00", got.Tax)
	assertMoney(t, "0", got.Shipping)
	assertMoney(t, "66.00", got.Total)
}

func TestCalculate_ThresholdIsStrict(t *testing.T) {
	got := Calculate([]Line{{UnitPrice: d("25.00"), Quantity: 2}})
	assertMoney(t, "9.99", got.Shipping)

	got = Calculate([]Line{{UnitPrice: d("50.01"), Quantity: 1}})
	assertMoney(t, "0", got.Shipping)
}

func TestCalculate_Empty(t *testing.T) {
	got := Calculate(nil)
	assertMoney(t, "0", got.Subtotal)
	assertMoney(t, "0", got.Tax)
	assertMoney(t, "9.99", got.Shipping)
	assertMoney(t, "9.99", got.Total)
}

func TestCalculate_NoFloatDrift(t *testing.T) {
	lines := make([]Line, 0, 10)
	for i := 0; i < 10; i++ {
		lines = append(lines, Line{UnitPrice: d("0.10"), Quantity: 3})
	}
	got := Calculate(lines)
	assertMoney(t, "3.00", got.Subtotal)
	assertMoney(t, "0.30", got.Tax)
}

func TestCalculate_TotalIdentity(t *testing.T) {
	lines := []Line{
		{UnitPrice: d("89.99"), Quantity: 1},
		{UnitPrice: d("12.49"), Quantity: 3},
		{UnitPrice: d("0"), Quantity: 7},
	}
	got := Calculate(lines)

	assertMoney(t, "127.46", got.Subtotal)
	assertMoney(t, "12.75", got.Tax)
	assert.True(t, got.Total.Equal(got.Subtotal.Add(got.Tax).Add(got.Shipping)))
}

func TestMinorUnits(t *testing.T) {
	assert.Equal(t, int64(5399), MinorUnits(d("53.99")))
	assert.Equal(t, int64(50), MinorUnits(d("0.5")))
	assert.Equal(t, int64(1), MinorUnits(d("0.005")))
	assertMoney(t, "66.00", FromMinorUnits(6600))
}

package money

import (
	"encoding/json"
	"math"
	"math/big"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestCoerce(t *testing.T) {
	tests := []struct {
		name string
		in   any
		want string
	}{
		{"nil", nil, "0"},
		{"int", 500, "500"},
		{"int64", int64(42), "42"},
		{"float", 12.5, "12.5"},
		{"nan", math.NaN(), "0"},
		{"inf", math.Inf(1), "0"},
		{"numeric string", " 120.50 ", "120.5"},
		{"garbage string", "abc", "0"},
		{"empty string", "", "0"},
		{"json number", json.Number("99.99"), "99.99"},
		{"decimal", decimal.RequireFromString("7.25"), "7.25"},
		{"bool", true, "0"},
		{"map", map[string]any{"x": 1}, "0"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Coerce(tt.in).String())
		})
	}
}

func TestFormat(t *testing.T) {
	assert.Equal(t, "3000.00", Format(decimal.NewFromInt(3000)))
	assert.Equal(t, "0.10", Format(decimal.RequireFromString("0.1")))
	assert.Equal(t, "2.35", Format(decimal.RequireFromString("2.345")))
	assert.Equal(t, "₹1250.50", FormatINR(decimal.RequireFromString("1250.5")))
}

func TestWords(t *testing.T) {
	tests := []struct {
		in   int64
		want string
	}{
		{0, "Zero"},
		{7, "Seven"},
		{10, "Ten"},
		{13, "Thirteen"},
		{20, "Twenty"},
		{45, "Forty Five"},
		{100, "One Hundred"},
		{115, "One Hundred Fifteen"},
		{1000, "One Thousand"},
		{3000, "Three Thousand"},
		{100000, "One Lakh"},
		{1234567, "Twelve Lakh Thirty Four Thousand Five Hundred Sixty Seven"},
		{10000000, "One Crore"},
		{250000019, "Twenty Five Crore Nineteen"},
		{-5, "Minus Five"},
		{math.MinInt64, "Minus Ninety Two Thousand Two Hundred Thirty Three Crore Seventy Two Lakh Three Thousand Six Hundred Eighty Five Crore Forty Seven Lakh Seventy Five Thousand Eight Hundred Eight"},
	}
	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			assert.Equal(t, tt.want, Words(tt.in))
		})
	}
}

func TestAmountInWords_BeyondInt64(t *testing.T) {
	// 2^64 crore and five rupees
	amount := decimal.NewFromBigInt(new(big.Int).Lsh(big.NewInt(1), 64), 0).
		Mul(decimal.NewFromInt(10000000)).
		Add(decimal.NewFromInt(5))
	want := "One Lakh Eighty Four Thousand Four Hundred Sixty Seven Crore Forty Four Lakh Seven Thousand Three Hundred Seventy Crore Ninety Five Lakh Fifty One Thousand Six Hundred Sixteen Crore Five Rupees and Zero Paise Only"
	assert.Equal(t, want, AmountInWords(amount))
}

func TestAmountInWords(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"3000", "Three Thousand Rupees and Zero Paise Only"},
		{"3000.00", "Three Thousand Rupees and Zero Paise Only"},
		{"1250.50", "One Thousand Two Hundred Fifty Rupees and Fifty Paise Only"},
		{"0.07", "Zero Rupees and Seven Paise Only"},
		{"10.994", "Ten Rupees and Ninety Nine Paise Only"},
		{"10.995", "Eleven Rupees and Zero Paise Only"},
		{"99.995", "One Hundred Rupees and Zero Paise Only"},
		{"99.999", "One Hundred Rupees and Zero Paise Only"},
		{"-12.5", "Minus Twelve Rupees and Fifty Paise Only"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got := AmountInWords(decimal.RequireFromString(tt.in))
			assert.Equal(t, tt.want, got)
			assert.NotContains(t, got, "One Hundred Paise")
		})
	}
}

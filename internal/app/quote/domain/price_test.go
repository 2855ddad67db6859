package domain

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMoney(t *testing.T) {
	t.Run("exact decimal arithmetic", func(t *testing.T) {
		a, err := NewMoneyFromString("0.10")
		require.NoError(t, err)
		b, err := NewMoneyFromString("0.20")
		require.NoError(t, err)

		assert.Equal(t, "0.30", a.Add(b).String())
		assert.True(t, a.Add(b).Equals(mustMoney(t, "0.3")))
	})

	t.Run("fraction constructor", func(t *testing.T) {
		m, err := NewMoney(249950, 100)
		require.NoError(t, err)
		assert.Equal(t, "2499.50", m.String())

		_, err = NewMoney(1, 0)
		assert.Error(t, err)
	})

	t.Run("nil-safe equality", func(t *testing.T) {
		var unset *Money
		assert.True(t, unset.Equals(nil))
		assert.False(t, unset.Equals(Zero()))
		assert.False(t, Zero().Equals(nil))
		assert.Nil(t, unset.Copy())
	})

	t.Run("json round trip keeps precision", func(t *testing.T) {
		data, err := json.Marshal(mustMoney(t, "1499.95"))
		require.NoError(t, err)
		assert.Equal(t, "1499.95", string(data))

		var m Money
		require.NoError(t, json.Unmarshal([]byte(`"2000"`), &m))
		assert.True(t, m.Equals(NewMoneyFromInt(2000)))
	})
}

func TestPrice(t *testing.T) {
	t.Run("zero value is unset", func(t *testing.T) {
		var p Price
		assert.False(t, p.IsSet())
		assert.False(t, p.IsNumeric())
		assert.False(t, p.IsOnRequest())
	})

	t.Run("variants never compare equal", func(t *testing.T) {
		assert.False(t, OnRequestPrice().Equals(NumericPrice(Zero())))
		assert.True(t, OnRequestPrice().Equals(OnRequestPrice()))
		assert.True(t, NumericPrice(money(10)).Equals(NumericPrice(mustMoney(t, "10.00"))))
	})

	t.Run("amount is a copy", func(t *testing.T) {
		p := NumericPrice(money(100))
		amount, ok := p.Amount()
		require.True(t, ok)
		*amount = *money(1)

		again, _ := p.Amount()
		assert.True(t, again.Equals(money(100)))
	})

	tests := []struct {
		name string
		json string
		want Price
	}{
		{name: "number", json: `1500`, want: NumericPrice(money(1500))},
		{name: "numeric string", json: `"1500.00"`, want: NumericPrice(money(1500))},
		{name: "on request", json: `"ON_REQUEST"`, want: OnRequestPrice()},
		{name: "on request lower case", json: `"on_request"`, want: OnRequestPrice()},
		{name: "null", json: `null`, want: Price{}},
	}

	for _, tt := range tests {
		t.Run("unmarshal "+tt.name, func(t *testing.T) {
			var p Price
			require.NoError(t, json.Unmarshal([]byte(tt.json), &p))
			assert.Equal(t, tt.want.IsSet(), p.IsSet())
			assert.True(t, tt.want.Equals(p))
		})
	}

	t.Run("marshal", func(t *testing.T) {
		data, err := json.Marshal(struct {
			A Price `json:"a"`
			B Price `json:"b"`
			C Price `json:"c"`
		}{A: NumericPrice(money(1500)), B: OnRequestPrice()})
		require.NoError(t, err)
		assert.JSONEq(t, `{"a": 1500, "b": "ON_REQUEST", "c": null}`, string(data))
	})

	t.Run("rejects garbage", func(t *testing.T) {
		var p Price
		assert.Error(t, json.Unmarshal([]byte(`"call us"`), &p))
	})
}

func mustMoney(t *testing.T, s string) *Money {
	t.Helper()
	m, err := NewMoneyFromString(s)
	require.NoError(t, err)
	return m
}

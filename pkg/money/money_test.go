package money

import (
  "math"
  "testing"

  "github.com/stretchr/testify/assert"
  "github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
  tests := []struct {
    name  string
    input string
    want  Cents
  }{
    {name: "dot separator", input: "49.99", want: 4999},
    {name: "comma separator", input: "49,99", want: 4999},
    {name: "integer", input: " 40 ", want: 4000},
    {name: "rounded", input: "10.005", want: 1001},
  }

  for _, tt := range tests {
    t.Run(tt.name, func(t *testing.T) {
      got, err := Parse(tt.input)
      require.NoError(t, err)
      assert.Equal(t, tt.want, got)
    })
  }
}

func TestParseRejects(t *testing.T) {
  _, err := Parse("abc")
  assert.ErrorIs(t, err, ErrInvalidAmount)

  _, err = Parse("-5")
  assert.ErrorIs(t, err, ErrNotPositiveAmount)

  _, err = Parse("0")
  assert.ErrorIs(t, err, ErrNotPositiveAmount)

  _, err = Parse("0.001")
  assert.ErrorIs(t, err, ErrNotPositiveAmount)

  _, err = Parse("184467440737095516.17")
  assert.ErrorIs(t, err, ErrInvalidAmount)

  _, err = Parse("-184467440737095516.17")
  assert.ErrorIs(t, err, ErrNotPositiveAmount)

  got, err := Parse("92233720368547758.07")
  require.NoError(t, err)
  assert.Equal(t, Cents(math.MaxInt64), got)
}

func TestString(t *testing.T) {
  assert.Equal(t, "40,00€", String(4000))
  assert.Equal(t, "1.234,56€", String(123456))
  assert.Equal(t, "0,00€", String(0))
}

func TestFromParts(t *testing.T) {
  assert.Equal(t, Cents(4999), FromParts(49, 99))
  assert.Equal(t, Cents(4505), FromParts(45, 5))
  assert.Equal(t, Cents(1200), FromParts(12, 0))
}

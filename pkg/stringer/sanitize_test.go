package stringer

import (
  "testing"

  "github.com/stretchr/testify/assert"
)

func TestExtractURL(t *testing.T) {
  assert.Equal(t, "https://amzn.eu/d/abc", ExtractURL("look at this https://amzn.eu/d/abc please"))
  assert.Equal(t, "", ExtractURL("B000000000"))
}

func TestNormalizeFloatStr(t *testing.T) {
  assert.Equal(t, "4.5", NormalizeFloatStr("4,5"))
  assert.Equal(t, "4.5", NormalizeFloatStr(" 4,5 "))
  assert.Equal(t, "0", NormalizeFloatStr(""))
}

func TestNormalizeIntStr(t *testing.T) {
  assert.Equal(t, "1234", NormalizeIntStr("1.234,"))
}

func TestSanitizeString(t *testing.T) {
  assert.Equal(t, "Tom & Jerry box", SanitizeString("  Tom &amp; Jerry    box "))
}

func TestStripTags(t *testing.T) {
  assert.Equal(t, "Seller", StripTags("<b>Seller</b>"))
}

func TestNormalizeSpace(t *testing.T) {
  assert.Equal(t, "Echo Dot 5th gen", NormalizeSpace("\n   Echo Dot\n 5th   gen \t"))
}

package xpath

import (
  "testing"

  "github.com/stretchr/testify/assert"
  "github.com/stretchr/testify/require"
)

const page = `<html><body>
<span id="title">
   Kettle   2L
</span>
<div class="price"><span class="whole">12</span></div>
</body></html>`

func TestDocumentQueries(t *testing.T) {
  doc, err := ParseDocument([]byte(page), "https://example.com/dp/B000000000")
  require.NoError(t, err)

  title, ok := GetInnerText(GetFirstElement(doc, `//span[@id='title']`))
  assert.True(t, ok)
  assert.Equal(t, "Kettle 2L", title)

  whole, ok := GetContent(GetFirstElement(doc, `//span[@class='whole']/text()`), ShiftNone)
  assert.True(t, ok)
  assert.Equal(t, "12", whole)

  assert.Nil(t, GetFirstElement(doc, `//span[@id='missing']`))
  assert.Nil(t, GetFirstElement(doc, `//span[`))

  _, ok = GetContent(nil, ShiftToFirstChild)
  assert.False(t, ok)
}

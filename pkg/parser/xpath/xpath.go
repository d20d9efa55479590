package xpath

import (
  "bytes"
  "fmt"

  "github.com/antchfx/htmlquery"
  "github.com/ushakovn/pricewatch/pkg/stringer"
  "golang.org/x/net/html"
)

type ShiftNodePos int

const (
  ShiftNone          ShiftNodePos = 0
  ShiftToFirstChild  ShiftNodePos = 1
  ShiftToLastChild   ShiftNodePos = 2
  ShiftToPrevSibling ShiftNodePos = 3
  ShiftToNextSibling ShiftNodePos = 4
)

type HtmlDocument struct {
  Node *html.Node
  Url  string
}

func ParseDocument(body []byte, url string) (*HtmlDocument, error) {
  node, err := html.Parse(bytes.NewReader(body))
  if err != nil {
    return nil, fmt.Errorf("html.Parse: %w", err)
  }

  return &HtmlDocument{
    Node: node,
    Url:  url,
  }, nil
}

// GetFirstElement returns the first node matching xpath or nil. Invalid
// expressions are treated as no match.
func GetFirstElement(doc *HtmlDocument, xpath string) *html.Node {
  if doc == nil || doc.Node == nil {
    return nil
  }

  nodes, err := htmlquery.QueryAll(doc.Node, xpath)
  if err != nil {
    return nil
  }

  for _, node := range nodes {
    if node != nil {
      return node
    }
  }

  return nil
}

func GetContent(node *html.Node, shift ShiftNodePos) (string, bool) {
  node = ShiftNode(node, shift)
  if node == nil {
    return "", false
  }

  content := stringer.StripTags(node.Data)
  content = html.UnescapeString(content)

  return content, !stringer.IsEmptyStr(content)
}

// GetInnerText returns the whitespace normalized text of node and its descendants.
func GetInnerText(node *html.Node) (string, bool) {
  if node == nil {
    return "", false
  }

  content := stringer.NormalizeSpace(htmlquery.InnerText(node))

  return content, content != ""
}

func ShiftNode(node *html.Node, shift ShiftNodePos) *html.Node {
  if node == nil {
    return node
  }
  switch shift {
  case ShiftToFirstChild:
    return node.FirstChild
  case ShiftToLastChild:
    return node.LastChild
  case ShiftToPrevSibling:
    return node.PrevSibling
  case ShiftToNextSibling:
    return node.NextSibling
  default:
    return node
  }
}

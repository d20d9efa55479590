package mongodb

import (
  "go.mongodb.org/mongo-driver/bson"
)

const (
  fieldASIN      = "asin"
  fieldCreatedAt = "created_at"
  fieldRecipient = "recipient"
)

func makeBsonDFilters(kv map[string]any) bson.D {
  out := bson.D{}

  for key, value := range kv {
    if value == nil || value == "" {
      continue
    }
    out = append(out, bson.E{
      Key:   key,
      Value: value,
    })
  }

  return out
}

func makeBsonDSortDesc(key string) bson.D {
  return bson.D{{
    Key:   key,
    Value: -1,
  }}
}

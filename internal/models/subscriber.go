package models

type ChatId = int64

type Subscriber struct {
  ID     int64
  ChatId ChatId
  Email  *string
}

func (s Subscriber) HasEmail() bool {
  return s.Email != nil && *s.Email != ""
}

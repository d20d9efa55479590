package env

import (
  "os"
  "strings"
)

type Env = string

const (
  DEV  Env = "DEV"
  PROD Env = "PROD"
)

func Current() Env {
  if value := strings.ToUpper(os.Getenv("ENV")); value == PROD {
    return PROD
  }
  return DEV
}

func IsProduction() bool {
  return Current() == PROD
}

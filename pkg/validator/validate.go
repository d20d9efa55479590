package validator

import (
  "fmt"
  "regexp"

  playground "github.com/go-playground/validator/v10"
)

var (
  validate   = playground.New()
  regexEmail = regexp.MustCompile(`^[a-zA-Z0-9_.+-]+@[a-zA-Z0-9-]+\.[a-zA-Z0-9-.]+$`)
)

// URL accepts absolute http(s) links with a host.
func URL(value string) error {
  if err := validate.Var(value, "required,http_url"); err != nil {
    return fmt.Errorf("invalid url %q: %w", value, err)
  }
  return nil
}

func Email(value string) error {
  if !regexEmail.MatchString(value) {
    return fmt.Errorf("invalid email: %q", value)
  }
  return nil
}

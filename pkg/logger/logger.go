package logger

import (
  "fmt"
  "io"
  "os"

  log "github.com/sirupsen/logrus"
  "github.com/ushakovn/pricewatch/pkg/env"
)

const (
  FormatJSON = "json"
  FormatText = "text"
)

type Config struct {
  Level  string
  Format string
  Fields map[string]any
  Output io.Writer
}

type formatter struct {
  format log.Formatter
  fields map[string]any
}

func (f formatter) Format(entry *log.Entry) ([]byte, error) {
  for k, v := range f.fields {
    if _, exists := entry.Data[k]; !exists {
      entry.Data[k] = v
    }
  }
  return f.format.Format(entry)
}

// New builds a logger. Format defaults to json in production and text otherwise.
func New(config Config) (*log.Logger, error) {
  level := log.InfoLevel

  if config.Level != "" {
    parsed, err := log.ParseLevel(config.Level)
    if err != nil {
      return nil, fmt.Errorf("log.ParseLevel: %w", err)
    }
    level = parsed
  }

  format := config.Format
  if format == "" {
    format = FormatText
    if env.IsProduction() {
      format = FormatJSON
    }
  }

  var (
    base   log.Formatter
    caller bool
  )

  switch format {
  case FormatJSON:
    base = new(log.JSONFormatter)
    caller = true
  case FormatText:
    base = &log.TextFormatter{FullTimestamp: true}
  default:
    return nil, fmt.Errorf("unknown log format: %s", format)
  }

  fields := config.Fields
  if fields == nil {
    fields = map[string]any{}
  }

  output := config.Output
  if output == nil {
    output = os.Stderr
  }

  logger := log.New()
  logger.SetOutput(output)
  logger.SetFormatter(formatter{
    fields: fields,
    format: base,
  })
  logger.SetLevel(level)
  logger.SetReportCaller(caller)

  return logger, nil
}

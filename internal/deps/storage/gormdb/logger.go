package gormdb

import (
  "context"
  "errors"
  "fmt"
  "time"

  log "github.com/sirupsen/logrus"
  "gorm.io/gorm"
  gormlogger "gorm.io/gorm/logger"
)

const defaultSlowThreshold = 200 * time.Millisecond

type gormLogger struct {
  log           log.FieldLogger
  level         gormlogger.LogLevel
  slowThreshold time.Duration
}

func newGormLogger(logger log.FieldLogger, slowThreshold time.Duration) gormlogger.Interface {
  if slowThreshold <= 0 {
    slowThreshold = defaultSlowThreshold
  }
  return &gormLogger{
    log:           logger,
    level:         gormlogger.Warn,
    slowThreshold: slowThreshold,
  }
}

func (l *gormLogger) LogMode(level gormlogger.LogLevel) gormlogger.Interface {
  clone := *l
  clone.level = level
  return &clone
}

func (l *gormLogger) Info(_ context.Context, msg string, data ...any) {
  if l.level >= gormlogger.Info {
    l.log.Infof(msg, data...)
  }
}

func (l *gormLogger) Warn(_ context.Context, msg string, data ...any) {
  if l.level >= gormlogger.Warn {
    l.log.Warnf(msg, data...)
  }
}

func (l *gormLogger) Error(_ context.Context, msg string, data ...any) {
  if l.level >= gormlogger.Error {
    l.log.Errorf(msg, data...)
  }
}

func (l *gormLogger) Trace(_ context.Context, begin time.Time, fc func() (string, int64), err error) {
  if l.level <= gormlogger.Silent {
    return
  }

  elapsed := time.Since(begin)
  sql, rows := fc()

  entry := l.log.WithFields(log.Fields{
    "sql":     sql,
    "rows":    rows,
    "elapsed": elapsed.String(),
  })

  switch {
  case err != nil && errors.Is(err, gorm.ErrRecordNotFound):
    return

  case err != nil && isDuplicateKeyError(err) && l.level >= gormlogger.Warn:
    entry.Warnf("gorm query violated unique constraint: %v", err)

  case err != nil && l.level >= gormlogger.Error:
    entry.Errorf("gorm query failed: %v", err)

  case elapsed > l.slowThreshold && l.level >= gormlogger.Warn:
    entry.Warn(fmt.Sprintf("gorm slow query >= %v", l.slowThreshold))

  case l.level >= gormlogger.Info:
    entry.Debug("gorm query")
  }
}

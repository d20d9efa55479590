package main

import (
  "context"
  "os"
  "os/signal"
  "syscall"

  log "github.com/sirupsen/logrus"
  "github.com/ushakovn/pricewatch/internal/app/ops"
  "github.com/ushakovn/pricewatch/internal/app/sender"
  "github.com/ushakovn/pricewatch/internal/app/telegram"
  "github.com/ushakovn/pricewatch/internal/app/tracker"
  "github.com/ushakovn/pricewatch/internal/config"
  "github.com/ushakovn/pricewatch/internal/deps/email"
  "github.com/ushakovn/pricewatch/internal/deps/fetch"
  "github.com/ushakovn/pricewatch/internal/deps/parsers/amazon"
  "github.com/ushakovn/pricewatch/internal/deps/storage/gormdb"
  "github.com/ushakovn/pricewatch/internal/deps/storage/mongodb"
  tgclient "github.com/ushakovn/pricewatch/internal/deps/telegram"
  "github.com/ushakovn/pricewatch/pkg/logger"
  "github.com/ushakovn/pricewatch/pkg/money"
  "golang.org/x/sync/errgroup"
)

func main() {
  ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
  defer stop()

  cfg, err := config.Load(config.Path())
  if err != nil {
    log.Fatalf("config.Load: %v", err)
  }

  appLogger, err := logger.New(logger.Config{
    Level:  cfg.Log.Level,
    Format: cfg.Log.Format,
    Fields: map[string]any{"app": "pricewatch"},
    Output: os.Stderr,
  })
  if err != nil {
    log.Fatalf("logger.New: %v", err)
  }

  if cfg.Marketplace.CurrencySymbol != "" {
    money.SetSymbol(cfg.Marketplace.CurrencySymbol)
  }

  store, err := gormdb.NewClient(ctx,
    gormdb.Config{
      Driver:       cfg.Database.Driver,
      DSN:          cfg.Database.DSN,
      MaxOpenConns: cfg.Database.MaxOpenConns,
    },
    gormdb.Dependencies{
      Logger: appLogger,
    })
  if err != nil {
    appLogger.Fatalf("gormdb.NewClient: %v", err)
  }
  defer func() {
    if err := store.Close(); err != nil {
      appLogger.Errorf("store.Close: %v", err)
    }
  }()

  pruned, err := store.PruneOrphanProducts(ctx)
  if err != nil {
    appLogger.Fatalf("store.PruneOrphanProducts: %v", err)
  }
  if pruned > 0 {
    appLogger.WithField("products.count", pruned).Info("orphan products pruned")
  }

  fetchClient, err := fetch.NewClient(
    fetch.Config{
      Retries:     cfg.Fetch.Retries,
      BackoffBase: cfg.Fetch.BackoffBase,
      Timeout:     cfg.Fetch.Timeout,
      UserAgent:   cfg.Fetch.UserAgent,
    },
    fetch.Dependencies{
      Logger: appLogger,
    })
  if err != nil {
    appLogger.Fatalf("fetch.NewClient: %v", err)
  }

  telegramConfig := tgclient.Config{
    Token:  cfg.Telegram.Token,
    APIURL: cfg.Telegram.APIURL,
  }

  bot, err := tgclient.NewBotClient(telegramConfig, appLogger)
  if err != nil {
    appLogger.Fatalf("telegram.NewBotClient: %v", err)
  }

  chatClient, err := tgclient.NewClient(telegramConfig, tgclient.Dependencies{
    Bot:    bot,
    Fetch:  fetchClient,
    Logger: appLogger,
  })
  if err != nil {
    appLogger.Fatalf("telegram.NewClient: %v", err)
  }

  emailClient, err := email.NewClient(
    email.Config{
      Host:     cfg.SMTP.Host,
      Port:     cfg.SMTP.Port,
      Username: cfg.SMTP.Username,
      Password: cfg.SMTP.Password,
      From:     cfg.SMTP.From,
      Subject:  cfg.SMTP.Subject,
      Timeout:  cfg.SMTP.Timeout,
    },
    email.Dependencies{
      Logger: appLogger,
    })
  if err != nil {
    appLogger.Fatalf("email.NewClient: %v", err)
  }

  if emailClient.Enabled() {
    if err = emailClient.VerifyCredentials(ctx); err != nil {
      appLogger.Fatalf("emailClient.VerifyCredentials: %v", err)
    }
  }

  var (
    senderJournal sender.Journal
    opsJournal    ops.Journal
  )

  if cfg.Journal.Enabled() {
    journalConfig := mongodb.Config{
      Host:      cfg.Journal.Host,
      Port:      cfg.Journal.Port,
      Database:  cfg.Journal.Database,
      Retention: cfg.Journal.Retention,
    }
    if cfg.Journal.User != "" {
      journalConfig.Authentication = &mongodb.Authentication{
        User:     cfg.Journal.User,
        Password: cfg.Journal.Password,
      }
    }

    journal, err := mongodb.NewClient(ctx, journalConfig, mongodb.Dependencies{
      Logger: appLogger,
    })
    if err != nil {
      appLogger.Fatalf("mongodb.NewClient: %v", err)
    }
    defer func() {
      if err := journal.Close(context.WithoutCancel(ctx)); err != nil {
        appLogger.Errorf("journal.Close: %v", err)
      }
    }()

    senderJournal = journal
    opsJournal = journal
  }

  parser, err := amazon.NewParser(
    amazon.Config{
      Domain: cfg.Marketplace.Domain,
    },
    amazon.Dependencies{
      Logger: appLogger,
    })
  if err != nil {
    appLogger.Fatalf("amazon.NewParser: %v", err)
  }

  dispatcher, err := sender.NewSender(sender.Dependencies{
    Store:   store,
    Chat:    chatClient,
    Mailer:  emailClient,
    Linker:  parser,
    Journal: senderJournal,
    Logger:  appLogger,
  })
  if err != nil {
    appLogger.Fatalf("sender.NewSender: %v", err)
  }

  scheduler, err := tracker.NewTracker(
    tracker.Config{
      Interval: cfg.Scheduler.Interval,
      Workers:  cfg.Scheduler.Workers,
    },
    tracker.Dependencies{
      Store:      store,
      Fetch:      fetchClient,
      Extractor:  parser,
      Dispatcher: dispatcher,
      Logger:     appLogger,
    })
  if err != nil {
    appLogger.Fatalf("tracker.NewTracker: %v", err)
  }

  transport, err := telegram.NewTransport(
    telegram.Config{
      Domain:      cfg.Marketplace.Domain,
      ShortHosts:  cfg.Marketplace.ShortHosts,
      PollTimeout: cfg.Telegram.PollTimeout,
      IdleSleep:   cfg.Telegram.IdleSleep,
      ProjectURL:  cfg.Telegram.ProjectURL,
    },
    telegram.Dependencies{
      Store:    store,
      Chat:     chatClient,
      Resolver: fetchClient,
      Logger:   appLogger,
    })
  if err != nil {
    appLogger.Fatalf("telegram.NewTransport: %v", err)
  }

  group, groupCtx := errgroup.WithContext(ctx)

  group.Go(func() error {
    return transport.Start(groupCtx)
  })

  group.Go(func() error {
    return scheduler.Start(groupCtx)
  })

  if cfg.Ops.Address != "" {
    opsServer, err := ops.NewServer(
      ops.Config{
        Address: cfg.Ops.Address,
      },
      ops.Dependencies{
        Store:   store,
        Journal: opsJournal,
        Logger:  appLogger,
      })
    if err != nil {
      appLogger.Fatalf("ops.NewServer: %v", err)
    }

    group.Go(func() error {
      return opsServer.Start(groupCtx)
    })
  }

  appLogger.Info("pricewatch started")

  if err = group.Wait(); err != nil {
    appLogger.Errorf("pricewatch stopped: %v", err)
    return
  }
  appLogger.Info("pricewatch stopped")
}

package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog"

	"dukanpos/internal/auth"
	"dukanpos/internal/config"
	"dukanpos/internal/service"
	"dukanpos/internal/snapshot"
	filestore "dukanpos/internal/snapshot/file"
	pgstore "dukanpos/internal/snapshot/postgres"
	redisstore "dukanpos/internal/snapshot/redis"
)

func main() {
	var (
		backupPath  = flag.String("backup", "", "export the current snapshot to this file and exit")
		restorePath = flag.String("restore", "", "replace all state from this backup file and exit")
		lowStock    = flag.Bool("low-stock", false, "print low-stock alerts and exit")
		showReport  = flag.Bool("report", false, "print the sales report for -from/-to and exit")
		fromDate    = flag.String("from", time.Now().UTC().Format("2006-01-02"), "report range start (YYYY-MM-DD)")
		toDate      = flag.String("to", time.Now().UTC().Format("2006-01-02"), "report range end (YYYY-MM-DD)")
	)
	flag.Parse()

	cfg := config.Load()
	log := newLogger(cfg)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	store, closers := openStore(ctx, cfg, log)
	defer func() {
		for _, closeFn := range closers {
			if err := closeFn(); err != nil {
				log.Error().Err(err).Msg("close error")
			}
		}
	}()

	authManager := auth.NewManager(cfg.AuthSecret, time.Duration(cfg.AccessTokenTTLMinutes)*time.Minute)
	svc, err := service.New(ctx, store, authManager, log)
	if err != nil {
		log.Fatal().Err(err).Msg("startup failed")
	}

	switch {
	case *backupPath != "":
		blob, err := svc.Backup()
		if err != nil {
			log.Fatal().Err(err).Msg("backup failed")
		}
		if err := os.WriteFile(*backupPath, blob, 0o644); err != nil {
			log.Fatal().Err(err).Msg("backup failed")
		}
		log.Info().Str("path", *backupPath).Msg("backup written")

	case *restorePath != "":
		blob, err := os.ReadFile(*restorePath)
		if err != nil {
			log.Fatal().Err(err).Msg("restore failed")
		}
		if err := svc.Restore(ctx, blob); err != nil {
			log.Fatal().Err(err).Msg("restore failed")
		}
		log.Info().Str("path", *restorePath).Msg("restore complete")

	case *lowStock:
		state := svc.State()
		for _, item := range svc.LowStockItems() {
			storeName := "unknown"
			if st, ok := state.FindStore(item.StoreID); ok {
				storeName = st.Name
			}
			fmt.Printf("%s\t%s\tqty=%d (alert at %d)\t%s\n", item.Code, item.Name, item.Quantity, item.LowStockThreshold, storeName)
		}

	case *showReport:
		from, err := time.Parse("2006-01-02", *fromDate)
		if err != nil {
			log.Fatal().Err(err).Msg("invalid -from date")
		}
		to, err := time.Parse("2006-01-02", *toDate)
		if err != nil {
			log.Fatal().Err(err).Msg("invalid -to date")
		}
		rep := svc.Report(from, to)
		currency := svc.Settings().Currency
		fmt.Printf("sales %s .. %s\n", rep.From, rep.To)
		fmt.Printf("  invoices: %d\n", rep.InvoiceCount)
		fmt.Printf("  gross:    %s %s\n", rep.GrossSales, currency)
		fmt.Printf("  profit:   %s %s (estimated)\n", rep.EstimatedProfit, currency)
		for _, bucket := range rep.ByPayment {
			fmt.Printf("  %-7s %d invoices, %s %s\n", bucket.PaymentMethod, bucket.Invoices, bucket.Total, currency)
		}

	default:
		state := svc.State()
		fmt.Printf("%s\n", state.Settings.CompanyName)
		fmt.Printf("  items:     %d\n", len(state.Items))
		fmt.Printf("  customers: %d\n", len(state.Customers))
		fmt.Printf("  stores:    %d\n", len(state.Stores))
		fmt.Printf("  sales:     %d\n", len(state.Sales))
		fmt.Printf("  low stock: %d\n", len(svc.LowStockItems()))
	}
}

func newLogger(cfg config.Config) zerolog.Logger {
	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil {
		level = zerolog.InfoLevel
	}

	if cfg.AppEnv == "development" {
		return zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).Level(level).With().Timestamp().Logger()
	}
	return zerolog.New(os.Stderr).Level(level).With().Timestamp().Logger()
}

// openStore picks the snapshot backend: postgres when DATABASE_URL is set,
// redis when reachable and REDIS_ADDR is set, the local file otherwise.
func openStore(ctx context.Context, cfg config.Config, log zerolog.Logger) (snapshot.Store, []func() error) {
	closers := make([]func() error, 0, 1)

	if cfg.DatabaseURL != "" {
		pg, err := pgstore.New(ctx, cfg.DatabaseURL)
		if err != nil {
			log.Fatal().Err(err).Msg("postgres unavailable and DATABASE_URL is set; refusing to start with a local fallback")
		}
		closers = append(closers, pg.Close)
		log.Info().Msg("snapshot store: postgres")
		return pg, closers
	}

	if cfg.RedisAddr != "" {
		rd := redisstore.New(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
		if err := rd.Ping(ctx); err != nil {
			log.Warn().Err(err).Msg("redis unavailable, using file snapshot store")
		} else {
			closers = append(closers, rd.Close)
			log.Info().Msg("snapshot store: redis")
			return rd, closers
		}
	}

	log.Info().Str("path", cfg.SnapshotPath).Msg("snapshot store: file")
	return filestore.New(cfg.SnapshotPath), closers
}

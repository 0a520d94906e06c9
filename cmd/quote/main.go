package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	assets "main/internal/application/service/assets"
	infraiss "main/internal/infrastructure/iss"

	"github.com/sirupsen/logrus"
)

const (
	defaultTimeoutSeconds = 30
	dateLayout            = "2006-01-02"
)

type quoteConfig struct {
	BaseURL        string
	TimeoutSeconds int
}

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	logger := logrus.New()
	logger.SetFormatter(&logrus.TextFormatter{})

	dateArg := flag.String("date", "", "quote date in YYYY-MM-DD form, defaults to today")
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "usage: %s [-date YYYY-MM-DD] SECID|ISIN\n", os.Args[0])
		flag.PrintDefaults()
	}
	flag.Parse()

	if flag.NArg() != 1 {
		flag.Usage()
		os.Exit(2)
	}
	identifier := flag.Arg(0)

	onDate := time.Now().UTC()
	if *dateArg != "" {
		parsed, err := time.ParseInLocation(dateLayout, *dateArg, time.UTC)
		if err != nil {
			logger.Fatalf("parse date: %v", err)
		}
		onDate = parsed
	}

	cfg, err := loadConfig()
	if err != nil {
		logger.Fatalf("config error: %v", err)
	}

	client := infraiss.NewClient(cfg.BaseURL, time.Duration(cfg.TimeoutSeconds)*time.Second, logger)

	asset, err := assets.NewAssetFromIdentifier(client, identifier)
	if err != nil {
		logger.Fatalf("build asset: %v", err)
	}

	code, err := asset.Code(ctx)
	if err != nil {
		logger.Fatalf("resolve security: %v", err)
	}
	isin, err := asset.ISIN(ctx)
	if err != nil {
		logger.Fatalf("resolve isin: %v", err)
	}

	price, err := asset.Price(ctx, onDate)
	if err != nil {
		logger.Fatalf("get price: %v", err)
	}
	accint, err := asset.AccruedInterest(ctx, onDate)
	if err != nil {
		logger.Fatalf("get accrued interest: %v", err)
	}
	purchase, err := asset.PurchaseAccruedInterest(ctx, onDate)
	if err != nil {
		logger.Fatalf("get purchase accrued interest: %v", err)
	}

	fmt.Printf("security:                  %s (%s)\n", code, isin)
	fmt.Printf("date:                      %s\n", onDate.Format(dateLayout))
	fmt.Printf("clean price:               %s\n", price)
	fmt.Printf("accrued interest:          %s\n", accint)
	fmt.Printf("purchase accrued interest: %s\n", purchase)
}

func loadConfig() (*quoteConfig, error) {
	timeout := defaultTimeoutSeconds
	if value := strings.TrimSpace(os.Getenv("ISS_TIMEOUT_SECONDS")); value != "" {
		parsed, err := strconv.Atoi(value)
		if err != nil {
			return nil, fmt.Errorf("parse ISS_TIMEOUT_SECONDS: %w", err)
		}
		timeout = parsed
	}
	return &quoteConfig{
		BaseURL:        strings.TrimSpace(os.Getenv("ISS_BASE_URL")),
		TimeoutSeconds: timeout,
	}, nil
}

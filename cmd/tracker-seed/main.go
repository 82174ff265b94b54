package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/shopspring/decimal"

	"tracker/internal/cli"
	"tracker/internal/core"
)

func main() {
	count := flag.Int("n", 50, "number of records to generate")
	year := flag.Int("year", time.Now().Year(), "calendar year to spread records over")
	seed := flag.Int64("seed", 0, "random seed (0 means random)")
	flag.Parse()

	cli.LoadEnvFile()
	logger := cli.SetupLogger("tracker-seed")

	if *count < 1 {
		logger.Error("Record count must be positive", "n", *count)
		os.Exit(1)
	}

	cfg := cli.LoadAndValidateConfig(logger)

	ctx := context.Background()
	result := cli.InitStore(ctx, logger, cfg)
	defer func() {
		if result.Cleanup != nil {
			_ = result.Cleanup()
		}
	}()

	faker := gofakeit.New(*seed)

	logger.Info("Seeding records", "count", *count, "year", *year, "backend", cfg.DataBackend)

	for i := 0; i < *count; i++ {
		rec := randomRecord(faker, *year)
		if _, err := result.Store.Append(ctx, rec); err != nil {
			logger.Error("Failed to append record", "error", err, "item", rec.Item)
			os.Exit(1)
		}
	}

	logger.Info("Seed complete", "count", *count)
}

// randomRecord fabricates one plausible expense within the given year.
func randomRecord(faker *gofakeit.Faker, year int) core.Record {
	month := faker.Number(1, 12)
	day := faker.Number(1, 28)

	category := core.Categories[faker.Number(0, len(core.Categories)-1)]

	var item string
	switch category {
	case "Food":
		item = faker.Dinner()
	case "Transport":
		item = fmt.Sprintf("%s ticket", faker.City())
	case "Shopping":
		item = faker.ProductName()
	default:
		item = faker.BuzzWord() + " " + faker.NounConcrete()
	}

	cents := faker.Number(100, 150000)
	amount := decimal.NewFromInt(int64(cents)).Div(decimal.NewFromInt(100))

	return core.Record{
		Date:     core.NewDate(year, month, day),
		Item:     item,
		Amount:   amount,
		Category: category,
	}
}

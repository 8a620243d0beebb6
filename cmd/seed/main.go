package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"os"
	"strings"
	"time"

	"github.com/BradenHooton/loginwatch/internal/activity"
	"github.com/BradenHooton/loginwatch/internal/config"
	"github.com/BradenHooton/loginwatch/internal/database"
	"github.com/BradenHooton/loginwatch/internal/models"
	"github.com/BradenHooton/loginwatch/internal/repositories"
	pkgauth "github.com/BradenHooton/loginwatch/pkg/auth"
)

var firstNames = []string{"Ada", "Bram", "Celia", "Dmitri", "Elena", "Farid", "Greta", "Hugo", "Ines", "Jonas", "Kira", "Luca", "Mira", "Nils", "Olga", "Pavel"}
var lastNames = []string{"Novak", "Svoboda", "Dvorak", "Cerny", "Prochazka", "Kucera", "Vesely", "Horak", "Nemec", "Marek"}

// Seeding many accounts with the production cost would take minutes
const seedBcryptCost = 8

func main() {
	count := flag.Int("accounts", 20, "Number of accounts to create")
	suspiciousRatio := flag.Float64("suspicious-ratio", 0.2, "Fraction of accounts given a suspicious burst pattern")
	password := flag.String("password", "loginwatch-demo", "Password set on every seeded account")
	seed := flag.Uint64("seed", 0, "Random seed; 0 picks one at random")
	flag.Parse()

	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	if err := run(*count, *suspiciousRatio, *password, *seed, logger); err != nil {
		logger.Error("seeding failed", slog.Any("error", err))
		os.Exit(1)
	}
}

func run(count int, suspiciousRatio float64, password string, seed uint64, logger *slog.Logger) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load configuration: %w", err)
	}

	db, err := database.NewConnection(&cfg.Database, logger)
	if err != nil {
		return fmt.Errorf("connect: %w", err)
	}
	defer db.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	if err := db.Migrate(ctx); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}

	if seed == 0 {
		seed = rand.Uint64()
	}
	rng := rand.New(rand.NewPCG(seed, seed))
	generator := activity.NewGenerator(rand.NewPCG(seed, ^seed), cfg.Activity.Location)

	accountRepo := repositories.NewAccountRepository(db)
	eventRepo := repositories.NewLoginEventRepository(db)

	// Login events go with their accounts via ON DELETE CASCADE
	wiped, err := accountRepo.DeleteAll(ctx)
	if err != nil {
		return fmt.Errorf("wipe accounts: %w", err)
	}
	logger.Info("existing data removed", slog.Int64("accounts", wiped))

	hash, err := pkgauth.HashPasswordWithCost(password, seedBcryptCost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}

	base := activity.BackfillOptions{
		DaysBack:  cfg.Activity.BackfillDaysBack,
		MinPerDay: cfg.Activity.BackfillMinPerDay,
		MaxPerDay: cfg.Activity.BackfillMaxPerDay,
	}

	var totalEvents int64
	suspicious := 0
	for i := range count {
		first := firstNames[rng.IntN(len(firstNames))]
		last := lastNames[rng.IntN(len(lastNames))]

		role := models.RoleUser
		if rng.IntN(2) == 0 {
			role = models.RoleAdmin
		}

		account, err := accountRepo.Create(ctx, &models.Account{
			Email:        fmt.Sprintf("%s.%s.%d@example.com", strings.ToLower(first), strings.ToLower(last), i+1),
			Name:         first + " " + last,
			PasswordHash: hash,
			Verified:     true,
			Role:         role,
		})
		if err != nil {
			return fmt.Errorf("create account %d: %w", i+1, err)
		}

		opts := base
		opts.SuspiciousPattern = rng.Float64() < suspiciousRatio
		if opts.SuspiciousPattern {
			suspicious++
		}

		events, err := generator.Generate(account.ID, opts)
		if err != nil {
			return fmt.Errorf("generate history for %s: %w", account.ID, err)
		}

		n, err := eventRepo.InsertBatch(ctx, events)
		if err != nil {
			return fmt.Errorf("insert history for %s: %w", account.ID, err)
		}
		totalEvents += n
	}

	logger.Info("seeding complete",
		slog.Int("accounts", count),
		slog.Int("suspicious_pattern", suspicious),
		slog.Int64("login_events", totalEvents),
		slog.Uint64("seed", seed),
	)
	return nil
}

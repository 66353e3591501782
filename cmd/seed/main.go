// Command seed populates a database with a demo user and a few weeks of
// realistic health logs for local development.
package main

import (
	"context"
	"flag"
	"fmt"
	"math/rand"
	"os"
	"time"

	"github.com/ayusharma/vitaltrack/internal/auth"
	"github.com/ayusharma/vitaltrack/internal/domain"
	"github.com/ayusharma/vitaltrack/internal/repository"
	"github.com/ayusharma/vitaltrack/internal/service"

	"golang.org/x/crypto/bcrypt"
)

func main() {
	var (
		dbPath   = flag.String("db", "vitaltrack.db", "path to the SQLite database")
		email    = flag.String("email", "demo@vitaltrack.local", "demo account email")
		password = flag.String("password", "demo-password", "demo account password")
		weeks    = flag.Int("weeks", 4, "weeks of history to generate")
		seed     = flag.Int64("seed", 42, "random seed for deterministic generation")
	)
	flag.Parse()

	if err := run(*dbPath, *email, *password, *weeks, *seed); err != nil {
		fmt.Fprintf(os.Stderr, "seeding failed: %v\n", err)
		os.Exit(1)
	}
}

func run(dbPath, email, password string, weeks int, seed int64) error {
	ctx := context.Background()

	db, err := repository.Open(dbPath)
	if err != nil {
		return err
	}
	repo := repository.New(db)
	tracker := service.NewTrackerService(repo)
	rng := rand.New(rand.NewSource(seed))

	hash, err := auth.HashPassword(password, bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	user, err := repo.CreateUser(ctx, domain.User{
		Name:         "Demo User",
		Email:        email,
		PasswordHash: hash,
	})
	if err != nil {
		return err
	}

	if _, err := tracker.SaveProfile(ctx, user.ID, service.ProfileInput{
		Name:          "Demo User",
		Age:           30,
		Gender:        domain.GenderFemale,
		HeightCm:      165,
		WeightKg:      60,
		ActivityLevel: domain.ActivityModeratelyActive,
		SleepHours:    "6-8",
		Goal:          "maintain weight",
	}); err != nil {
		return err
	}

	days := weeks * 7
	start := time.Now().AddDate(0, 0, -days)
	dayStart := time.Date(start.Year(), start.Month(), start.Day(), 0, 0, 0, 0, start.Location())

	for i := 0; i < days; i++ {
		day := dayStart.AddDate(0, 0, i)

		// Sleep: bedtime between 21:30 and 00:30, 5.5 to 9 hours.
		bedtime := day.Add(21*time.Hour + 30*time.Minute + time.Duration(rng.Intn(180))*time.Minute)
		sleepHours := 5.5 + rng.Float64()*3.5
		if _, err := tracker.LogSleep(ctx, user.ID, service.SleepInput{
			Start: bedtime,
			End:   bedtime.Add(time.Duration(sleepHours * float64(time.Hour))),
		}); err != nil {
			return err
		}

		// Water: a handful of glasses through the day.
		glasses := 4 + rng.Intn(6)
		if _, err := tracker.RecordWater(ctx, user.ID, glasses*300, day); err != nil {
			return err
		}

		// Meals: breakfast, lunch, dinner.
		for _, meal := range demoMeals(rng, day) {
			if _, err := tracker.LogFood(ctx, user.ID, meal); err != nil {
				return err
			}
		}

		// Cardio every other day, breath hold attempts on cardio days.
		if i%2 == 0 {
			sets := 2 + rng.Intn(4)
			for set := 1; set <= sets; set++ {
				at := day.Add(7*time.Hour + time.Duration(set*10)*time.Minute)
				if _, err := tracker.LogCardioSet(ctx, user.ID, "jumping jacks", set, at); err != nil {
					return err
				}
			}
			hold := 30 + rng.Float64()*45
			if _, err := tracker.LogBreathHold(ctx, user.ID, hold, day.Add(8*time.Hour)); err != nil {
				return err
			}
		}
	}

	fmt.Printf("Seeded %s with %d days of history for %s\n", dbPath, days, email)
	return nil
}

func demoMeals(rng *rand.Rand, day time.Time) []service.FoodInput {
	return []service.FoodInput{
		{
			Name:       "oatmeal with fruit",
			Category:   "breakfast",
			Calories:   320 + rng.Float64()*80,
			CarbsG:     55 + rng.Float64()*15,
			ProteinG:   10 + rng.Float64()*5,
			FatG:       6 + rng.Float64()*4,
			ConsumedAt: day.Add(8 * time.Hour),
		},
		{
			Name:       "rice and dal",
			Category:   "lunch",
			Calories:   550 + rng.Float64()*150,
			CarbsG:     80 + rng.Float64()*20,
			ProteinG:   20 + rng.Float64()*8,
			FatG:       12 + rng.Float64()*6,
			ConsumedAt: day.Add(13 * time.Hour),
		},
		{
			Name:       "paneer and vegetables",
			Category:   "dinner",
			Calories:   450 + rng.Float64()*150,
			CarbsG:     35 + rng.Float64()*15,
			ProteinG:   25 + rng.Float64()*10,
			FatG:       18 + rng.Float64()*8,
			ConsumedAt: day.Add(20 * time.Hour),
		},
	}
}

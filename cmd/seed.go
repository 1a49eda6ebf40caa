package cmd

import (
	"time"

	"github.com/theirongolddev/savearn/internal/model"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
)

var (
	flagSeedCount int
	flagSeedDays  int
	flagSeedSeed  int64
)

var seedCmd = &cobra.Command{
	Use:    "seed",
	Short:  "Add random demo entries",
	Hidden: true,
	Args:   cobra.NoArgs,
	RunE:   runSeed,
}

func init() {
	seedCmd.Flags().IntVar(&flagSeedCount, "count", 40, "Entries to add")
	seedCmd.Flags().IntVar(&flagSeedDays, "days", 60, "Spread entries over this many past days")
	seedCmd.Flags().Int64Var(&flagSeedSeed, "seed", 0, "Random seed (0 picks one)")
	rootCmd.AddCommand(seedCmd)
}

// seedPairs are plausible pricier/cheaper pairs per category.
var seedPairs = map[string][][2]string{
	"food":          {{"Café latte", "Office coffee"}, {"Delivery dinner", "Home-cooked pasta"}, {"Lunch out", "Packed lunch"}},
	"transport":     {{"Taxi", "Bus"}, {"Rideshare", "Bike"}, {"Parking garage", "Park and ride"}},
	"shopping":      {{"Brand sneakers", "Store brand"}, {"New jacket", "Thrift jacket"}},
	"entertainment": {{"Cinema", "Streaming night"}, {"Concert", "Free park show"}},
	"lifestyle":     {{"Salon cut", "Home trim"}, {"Bottled water", "Refill bottle"}},
	"health":        {{"Gym day pass", "Home workout"}, {"Smoothie bar", "Blender smoothie"}},
	"other":         {{"Gift wrap", "Newspaper wrap"}},
}

func runSeed(cmd *cobra.Command, _ []string) error {
	sess, release, err := openSession(cmd.Context())
	if err != nil {
		return err
	}
	defer release()

	faker := gofakeit.New(flagSeedSeed)
	now := time.Now()
	start := now.AddDate(0, 0, -max(flagSeedDays-1, 0))

	for i := 0; i < flagSeedCount; i++ {
		category := faker.RandomString(model.CategoryIDs())
		pairs := seedPairs[category]
		pair := pairs[faker.Number(0, len(pairs)-1)]

		price := decimal.NewFromFloat(faker.Price(3, 80)).Round(2)
		paid := price.Mul(decimal.NewFromFloat(faker.Float64Range(0, 0.7))).Round(2)

		in := model.EntryInput{
			Date:            faker.DateRange(start, now).Format(model.DateLayout),
			Category:        category,
			ExpensiveOption: pair[0],
			ExpensiveAmount: price,
			ChosenOption:    pair[1],
			ChosenAmount:    paid,
		}
		if faker.Bool() {
			in.Description = faker.HipsterSentence(4)
		}
		if _, err := sess.Add(cmd.Context(), in); err != nil {
			return describeFailure(err)
		}
	}

	say("  Added %d demo entries for %s\n", flagSeedCount, cfg.General.UserID)
	return nil
}

package main

import (
	"context"
	"io/fs"
	"os"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"

	"github.com/iliyamo/restaurant-checks/internal/config"
	"github.com/iliyamo/restaurant-checks/internal/seed"
	"github.com/iliyamo/restaurant-checks/internal/store"
)

func main() {
	log := logrus.New()

	app := &cli.App{
		Name:  "seed",
		Usage: "wipe the store and load fixture data",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "driver",
				Usage: "store backend (mongo|mysql); defaults to STORE_DRIVER",
			},
			&cli.StringFlag{
				Name:  "fixtures",
				Usage: "directory with tables.yaml, items.yaml, checks.yaml and users.yaml; embedded fixtures when empty",
			},
			&cli.IntFlag{
				Name:  "bcrypt-cost",
				Usage: "bcrypt cost for user passwords; defaults to BCRYPT_COST",
			},
			&cli.DurationFlag{
				Name:  "timeout",
				Value: time.Minute,
				Usage: "overall deadline",
			},
		},
		Action: func(c *cli.Context) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			if d := c.String("driver"); d != "" {
				cfg.StoreDriver = strings.ToLower(strings.TrimSpace(d))
			}
			cost := cfg.BcryptCost
			if c.IsSet("bcrypt-cost") {
				cost = c.Int("bcrypt-cost")
			}

			var fsys fs.FS = seed.Defaults()
			if dir := c.String("fixtures"); dir != "" {
				fsys = os.DirFS(dir)
			}
			fx, err := seed.LoadFixtures(fsys)
			if err != nil {
				return err
			}

			ctx, cancel := context.WithTimeout(c.Context, c.Duration("timeout"))
			defer cancel()

			st, seeder, err := store.Open(ctx, cfg)
			if err != nil {
				return err
			}
			defer func() { _ = st.Close(context.Background()) }()

			log.WithField("driver", cfg.StoreDriver).Info("seeding")
			if err := seed.Run(ctx, seeder, fx, cost, log); err != nil {
				return err
			}
			log.Info("done")
			return nil
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.WithError(err).Fatal("seed failed")
	}
}

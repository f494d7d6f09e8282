package main

import (
	"github.com/spf13/cobra"

	"devup/bootstrap"
	"devup/database"
	"devup/docker"
	"devup/log"
	"devup/services"
	"devup/settings"
	"devup/utils"
)

func newUpCommand() *cobra.Command {
	var recreate bool

	cmd := &cobra.Command{
		Use:       "up [service...]",
		Short:     "Ensure the named dev service containers exist and are running",
		ValidArgs: services.Names,
		Args:      cobra.OnlyValidArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			cfg := settings.FromContext(ctx)
			cfg.Recreate = recreate

			names := args
			if len(names) == 0 {
				names = services.Names
			}

			if err := utils.CreateDirs(cfg.DataPath()); err != nil {
				return err
			}

			db, err := database.CreateConnection(cfg)
			if err != nil {
				return err
			}
			defer db.Close()

			var migrations database.Migrations
			migrations.AddAll(bootstrap.Migrations)
			if err := db.Migrate(migrations); err != nil {
				return err
			}

			controller, err := docker.NewController()
			if err != nil {
				return err
			}
			defer controller.Close()

			if err := controller.Ping(ctx); err != nil {
				return err
			}

			b := bootstrap.New(controller, bootstrap.NewStore(db), cfg.Recreate)

			for _, name := range names {
				c, err := services.ByName(cfg, name)
				if err != nil {
					return err
				}

				if err := b.Ensure(ctx, c); err != nil {
					return err
				}
			}

			log.Info("All requested services are running.")
			return nil
		},
	}

	cmd.Flags().BoolVar(&recreate, "recreate", false,
		"Replace an existing container whose specification changed")

	return cmd
}

package main

import (
	"os"
	"time"

	units "github.com/docker/go-units"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"devup/docker"
	"devup/services"
	"devup/settings"
)

func newStatusCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show the state of the known service containers",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			cfg := settings.FromContext(ctx)

			controller, err := docker.NewController()
			if err != nil {
				return err
			}
			defer controller.Close()

			if err := controller.Ping(ctx); err != nil {
				return err
			}

			t := table.NewWriter()
			t.SetOutputMirror(os.Stdout)
			t.AppendHeader(table.Row{"SERVICE", "IMAGE", "STATE", "CREATED"})

			for _, c := range services.All(cfg) {
				state, err := controller.FindByName(ctx, c.Name)
				if err != nil {
					return err
				}

				if !state.Exists {
					t.AppendRow(table.Row{c.Name, c.Image, "absent", ""})
					continue
				}

				created := units.HumanDuration(time.Since(time.Unix(state.Created, 0))) + " ago"
				t.AppendRow(table.Row{c.Name, state.Image, state.Status, created})
			}

			t.Render()
			return nil
		},
	}
}

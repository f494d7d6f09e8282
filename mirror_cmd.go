package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"devup/mirror"
)

func newMirrorCommand() *cobra.Command {
	var list bool

	cmd := &cobra.Command{
		Use:   "mirror [name]",
		Short: "Rewrite the package-manager mirror list",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if list {
				for _, name := range mirror.Names() {
					fmt.Fprintln(cmd.OutOrStdout(), name)
				}
				return nil
			}

			if os.Geteuid() != 0 {
				return errors.New("mirror setup rewrites files under /etc and must run as root")
			}

			name := mirror.DefaultMirror
			if len(args) == 1 {
				name = args[0]
			}

			return mirror.Setup(mirror.Options{Mirror: name})
		},
	}

	cmd.Flags().BoolVar(&list, "list", false, "List the known mirrors and exit")

	return cmd
}

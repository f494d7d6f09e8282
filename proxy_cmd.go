package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"devup/log"
	"devup/proxy"
	"devup/settings"
)

func newProxyCommand() *cobra.Command {
	var adapter string

	cmd := &cobra.Command{
		Use:   "proxy",
		Short: "Emit proxy exports pointing at the Windows host IP",
		Long: `Discovers the Windows host IP by parsing ipconfig.exe output and prints
shell export lines for it. Meant to be consumed with:

    eval "$(devup proxy)"

When discovery fails the proxy is simply left unset and the command still
exits successfully.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := settings.FromContext(cmd.Context())
			if adapter == "" {
				adapter = cfg.Proxy.Adapter
			}

			ip, err := proxy.Discover(cmd.Context(), adapter)
			if err != nil {
				log.Warn("Proxy left unset: %v", err)
				return nil
			}

			for _, line := range proxy.Exports(ip, cfg.Proxy.HTTPPort, cfg.Proxy.SocksPort) {
				fmt.Fprintln(cmd.OutOrStdout(), line)
			}

			return nil
		},
	}

	cmd.Flags().StringVar(&adapter, "adapter", "",
		"Adapter section header fragment to search for in ipconfig output")

	return cmd
}

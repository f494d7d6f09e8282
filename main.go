package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	_ "github.com/mattn/go-sqlite3"

	"devup/log"
	"devup/settings"
)

func main() {
	if err := newRootCommand().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	var (
		debug      bool
		dataPath   string
		configPath string
	)

	root := &cobra.Command{
		Use:           "devup",
		Short:         "Bootstrap a WSL/Linux development environment",
		SilenceErrors: true,
		SilenceUsage:  true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			path := configPath
			if path == "" {
				path = defaultConfigPath()
			}

			cfg, err := settings.Load(path)
			if err != nil {
				return err
			}

			if debug {
				cfg.IsDebug = true
			}
			log.SetDebug(cfg.IsDebug)
			cfg.SetDataPath(dataPath)

			cmd.SetContext(cfg.NewContext(cmd.Context()))
			return nil
		},
	}

	root.PersistentFlags().BoolVar(&debug, "debug", false, "Enable debug logging")
	root.PersistentFlags().StringVar(&dataPath, "data-path", "", "Path to data directory")
	root.PersistentFlags().StringVar(&configPath, "config", "", "Path to settings file")

	root.AddCommand(newUpCommand())
	root.AddCommand(newStatusCommand())
	root.AddCommand(newMirrorCommand())
	root.AddCommand(newProxyCommand())

	return root
}

func defaultConfigPath() string {
	dir := os.Getenv("XDG_CONFIG_HOME")
	if dir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return filepath.Join(".config", "devup", "settings.yaml")
		}
		dir = filepath.Join(home, ".config")
	}

	return filepath.Join(dir, "devup", "settings.yaml")
}

package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/termtris/internal/config"
)

var flagForce bool

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Inspect the configuration",
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the effective configuration as YAML",
	Args:  cobra.NoArgs,
	RunE: func(_ *cobra.Command, _ []string) error {
		cfg, source, err := config.Load(flagConfig)
		if err != nil {
			return err
		}
		data, err := config.Marshal(cfg)
		if err != nil {
			return err
		}
		fmt.Printf("# source: %s\n", source)
		fmt.Print(string(data))
		return nil
	},
}

var configPathCmd = &cobra.Command{
	Use:   "path",
	Short: "Print the config search order",
	Args:  cobra.NoArgs,
	Run: func(_ *cobra.Command, _ []string) {
		if flagConfig != "" {
			fmt.Println(flagConfig)
			return
		}
		for _, p := range config.SearchPaths() {
			mark := " "
			if _, err := os.Stat(p); err == nil {
				mark = "*"
			}
			fmt.Printf("%s %s\n", mark, p)
		}
		fmt.Printf("  (%s)\n", config.SourceEmbedded)
	},
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write the default configuration to the user config file",
	Args:  cobra.NoArgs,
	RunE: func(_ *cobra.Command, _ []string) error {
		path, err := config.UserConfigPath()
		if err != nil {
			return err
		}
		if _, err := os.Stat(path); err == nil && !flagForce {
			return fmt.Errorf("%s already exists (use --force to overwrite)", path)
		} else if err != nil && !errors.Is(err, fs.ErrNotExist) {
			return err
		}
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return fmt.Errorf("cannot create config directory: %w", err)
		}
		if err := os.WriteFile(path, config.DefaultYAML(), 0o644); err != nil {
			return fmt.Errorf("cannot write config: %w", err)
		}
		fmt.Println(path)
		return nil
	},
}

func init() {
	configInitCmd.Flags().BoolVar(&flagForce, "force", false, "Overwrite an existing file")
	configCmd.AddCommand(configShowCmd, configPathCmd, configInitCmd)
}

package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/sadopc/woolywalk/internal/config"
	"github.com/sadopc/woolywalk/internal/store"
)

var configForce bool

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Inspect or create the config file",
}

var configPathCmd = &cobra.Command{
	Use:   "path",
	Short: "Print where woolywalk reads and writes files",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		saved, err := lastSaved()
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "config    %s\n", configPath())
		fmt.Fprintf(out, "database  %s\n", cfg.DBPath())
		fmt.Fprintf(out, "log       %s\n", cfg.LogPath())
		fmt.Fprintf(out, "saved     %s\n", saved)
		return nil
	},
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write the default config file",
	Long: `Write the default config file.

The existing file is not loaded first, so --force also replaces a config
that no longer parses.`,
	Args: cobra.NoArgs,
	// Replaces the root setup, which would refuse a broken config.
	PersistentPreRunE: func(_ *cobra.Command, _ []string) error { return nil },
	RunE:              runConfigInit,
}

func init() {
	configInitCmd.Flags().BoolVar(&configForce, "force", false, "overwrite an existing file")
	configCmd.AddCommand(configPathCmd)
	configCmd.AddCommand(configInitCmd)
}

func configPath() string {
	if cfgFile != "" {
		return cfgFile
	}
	if p := os.Getenv("WOOLYWALK_CONFIG"); p != "" {
		return p
	}
	return config.GetPaths().ConfigFile
}

// lastSaved describes when progress was last written, without creating a
// database that does not exist yet.
func lastSaved() (string, error) {
	path := cfg.DBPath()
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		return "never", nil
	}

	st, err := store.New(path)
	if err != nil {
		return "", fmt.Errorf("open database: %w", err)
	}
	defer st.Close()

	at, err := st.UpdatedAt(cfg.Storage.Key)
	if errors.Is(err, store.ErrNotFound) {
		return "never", nil
	}
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%s (%s)", at.Local().Format("2006-01-02 15:04:05"), humanize.Time(at)), nil
}

func runConfigInit(cmd *cobra.Command, _ []string) error {
	path := configPath()
	if _, err := os.Stat(path); err == nil && !configForce {
		return fmt.Errorf("%s already exists (use --force to overwrite)", path)
	} else if err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}

	if err := config.Save(config.Default(), path); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", path)
	return nil
}

package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/scriptwatch/scriptwatch/internal/settings"
)

func newEnableCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "enable",
		Short: "Enable the watcher",
		Long: `Enable persists the enabled flag and reports the state the watcher
would enter with the current configuration.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ws, err := openWorkspace(cmd.Context())
			if err != nil {
				return err
			}

			ws.store.SetBool(settings.KeyEnabled, true)

			state, status := ws.checkState()
			fmt.Fprintf(cmd.OutOrStdout(), "%s: %s\n", state, status)

			return nil
		},
	}
}

func newDisableCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "disable",
		Short: "Disable the watcher",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ws, err := openWorkspace(cmd.Context())
			if err != nil {
				return err
			}

			ws.store.SetBool(settings.KeyEnabled, false)

			state, status := ws.checkState()
			fmt.Fprintf(cmd.OutOrStdout(), "%s: %s\n", state, status)

			return nil
		},
	}
}

func newPathCommand() *cobra.Command {
	var extension string

	cmd := &cobra.Command{
		Use:   "path <directory>",
		Short: "Set the watched directory",
		Long: `Path persists the directory to watch, relative to the asset root,
and reports the state the watcher would enter with the current
configuration. The directory is validated against the project tree.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ws, err := openWorkspace(cmd.Context())
			if err != nil {
				return err
			}

			ws.store.SetString(settings.KeyPath, args[0])

			if extension != "" {
				ws.store.SetString(settings.KeyExtension, extension)
			}

			state, status := ws.checkState()
			fmt.Fprintf(cmd.OutOrStdout(), "%s: %s\n", state, status)

			return nil
		},
	}

	cmd.Flags().StringVar(&extension, "extension", "", "tracked file extension, e.g. .cs")

	return cmd
}

func newStatusCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Report the watcher state for the current configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ws, err := openWorkspace(cmd.Context())
			if err != nil {
				return err
			}

			state, status := ws.checkState()
			fmt.Fprintf(cmd.OutOrStdout(), "%s: %s\n", state, status)

			return nil
		},
	}
}

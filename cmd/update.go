package cmd

import (
	"context"
	"fmt"

	"github.com/creativeprojects/go-selfupdate"
	"github.com/spf13/cobra"

	"github.com/smazurov/lightnode/internal/logging"
	"github.com/smazurov/lightnode/internal/version"
)

const updateRepository = "smazurov/lightnode"

// CreateUpdateCmd returns the update command, which replaces the
// running binary with the latest GitHub release.
func CreateUpdateCmd() *cobra.Command {
	updateCmd := &cobra.Command{
		Use:   "update",
		Short: "Update to the latest release",
		Long:  "Checks GitHub for a newer release and replaces the current binary in place.",
		RunE: func(cmd *cobra.Command, args []string) error {
			checkOnly, _ := cmd.Flags().GetBool("check")
			prerelease, _ := cmd.Flags().GetBool("prerelease")

			logger := logging.GetLogger("updater")
			ctx := context.Background()

			source, err := selfupdate.NewGitHubSource(selfupdate.GitHubConfig{})
			if err != nil {
				return fmt.Errorf("create GitHub source: %w", err)
			}
			updater, err := selfupdate.NewUpdater(selfupdate.Config{
				Source:     source,
				Prerelease: prerelease,
			})
			if err != nil {
				return fmt.Errorf("create updater: %w", err)
			}

			release, found, err := updater.DetectLatest(ctx, selfupdate.ParseSlug(updateRepository))
			if err != nil {
				return fmt.Errorf("check for updates: %w", err)
			}
			if !found {
				return fmt.Errorf("no releases found for %s", updateRepository)
			}

			current := version.Version
			if release.LessOrEqual(current) {
				fmt.Printf("Already up to date (%s)\n", current)
				return nil
			}

			fmt.Printf("Update available: %s -> %s\n", current, release.Version())
			if checkOnly {
				return nil
			}

			exe, err := selfupdate.ExecutablePath()
			if err != nil {
				return fmt.Errorf("locate executable: %w", err)
			}

			logger.Info("Applying update", "from", current, "to", release.Version())
			if err := updater.UpdateTo(ctx, release, exe); err != nil {
				return fmt.Errorf("apply update: %w", err)
			}

			fmt.Printf("Updated to %s, restart to use the new version\n", release.Version())
			return nil
		},
	}

	updateCmd.Flags().Bool("check", false, "Only check for an update, do not apply it")
	updateCmd.Flags().Bool("prerelease", false, "Include prereleases when checking")
	return updateCmd
}

package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/pynotedb/doctask/internal/config"
	"github.com/pynotedb/doctask/internal/notedb"
	"github.com/spf13/cobra"
)

var (
	adminFQDN     string
	adminPubkey   string
	allUsersURL   string
	extIDUsername string
	extIDAccount  string

	createAdminUserCmd = &cobra.Command{
		Use:   "create-admin-user",
		Short: "Create the Gerrit admin account in All-Users",
		Long: `Create account 1 in the All-Users repository of a NoteDb Gerrit server.

The account is added to the Administrators group, gets the gerrit, username
and mailto external ids, and an account.config with admin@<fqdn> as its
preferred email. Nothing is pushed when refs/users/01/1 already exists.

All-Users is cloned to notedb.cache_dir (default ~/.cache/pynotedb).

Examples:
  doctask create-admin-user --fqdn gerrit.example.com \
    --pubkey "$(cat ~/.ssh/id_ed25519.pub)" \
    --all-users ssh://admin@gerrit.example.com:29418/All-Users`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.GetConfig()
			if err != nil {
				return err
			}
			url := allUsersURL
			if url == "" {
				url = cfg.NoteDb.AllUsers
			}
			if adminFQDN == "" || adminPubkey == "" || url == "" {
				return errors.New("create-admin-user: needs fqdn, pubkey and all-users argument")
			}

			clone, err := openAllUsers(cmd, cfg, url)
			if err != nil {
				return err
			}
			result, err := clone.CreateAdminUser(cmd.Context(), notedb.AdminEmail(adminFQDN), adminPubkey)
			if err != nil {
				return fmt.Errorf("%s: %w", clone, err)
			}
			if !result.Created {
				fmt.Fprintf(outWriter(), "Admin user already exists at %s\n", result.UserRef)
				return nil
			}
			fmt.Fprintf(outWriter(), "Added admin user to %s\n", result.GroupRef)
			fmt.Fprintf(outWriter(), "Created admin user at %s\n", result.UserRef)
			return nil
		},
	}

	addExternalIDCmd = &cobra.Command{
		Use:   "add-external-id",
		Short: "Add ssh and http login ids for an account",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.GetConfig()
			if err != nil {
				return err
			}
			url := allUsersURL
			if url == "" {
				url = cfg.NoteDb.AllUsers
			}
			if extIDUsername == "" || extIDAccount == "" || url == "" {
				return errors.New("add-external-id: needs username, account-id and all-users argument")
			}

			clone, err := openAllUsers(cmd, cfg, url)
			if err != nil {
				return err
			}
			if err := clone.AddExternalID(cmd.Context(), extIDUsername, extIDAccount); err != nil {
				return fmt.Errorf("%s: %w", clone, err)
			}
			fmt.Fprintf(outWriter(), "Added external ids for %s (account %s)\n", extIDUsername, extIDAccount)
			return nil
		},
	}
)

func init() {
	createAdminUserCmd.Flags().StringVar(&adminFQDN, "fqdn", "", "Server name used for the admin email")
	createAdminUserCmd.Flags().StringVar(&adminPubkey, "pubkey", "", "SSH public key content")
	addExternalIDCmd.Flags().StringVar(&extIDUsername, "username", "", "Account user name")
	addExternalIDCmd.Flags().StringVar(&extIDAccount, "account-id", "", "Numeric account id")
	for _, c := range []*cobra.Command{createAdminUserCmd, addExternalIDCmd} {
		c.Flags().StringVar(&allUsersURL, "all-users", "", "URL of the All-Users project (default notedb.all_users)")
		rootCmd.AddCommand(c)
	}
}

func openAllUsers(cmd *cobra.Command, cfg *config.Config, url string) (*notedb.Clone, error) {
	cacheDir := cfg.NoteDb.CacheDir
	if cacheDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("failed to locate the clone cache: %w", err)
		}
		cacheDir = notedb.DefaultCacheDir(home)
	}
	return notedb.Open(cmd.Context(), url, notedb.Options{
		CacheDir: cacheDir,
		Verbose:  verbose,
		Env:      cfg.NoteDb.GitEnv(),
		Stdout:   outWriter(),
		Stderr:   errWriter(),
	})
}

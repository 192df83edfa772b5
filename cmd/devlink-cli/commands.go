package main

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"devlink/internal/client/api"
	"devlink/internal/client/state"
)

var (
	serverURL string

	client *api.Client
	store  *state.Store

	rootCmd = &cobra.Command{
		Use:   "devlink-cli",
		Short: "A terminal client for a devlink server",
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			client = api.New(serverURL, nil)
			store = state.NewStore()
			if token, err := loadToken(); err == nil && token != "" {
				client.SetToken(token)
				store.Dispatch(state.Action{Kind: state.LoggedIn, Token: token})
			}
		},
	}
)

func init() {
	rootCmd.PersistentFlags().StringVar(&serverURL, "server", "http://localhost:8080", "devlink server base URL")

	rootCmd.AddCommand(
		registerCmd,
		loginCmd,
		logoutCmd,
		whoamiCmd,
		feedCmd,
		postCmd,
		likeCmd,
		unlikeCmd,
		commentCmd,
		profileCmd,
		reposCmd,
		deleteAccountCmd,
	)
	profileCmd.AddCommand(profileListCmd, profileSetCmd)
}

func cmdContext() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), 30*time.Second)
}

func tokenPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "devlink", "token"), nil
}

func loadToken() (string, error) {
	path, err := tokenPath()
	if err != nil {
		return "", err
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(raw)), nil
}

func saveToken(token string) error {
	path, err := tokenPath()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return err
	}
	return os.WriteFile(path, []byte(token+"\n"), 0o600)
}

func clearToken() error {
	path, err := tokenPath()
	if err != nil {
		return err
	}
	err = os.Remove(path)
	if os.IsNotExist(err) {
		return nil
	}
	return err
}

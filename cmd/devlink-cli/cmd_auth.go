package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"devlink/internal/client/state"
	"devlink/internal/client/views"
)

var (
	registerName     string
	registerEmail    string
	registerPassword string

	registerCmd = &cobra.Command{
		Use:   "register",
		Short: "Create an account and store the session token",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := cmdContext()
			defer cancel()

			token, err := client.Register(ctx, registerName, registerEmail, registerPassword)
			if err != nil {
				store.Dispatch(state.Action{Kind: state.AuthError, Err: err.Error()})
				return err
			}
			store.Dispatch(state.Action{Kind: state.Registered, Token: token})
			client.SetToken(token)
			if err := saveToken(token); err != nil {
				return fmt.Errorf("save token: %w", err)
			}

			fmt.Println("Registered as", registerEmail)
			return nil
		},
	}

	loginEmail    string
	loginPassword string

	loginCmd = &cobra.Command{
		Use:   "login",
		Short: "Log in and store the session token",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := cmdContext()
			defer cancel()

			token, err := client.Login(ctx, loginEmail, loginPassword)
			if err != nil {
				store.Dispatch(state.Action{Kind: state.AuthError, Err: err.Error()})
				fmt.Println(views.ErrorBanner(err.Error()))
				return err
			}
			store.Dispatch(state.Action{Kind: state.LoggedIn, Token: token})
			client.SetToken(token)
			if err := saveToken(token); err != nil {
				return fmt.Errorf("save token: %w", err)
			}

			fmt.Println("Logged in as", loginEmail)
			return nil
		},
	}

	logoutCmd = &cobra.Command{
		Use:   "logout",
		Short: "Forget the stored session token",
		RunE: func(cmd *cobra.Command, args []string) error {
			store.Dispatch(state.Action{Kind: state.LoggedOut})
			return clearToken()
		},
	}

	whoamiCmd = &cobra.Command{
		Use:   "whoami",
		Short: "Show the account behind the stored token",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := cmdContext()
			defer cancel()

			user, err := client.Me(ctx)
			if err != nil {
				store.Dispatch(state.Action{Kind: state.AuthError, Err: err.Error()})
				fmt.Println(views.ErrorBanner(err.Error()))
				return err
			}
			store.Dispatch(state.Action{Kind: state.UserLoaded, User: user})

			st := store.State()
			fmt.Printf("%s <%s>\n", st.Auth.User.Name, st.Auth.User.Email)
			return nil
		},
	}

	deleteAccountCmd = &cobra.Command{
		Use:   "delete-account",
		Short: "Permanently delete the account, its profile, and its posts",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := cmdContext()
			defer cancel()

			if err := client.DeleteAccount(ctx); err != nil {
				fmt.Println(views.ErrorBanner(err.Error()))
				return err
			}
			store.Dispatch(state.Action{Kind: state.LoggedOut})
			if err := clearToken(); err != nil {
				return err
			}

			fmt.Println("Account deleted")
			return nil
		},
	}
)

func init() {
	registerCmd.Flags().StringVar(&registerName, "name", "", "display name")
	registerCmd.Flags().StringVar(&registerEmail, "email", "", "email address")
	registerCmd.Flags().StringVar(&registerPassword, "password", "", "password (6+ characters)")
	_ = registerCmd.MarkFlagRequired("name")
	_ = registerCmd.MarkFlagRequired("email")
	_ = registerCmd.MarkFlagRequired("password")

	loginCmd.Flags().StringVar(&loginEmail, "email", "", "email address")
	loginCmd.Flags().StringVar(&loginPassword, "password", "", "password")
	_ = loginCmd.MarkFlagRequired("email")
	_ = loginCmd.MarkFlagRequired("password")
}

package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"devlink/internal/client/api"
	"devlink/internal/client/state"
	"devlink/internal/client/views"
)

var (
	profileCmd = &cobra.Command{
		Use:   "profile",
		Short: "Show or manage profiles",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := cmdContext()
			defer cancel()

			profile, err := client.MyProfile(ctx)
			if err != nil {
				store.Dispatch(state.Action{Kind: state.ProfileError, Err: err.Error()})
				fmt.Println(views.ErrorBanner(store.State().Profile.Err))
				return err
			}
			store.Dispatch(state.Action{Kind: state.ProfileFetched, Profile: profile})

			fmt.Println(views.ProfileCard(store.State().Profile.Profile))
			return nil
		},
	}

	profileListCmd = &cobra.Command{
		Use:   "list",
		Short: "Show the public profile directory",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := cmdContext()
			defer cancel()

			profiles, err := client.Profiles(ctx)
			if err != nil {
				store.Dispatch(state.Action{Kind: state.ProfileError, Err: err.Error()})
			} else {
				store.Dispatch(state.Action{Kind: state.ProfilesFetched, Profiles: profiles})
			}

			fmt.Println(views.ProfileList(store.State().Profile))
			return err
		},
	}

	profileForm api.ProfileUpsert

	profileSetCmd = &cobra.Command{
		Use:   "set",
		Short: "Create or update your profile",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := cmdContext()
			defer cancel()

			if _, err := client.UpsertProfile(ctx, profileForm); err != nil {
				fmt.Println(views.ErrorBanner(err.Error()))
				return err
			}

			// Re-read through the owner join so the card has a name.
			profile, err := client.MyProfile(ctx)
			if err != nil {
				return err
			}
			store.Dispatch(state.Action{Kind: state.ProfileFetched, Profile: profile})

			fmt.Println(views.ProfileCard(store.State().Profile.Profile))
			return nil
		},
	}

	reposCmd = &cobra.Command{
		Use:   "repos [github-username]",
		Short: "Show a user's recent public GitHub repos",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := cmdContext()
			defer cancel()

			repos, err := client.Repos(ctx, args[0])
			if err != nil {
				store.Dispatch(state.Action{Kind: state.ProfileError, Err: err.Error()})
			} else {
				store.Dispatch(state.Action{Kind: state.ReposFetched, Repos: repos})
			}

			fmt.Println(views.Repos(store.State().Profile))
			return err
		},
	}
)

func init() {
	f := profileSetCmd.Flags()
	f.StringVar(&profileForm.Status, "status", "", "professional status (required)")
	f.StringVar(&profileForm.Skills, "skills", "", "comma-delimited skills (required)")
	f.StringVar(&profileForm.Company, "company", "", "company")
	f.StringVar(&profileForm.Website, "website", "", "website URL")
	f.StringVar(&profileForm.Location, "location", "", "location")
	f.StringVar(&profileForm.Bio, "bio", "", "short bio")
	f.StringVar(&profileForm.GithubUsername, "github", "", "GitHub username")
	f.StringVar(&profileForm.Youtube, "youtube", "", "YouTube URL")
	f.StringVar(&profileForm.Twitter, "twitter", "", "Twitter URL")
	f.StringVar(&profileForm.Facebook, "facebook", "", "Facebook URL")
	f.StringVar(&profileForm.Linkedin, "linkedin", "", "LinkedIn URL")
	f.StringVar(&profileForm.Instagram, "instagram", "", "Instagram URL")
	_ = profileSetCmd.MarkFlagRequired("status")
	_ = profileSetCmd.MarkFlagRequired("skills")
}

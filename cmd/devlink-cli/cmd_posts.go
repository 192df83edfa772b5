package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"devlink/internal/client/state"
	"devlink/internal/client/views"
	"devlink/internal/domain/models"
)

var (
	feedCmd = &cobra.Command{
		Use:   "feed",
		Short: "Show all posts, newest first",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := cmdContext()
			defer cancel()

			posts, err := client.Feed(ctx)
			if err != nil {
				store.Dispatch(state.Action{Kind: state.PostError, Err: err.Error()})
			} else {
				store.Dispatch(state.Action{Kind: state.PostsFetched, Posts: posts})
			}

			fmt.Println(views.Feed(store.State().Posts))
			return err
		},
	}

	postCmd = &cobra.Command{
		Use:   "post [text]",
		Short: "Publish a post",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := cmdContext()
			defer cancel()

			post, err := client.CreatePost(ctx, strings.Join(args, " "))
			if err != nil {
				fmt.Println(views.ErrorBanner(err.Error()))
				return err
			}
			store.Dispatch(state.Action{Kind: state.PostAdded, Post: post})

			fmt.Println("Posted", post.ID.Hex())
			return nil
		},
	}

	likeCmd = &cobra.Command{
		Use:   "like [post-id]",
		Short: "Like a post",
		Args:  cobra.ExactArgs(1),
		RunE:  runLike(true),
	}

	unlikeCmd = &cobra.Command{
		Use:   "unlike [post-id]",
		Short: "Withdraw a like",
		Args:  cobra.ExactArgs(1),
		RunE:  runLike(false),
	}

	commentCmd = &cobra.Command{
		Use:   "comment [post-id] [text]",
		Short: "Comment on a post",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := cmdContext()
			defer cancel()

			postID := args[0]
			post, err := client.Post(ctx, postID)
			if err != nil {
				fmt.Println(views.ErrorBanner(err.Error()))
				return err
			}
			store.Dispatch(state.Action{Kind: state.PostFetched, Post: post})

			comments, err := client.AddComment(ctx, postID, strings.Join(args[1:], " "))
			if err != nil {
				store.Dispatch(state.Action{Kind: state.PostError, Err: err.Error()})
				fmt.Println(views.ErrorBanner(err.Error()))
				return err
			}
			store.Dispatch(state.Action{Kind: state.CommentAdded, PostID: post.ID, Comments: comments})

			fmt.Println(views.PostDetail(store.State().PostDetail))
			return nil
		},
	}
)

func runLike(like bool) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		ctx, cancel := cmdContext()
		defer cancel()

		postID := args[0]
		post, err := client.Post(ctx, postID)
		if err != nil {
			fmt.Println(views.ErrorBanner(err.Error()))
			return err
		}

		var likes []models.Like
		if like {
			likes, err = client.Like(ctx, postID)
		} else {
			likes, err = client.Unlike(ctx, postID)
		}
		if err != nil {
			store.Dispatch(state.Action{Kind: state.PostError, Err: err.Error()})
			fmt.Println(views.ErrorBanner(err.Error()))
			return err
		}
		store.Dispatch(state.Action{Kind: state.LikesUpdated, PostID: post.ID, Likes: likes})

		fmt.Printf("%d like(s)\n", len(likes))
		return nil
	}
}

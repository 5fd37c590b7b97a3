package cli

import (
	"fmt"
	"strconv"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"pixelminds/internal/app/post"
)

const titleWidth = 40

func newPostsCommand(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "posts",
		Short: "List, publish and delete posts",
	}

	cmd.AddCommand(
		newPostsListCommand(a),
		newPostsCreateCommand(a),
		newPostsDeleteCommand(a),
	)
	return cmd
}

func newPostsListCommand(a *app) *cobra.Command {
	var (
		search string
		author string
		month  int
		mine   bool
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List posts, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if month < 0 || month > 12 {
				return fmt.Errorf("--month must be between 1 and 12")
			}

			identity, err := a.session.Check(cmd.Context())
			if err != nil {
				return userError(err)
			}

			posts, err := a.client.ListPosts(cmd.Context())
			if err != nil {
				return userError(err)
			}

			posts = post.VisibleTo(posts, identity)
			if mine {
				posts = post.ByAuthor(posts, identity.ID)
			}
			posts = post.Search(posts, search)
			posts = post.ByAuthorName(posts, author)
			if month > 0 {
				posts = post.ByMonth(posts, time.Month(month))
			}
			posts = post.SortNewest(posts)

			out := cmd.OutOrStdout()
			if len(posts) == 0 {
				printf(out, "No posts found.\n")
				return nil
			}

			tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
			printf(tw, "ID\tDATE\tAUTHOR\tTITLE\tTAGS\n")
			for _, p := range posts {
				printf(tw, "%d\t%s\t%s\t%s\t%s\n",
					p.ID,
					p.CreatedAt.Format("2006-01-02"),
					displayName(p.AuthorName, "-"),
					post.Truncate(p.Title, titleWidth),
					p.Tags,
				)
			}
			return tw.Flush()
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&search, "search", "", "match title or tags")
	flags.StringVar(&author, "author", "", "match author name")
	flags.IntVar(&month, "month", 0, "only posts created in this month (1-12)")
	flags.BoolVar(&mine, "mine", false, "only your own posts")

	return cmd
}

func newPostsCreateCommand(a *app) *cobra.Command {
	var (
		draft post.Draft
		admin bool
	)

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Publish a post",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			identity, err := a.session.Check(cmd.Context())
			if err != nil {
				return userError(err)
			}
			draft.AuthorID = identity.ID

			submit := a.client.CreatePost
			if admin {
				submit = a.client.CreateAdminPost
			}

			result, err := submit(cmd.Context(), draft)
			if err != nil {
				return userError(err)
			}

			printf(cmd.OutOrStdout(), "%s\n", displayName(result.Message, "Post published."))
			return nil
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&draft.Title, "title", "", "post title (default \""+post.DefaultTitle+"\")")
	flags.StringVar(&draft.Content, "content", "", "post body")
	flags.StringVar(&draft.Tags, "tags", "", "tags separated by commas or spaces")
	flags.BoolVar(&admin, "admin", false, "publish through the admin endpoint")
	_ = cmd.MarkFlagRequired("content")

	return cmd
}

func newPostsDeleteCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a post",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil || id <= 0 {
				return fmt.Errorf("invalid post id %q", args[0])
			}

			if _, err := a.session.Check(cmd.Context()); err != nil {
				return userError(err)
			}

			result, err := a.client.DeletePost(cmd.Context(), id)
			if err != nil {
				return userError(err)
			}

			printf(cmd.OutOrStdout(), "%s\n", displayName(result.Message, fmt.Sprintf("Post %d deleted.", id)))
			return nil
		},
	}
}

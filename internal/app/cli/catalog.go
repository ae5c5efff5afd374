package cli

import (
	"fmt"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	reviewsdomain "github.com/Apurer/tourbook/internal/domains/reviews/domain"
	toursports "github.com/Apurer/tourbook/internal/domains/tours/ports"
	"github.com/Apurer/tourbook/internal/shared/pagination"
)

func newToursCommand(app *App, out printerFunc) *cobra.Command {
	cmd := &cobra.Command{Use: "tours", Short: "Browse the tour catalog"}

	var q toursports.Query
	list := &cobra.Command{
		Use:   "list",
		Short: "List tours",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			page, err := app.tours.List(cmd.Context(), q)
			if err != nil {
				return err
			}
			return out(cmd).print(page, func(tw *tabwriter.Writer) {
				row(tw, "SLUG", "TITLE", "CATEGORY", "PRICE", "DAYS", "RATING")
				for _, t := range page.Items {
					row(tw, t.Slug, t.Title, t.Category, money(t.Price), t.DurationDays, fmt.Sprintf("%.1f", t.Rating))
				}
				pageFooter(tw, page.Page, page.TotalPages, page.Total)
			})
		},
	}
	list.Flags().IntVar(&q.Page, "page", 1, "page number")
	list.Flags().IntVar(&q.Limit, "limit", pagination.DefaultPageSize, "tours per page")
	list.Flags().StringVar(&q.Search, "search", "", "match title or location")
	list.Flags().StringVar(&q.Category, "category", "", "filter by category")

	get := &cobra.Command{
		Use:   "get <slug>",
		Short: "Show one tour",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			tour, err := app.tours.Get(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return out(cmd).print(tour, func(tw *tabwriter.Writer) {
				row(tw, "ID:", tour.ID)
				row(tw, "Title:", tour.Title)
				row(tw, "Location:", tour.Location)
				row(tw, "Category:", tour.Category)
				row(tw, "Price:", money(tour.Price))
				row(tw, "Duration:", fmt.Sprintf("%d days", tour.DurationDays))
				row(tw, "Rating:", fmt.Sprintf("%.1f (%d reviews)", tour.Rating, tour.ReviewCount))
				if tour.Summary != "" {
					row(tw, "Summary:", tour.Summary)
				}
			})
		},
	}

	cmd.AddCommand(list, get)
	return cmd
}

func newBlogCommand(app *App, out printerFunc) *cobra.Command {
	cmd := &cobra.Command{Use: "blog", Short: "Read travel articles"}

	var page, limit int
	list := &cobra.Command{
		Use:   "list",
		Short: "List posts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			posts, err := app.blog.List(cmd.Context(), page, limit)
			if err != nil {
				return err
			}
			return out(cmd).print(posts, func(tw *tabwriter.Writer) {
				row(tw, "SLUG", "TITLE", "AUTHOR", "PUBLISHED")
				for _, p := range posts.Items {
					row(tw, p.Slug, p.Title, p.Author, p.PublishedAt.Format("2006-01-02"))
				}
				pageFooter(tw, posts.Page, posts.TotalPages, posts.Total)
			})
		},
	}
	list.Flags().IntVar(&page, "page", 1, "page number")
	list.Flags().IntVar(&limit, "limit", pagination.DefaultPageSize, "posts per page")

	get := &cobra.Command{
		Use:   "get <slug>",
		Short: "Print one post",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			post, err := app.blog.Get(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return out(cmd).print(post, func(tw *tabwriter.Writer) {
				fmt.Fprintf(tw, "%s\nby %s, %s\n\n%s\n", post.Title, post.Author, post.PublishedAt.Format("2006-01-02"), post.Content)
			})
		},
	}

	cmd.AddCommand(list, get)
	return cmd
}

func newReviewsCommand(app *App, out printerFunc) *cobra.Command {
	cmd := &cobra.Command{Use: "reviews", Short: "Read and write tour reviews"}

	var page int
	list := &cobra.Command{
		Use:   "list <tour-id>",
		Short: "List reviews for a tour",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			reviews, err := app.reviews.ListForTour(cmd.Context(), args[0], page)
			if err != nil {
				return err
			}
			return out(cmd).print(reviews, func(tw *tabwriter.Writer) {
				row(tw, "ID", "RATING", "BY", "COMMENT")
				for _, r := range reviews.Items {
					row(tw, r.ID, strings.Repeat("*", r.Rating), r.UserName, r.Comment)
				}
				pageFooter(tw, reviews.Page, reviews.TotalPages, reviews.Total)
				fmt.Fprintf(tw, "average rating %.1f\n", reviewsdomain.Average(reviews.Items))
			})
		},
	}
	list.Flags().IntVar(&page, "page", 1, "page number")

	var form reviewsdomain.ReviewForm
	add := &cobra.Command{
		Use:   "add <tour-id>",
		Short: "Review a tour",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := app.ensureSession(cmd.Context()); err != nil {
				return err
			}
			form.TourID = args[0]
			review, err := app.reviews.Create(cmd.Context(), form)
			if err != nil {
				return err
			}
			return out(cmd).print(review, func(tw *tabwriter.Writer) {
				fmt.Fprintf(tw, "review %s added\n", review.ID)
			})
		},
	}
	add.Flags().IntVar(&form.Rating, "rating", 5, "rating from 1 to 5")
	add.Flags().StringVar(&form.Comment, "comment", "", "review text")

	del := &cobra.Command{
		Use:   "delete <review-id>",
		Short: "Delete a review (administrators only)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := app.ensureSession(cmd.Context()); err != nil {
				return err
			}
			if err := app.reviews.Delete(cmd.Context(), args[0]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "review %s deleted\n", args[0])
			return nil
		},
	}

	cmd.AddCommand(list, add, del)
	return cmd
}

func money(v float64) string {
	return "$" + strconv.FormatFloat(v, 'f', 2, 64)
}

package cli

import (
	"io"
	"os"
	"strings"

	"github.com/go-faster/errors"
	"github.com/spf13/cobra"

	"github.com/smartbuy360/backend/internal/domain"
	"github.com/smartbuy360/backend/internal/server"
	"github.com/smartbuy360/backend/internal/usecase"
)

type searchOutput struct {
	Query   string            `json:"query"`
	Type    domain.SearchType `json:"type"`
	Sort    domain.SortBy     `json:"sort"`
	Count   int               `json:"count"`
	Results []domain.Product  `json:"results"`
}

func (a *app) searchCommand() *cobra.Command {
	var searchType, sortBy string

	cmd := &cobra.Command{
		Use:   "search [query...]",
		Short: "Search products by name or barcode",
		Long:  "Search the catalog. An empty query lists every product.",
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := domain.ParseSearchType(searchType)
			if err != nil {
				return err
			}
			session, err := a.newSession(sortBy)
			if err != nil {
				return err
			}

			if _, err := session.Search(cmd.Context(), strings.Join(args, " "), st); err != nil {
				return errors.Wrap(err, "search")
			}
			return a.renderSearch(session.Store())
		},
	}
	cmd.Flags().StringVarP(&searchType, "type", "t", "name", "Search type: name, barcode, image")
	cmd.Flags().StringVarP(&sortBy, "sort", "s", "price", "Sort order: price, rating, delivery")
	return cmd
}

func (a *app) imageCommand() *cobra.Command {
	var sortBy string

	cmd := &cobra.Command{
		Use:   "image <file>",
		Short: "Find products similar to a photo",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := os.ReadFile(args[0])
			if err != nil {
				return errors.Wrap(err, "read image")
			}
			session, err := a.newSession(sortBy)
			if err != nil {
				return err
			}

			if _, err := session.SearchByImage(cmd.Context(), data); err != nil {
				return errors.Wrap(err, "image search")
			}
			return a.renderSearch(session.Store())
		},
	}
	cmd.Flags().StringVarP(&sortBy, "sort", "s", "price", "Sort order: price, rating, delivery")
	return cmd
}

func (a *app) newSession(sortBy string) (*usecase.SearchSession, error) {
	sb, err := domain.ParseSortBy(sortBy)
	if err != nil {
		return nil, err
	}
	store := usecase.NewSearchStore()
	store.SetSortBy(sb)
	return usecase.NewSearchSession(store, a.catalog(), a.logger, a.reg), nil
}

func (a *app) renderSearch(store *usecase.SearchStore) error {
	state := store.Snapshot()
	results := store.SortedResults()
	out := searchOutput{
		Query:   state.Query,
		Type:    state.SearchType,
		Sort:    state.SortBy,
		Count:   len(results),
		Results: results,
	}
	return a.render(out, func(w io.Writer) { printProducts(w, results) })
}

func (a *app) productCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "product <id>",
		Short: "Show a product and its vendor offers",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			product, err := a.catalog().GetProduct(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return a.render(product, func(w io.Writer) { printProduct(w, product) })
		},
	}
}

func (a *app) compareCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "compare <id>",
		Short: "Compare vendor offers, price history and reviews for a product",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			comparison, err := usecase.NewCompareService(a.catalog()).Compare(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return a.render(comparison, func(w io.Writer) { printComparison(w, comparison) })
		},
	}
}

func (a *app) historyCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "history <id>",
		Short: "Show the price history of a product",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			points, err := a.catalog().GetPriceHistory(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if points == nil {
				points = []domain.PricePoint{}
			}
			out := struct {
				ProductID string                `json:"productId"`
				Points    []domain.PricePoint   `json:"points"`
				Summary   domain.HistorySummary `json:"summary"`
			}{args[0], points, domain.SummarizeHistory(points)}
			return a.render(out, func(w io.Writer) { printHistory(w, points) })
		},
	}
}

func (a *app) reviewsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "reviews <id>",
		Short: "List the reviews of a product",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			reviews, err := a.catalog().GetReviews(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if reviews == nil {
				reviews = []domain.Review{}
			}
			return a.render(reviews, func(w io.Writer) { printReviews(w, reviews) })
		},
	}
}

func (a *app) reviewCommand() *cobra.Command {
	var submission domain.ReviewSubmission

	cmd := &cobra.Command{
		Use:   "review <id>",
		Short: "Submit a review for a product",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			submission.ProductID = args[0]
			receipt, err := a.catalog().SubmitReview(cmd.Context(), submission)
			if err != nil {
				return err
			}
			return a.render(receipt, func(w io.Writer) {
				io.WriteString(w, "Review submitted: "+receipt.ID+"\n")
			})
		},
	}
	cmd.Flags().IntVarP(&submission.Rating, "rating", "r", 0, "Rating from 1 to 5")
	cmd.Flags().StringVar(&submission.Text, "text", "", "Review text")
	cmd.Flags().StringVar(&submission.Author, "author", "", "Author name")
	_ = cmd.MarkFlagRequired("rating")
	return cmd
}

func (a *app) serveCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the SmartBuy360 HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			return server.Run(cmd.Context(), a.cfg, a.logger)
		},
	}
	cmd.Flags().String("port", "", "Port to listen on (default 8080)")
	_ = a.v.BindPFlag("server.port", cmd.Flags().Lookup("port"))
	return cmd
}

package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/smartbuy360/backend/internal/domain"
)

func (a *app) favoritesCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "fav",
		Aliases: []string{"favorites"},
		Short:   "Manage saved products",
	}
	cmd.AddCommand(
		a.favListCommand(),
		a.favAddCommand(),
		a.favRemoveCommand(),
		a.favToggleCommand(),
	)
	return cmd
}

func (a *app) favListCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List saved products in the order they were added",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			favs, err := a.favoritesStore(cmd.Context())
			if err != nil {
				return err
			}
			items := favs.Items()
			return a.render(items, func(w io.Writer) { printProducts(w, items) })
		},
	}
}

func (a *app) favAddCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "add <id>",
		Short: "Save a product",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			product, err := a.catalog().GetProduct(ctx, args[0])
			if err != nil {
				return err
			}
			favs, err := a.favoritesStore(ctx)
			if err != nil {
				return err
			}
			if err := favs.Add(ctx, *product); err != nil {
				return err
			}
			return a.renderFavorite(product.ID, true)
		},
	}
}

func (a *app) favRemoveCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "remove <id>",
		Short: "Forget a saved product",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			favs, err := a.favoritesStore(cmd.Context())
			if err != nil {
				return err
			}
			if err := favs.Remove(cmd.Context(), args[0]); err != nil {
				return err
			}
			return a.renderFavorite(args[0], false)
		},
	}
}

func (a *app) favToggleCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "toggle <id>",
		Short: "Save a product, or forget it if already saved",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			favs, err := a.favoritesStore(ctx)
			if err != nil {
				return err
			}

			product := &domain.Product{ID: args[0]}
			if !favs.IsFavorite(args[0]) {
				if product, err = a.catalog().GetProduct(ctx, args[0]); err != nil {
					return err
				}
			}
			saved, err := favs.Toggle(ctx, *product)
			if err != nil {
				return err
			}
			return a.renderFavorite(product.ID, saved)
		},
	}
}

func (a *app) renderFavorite(id string, saved bool) error {
	out := struct {
		ID       string `json:"id"`
		Favorite bool   `json:"favorite"`
	}{id, saved}
	return a.render(out, func(w io.Writer) {
		if saved {
			fmt.Fprintf(w, "Saved %s to favorites\n", id)
			return
		}
		fmt.Fprintf(w, "Removed %s from favorites\n", id)
	})
}

package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/utafrali/shopease/internal/service"
)

func newProductsCmd(c *cli) *cobra.Command {
	var q service.BrowseQuery

	cmd := &cobra.Command{
		Use:   "products",
		Short: "List products, optionally by category and title text",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			products, err := c.core.Services.Catalog.Browse(cmd.Context(), q)
			if err != nil {
				return err
			}
			renderProducts(cmd.OutOrStdout(), products)
			return nil
		},
	}
	cmd.Flags().StringVarP(&q.Category, "category", "c", "", "category name or slug")
	cmd.Flags().StringVarP(&q.Search, "search", "s", "", "case-insensitive title filter")
	return cmd
}

func newProductCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "product <id>",
		Short: "Show one product",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.Atoi(args[0])
			if err != nil || id <= 0 {
				return fmt.Errorf("invalid product id %q", args[0])
			}
			p, err := c.core.Services.Catalog.Product(cmd.Context(), id)
			if err != nil {
				return err
			}
			renderProduct(cmd.OutOrStdout(), p)
			return nil
		},
	}
}

func newCategoriesCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "categories",
		Short: "List catalog categories",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			categories, err := c.core.Services.Catalog.Categories(cmd.Context())
			if err != nil {
				return err
			}
			renderCategories(cmd.OutOrStdout(), categories)
			return nil
		},
	}
}

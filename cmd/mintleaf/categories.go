package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/mintleaf-fin/mintleaf/internal/cli"
	"github.com/mintleaf-fin/mintleaf/internal/model"
	"github.com/mintleaf-fin/mintleaf/internal/rules"
)

func categoriesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "categories",
		Short: "Manage transaction categories",
		Long:  `List, add, and update the categories that income and expense transactions are tagged with.`,
	}

	cmd.AddCommand(listCategoriesCmd())
	cmd.AddCommand(addCategoryCmd())
	cmd.AddCommand(updateCategoryCmd())

	return cmd
}

func listCategoriesCmd() *cobra.Command {
	var offline bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List all categories",
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}
			defer a.close()

			ctx := cmd.Context()
			var categories []model.Category

			if offline {
				if a.snapshots == nil {
					return fmt.Errorf("offline mode requires a working snapshot cache")
				}
				if categories, err = a.snapshots.Categories(ctx); err != nil {
					return fmt.Errorf("failed to read category snapshot: %w", err)
				}
			} else {
				if err := a.categories.Load(ctx); err != nil {
					return err
				}
				categories = a.categories.All()
			}

			if len(categories) == 0 {
				fmt.Println(cli.InfoStyle.Render("No categories found. Use 'mintleaf categories add' to create one."))
				return nil
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			defer w.Flush()

			fmt.Fprintf(w, "%s\t%s\t%s\t%s\n",
				cli.HeaderStyle.Render("ID"),
				cli.HeaderStyle.Render("Name"),
				cli.HeaderStyle.Render("Type"),
				cli.HeaderStyle.Render("Icon"))

			for _, cat := range categories {
				icon := cat.Icon
				if icon == "" {
					icon = cli.SubtleStyle.Render("(none)")
				}
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", cat.ID, cat.Name, cat.Type, icon)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&offline, "offline", false, "read the last fetched snapshot instead of the server")
	return cmd
}

func addCategoryCmd() *cobra.Command {
	var (
		name         string
		categoryType string
		icon         string
	)

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add a category",
		RunE: func(cmd *cobra.Command, _ []string) error {
			kind := model.CategoryType(categoryType)
			if !kind.Valid() {
				return fmt.Errorf("invalid category type %q, expected income or expense", categoryType)
			}

			a, err := newApp()
			if err != nil {
				return err
			}
			defer a.close()

			ctx := cmd.Context()

			// The duplicate check runs against the loaded set.
			if err := a.categories.Load(ctx); err != nil {
				return err
			}

			return a.categories.Add(ctx, rules.CategoryInput{
				Name: name,
				Type: kind,
				Icon: icon,
			})
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "category name, unique across both types")
	cmd.Flags().StringVar(&categoryType, "type", "", "income or expense")
	cmd.Flags().StringVar(&icon, "icon", "", "emoji icon")

	return cmd
}

func updateCategoryCmd() *cobra.Command {
	var (
		name         string
		categoryType string
		icon         string
	)

	cmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Update a category",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			kind := model.CategoryType(categoryType)
			if !kind.Valid() {
				return fmt.Errorf("invalid category type %q, expected income or expense", categoryType)
			}

			a, err := newApp()
			if err != nil {
				return err
			}
			defer a.close()

			return a.categories.Update(cmd.Context(), args[0], rules.CategoryInput{
				Name: name,
				Type: kind,
				Icon: icon,
			})
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "new category name")
	cmd.Flags().StringVar(&categoryType, "type", "", "income or expense")
	cmd.Flags().StringVar(&icon, "icon", "", "emoji icon")

	return cmd
}

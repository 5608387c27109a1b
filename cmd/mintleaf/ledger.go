package main

import (
	"context"
	"fmt"
	"os"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/mintleaf-fin/mintleaf/internal/cli"
	"github.com/mintleaf-fin/mintleaf/internal/model"
	"github.com/mintleaf-fin/mintleaf/internal/rules"
	"github.com/mintleaf-fin/mintleaf/internal/store"
)

func ledgerCmd(kind model.LedgerKind) *cobra.Command {
	cmd := &cobra.Command{
		Use:   string(kind),
		Short: fmt.Sprintf("Manage the %s ledger", kind),
	}

	cmd.AddCommand(ledgerListCmd(kind))
	cmd.AddCommand(ledgerAddCmd(kind))
	cmd.AddCommand(ledgerDeleteCmd(kind))
	cmd.AddCommand(ledgerDownloadCmd(kind))
	cmd.AddCommand(ledgerEmailCmd(kind))

	return cmd
}

func ledgerListCmd(kind model.LedgerKind) *cobra.Command {
	var offline bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: fmt.Sprintf("List all %s transactions", kind),
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}
			defer a.close()

			ctx := cmd.Context()
			var transactions []model.Transaction

			if offline {
				if a.snapshots == nil {
					return fmt.Errorf("offline mode requires a working snapshot cache")
				}
				if transactions, err = a.snapshots.Transactions(ctx, kind); err != nil {
					return fmt.Errorf("failed to read %s snapshot: %w", kind, err)
				}
			} else {
				ledger := a.ledger(kind)
				if err := ledger.Load(ctx); err != nil {
					return err
				}
				transactions = ledger.Transactions()
			}

			renderTransactions(kind, transactions, offline)
			return nil
		},
	}

	cmd.Flags().BoolVar(&offline, "offline", false, "read the last fetched snapshot instead of the server")
	return cmd
}

func renderTransactions(kind model.LedgerKind, transactions []model.Transaction, offline bool) {
	title := fmt.Sprintf("%s ledger", strings.ToUpper(string(kind)[:1])+string(kind)[1:])
	if offline {
		title += cli.SubtleStyle.Render(" (offline snapshot)")
	}
	fmt.Println(cli.TitleStyle.Render(title))

	if len(transactions) == 0 {
		fmt.Println(cli.InfoStyle.Render(fmt.Sprintf("No %s transactions found. Use 'mintleaf %s add' to create one.", kind, kind)))
		return
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	defer w.Flush()

	fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
		cli.HeaderStyle.Render("ID"),
		cli.HeaderStyle.Render("Date"),
		cli.HeaderStyle.Render("Name"),
		cli.HeaderStyle.Render("Category"),
		cli.HeaderStyle.Render("Amount"))

	for _, tx := range transactions {
		name := tx.Name
		if tx.Icon != "" {
			name = tx.Icon + " " + name
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n", tx.ID, tx.Date, name, tx.CategoryID, tx.Amount.StringFixed(2))
	}

	fmt.Fprintf(w, "\t\t\t%s\t%s\n", cli.HeaderStyle.Render("Total"), model.Sum(transactions).StringFixed(2))
}

func ledgerAddCmd(kind model.LedgerKind) *cobra.Command {
	var (
		name     string
		amount   string
		date     string
		category string
		icon     string
	)

	cmd := &cobra.Command{
		Use:   "add",
		Short: fmt.Sprintf("Add a %s transaction", kind),
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}
			defer a.close()

			ctx := cmd.Context()
			ledger := a.ledger(kind)

			categoryID, err := resolveCategory(ctx, ledger, category)
			if err != nil {
				return err
			}

			return ledger.Add(ctx, rules.TransactionInput{
				Name:       name,
				CategoryID: categoryID,
				Amount:     amount,
				Date:       date,
				Icon:       icon,
			})
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "transaction name")
	cmd.Flags().StringVar(&amount, "amount", "", "amount, greater than 0")
	cmd.Flags().StringVar(&date, "date", time.Now().Format("2006-01-02"), "calendar date (YYYY-MM-DD, not in the future)")
	cmd.Flags().StringVar(&category, "category", "", "category id or name")
	cmd.Flags().StringVar(&icon, "icon", "", "emoji icon")

	return cmd
}

// resolveCategory turns a category id or name into an id, fetching this
// ledger's categories for name lookup. An empty value passes through so the
// store can report the missing field in order.
func resolveCategory(ctx context.Context, ledger *store.Ledger, value string) (string, error) {
	if value == "" {
		return "", nil
	}

	if err := ledger.LoadCategories(ctx); err != nil {
		return "", err
	}

	for _, cat := range ledger.Categories() {
		if cat.ID == value || strings.EqualFold(strings.TrimSpace(cat.Name), strings.TrimSpace(value)) {
			return cat.ID, nil
		}
	}
	return "", fmt.Errorf("unknown category %q for the %s ledger", value, ledger.Kind())
}

func ledgerDeleteCmd(kind model.LedgerKind) *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "delete <id>",
		Short: fmt.Sprintf("Delete a %s transaction", kind),
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}
			defer a.close()

			ledger := a.ledger(kind)
			ledger.RequestDelete(args[0])

			if !yes && !cli.Confirm(os.Stdin, os.Stdout, fmt.Sprintf("Delete %s transaction %s?", kind, args[0])) {
				ledger.CancelDelete()
				fmt.Println(cli.InfoStyle.Render("Aborted."))
				return nil
			}

			return ledger.Delete(cmd.Context(), args[0])
		},
	}

	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "skip the confirmation prompt")
	return cmd
}

func ledgerDownloadCmd(kind model.LedgerKind) *cobra.Command {
	return &cobra.Command{
		Use:   "download",
		Short: fmt.Sprintf("Download the %s ledger as a spreadsheet", kind),
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}
			defer a.close()

			ctx := cmd.Context()
			if err := a.ledger(kind).Load(ctx); err != nil {
				return err
			}

			_, err = a.exporter(kind).Download(ctx)
			return err
		},
	}
}

func ledgerEmailCmd(kind model.LedgerKind) *cobra.Command {
	return &cobra.Command{
		Use:   "email",
		Short: fmt.Sprintf("Email the %s ledger spreadsheet to yourself", kind),
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}
			defer a.close()

			ctx := cmd.Context()
			if err := a.ledger(kind).Load(ctx); err != nil {
				return err
			}

			return a.exporter(kind).Email(ctx)
		},
	}
}

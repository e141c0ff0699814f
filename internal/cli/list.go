package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/vbonduro/kitchenflow/internal/domain"
)

// NewListCommand groups the shopping list commands.
func NewListCommand(opts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "Manage the shopping list",
	}

	cmd.AddCommand(&cobra.Command{
		Use:          "show",
		Short:        "Print the shopping list",
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: withApp(opts, func(cmd *cobra.Command, _ []string, app *App, out *OutputFormatter) error {
			items, err := app.Service.ShoppingList(cmd.Context())
			if err != nil {
				return err
			}
			return out.Success(items, func(w io.Writer) { printShopping(w, items) })
		}),
	})

	cmd.AddCommand(&cobra.Command{
		Use:          "add <text>",
		Short:        `Add items, e.g. "milk, eggs at Tesco" or "在Asda买牛奶和苹果"`,
		Args:         cobra.MinimumNArgs(1),
		SilenceUsage: true,
		RunE: withApp(opts, func(cmd *cobra.Command, args []string, app *App, out *OutputFormatter) error {
			added, err := app.Service.AddShoppingItems(cmd.Context(), strings.Join(args, " "))
			return out.Written(added, err, func(w io.Writer) {
				if len(added) == 0 {
					fmt.Fprintln(w, "nothing new to add")
					return
				}
				printShopping(w, added)
			})
		}),
	})

	cmd.AddCommand(&cobra.Command{
		Use:          "toggle <id>",
		Short:        "Check or uncheck an item",
		Args:         cobra.ExactArgs(1),
		SilenceUsage: true,
		RunE: withApp(opts, func(cmd *cobra.Command, args []string, app *App, out *OutputFormatter) error {
			item, err := app.Service.ToggleShoppingItem(cmd.Context(), args[0])
			if item == nil {
				return err
			}
			return out.Written(item, err, func(w io.Writer) { printShopping(w, []domain.ShoppingItem{*item}) })
		}),
	})

	cmd.AddCommand(&cobra.Command{
		Use:          "remove <id>",
		Short:        "Remove an item",
		Args:         cobra.ExactArgs(1),
		SilenceUsage: true,
		RunE: withApp(opts, func(cmd *cobra.Command, args []string, app *App, out *OutputFormatter) error {
			err := app.Service.RemoveShoppingItem(cmd.Context(), args[0])
			return out.Written(map[string]string{"removed": args[0]}, err, func(w io.Writer) {
				fmt.Fprintf(w, "removed %s\n", args[0])
			})
		}),
	})

	cmd.AddCommand(&cobra.Command{
		Use:          "clear",
		Short:        "Remove every checked item",
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: withApp(opts, func(cmd *cobra.Command, _ []string, app *App, out *OutputFormatter) error {
			n, err := app.Service.ClearCompleted(cmd.Context())
			return out.Written(map[string]int{"removed": n}, err, func(w io.Writer) {
				fmt.Fprintf(w, "removed %d checked item(s)\n", n)
			})
		}),
	})

	cmd.AddCommand(&cobra.Command{
		Use:          "shop",
		Short:        "Print the online shop for the unchecked items",
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: withApp(opts, func(cmd *cobra.Command, _ []string, app *App, out *OutputFormatter) error {
			store, url, err := app.Service.ShoppingLink(cmd.Context())
			if err != nil {
				return err
			}
			data := map[string]string{"store": string(store), "url": url}
			return out.Success(data, func(w io.Writer) {
				if url == "" {
					fmt.Fprintf(w, "%s (no online shop)\n", store)
					return
				}
				fmt.Fprintf(w, "%s\n%s\n", store, url)
			})
		}),
	})

	cmd.AddCommand(&cobra.Command{
		Use:          "route",
		Short:        "Print the stores to visit for the unchecked items",
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: withApp(opts, func(cmd *cobra.Command, _ []string, app *App, out *OutputFormatter) error {
			stops, err := app.Service.ShoppingRoute(cmd.Context())
			if err != nil {
				return err
			}
			return out.Success(stops, func(w io.Writer) {
				for i, s := range stops {
					fmt.Fprintf(w, "%d. %s\n", i+1, s)
				}
			})
		}),
	})

	cmd.AddCommand(&cobra.Command{
		Use:          "watch",
		Short:        "Print the list again whenever it changes remotely",
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: withApp(opts, func(cmd *cobra.Command, _ []string, app *App, out *OutputFormatter) error {
			// Reloads arrive on their own goroutines.
			var mu sync.Mutex
			err := app.Service.WatchShoppingList(cmd.Context(), func(items []domain.ShoppingItem) {
				mu.Lock()
				defer mu.Unlock()
				if err := out.Success(items, func(w io.Writer) { printShopping(w, items) }); err != nil {
					app.Logger.Warn("failed to print shopping list", "error", err)
				}
			})
			if errors.Is(err, context.Canceled) {
				return nil
			}
			return err
		}),
	})

	return cmd
}

func printShopping(w io.Writer, items []domain.ShoppingItem) {
	if len(items) == 0 {
		fmt.Fprintln(w, "the shopping list is empty")
		return
	}
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	for _, it := range items {
		mark := "[ ]"
		if it.Checked {
			mark = "[x]"
		}
		name := it.Name
		if it.Quantity != "" {
			name += " (" + it.Quantity + ")"
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", mark, name, it.Store, it.ID)
	}
	_ = tw.Flush()
}

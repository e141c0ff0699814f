package cli

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/vbonduro/kitchenflow/internal/domain"
)

// NewCravingCommand groups the craving commands. Cravings are kept on this
// device only.
func NewCravingCommand(opts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "craving",
		Short: "Save dishes you want to cook",
	}

	cmd.AddCommand(&cobra.Command{
		Use:          "show",
		Short:        "Print saved cravings, newest first",
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: withApp(opts, func(cmd *cobra.Command, _ []string, app *App, out *OutputFormatter) error {
			cravings, err := app.Service.Cravings(cmd.Context())
			if err != nil {
				return err
			}
			return out.Success(cravings, func(w io.Writer) {
				if len(cravings) == 0 {
					fmt.Fprintln(w, "no cravings")
					return
				}
				tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
				for _, c := range cravings {
					fmt.Fprintf(tw, "%s\t%s\t%s\n", c.Name, c.Type, c.ID)
				}
				_ = tw.Flush()
			})
		}),
	})

	cmd.AddCommand(newCaptureCommand(opts, "add <text>", "Name the dish described by text and save it", domain.CravingEdit))
	cmd.AddCommand(newCaptureCommand(opts, "link <url>", "Name the dish behind a recipe or video link and save it", domain.CravingLink))

	cmd.AddCommand(&cobra.Command{
		Use:          "shop <id>",
		Short:        "Add a craving's ingredients to the shopping list",
		Args:         cobra.ExactArgs(1),
		SilenceUsage: true,
		RunE: withApp(opts, func(cmd *cobra.Command, args []string, app *App, out *OutputFormatter) error {
			cravings, err := app.Service.Cravings(cmd.Context())
			if err != nil {
				return err
			}
			var names []string
			for _, c := range cravings {
				if c.ID == args[0] && c.Recipe != nil {
					for _, ing := range c.Recipe.Ingredients {
						names = append(names, ing.Name)
					}
				}
			}
			if len(names) == 0 {
				return fmt.Errorf("craving %s has no ingredients: %w", args[0], domain.ErrNotFound)
			}
			added, err := app.Service.AddShoppingNames(cmd.Context(), names)
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
		Use:          "remove <id>",
		Short:        "Delete a craving",
		Args:         cobra.ExactArgs(1),
		SilenceUsage: true,
		RunE: withApp(opts, func(cmd *cobra.Command, args []string, app *App, out *OutputFormatter) error {
			if err := app.Service.RemoveCraving(cmd.Context(), args[0]); err != nil {
				return err
			}
			return out.Success(map[string]string{"removed": args[0]}, func(w io.Writer) {
				fmt.Fprintf(w, "removed %s\n", args[0])
			})
		}),
	})

	return cmd
}

func newCaptureCommand(opts *RootOptions, use, short string, kind domain.CravingType) *cobra.Command {
	return &cobra.Command{
		Use:          use,
		Short:        short,
		Args:         cobra.MinimumNArgs(1),
		SilenceUsage: true,
		RunE: withApp(opts, func(cmd *cobra.Command, args []string, app *App, out *OutputFormatter) error {
			c, err := app.Service.CaptureCraving(cmd.Context(), kind, strings.Join(args, " "))
			if err != nil {
				return err
			}
			return out.Success(c, func(w io.Writer) {
				fmt.Fprintf(w, "%s\t%s\n", c.Name, c.ID)
				if c.Recipe == nil {
					return
				}
				for _, ing := range c.Recipe.Ingredients {
					fmt.Fprintf(w, "  - %s\n", ing.Name)
				}
			})
		}),
	}
}

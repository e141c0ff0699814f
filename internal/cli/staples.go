package cli

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/vbonduro/kitchenflow/internal/domain"
)

// NewStaplesCommand groups the pantry staple commands. Staples live in the
// remote store only.
func NewStaplesCommand(opts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "staples",
		Short: "Track stock levels of pantry staples",
	}

	cmd.AddCommand(&cobra.Command{
		Use:          "show",
		Short:        "Print the staples, lowest stock first",
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: withApp(opts, func(cmd *cobra.Command, _ []string, app *App, out *OutputFormatter) error {
			staples, err := app.Service.PantryStaples(cmd.Context())
			if err != nil {
				return err
			}
			return out.Success(staples, func(w io.Writer) { printStaples(w, staples) })
		}),
	})

	var score int
	add := &cobra.Command{
		Use:          "add <name>",
		Short:        "Add a staple",
		Args:         cobra.MinimumNArgs(1),
		SilenceUsage: true,
		RunE: withApp(opts, func(cmd *cobra.Command, args []string, app *App, out *OutputFormatter) error {
			staple, err := app.Service.AddPantryStaple(cmd.Context(), strings.Join(args, " "), score)
			return stapleResult(out, staple, err, "")
		}),
	}
	add.Flags().IntVar(&score, "score", domain.DefaultScore, "stock level from 0 to 100")
	cmd.AddCommand(add)

	cmd.AddCommand(&cobra.Command{
		Use:          "score <id> <score>",
		Short:        "Set the stock level of a staple",
		Args:         cobra.ExactArgs(2),
		SilenceUsage: true,
		RunE: withApp(opts, func(cmd *cobra.Command, args []string, app *App, out *OutputFormatter) error {
			n, err := strconv.Atoi(args[1])
			if err != nil {
				return WrapExitError(ExitCommandError, "invalid score", err)
			}
			staple, err := app.Service.UpdatePantryScore(cmd.Context(), args[0], n)
			return stapleResult(out, staple, err, args[0])
		}),
	})

	cmd.AddCommand(newStapleStepCommand(opts, "inc", "Raise the stock level of a staple", domain.DefaultIncrement, true))
	cmd.AddCommand(newStapleStepCommand(opts, "dec", "Lower the stock level of a staple", domain.DefaultDecrement, false))

	cmd.AddCommand(&cobra.Command{
		Use:          "remove <id>",
		Short:        "Delete a staple",
		Args:         cobra.ExactArgs(1),
		SilenceUsage: true,
		RunE: withApp(opts, func(cmd *cobra.Command, args []string, app *App, out *OutputFormatter) error {
			if err := app.Service.DeletePantryStaple(cmd.Context(), args[0]); err != nil {
				return err
			}
			return out.Success(map[string]string{"removed": args[0]}, func(w io.Writer) {
				fmt.Fprintf(w, "removed %s\n", args[0])
			})
		}),
	})

	return cmd
}

func newStapleStepCommand(opts *RootOptions, name, short string, defaultStep int, up bool) *cobra.Command {
	var step int

	cmd := &cobra.Command{
		Use:          name + " <id>",
		Short:        short,
		Args:         cobra.ExactArgs(1),
		SilenceUsage: true,
		RunE: withApp(opts, func(cmd *cobra.Command, args []string, app *App, out *OutputFormatter) error {
			adjust := app.Service.DecrementPantryScore
			if up {
				adjust = app.Service.IncrementPantryScore
			}
			staple, err := adjust(cmd.Context(), args[0], step)
			return stapleResult(out, staple, err, args[0])
		}),
	}

	cmd.Flags().IntVar(&step, "step", defaultStep, "amount to change the stock level by")

	return cmd
}

func stapleResult(out *OutputFormatter, staple *domain.PantryStaple, err error, id string) error {
	if err != nil {
		return err
	}
	if staple == nil {
		return fmt.Errorf("pantry staple %s: %w", id, domain.ErrNotFound)
	}
	return out.Success(staple, func(w io.Writer) { printStaples(w, []domain.PantryStaple{*staple}) })
}

func printStaples(w io.Writer, staples []domain.PantryStaple) {
	if len(staples) == 0 {
		fmt.Fprintln(w, "no pantry staples")
		return
	}
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	for _, s := range staples {
		fmt.Fprintf(tw, "%s\t%d\t%s\n", s.Name, s.Score, s.ID)
	}
	_ = tw.Flush()
}

package cli

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"
)

// NewClassifyCommand prints the store an item would be bought from.
func NewClassifyCommand(opts *RootOptions) *cobra.Command {
	var at string

	cmd := &cobra.Command{
		Use:          "classify <item>",
		Short:        "Print the store an item belongs to",
		Long:         "Print the store an item belongs to. With --at the store is also learned as a preference for the item.",
		Args:         cobra.MinimumNArgs(1),
		SilenceUsage: true,
		RunE: withApp(opts, func(cmd *cobra.Command, args []string, app *App, out *OutputFormatter) error {
			item := strings.Join(args, " ")
			store := app.Classifier.Classify(cmd.Context(), item, at)
			data := map[string]string{"item": item, "store": string(store)}
			return out.Success(data, func(w io.Writer) { fmt.Fprintln(w, store) })
		}),
	}

	cmd.Flags().StringVar(&at, "at", "", "store hint, e.g. Tesco or 韩国超市")

	return cmd
}

// NewPrefsCommand lists the learned store preferences.
func NewPrefsCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:          "prefs",
		Short:        "List learned store preferences",
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: withApp(opts, func(cmd *cobra.Command, _ []string, app *App, out *OutputFormatter) error {
			prefs := app.Preferences.All(cmd.Context())
			return out.Success(prefs, func(w io.Writer) {
				if len(prefs) == 0 {
					fmt.Fprintln(w, "no store preferences")
					return
				}
				tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
				for _, p := range prefs {
					updated := time.UnixMilli(p.UpdatedAt).Format(time.DateTime)
					fmt.Fprintf(tw, "%s\t%s\t%s\n", p.ItemName, p.PreferredStore, updated)
				}
				_ = tw.Flush()
			})
		}),
	}
}

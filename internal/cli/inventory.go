package cli

import (
	"fmt"
	"io"
	"net/http"
	"os"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/vbonduro/kitchenflow/internal/domain"
)

// NewInventoryCommand groups the food inventory commands.
func NewInventoryCommand(opts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "inventory",
		Aliases: []string{"inv"},
		Short:   "Manage the food inventory",
	}

	cmd.AddCommand(&cobra.Command{
		Use:          "show",
		Short:        "Print the inventory",
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: withApp(opts, func(cmd *cobra.Command, _ []string, app *App, out *OutputFormatter) error {
			items, err := app.Service.Inventory(cmd.Context())
			if err != nil {
				return err
			}
			return out.Success(items, func(w io.Writer) { printInventory(w, items) })
		}),
	})

	cmd.AddCommand(newInventoryAddCommand(opts))

	cmd.AddCommand(&cobra.Command{
		Use:          "rename <id> <name>",
		Short:        "Rename an item",
		Args:         cobra.MinimumNArgs(2),
		SilenceUsage: true,
		RunE: withApp(opts, func(cmd *cobra.Command, args []string, app *App, out *OutputFormatter) error {
			item, err := app.Service.RenameInventoryItem(cmd.Context(), args[0], strings.Join(args[1:], " "))
			if item == nil {
				return err
			}
			return out.Written(item, err, func(w io.Writer) { printInventory(w, []domain.InventoryItem{*item}) })
		}),
	})

	cmd.AddCommand(&cobra.Command{
		Use:          "qty <id> <quantity>",
		Short:        "Set the quantity of an item; zero removes it",
		Args:         cobra.ExactArgs(2),
		SilenceUsage: true,
		RunE: withApp(opts, func(cmd *cobra.Command, args []string, app *App, out *OutputFormatter) error {
			qty, err := strconv.ParseFloat(args[1], 64)
			if err != nil {
				return WrapExitError(ExitCommandError, "invalid quantity", err)
			}
			item, err := app.Service.SetInventoryQuantity(cmd.Context(), args[0], qty)
			if qty <= 0 {
				return out.Written(map[string]string{"removed": args[0]}, err, func(w io.Writer) {
					fmt.Fprintf(w, "removed %s\n", args[0])
				})
			}
			if item == nil {
				return err
			}
			return out.Written(item, err, func(w io.Writer) { printInventory(w, []domain.InventoryItem{*item}) })
		}),
	})

	cmd.AddCommand(&cobra.Command{
		Use:          "remove <id>",
		Short:        "Remove an item",
		Args:         cobra.ExactArgs(1),
		SilenceUsage: true,
		RunE: withApp(opts, func(cmd *cobra.Command, args []string, app *App, out *OutputFormatter) error {
			err := app.Service.RemoveInventoryItem(cmd.Context(), args[0])
			return out.Written(map[string]string{"removed": args[0]}, err, func(w io.Writer) {
				fmt.Fprintf(w, "removed %s\n", args[0])
			})
		}),
	})

	cmd.AddCommand(newInventoryScanCommand(opts))

	return cmd
}

func newInventoryAddCommand(opts *RootOptions) *cobra.Command {
	var item domain.InventoryItem

	cmd := &cobra.Command{
		Use:          "add <name>",
		Short:        "Add an item",
		Args:         cobra.MinimumNArgs(1),
		SilenceUsage: true,
		RunE: withApp(opts, func(cmd *cobra.Command, args []string, app *App, out *OutputFormatter) error {
			item.Name = strings.Join(args, " ")
			added, err := app.Service.AddInventoryItem(cmd.Context(), item)
			if added == nil {
				return err
			}
			return out.Written(added, err, func(w io.Writer) { printInventory(w, []domain.InventoryItem{*added}) })
		}),
	}

	cmd.Flags().Float64Var(&item.Quantity, "qty", 1, "quantity")
	cmd.Flags().StringVar(&item.Unit, "unit", "pcs", "unit")
	cmd.Flags().StringVar(&item.Location, "location", domain.DefaultLocation, "storage location")

	return cmd
}

// maxScanPhotos matches the limit the REST backend accepts.
const maxScanPhotos = 5

func newInventoryScanCommand(opts *RootOptions) *cobra.Command {
	var location string

	cmd := &cobra.Command{
		Use:          "scan <photo>...",
		Short:        "Add the food recognised in photos of the fridge",
		Args:         cobra.RangeArgs(1, maxScanPhotos),
		SilenceUsage: true,
		RunE: withApp(opts, func(cmd *cobra.Command, args []string, app *App, out *OutputFormatter) error {
			images := make([]domain.Image, 0, len(args))
			for _, path := range args {
				img, err := readImage(path)
				if err != nil {
					return WrapExitError(ExitCommandError, "failed to read photo", err)
				}
				images = append(images, img)
			}

			snap, err := app.Service.ScanFridge(cmd.Context(), images)
			if err != nil {
				return err
			}
			added, err := app.Service.AddScanResults(cmd.Context(), snap, location)
			if added == nil {
				return err
			}
			return out.Written(added, err, func(w io.Writer) {
				if snap.ScanQuality != "" {
					fmt.Fprintf(w, "scan quality: %s\n", snap.ScanQuality)
				}
				printInventory(w, added)
			})
		}),
	}

	cmd.Flags().StringVar(&location, "location", domain.DefaultLocation, "storage location for items the scan did not place")

	return cmd
}

func readImage(path string) (domain.Image, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return domain.Image{}, err
	}
	mime := http.DetectContentType(data)
	if !strings.HasPrefix(mime, "image/") {
		return domain.Image{}, fmt.Errorf("%s is not an image (%s)", path, mime)
	}
	return domain.Image{Data: data, MimeType: mime}, nil
}

func printInventory(w io.Writer, items []domain.InventoryItem) {
	if len(items) == 0 {
		fmt.Fprintln(w, "the inventory is empty")
		return
	}
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	for _, it := range items {
		qty := strconv.FormatFloat(it.Quantity, 'f', -1, 64)
		fmt.Fprintf(tw, "%s\t%s %s\t%s\t%s\t%s\n", it.Name, qty, it.Unit, it.Location, it.Freshness, it.ID)
	}
	_ = tw.Flush()
}

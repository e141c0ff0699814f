package cli

import (
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/vbonduro/kitchenflow/internal/device"
)

// NewDeviceCommand prints this installation's identity.
func NewDeviceCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:          "device",
		Short:        "Print the device id and shopping list id",
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: withApp(opts, func(cmd *cobra.Command, _ []string, app *App, out *OutputFormatter) error {
			data := map[string]string{"deviceId": app.Device.DeviceID()}
			listID, err := app.Device.ListID(cmd.Context())
			switch {
			case err == nil:
				data["listId"] = listID
			case !errors.Is(err, device.ErrNoRegistry):
				return err
			}
			return out.Success(data, func(w io.Writer) {
				fmt.Fprintf(w, "device: %s\n", data["deviceId"])
				if id, ok := data["listId"]; ok {
					fmt.Fprintf(w, "list:   %s\n", id)
				} else {
					fmt.Fprintln(w, "list:   (no remote store)")
				}
			})
		}),
	}
}

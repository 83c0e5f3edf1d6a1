package cli

import (
	"net/http"

	"github.com/spf13/cobra"
)

func newPutCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "put URL",
		Short: "Make a PUT request to the specified URL",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := readRequestOptions(cmd, http.MethodPut, args[0])
			if err != nil {
				return err
			}
			if err := readBody(cmd, opts); err != nil {
				return err
			}
			return runRequest(cmd, opts)
		},
	}

	cmd.Flags().StringP("data", "d", "", "Data to send in the request body (@file reads a file)")
	cmd.Flags().StringP("json", "j", "", "JSON data to send in the request body (@file reads a file)")
	return cmd
}

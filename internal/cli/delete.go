package cli

import (
	"net/http"

	"github.com/spf13/cobra"
)

func newDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete URL",
		Short: "Make a DELETE request to the specified URL",
		Long: `Make a DELETE request. URL is a full URL, or an endpoint such as
/users/42 when --config selects a profile.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := readRequestOptions(cmd, http.MethodDelete, args[0])
			if err != nil {
				return err
			}
			return runRequest(cmd, opts)
		},
	}
}

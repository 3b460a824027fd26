package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

func openDocs(cmd *cobra.Command, url string, deps Deps) error {
	_, _ = fmt.Fprintln(cmd.OutOrStdout(), infoStyle.Render("Opening "+url))

	if err := deps.OpenURL(url); err != nil {
		return fmt.Errorf("failed to open a browser, visit %s: %w", url, err)
	}
	return nil
}

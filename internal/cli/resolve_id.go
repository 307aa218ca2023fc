package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/anatolykoptev/go_transcript/internal/engine/transcript"
)

func newResolveIDCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "resolve-id <url-or-id>",
		Short: "Print the video id a link resolves to",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, ok := transcript.ResolveVideoID(args[0])
			if !ok {
				return fmt.Errorf("%w: %q", transcript.ErrInvalidReference, args[0])
			}
			_, err := fmt.Fprintln(cmd.OutOrStdout(), id)
			return err
		},
	}
}

package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/anatolykoptev/go_transcript/internal/engine/transcript"
	"github.com/anatolykoptev/go_transcript/internal/setup"
	"github.com/anatolykoptev/go_transcript/internal/toolutil"
)

// resolverFactory is swapped in tests.
var resolverFactory = func() *transcript.Resolver {
	setup.InitEngine(setup.ConfigFromEnv())
	return setup.NewResolver()
}

func newFetchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "fetch <url-or-id>",
		Short: "Fetch a transcript and print it",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runFetch(cmd, args[0])
		},
	}
	cmd.Flags().String("lang", "", "Preferred language code (default from DEFAULT_LANG, else en)")
	cmd.Flags().Bool("json", false, "Print the full JSON response")
	cmd.Flags().Bool("segments", false, "Print one timed segment per line")
	cmd.Flags().Bool("audit", false, "Record the run in the audit store")
	return cmd
}

func runFetch(cmd *cobra.Command, input string) error {
	lang, _ := cmd.Flags().GetString("lang")
	asJSON, _ := cmd.Flags().GetBool("json")
	segments, _ := cmd.Flags().GetBool("segments")
	withAudit, _ := cmd.Flags().GetBool("audit")

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	if withAudit {
		setup.OpenAudit(ctx)
		defer setup.CloseAudit()
	}

	resp, apiErr := toolutil.FetchTranscript(ctx, resolverFactory(), input, lang)
	if apiErr != nil {
		b, _ := json.MarshalIndent(apiErr.Detail, "", "  ")
		fmt.Fprintln(cmd.ErrOrStderr(), string(b))
		return fmt.Errorf("%s (status %d)", apiErr.Detail.Error, apiErr.Status)
	}

	out := cmd.OutOrStdout()
	switch {
	case asJSON:
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(resp)
	case segments:
		return printSegments(out, resp.Raw)
	}
	_, err := fmt.Fprintln(out, resp.Transcript)
	return err
}

func printSegments(w io.Writer, segs []transcript.Segment) error {
	for _, s := range segs {
		if _, err := fmt.Fprintf(w, "[%s] %s\n", timestamp(s.Start), s.Text); err != nil {
			return err
		}
	}
	return nil
}

// timestamp formats seconds as m:ss or h:mm:ss.
func timestamp(sec float64) string {
	total := int(sec)
	h, m, s := total/3600, (total%3600)/60, total%60
	if h > 0 {
		return fmt.Sprintf("%d:%02d:%02d", h, m, s)
	}
	return fmt.Sprintf("%d:%02d", m, s)
}

package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/andrijantasevski-bs/bc-al-chunker/core"
	"github.com/andrijantasevski-bs/bc-al-chunker/verify"
)

func newVerifyCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "verify <file.al>",
		Short: "Check that chunking a file covers every non-blank, non-brace source line",
		Args:  cobra.ExactArgs(1),
		RunE:  runVerify,
	}
}

func runVerify(cmd *cobra.Command, args []string) error {
	path := args[0]
	raw, err := os.ReadFile(path)
	if err != nil {
		return errors.Wrapf(err, "verify: read %s", path)
	}
	text := string(raw)
	lines := strings.Split(text, "\n")

	objects, diags := core.ParseSource(text, path)
	for _, d := range diags {
		log.WithField("path", path).WithField("line", d.LineStart).Warn(d.Message)
	}

	failures := 0
	for _, obj := range objects {
		chunks := core.ChunkObject(obj, path, appConfig.Chunking)
		result := verify.RoundTrip(lines, obj, chunks)
		if !result.OK {
			failures++
			fmt.Fprintf(cmd.OutOrStdout(), "object %s %q: coverage mismatch\n%s\n", obj.Kind, obj.Name, result.Diff)
		}
	}

	if failures > 0 {
		return fmt.Errorf("verify: %d object(s) failed round-trip coverage", failures)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "verify: %d object(s) OK\n", len(objects))
	return nil
}

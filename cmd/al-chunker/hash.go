package main

import (
	"fmt"
	"os"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/andrijantasevski-bs/bc-al-chunker/core"
)

func newHashCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "hash <file.al>",
		Short: "Print a file's BLAKE2b-8 fingerprint",
		Args:  cobra.ExactArgs(1),
		RunE:  runHash,
	}
}

func runHash(cmd *cobra.Command, args []string) error {
	path := args[0]
	text, err := os.ReadFile(path)
	if err != nil {
		return errors.Wrapf(err, "hash: read %s", path)
	}
	fmt.Fprintln(cmd.OutOrStdout(), core.HashSource(string(text)))
	return nil
}

package main

import (
	"os"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/andrijantasevski-bs/bc-al-chunker/core"
)

func newChunkCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "chunk <file.al>",
		Short: "Chunk a single AL file and print the result",
		Args:  cobra.ExactArgs(1),
		RunE:  runChunk,
	}
	cmd.Flags().StringVar(&flagOutPath, "out", "", "write chunks here (default: stdout)")
	return cmd
}

func runChunk(cmd *cobra.Command, args []string) error {
	path := args[0]
	text, err := os.ReadFile(path)
	if err != nil {
		return errors.Wrapf(err, "chunk: read %s", path)
	}

	chunks, diags := core.ChunkFile(string(text), path, appConfig.Chunking)
	for _, d := range diags {
		log.WithField("path", path).WithField("line", d.LineStart).Warn(d.Message)
	}

	return writeChunks(chunks, appConfig.OutputFormat, flagOutPath)
}

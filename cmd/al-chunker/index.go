package main

import (
	"os"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/andrijantasevski-bs/bc-al-chunker/config"
	"github.com/andrijantasevski-bs/bc-al-chunker/core"
	"github.com/andrijantasevski-bs/bc-al-chunker/discovery"
	"github.com/andrijantasevski-bs/bc-al-chunker/serialize"
	"github.com/andrijantasevski-bs/bc-al-chunker/store"
)

var flagOutPath string

func newIndexCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "index <root>",
		Short: "Walk a directory, chunk every .al file, and cache the results",
		Args:  cobra.ExactArgs(1),
		RunE:  runIndex,
	}
	cmd.Flags().StringVar(&flagOutPath, "out", "", "write combined chunks here (default: stdout)")
	return cmd
}

func runIndex(cmd *cobra.Command, args []string) error {
	root := args[0]

	cache, err := openCache(appConfig)
	if err != nil {
		return err
	}
	defer cache.Close()

	walker := discovery.NewWalker()
	paths, err := walker.Collect(cmd.Context(), discovery.Scope{
		Root:    root,
		Include: appConfig.Include,
		Exclude: appConfig.Exclude,
	})
	if err != nil {
		return errors.Wrap(err, "index: discover files")
	}

	var all []core.Chunk
	var cacheHits int

	for _, path := range paths {
		chunks, hit, err := indexFile(path, cache)
		if err != nil {
			log.WithError(err).WithField("path", path).Warn("index: skipping file")
			continue
		}
		if hit {
			cacheHits++
		}
		all = append(all, chunks...)
	}

	log.WithFields(map[string]interface{}{
		"files":      len(paths),
		"cache_hits": cacheHits,
		"chunks":     len(all),
	}).Info("index: complete")

	return writeChunks(all, appConfig.OutputFormat, flagOutPath)
}

// indexFile chunks a single file, consulting the cache first.
func indexFile(path string, cache *store.Cache) (chunks []core.Chunk, cacheHit bool, err error) {
	text, err := os.ReadFile(path)
	if err != nil {
		return nil, false, errors.Wrapf(err, "read %s", path)
	}

	hash := core.HashSource(string(text))
	if cached, ok, lookupErr := cache.Lookup(path, hash); lookupErr == nil && ok {
		return cached, true, nil
	}

	chunks, diags := core.ChunkFile(string(text), path, appConfig.Chunking)
	for _, d := range diags {
		log.WithField("path", path).WithField("line", d.LineStart).Warn(d.Message)
	}

	if err := cache.Store(path, hash, chunks); err != nil {
		log.WithError(err).WithField("path", path).Warn("index: cache store failed")
	}

	return chunks, false, nil
}

// openCache opens the local or remote fingerprint cache named by cfg.CacheDSN.
func openCache(cfg config.Config) (*store.Cache, error) {
	if store.IsRemoteDSN(cfg.CacheDSN) {
		return store.OpenRemote(cfg.CacheDSN, cfg.Debug)
	}
	return store.Open(cfg.CacheDSN, cfg.Debug)
}

func writeChunks(chunks []core.Chunk, format, outPath string) error {
	f := serialize.FormatJSONLines
	if format == "json" {
		f = serialize.FormatJSON
	}

	if outPath == "" {
		if f == serialize.FormatJSON {
			return serialize.EncodeJSON(os.Stdout, chunks)
		}
		return serialize.EncodeJSONLines(os.Stdout, chunks)
	}
	return serialize.WriteFile(outPath, chunks, f)
}

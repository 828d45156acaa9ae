package main

import (
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/andrijantasevski-bs/bc-al-chunker/config"
)

var (
	flagConfigPath string
	flagEnvPath    string
	flagDebug      bool
	flagCacheDSN   string

	appConfig config.Config
	log       = logrus.New()
)

func newRootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:     "al-chunker",
		Short:   "Parse and chunk AL source for retrieval-augmented generation",
		Version: "0.1.0",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(flagConfigPath, flagEnvPath)
			if err != nil {
				return err
			}
			if flagDebug {
				cfg.Debug = true
			}
			if flagCacheDSN != "" {
				cfg.CacheDSN = flagCacheDSN
			}
			appConfig = cfg

			log.SetLevel(logrus.InfoLevel)
			if appConfig.Debug {
				log.SetLevel(logrus.DebugLevel)
			}
			log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
			return nil
		},
	}

	root.PersistentFlags().StringVar(&flagConfigPath, "config", "", "path to YAML config (default: XDG config dir)")
	root.PersistentFlags().StringVar(&flagEnvPath, "env", "", "path to .env file (default: ./.env)")
	root.PersistentFlags().BoolVar(&flagDebug, "debug", false, "enable debug logging")
	root.PersistentFlags().StringVar(&flagCacheDSN, "cache", "", "fingerprint cache DSN (local path or libsql:// URL)")

	root.AddCommand(newIndexCommand())
	root.AddCommand(newChunkCommand())
	root.AddCommand(newHashCommand())
	root.AddCommand(newVerifyCommand())

	return root
}

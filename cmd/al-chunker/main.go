// Command al-chunker parses and chunks Business Central AL source files
// for retrieval-augmented generation pipelines.
package main

import (
	"os"

	"github.com/sirupsen/logrus"
)

func main() {
	if err := newRootCommand().Execute(); err != nil {
		logrus.WithError(err).Error("al-chunker: command failed")
		os.Exit(1)
	}
}

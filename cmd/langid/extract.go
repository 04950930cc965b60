package main

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/YuminosukeSato/langid/dataset"
	"github.com/YuminosukeSato/langid/pkg/errors"
	"github.com/YuminosukeSato/langid/pkg/log"
)

func newExtractCmd() *cobra.Command {
	var (
		output string
		limit  int
	)
	cmd := &cobra.Command{
		Use:   "extract [flags] dump.xml",
		Short: "Extract abstracts from a Wikipedia abstract dump into JSON",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			abstracts, err := readAbstracts(args[0])
			if err != nil {
				return err
			}
			// 要約が空の記事は断片を作れないので捨てる
			kept := abstracts[:0]
			for _, a := range abstracts {
				if a.Abstract != "" {
					kept = append(kept, a)
				}
			}
			if limit > 0 && len(kept) > limit {
				kept = kept[:limit]
			}

			f, err := os.Create(output)
			if err != nil {
				return errors.Wrapf(err, "failed to create %s", output)
			}
			if err := dataset.WriteAbstractsJSON(f, kept); err != nil {
				f.Close()
				return err
			}
			if err := f.Close(); err != nil {
				return errors.Wrapf(err, "failed to close %s", output)
			}

			log.GetLoggerWithName("cli.extract").Info("Extracted abstracts",
				log.PathKey, output,
				log.SamplesKey, len(kept),
				log.SkippedKey, len(abstracts)-len(kept))
			cmd.Printf("%s %d abstracts -> %s\n", color.GreenString("extracted"), len(kept), output)
			return nil
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "abstracts.json", "output JSON file")
	cmd.Flags().IntVar(&limit, "limit", 0, "keep at most this many abstracts (0 keeps all)")
	return cmd
}

// readAbstracts は拡張子が .json なら要約のJSON配列、それ以外はXMLダンプとして読む
func readAbstracts(path string) ([]dataset.Abstract, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to open %s", path)
	}
	defer f.Close()

	if strings.EqualFold(filepath.Ext(path), ".json") {
		return dataset.ReadAbstractsJSON(f)
	}
	return dataset.ParseWikiDump(f)
}

package main

import (
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/YuminosukeSato/langid/dataset"
	"github.com/YuminosukeSato/langid/pkg/errors"
	"github.com/YuminosukeSato/langid/pkg/log"
	"github.com/YuminosukeSato/langid/preprocessing"
)

type featurizeOptions struct {
	tag            string
	lengths        []int
	maxPerLength   int
	seed           uint64
	maxWordLength  int
	capitalization bool
	output         string
	truncate       bool
}

func newFeaturizeCmd() *cobra.Command {
	var opts featurizeOptions
	cmd := &cobra.Command{
		Use:   "featurize [flags] abstracts.json|dump.xml",
		Short: "Cut abstracts into segments and append their features as tagged records",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runFeaturize(cmd, args[0], opts)
		},
	}
	cmd.Flags().StringVar(&opts.tag, "tag", "", "language tag of the records (required)")
	cmd.Flags().IntSliceVar(&opts.lengths, "lengths", []int{50, 20, 10}, "segment lengths in words")
	cmd.Flags().IntVar(&opts.maxPerLength, "max-per-length", 1000, "segments per length (0 for no limit)")
	cmd.Flags().Uint64Var(&opts.seed, "seed", 42, "shuffle seed")
	cmd.Flags().IntVar(&opts.maxWordLength, "max-word-length", preprocessing.DefaultMaxWordLength, "reject segments with a longer word")
	cmd.Flags().BoolVar(&opts.capitalization, "capitalization", false, "add the capitalization feature")
	cmd.Flags().StringVarP(&opts.output, "output", "o", "features.txt", "records file to append to")
	cmd.Flags().BoolVar(&opts.truncate, "truncate", false, "overwrite the records file instead of appending")
	_ = cmd.MarkFlagRequired("tag")
	return cmd
}

func runFeaturize(cmd *cobra.Command, input string, opts featurizeOptions) error {
	abstracts, err := readAbstracts(input)
	if err != nil {
		return err
	}
	segments := dataset.ExtractSegments(abstracts, opts.lengths, opts.maxPerLength, opts.seed)
	texts := make([]string, len(segments))
	for i, s := range segments {
		texts[i] = s.Text
	}

	f := preprocessing.NewTextFeaturizer(
		preprocessing.WithMaxWordLength(opts.maxWordLength),
		preprocessing.WithCapitalization(opts.capitalization))
	records, rejected, err := dataset.Featurize(texts, opts.tag, f)
	if err != nil {
		return err
	}

	flags := os.O_CREATE | os.O_WRONLY | os.O_APPEND
	if opts.truncate {
		flags = os.O_CREATE | os.O_WRONLY | os.O_TRUNC
	}
	out, err := os.OpenFile(opts.output, flags, 0o644)
	if err != nil {
		return errors.Wrapf(err, "failed to open %s", opts.output)
	}
	if err := dataset.WriteRecords(out, records); err != nil {
		out.Close()
		return err
	}
	if err := out.Close(); err != nil {
		return errors.Wrapf(err, "failed to close %s", opts.output)
	}

	log.GetLoggerWithName("cli.featurize").Info("Wrote records",
		log.PathKey, opts.output,
		log.SamplesKey, len(records),
		log.SkippedKey, rejected)
	cmd.Printf("%s %d %s records -> %s (%d segments rejected)\n",
		color.GreenString("featurized"), len(records), color.CyanString(opts.tag), opts.output, rejected)
	return nil
}

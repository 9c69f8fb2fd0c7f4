package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	wexpr "github.com/tyraindreams/wexpr-go"
)

func newFmtCmd() *cobra.Command {
	var pretty bool
	var binaryArg string
	var output string

	cmd := &cobra.Command{
		Use:   "fmt [file]",
		Short: "Decode and re-encode a Wexpr document",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			source, err := readInput(args)
			if err != nil {
				return err
			}

			dec := &wexpr.Decoder{}
			value, err := dec.Decode(source, nil)
			logDecodeWarnings(dec.Warnings)
			if err != nil {
				logger.Error("decode failed", zap.Error(err))
				return err
			}

			enc := &wexpr.Encoder{}
			text, err := enc.Encode(*value, wexpr.EncodeOptions{
				Pretty:      pretty,
				BinaryPaths: parseBinaryPaths(binaryArg),
			})
			for _, w := range enc.Warnings {
				logger.Warn(w.Message, zap.Int("offset", w.Offset))
			}
			if err != nil {
				logger.Error("encode failed", zap.Error(err))
				return err
			}

			if output == "" {
				fmt.Fprintln(cmd.OutOrStdout(), text)
				return nil
			}
			return os.WriteFile(output, []byte(text+"\n"), 0o644)
		},
	}
	cmd.Flags().BoolVar(&pretty, "pretty", false, "pretty-print with tab indentation")
	cmd.Flags().StringVar(&binaryArg, "binary", "", "comma-separated dotted paths to force as base64")
	cmd.Flags().StringVarP(&output, "output", "o", "", "write to file instead of stdout")
	return cmd
}

func parseBinaryPaths(arg string) map[string]bool {
	if arg == "" {
		return nil
	}
	out := make(map[string]bool)
	for _, p := range strings.Split(arg, ",") {
		p = strings.TrimSpace(p)
		if p != "" {
			out[p] = true
		}
	}
	return out
}

func logDecodeWarnings(warnings []string) {
	for _, w := range warnings {
		logger.Warn(w)
	}
}

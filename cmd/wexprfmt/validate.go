package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	wexpr "github.com/tyraindreams/wexpr-go"
)

func newValidateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate [file]",
		Short: "Decode a Wexpr document and report whether it is well-formed",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			source, err := readInput(args)
			if err != nil {
				return err
			}

			dec := &wexpr.Decoder{}
			_, err = dec.Decode(source, nil)
			logDecodeWarnings(dec.Warnings)
			if err != nil {
				logger.Error("validation failed", zap.Error(err))
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "ok")
			return nil
		},
	}
}

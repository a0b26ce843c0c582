package main

import (
	"fmt"
	"os"
	"path/filepath"

	"jobmate/internal/resume"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var resumeCmd = &cobra.Command{
	Use:   "resume FILE",
	Short: "Extract profile fields from a PDF or DOCX resume",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, log, err := setup()
		if err != nil {
			return err
		}
		defer func() { _ = log.Sync() }()

		path := args[0]
		info, err := os.Stat(path)
		if err != nil {
			return err
		}
		if info.Size() > cfg.Resume.MaxBytes {
			return fmt.Errorf("%s is %d bytes, limit is %d", path, info.Size(), cfg.Resume.MaxBytes)
		}

		format, err := resume.FormatFromFilename(filepath.Base(path))
		if err != nil {
			return err
		}
		data, err := os.ReadFile(path)
		if err != nil {
			return err
		}

		p, err := resume.Parse(data, format)
		if err != nil {
			log.Error("resume parse failed", zap.String("file", path), zap.Error(err))
			return err
		}
		return printJSON(cmd.OutOrStdout(), p)
	},
}

func init() {
	rootCmd.AddCommand(resumeCmd)
}

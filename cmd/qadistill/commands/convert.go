package commands

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/qadistill/qadistill/internal/logger"
	"github.com/qadistill/qadistill/internal/output"
	"github.com/qadistill/qadistill/pkg/closedbook"
)

var convertCmd = &cobra.Command{
	Use:   "convert",
	Short: "Convert a corpus folder into question/answer mappings",
	Long: `Convert every file of a line-delimited Q&A corpus folder into a
same-named output file holding a single mapping from cleaned question text
to its list of cleaned answer texts.

The output folder must not exist yet; a run never mixes its results into a
previous run's folder. A file that fails to convert is logged and skipped,
the rest of the corpus is still processed.

Examples:
  qadistill convert --input-folder ./corpus --output-folder ./qa
  qadistill convert --input-folder ./corpus --output-folder ./qa \
      --only-english --workers 8
  qadistill convert --input-folder ./corpus --output-folder ./qa \
      --format yaml --pretty`,
	RunE: runConvert,
}

func init() {
	rootCmd.AddCommand(convertCmd)

	flags := convertCmd.Flags()

	flags.StringP("input-folder", "i", "", "folder holding the line-delimited corpus files (required)")
	flags.StringP("output-folder", "o", "", "folder to create for the converted mappings (required)")
	flags.Bool("only-english", false, "keep only records whose language tag is \"en\"")
	flags.Bool("keep-markup", false, "preserve HTML markup, decoding entities only")
	flags.IntP("workers", "w", 1, "number of files converted concurrently")
	flags.String("format", "json", "output format: json, yaml")
	flags.Bool("pretty", false, "indent JSON output")

	_ = convertCmd.MarkFlagRequired("input-folder")
	_ = convertCmd.MarkFlagRequired("output-folder")

	_ = viper.BindPFlag("workers", flags.Lookup("workers"))
	_ = viper.BindPFlag("format", flags.Lookup("format"))
}

func runConvert(cmd *cobra.Command, args []string) error {
	logger.Init(logger.Options{
		Debug: viper.GetBool("debug"),
		Quiet: viper.GetBool("quiet"),
	})

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	inputFolder, _ := cmd.Flags().GetString("input-folder")
	outputFolder, _ := cmd.Flags().GetString("output-folder")
	onlyEnglish, _ := cmd.Flags().GetBool("only-english")
	keepMarkup, _ := cmd.Flags().GetBool("keep-markup")
	pretty, _ := cmd.Flags().GetBool("pretty")

	cfg := closedbook.DefaultConfig()
	cfg.InputDir = inputFolder
	cfg.OutputDir = outputFolder
	cfg.OnlyEnglish = onlyEnglish
	cfg.KeepMarkup = keepMarkup
	cfg.Workers = viper.GetInt("workers")
	cfg.Format = output.Format(viper.GetString("format"))
	cfg.Pretty = pretty

	logger.Info("starting conversion",
		"input", cfg.InputDir,
		"output", cfg.OutputDir,
		"workers", cfg.Workers,
		"only_english", cfg.OnlyEnglish,
		"keep_markup", cfg.KeepMarkup)

	report, err := closedbook.New(cfg).ConvertDir(ctx)
	if err != nil {
		logger.Error("conversion aborted", "error", err)
		return err
	}

	logger.Info("conversion complete",
		"converted", report.Converted,
		"failed", report.Failed,
		"websites", humanize.Comma(int64(report.Websites)),
		"questions", humanize.Comma(int64(report.Questions)),
		"answers", humanize.Comma(int64(report.Answers)),
		"read", humanize.Bytes(uint64(report.BytesIn)),
		"written", humanize.Bytes(uint64(report.BytesOut)))

	if err := ctx.Err(); err != nil {
		return fmt.Errorf("conversion interrupted: %w", err)
	}
	return nil
}

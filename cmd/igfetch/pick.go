package main

import (
	"context"
	"errors"
	"os"

	"github.com/spf13/cobra"

	"igfetch/pkg/logger"
	"igfetch/pkg/models"
	"igfetch/pkg/ui"
	"igfetch/pkg/ui/tui"
)

var (
	pickFile   string
	pickOutput string
	pickSave   string
	pickNotify bool
)

// pickCmd represents the interactive picker
var pickCmd = &cobra.Command{
	Use:   "pick [urls...]",
	Short: "Choose media interactively before downloading",
	Long: `Resolve post URLs and open a checklist of their media items.

Keys:
  ↑/↓ or j/k   move
  space        toggle the item under the cursor
  a            select all
  c            clear the selection
  enter        download the selected items
  D            download everything
  q            quit

Console logging is turned off while the picker is open; set logging.file
to keep a log of the session.`,
	Example: `  igfetch pick https://instagram.com/p/Cabc123 https://instagram.com/p/Cdef456
  igfetch pick --file urls.txt --save picks.json`,
	RunE: runPick,
}

func init() {
	rootCmd.AddCommand(pickCmd)

	pickCmd.Flags().StringVarP(&pickFile, "file", "f", "", "read URLs from a file")
	pickCmd.Flags().StringVarP(&pickOutput, "output", "o", "", "base download directory")
	pickCmd.Flags().StringVarP(&pickSave, "save", "s", "", "write the final selection to a manifest")
	pickCmd.Flags().BoolVar(&pickNotify, "notify", false, "send a desktop notification when done")
}

func runPick(cmd *cobra.Command, args []string) error {
	if !ui.IsTerminal(os.Stdout) {
		return errors.New("pick needs an interactive terminal, use preview and download instead")
	}

	a, err := loadApp(map[string]interface{}{"output": pickOutput})
	if err != nil {
		return err
	}

	urls, err := inputURLs(args, pickFile)
	if err != nil || len(urls) == 0 {
		return err
	}

	// the picker owns the terminal, so console logging has to go
	log, err := logger.NewFileOnly(&a.cfg.Logging)
	if err != nil {
		return err
	}
	a = a.withLogger(log)

	fetcher := a.fetcher()
	dl := a.downloader()
	baseDir := a.cfg.Download.BaseDirectory

	picker := tui.NewTUI(cmd.Context(),
		func(ctx context.Context, hooks models.Hooks) models.BatchResult {
			return fetcher.FetchPreviews(ctx, urls, hooks)
		},
		func(ctx context.Context, items []models.MediaItem, hooks models.Hooks) (models.DownloadSummary, error) {
			return dl.Download(ctx, items, baseDir, hooks)
		},
	)

	res, err := picker.Run()
	if err != nil {
		return err
	}

	if pickSave != "" && res.Manifest != nil {
		if err := res.Manifest.Save(pickSave); err != nil {
			return err
		}
		ui.PrintInfo("Manifest", pickSave)
	}

	if !res.Downloaded {
		return nil
	}
	if res.Err != nil {
		return res.Err
	}
	printSummary(res.Summary)
	ui.NewNotifier(pickNotify).DownloadFinished(res.Summary.Saved, res.Summary.Skipped, res.Summary.Failed, res.Summary.BaseDir)
	return nil
}

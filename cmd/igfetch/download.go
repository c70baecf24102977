package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"igfetch/pkg/selection"
	"igfetch/pkg/ui"
)

var (
	downloadFile   string
	downloadFrom   string
	downloadSelect []string
	downloadAll    bool
	downloadOutput string
	downloadNotify bool
)

// downloadCmd represents the download command
var downloadCmd = &cobra.Command{
	Use:   "download [urls...]",
	Short: "Download media from post URLs or a saved manifest",
	Long: `Download media items into <output>/<shortcode>/<filename>.

Given URLs, every resolved item is downloaded. Given --from, the items
selected in a manifest written by 'igfetch preview --save' are downloaded.
--select replaces the selection with the listed item ids and --all selects
everything.

Files that already exist are skipped without touching the network, so an
interrupted run can simply be repeated.`,
	Example: `  # Download every item of two posts
  igfetch download https://instagram.com/p/Cabc123 https://instagram.com/reel/Cdef456

  # Download two items from a saved preview
  igfetch download --from picks.json --select Cabc123_0,Cabc123_2

  # Download into a specific directory
  igfetch download --output ./media --file urls.txt`,
	RunE: runDownload,
}

func init() {
	rootCmd.AddCommand(downloadCmd)

	downloadCmd.Flags().StringVarP(&downloadFile, "file", "f", "", "read URLs from a file")
	downloadCmd.Flags().StringVar(&downloadFrom, "from", "", "download the selected items of a manifest")
	downloadCmd.Flags().StringSliceVar(&downloadSelect, "select", nil, "comma separated item ids to download")
	downloadCmd.Flags().BoolVar(&downloadAll, "all", false, "download every item of the manifest")
	downloadCmd.Flags().StringVarP(&downloadOutput, "output", "o", "", "base download directory")
	downloadCmd.Flags().BoolVar(&downloadNotify, "notify", false, "send a desktop notification when done")
}

func runDownload(cmd *cobra.Command, args []string) error {
	a, err := loadApp(map[string]interface{}{"output": downloadOutput})
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	printer := ui.NewProgressPrinter(os.Stderr, ui.IsTerminal(os.Stderr))

	var manifest *selection.Manifest
	if downloadFrom != "" {
		if len(args) > 0 || downloadFile != "" {
			return fmt.Errorf("--from cannot be combined with URLs")
		}
		manifest, err = selection.Load(downloadFrom)
		if err != nil {
			return err
		}
	} else {
		urls, err := inputURLs(args, downloadFile)
		if err != nil || len(urls) == 0 {
			return err
		}
		result := a.fetcher().FetchPreviews(ctx, urls, printer.Hooks())
		printer.Finish()
		for _, url := range result.Order {
			if msg, failed := result.Errors[url]; failed {
				ui.PrintWarning(url, msg)
			}
		}
		manifest = selection.New(result)
		manifest.SelectAll()
	}

	if err := applySelection(manifest, downloadSelect, downloadAll); err != nil {
		return err
	}

	items := manifest.SelectedItems()
	if len(items) == 0 {
		ui.PrintWarning("Nothing to download")
		return nil
	}

	summary, err := a.downloader().Download(ctx, items, a.cfg.Download.BaseDirectory, printer.Hooks())
	printer.Finish()
	if err != nil {
		return err
	}

	printSummary(summary)
	ui.NewNotifier(downloadNotify).DownloadFinished(summary.Saved, summary.Skipped, summary.Failed, summary.BaseDir)

	if summary.Failed > 0 {
		return fmt.Errorf("%d of %d downloads failed", summary.Failed, len(items))
	}
	return nil
}

package main

import (
	"os"

	"github.com/spf13/cobra"

	"igfetch/pkg/selection"
	"igfetch/pkg/ui"
)

var (
	previewFile string
	previewSave string
)

// previewCmd represents the preview command
var previewCmd = &cobra.Command{
	Use:   "preview [urls...]",
	Short: "Resolve post URLs and list their media",
	Long: `Resolve post URLs and list the media items each one contains.

URLs can be given as arguments, read from a file with --file, or piped on
stdin. Commas and newlines both separate URLs. Query strings and fragments
are ignored and duplicates are dropped.

With --save the result is written to a selection manifest that
'igfetch download --from' can use later.`,
	Example: `  # Preview a single post
  igfetch preview https://www.instagram.com/p/Cabc123/

  # Preview a list and keep the result
  igfetch preview --file urls.txt --save picks.json

  # Read URLs from stdin
  pbpaste | igfetch preview`,
	RunE: runPreview,
}

func init() {
	rootCmd.AddCommand(previewCmd)

	previewCmd.Flags().StringVarP(&previewFile, "file", "f", "", "read URLs from a file")
	previewCmd.Flags().StringVarP(&previewSave, "save", "s", "", "write a selection manifest with every item selected")
}

func runPreview(cmd *cobra.Command, args []string) error {
	a, err := loadApp(nil)
	if err != nil {
		return err
	}

	urls, err := inputURLs(args, previewFile)
	if err != nil || len(urls) == 0 {
		return err
	}

	printer := ui.NewProgressPrinter(os.Stderr, ui.IsTerminal(os.Stderr))
	result := a.fetcher().FetchPreviews(cmd.Context(), urls, printer.Hooks())
	printer.Finish()

	printBatch(cmd.OutOrStdout(), result, nil)

	if previewSave != "" {
		manifest := selection.New(result)
		manifest.SelectAll()
		if err := manifest.Save(previewSave); err != nil {
			return err
		}
		ui.PrintInfo("Manifest", previewSave)
	}
	return nil
}

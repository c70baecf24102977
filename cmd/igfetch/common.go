package main

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"igfetch/internal/downloader"
	"igfetch/pkg/config"
	"igfetch/pkg/instagram"
	"igfetch/pkg/logger"
	"igfetch/pkg/models"
	"igfetch/pkg/posturl"
	"igfetch/pkg/resolver"
	"igfetch/pkg/scraper"
	"igfetch/pkg/selection"
	"igfetch/pkg/session"
	"igfetch/pkg/ui"
)

// app bundles what every command builds from the loaded configuration
type app struct {
	cfg      *config.Config
	log      logger.Logger
	sessions *session.Manager
}

// globalFlags collects the persistent flags that override configuration
func globalFlags() map[string]interface{} {
	flags := make(map[string]interface{})
	if logLevel != "" {
		flags["log-level"] = logLevel
	}
	if sessionUser != "" {
		flags["session-user"] = sessionUser
	}
	return flags
}

// loadApp loads configuration, initializes logging and opens the session store.
// extra holds command specific flag overrides.
func loadApp(extra map[string]interface{}) (*app, error) {
	flags := globalFlags()
	for k, v := range extra {
		flags[k] = v
	}

	cfg, err := config.Load(configFile, flags)
	if err != nil {
		return nil, err
	}
	if quiet && logLevel == "" {
		cfg.Logging.Level = "error"
	}

	if err := logger.Initialize(&cfg.Logging); err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}
	log := logger.GetLogger()
	log.WithField("version", version).Debug("igfetch starting")

	return &app{
		cfg:      cfg,
		log:      log,
		sessions: session.NewManager(cfg.Session.Directory, log),
	}, nil
}

// withLogger swaps the logger used by the components built afterwards
func (a *app) withLogger(log logger.Logger) *app {
	cp := *a
	cp.log = log
	return &cp
}

// client opens the provider client, attaching the resolved session when there is one
func (a *app) client() *instagram.Client {
	username, path := a.sessions.Resolve(a.cfg.Session.Username)
	c := instagram.Open(instagram.OptionsFromConfig(a.cfg, a.log), username, path)
	if c.IsAuthenticated() {
		a.log.WithField("username", c.Username()).Info("using stored session")
	}
	return c
}

// fetcher wires client, resolver and batch fetcher together
func (a *app) fetcher() *scraper.Fetcher {
	return scraper.NewFetcher(resolver.New(a.client(), a.log), a.cfg.Fetch.Delay, a.log)
}

func (a *app) downloader() *downloader.Downloader {
	return downloader.New(downloader.Options{
		UserAgent: a.cfg.Instagram.UserAgent,
		Timeout:   a.cfg.Download.Timeout,
		Delay:     a.cfg.Download.Delay,
		Logger:    a.log,
	})
}

// collectInput joins URL arguments, the contents of file and, when neither
// is given and stdin is not a terminal, everything on stdin.
func collectInput(args []string, file string, stdin io.Reader, stdinIsTerminal bool) (string, error) {
	parts := append([]string(nil), args...)

	if file != "" {
		data, err := os.ReadFile(file)
		if err != nil {
			return "", fmt.Errorf("failed to read URL file: %w", err)
		}
		parts = append(parts, string(data))
	}

	if len(parts) == 0 && stdin != nil && !stdinIsTerminal {
		data, err := io.ReadAll(stdin)
		if err != nil {
			return "", fmt.Errorf("failed to read stdin: %w", err)
		}
		parts = append(parts, string(data))
	}

	return strings.Join(parts, "\n"), nil
}

// inputURLs returns the normalized URLs for a command, warning when there are none
func inputURLs(args []string, file string) ([]string, error) {
	raw, err := collectInput(args, file, os.Stdin, ui.IsTerminal(os.Stdin))
	if err != nil {
		return nil, err
	}
	urls := posturl.Normalize(raw)
	if len(urls) == 0 {
		ui.PrintWarning("No valid URLs found")
	}
	return urls, nil
}

// applySelection adjusts a manifest from --select and --all. An explicit id
// list replaces the current selection.
func applySelection(m *selection.Manifest, ids []string, all bool) error {
	if all {
		m.SelectAll()
		return nil
	}
	if len(ids) == 0 {
		return nil
	}

	var cleaned []string
	for _, id := range ids {
		if id = strings.TrimSpace(id); id != "" {
			cleaned = append(cleaned, id)
		}
	}
	if len(cleaned) == 0 {
		return nil
	}

	m.ClearAll()
	return m.Select(cleaned...)
}

// printBatch writes the preview of every URL in input order
func printBatch(w io.Writer, result models.BatchResult, selected func(id string) bool) {
	bw := bufio.NewWriter(w)
	defer bw.Flush()

	for _, url := range result.Order {
		if msg, failed := result.Errors[url]; failed {
			fmt.Fprintf(bw, "%s %s\n    %s\n", ui.Red("✗"), url, ui.Red(msg))
			continue
		}
		items := result.Media[url]
		fmt.Fprintf(bw, "%s %s (%d)\n", ui.Green("✓"), url, len(items))
		for _, item := range items {
			mark := " "
			if selected != nil && selected(item.ID) {
				mark = "*"
			}
			fmt.Fprintf(bw, "  %s %-16s %-5s %s\n", mark, item.ID, item.Type, item.Filename)
		}
	}
}

// printSummary reports a finished download batch
func printSummary(s models.DownloadSummary) {
	ui.PrintSuccess(fmt.Sprintf("Saved %d file(s), skipped %d", s.Saved, s.Skipped))
	if s.Failed > 0 {
		ui.PrintWarning(fmt.Sprintf("%d file(s) failed", s.Failed))
	}
	ui.PrintInfo("Location", s.BaseDir)
}

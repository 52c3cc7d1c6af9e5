package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/adrg/xdg"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"listings/internal/browser"
	"listings/internal/config"
	"listings/internal/location"
	"listings/internal/notice"
	"listings/internal/paginate"
	"listings/internal/providers/profiles"
	"listings/internal/types"
)

var (
	startLocation string
	logFile       string
	pageSize      int
)

var rootCmd = &cobra.Command{
	Use:   "browse",
	Short: "Browse profile listings in the terminal",
	Long: `Scrolls the profile feed of the configured upstream API. The next page is
fetched as the end of the list comes into view.

Press / to filter by county, sub-county or area.`,
	Args:         cobra.NoArgs,
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runBrowser(cmd.Context())
	},
}

func init() {
	rootCmd.Flags().StringVarP(&startLocation, "location", "l", "", "initial location filter")
	rootCmd.Flags().StringVar(&logFile, "log-file", "", "log destination (default is the XDG state directory)")
	rootCmd.Flags().IntVar(&pageSize, "page-size", 0, "profiles per page (default from config)")
}

func main() {
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func runBrowser(ctx context.Context) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if pageSize > 0 {
		cfg.App.PageSize = pageSize
	}

	// The terminal belongs to the UI, logs go to a file
	if logFile == "" {
		if logFile, err = xdg.StateFile("listings/browse.log"); err != nil {
			return fmt.Errorf("failed to resolve log file: %w", err)
		}
	}
	out, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
	if err != nil {
		return fmt.Errorf("failed to open log file: %w", err)
	}
	defer out.Close()

	logger := cfg.NewLoggerTo(out)
	slog.SetDefault(logger)

	dataset, err := location.OpenDataset(cfg.App.DatasetPath)
	if err != nil {
		return err
	}

	client := profiles.NewClient(logger, cfg.Upstream.BaseURL, cfg.Upstream.UserAgent, cfg.Upstream.Timeout)
	fetcher := paginate.New(client.FetchPage, paginate.Options{
		PageSize:  cfg.App.PageSize,
		Threshold: cfg.App.ScrollThreshold,
	}, logger)

	notices, clientID := openNotices(logger)

	model := browser.New(ctx, fetcher,
		func(q string) []types.LocationEntry { return location.Search(q, dataset) },
		browser.Options{Notices: notices, ClientID: clientID, Location: startLocation},
		logger,
	)

	logger.Info("starting browser", "upstream", cfg.Upstream.BaseURL, "page_size", cfg.App.PageSize)

	p := tea.NewProgram(model,
		tea.WithContext(ctx),
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
	)
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("browser failed: %w", err)
	}
	return nil
}

// openNotices keeps dismissals in the XDG state directory. When that is not
// usable the session falls back to memory and the notice shows on every run.
func openNotices(logger *slog.Logger) (notice.Service, string) {
	path, err := notice.DefaultFilePath()
	if err == nil {
		store := notice.NewFileStore(path)
		clientID, idErr := store.ClientID()
		if idErr == nil {
			return notice.NewNoticeService(store, logger), clientID
		}
		err = idErr
	}

	logger.Warn("notice state unavailable, dismissals will not persist", "error", err)
	return notice.NewNoticeService(notice.NewMemoryStore(), logger), notice.NewClientID()
}

package downloaderimpl

import (
	"context"
	"net"
	"net/http"
	"os"
	"os/exec"
	"sync"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/orgball2608/bluesky-likes-crawler/internal/domain"
	"github.com/orgball2608/bluesky-likes-crawler/internal/downloader"
	"github.com/orgball2608/bluesky-likes-crawler/internal/ratelimit"
	"github.com/orgball2608/bluesky-likes-crawler/pkg/config"
	"github.com/orgball2608/bluesky-likes-crawler/pkg/logger"
	"github.com/orgball2608/bluesky-likes-crawler/pkg/retry"
	"github.com/panjf2000/ants/v2"
	"go.uber.org/fx"
)

type Opts struct {
	fx.In

	Config  *config.Config
	Logger  logger.Logger
	Limiter ratelimit.Limiter
}

// commandRunner runs an external program to completion.
type commandRunner func(ctx context.Context, name string, args ...string) error

type DownloaderImpl struct {
	basePath   string
	workers    int
	ffmpegPath string
	http       *http.Client
	retry      retry.Config
	limiter    ratelimit.Limiter
	logger     logger.Logger
	run        commandRunner
}

func New(opts Opts) *DownloaderImpl {
	cfg := opts.Config.Downloader
	transport := http.DefaultTransport.(*http.Transport).Clone()
	transport.DialContext = (&net.Dialer{Timeout: cfg.ConnectTimeout}).DialContext
	transport.TLSHandshakeTimeout = cfg.ConnectTimeout

	return &DownloaderImpl{
		basePath:   cfg.SaveBasePath,
		workers:    cfg.Workers,
		ffmpegPath: cfg.FFmpegPath,
		http:       &http.Client{Transport: transport, Timeout: cfg.ConnectTimeout + cfg.ReadTimeout},
		retry:      retry.WithRetries(cfg.Retries),
		limiter:    opts.Limiter,
		logger:     opts.Logger.WithComponent("Downloader"),
		run:        runCommand,
	}
}

var _ downloader.Client = (*DownloaderImpl)(nil)

type outcome int

const (
	downloaded outcome = iota
	skipped
	failed
)

func (d *DownloaderImpl) Download(ctx context.Context, media []domain.Media) downloader.Summary {
	var summary downloader.Summary
	if len(media) == 0 {
		return summary
	}

	start := time.Now()
	d.logger.Info("Download started", "items", len(media), "save_base_path", d.basePath)
	if err := os.MkdirAll(d.basePath, 0o755); err != nil {
		d.logger.Error("Failed to create save directory", "path", d.basePath, "error", err)
		summary.Failed = len(media)
		return summary
	}

	var (
		wg    sync.WaitGroup
		mu    sync.Mutex
		names = newClaims()
	)
	record := func(o outcome, size int64) {
		mu.Lock()
		defer mu.Unlock()
		switch o {
		case downloaded:
			summary.Downloaded++
			summary.Bytes += size
		case skipped:
			summary.Skipped++
		default:
			summary.Failed++
		}
	}

	pool, err := ants.NewPool(max(d.workers, 1), ants.WithPreAlloc(true))
	if err != nil {
		d.logger.Error("Failed to create download pool", "error", err)
		summary.Failed = len(media)
		return summary
	}
	defer pool.Release()

	for _, m := range media {
		wg.Add(1)
		item := m

		err := pool.Submit(func() {
			defer wg.Done()
			record(d.downloadOne(ctx, item, names))
		})
		if err != nil {
			wg.Done()
			d.logger.Error("Failed to submit download", "media_id", item.MediaID, "error", err)
			record(failed, 0)
		}
	}

	wg.Wait()

	d.logger.Info("Download finished",
		"downloaded", summary.Downloaded,
		"skipped", summary.Skipped,
		"failed", summary.Failed,
		"size", humanize.Bytes(uint64(summary.Bytes)),
		"took", time.Since(start).Round(time.Millisecond).String())
	return summary
}

// claims holds the file names already taken by the current batch.
type claims struct {
	mu    sync.Mutex
	taken map[string]struct{}
}

func newClaims() *claims {
	return &claims{taken: make(map[string]struct{})}
}

// claim reports whether name was still free and takes it.
func (c *claims) claim(name string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.taken[name]; ok {
		return false
	}
	c.taken[name] = struct{}{}
	return true
}

func runCommand(ctx context.Context, name string, args ...string) error {
	cmd := exec.CommandContext(ctx, name, args...)
	out, err := cmd.CombinedOutput()
	if err != nil && len(out) > 0 {
		return &commandError{err: err, output: string(out)}
	}
	return err
}

type commandError struct {
	err    error
	output string
}

func (e *commandError) Error() string {
	return e.err.Error() + ": " + e.output
}

func (e *commandError) Unwrap() error {
	return e.err
}

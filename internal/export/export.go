// Package export produces the file and email exports of one ledger. The
// file blob and the email dispatch both come from the remote service; this
// package adds the fail-fast empty check and the local save side effect.
package export

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/schollz/progressbar/v3"

	"github.com/mintleaf-fin/mintleaf/internal/common"
	"github.com/mintleaf-fin/mintleaf/internal/model"
	"github.com/mintleaf-fin/mintleaf/internal/notify"
	"github.com/mintleaf-fin/mintleaf/internal/tracker"
)

// Service is the slice of the remote API the coordinator needs.
type Service interface {
	DownloadExport(ctx context.Context, kind model.LedgerKind) (io.ReadCloser, int64, error)
	EmailExport(ctx context.Context, kind model.LedgerKind) error
}

// Ledger is the local state consulted before exporting.
type Ledger interface {
	Kind() model.LedgerKind
	Count() int
}

// Coordinator drives download and email exports for one ledger. Download
// and email run under independent trackers and may overlap.
type Coordinator struct {
	service  Service
	ledger   Ledger
	notifier notify.Notifier
	outDir   string

	// Quiet suppresses the download progress bar.
	Quiet bool

	downloading *tracker.Tracker
	emailing    *tracker.Tracker
}

// NewCoordinator builds a coordinator saving downloads under outDir.
func NewCoordinator(service Service, ledger Ledger, notifier notify.Notifier, outDir string) *Coordinator {
	if notifier == nil {
		notifier = notify.Discard{}
	}
	return &Coordinator{
		service:     service,
		ledger:      ledger,
		notifier:    notifier,
		outDir:      outDir,
		downloading: tracker.New(),
		emailing:    tracker.New(),
	}
}

// Filename returns the fixed export filename for kind.
func Filename(kind model.LedgerKind) string {
	return string(kind) + "_details.xlsx"
}

// Download fetches the spreadsheet export and saves it under the output
// directory, returning the saved path. An empty ledger fails fast with no
// network call. The blob streams through a temp file renamed into place, so
// a failed download leaves nothing behind.
func (c *Coordinator) Download(ctx context.Context) (string, error) {
	var path string
	err := c.downloading.Run(func() error {
		kind := c.ledger.Kind()

		if c.ledger.Count() == 0 {
			err := common.NewUserError(fmt.Sprintf("No %s transactions to download", kind), common.ErrEmptyLedger)
			c.notifier.Error(common.UserMessage(err, ""))
			return err
		}

		body, size, err := c.service.DownloadExport(ctx, kind)
		if err != nil {
			c.notifier.Error(common.UserMessage(err, fmt.Sprintf("Failed to download %s", kind)))
			return err
		}
		defer body.Close()

		saved, err := c.save(body, size)
		if err != nil {
			c.notifier.Error(common.UserMessage(err, fmt.Sprintf("Failed to download %s", kind)))
			return err
		}

		path = saved
		c.notifier.Success(fmt.Sprintf("Downloaded %s details to %s", kind, saved))
		return nil
	})
	return path, err
}

// Email asks the service to mail the spreadsheet export. An empty ledger
// fails fast with no network call.
func (c *Coordinator) Email(ctx context.Context) error {
	return c.emailing.Run(func() error {
		kind := c.ledger.Kind()

		if c.ledger.Count() == 0 {
			err := common.NewUserError(fmt.Sprintf("No %s transactions to email", kind), common.ErrEmptyLedger)
			c.notifier.Error(common.UserMessage(err, ""))
			return err
		}

		if err := c.service.EmailExport(ctx, kind); err != nil {
			c.notifier.Error(common.UserMessage(err, fmt.Sprintf("Failed to email %s", kind)))
			return err
		}

		c.notifier.Success(fmt.Sprintf("%s details emailed successfully", titleKind(kind)))
		return nil
	})
}

// Downloading returns the tracker for Download.
func (c *Coordinator) Downloading() *tracker.Tracker { return c.downloading }

// Emailing returns the tracker for Email.
func (c *Coordinator) Emailing() *tracker.Tracker { return c.emailing }

func (c *Coordinator) save(r io.Reader, size int64) (string, error) {
	if err := os.MkdirAll(c.outDir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create output directory: %w", err)
	}

	tmp, err := os.CreateTemp(c.outDir, ".mintleaf-download-*")
	if err != nil {
		return "", fmt.Errorf("failed to create temp file: %w", err)
	}
	defer func() {
		tmp.Close()
		// No-op after a successful rename.
		os.Remove(tmp.Name())
	}()

	var w io.Writer = tmp
	if !c.Quiet {
		bar := progressbar.DefaultBytes(size, "downloading")
		w = io.MultiWriter(tmp, bar)
	}

	if _, err := io.Copy(w, r); err != nil {
		return "", fmt.Errorf("failed to write export: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return "", fmt.Errorf("failed to flush export: %w", err)
	}

	final := filepath.Join(c.outDir, Filename(c.ledger.Kind()))
	if err := os.Rename(tmp.Name(), final); err != nil {
		return "", fmt.Errorf("failed to finalize export: %w", err)
	}
	return final, nil
}

func titleKind(kind model.LedgerKind) string {
	if kind == model.LedgerIncome {
		return "Income"
	}
	return "Expense"
}

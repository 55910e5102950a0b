package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"time"

	"github.com/harrison/msutils/internal/config"
	"github.com/harrison/msutils/internal/filelock"
	"github.com/harrison/msutils/internal/history"
	"github.com/harrison/msutils/internal/page"
	"github.com/harrison/msutils/internal/transfer"
	"github.com/spf13/cobra"
)

// lockRetryDelay is how often a waiting send retries the lock.
const lockRetryDelay = 250 * time.Millisecond

// NewSendCommand creates the 'msutils send' command
func NewSendCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "send [DATE]",
		Short: "Upload a date's pages to a target",
		Long: `Upload a date's page files, in page order, to a configured target.

Pages are stored under their external name (MS_[P_]YYYY_MM_DD_NNN.ext)
unless the target sets rename: false or --no-rename is given. The first
failed upload stops the run; pages sent before it are still recorded in the
upload history.

Only one send runs at a time. A second send fails immediately unless --wait
is given.`,
		Args: cobra.MaximumNArgs(1),
		RunE: runSend,
	}

	cmd.Flags().StringP("target", "t", "", "Target to upload to (required)")
	cmd.Flags().String("kind", kindPress, "Page files to send: press, web or indd")
	cmd.Flags().Bool("no-rename", false, "Keep local file names instead of external names")
	cmd.Flags().Bool("skip-sent", false, "Skip pages already sent to this target")
	cmd.Flags().Bool("dry-run", false, "Show what would be sent without connecting")
	cmd.Flags().Duration("wait", 0, "Wait up to this long for another send to finish (e.g. 30s, 5m)")
	_ = cmd.MarkFlagRequired("target")

	return cmd
}

func runSend(cmd *cobra.Command, args []string) error {
	targetName, _ := cmd.Flags().GetString("target")
	kind, _ := cmd.Flags().GetString("kind")
	noRename, _ := cmd.Flags().GetBool("no-rename")
	skipSent, _ := cmd.Flags().GetBool("skip-sent")
	dryRun, _ := cmd.Flags().GetBool("dry-run")
	wait, _ := cmd.Flags().GetDuration("wait")

	if err := validateKind(kind); err != nil {
		return err
	}
	date, err := parseDate(args)
	if err != nil {
		return err
	}

	s, err := newSession(cmd)
	if err != nil {
		return err
	}
	defer s.Close()

	targetCfg, err := s.cfg.Target(targetName)
	if err != nil {
		return err
	}
	rename := targetCfg.Rename && !noRename

	ctx, stop := signal.NotifyContext(cmdContext(cmd), os.Interrupt)
	defer stop()

	lock, err := acquireSendLock(ctx, wait)
	if err != nil {
		return err
	}
	defer lock.Unlock()

	pages, err := s.editionPages(kind, date)
	if err != nil {
		return s.explain(cmd, date, err)
	}
	if len(pages) == 0 {
		s.log.LogWarn(fmt.Sprintf("No %s pages found for %s", kind, date.Format(dateLayout)))
		return nil
	}

	var store *history.Store
	if skipSent || !dryRun {
		dbPath, err := s.cfg.HistoryDBPath()
		if err != nil {
			return err
		}
		store, err = history.NewStore(dbPath)
		if err != nil {
			return fmt.Errorf("open history: %w", err)
		}
		defer store.Close()
	}

	skipped := 0
	if skipSent {
		pages, skipped, err = unsentPages(ctx, store, targetName, pages, rename)
		if err != nil {
			return err
		}
		if skipped > 0 {
			s.log.LogInfo(fmt.Sprintf("Skipping %d page(s) already sent to %s", skipped, targetName))
		}
	}

	var uploader transfer.Uploader
	if dryRun {
		uploader = &transfer.DryRunUploader{Rename: rename, Logger: s.log}
	} else {
		uploader, err = transfer.New(uploadTarget(targetCfg), rename, s.log)
		if err != nil {
			return err
		}
	}

	start := time.Now()
	var results []transfer.Result
	if len(pages) > 0 {
		results, err = uploader.Upload(ctx, pages)
	}

	if !dryRun {
		if recErr := recordResults(ctx, store, targetName, date, results); recErr != nil {
			s.log.LogError(recErr.Error())
		}
	}
	s.log.LogSummary(targetName, len(results), skipped, time.Since(start))

	return err
}

func cmdContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}

// acquireSendLock takes the send lock, waiting up to wait when it is held.
func acquireSendLock(ctx context.Context, wait time.Duration) (*filelock.FileLock, error) {
	lockPath, err := config.GetSendLockPath()
	if err != nil {
		return nil, err
	}
	lock := filelock.NewFileLock(lockPath)

	var locked bool
	if wait > 0 {
		waitCtx, cancel := context.WithTimeout(ctx, wait)
		defer cancel()
		locked, err = lock.LockContext(waitCtx, lockRetryDelay)
	} else {
		locked, err = lock.TryLock()
	}
	if err != nil && !locked {
		return nil, fmt.Errorf("another send is in progress (lock %s): %w", lockPath, err)
	}
	if !locked {
		return nil, fmt.Errorf("another send is in progress (lock %s)", lockPath)
	}
	return lock, nil
}

// unsentPages drops pages whose remote name the history already records
// for target.
func unsentPages(ctx context.Context, store *history.Store, target string, pages []page.Page, rename bool) ([]page.Page, int, error) {
	var unsent []page.Page
	for _, p := range pages {
		sent, err := store.Sent(ctx, target, transfer.RemoteName(p, rename))
		if err != nil {
			return nil, 0, err
		}
		if !sent {
			unsent = append(unsent, p)
		}
	}
	return unsent, len(pages) - len(unsent), nil
}

func recordResults(ctx context.Context, store *history.Store, target string, date time.Time, results []transfer.Result) error {
	if len(results) == 0 {
		return nil
	}
	// Record even when the upload was interrupted.
	ctx = context.WithoutCancel(ctx)
	run := history.NewRun()
	for _, r := range results {
		err := store.Record(ctx, &history.Entry{
			RunID:       run,
			Target:      target,
			LocalPath:   r.Page.Path(),
			RemoteName:  r.RemoteName,
			EditionDate: date,
		})
		if err != nil {
			return fmt.Errorf("record upload of %s: %w", r.Page.Name(), err)
		}
	}
	return nil
}

func uploadTarget(t config.TargetConfig) transfer.Target {
	return transfer.Target{
		Protocol: t.Protocol,
		Host:     t.Host,
		Port:     t.Port,
		User:     t.User,
		Password: t.Password,
		Path:     t.Path,
	}
}

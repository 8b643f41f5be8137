package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"sync"
	"time"

	"github.com/spf13/cobra"

	"github.com/srg/bentool/internal/bonderr"
	"github.com/srg/bentool/internal/groutine"
	"github.com/srg/bentool/internal/hciradio"
	"github.com/srg/bentool/internal/packet"
)

// drainLoop polls the queue until ctx is done. The queue's own Drain
// call only walks what is currently enqueued, so the scan and admit
// goroutines are decoupled with a short poll interval rather than a
// blocking wait.
func drainLoop(ctx context.Context, q *hciradio.ReportQueue, fn func(packet.RawReport) bool) {
	ticker := time.NewTicker(20 * time.Millisecond)
	defer ticker.Stop()
	for {
		q.Drain(ctx, fn)
		select {
		case <-ctx.Done():
			q.Drain(context.Background(), fn) // flush whatever arrived just before cancellation
			return
		case <-ticker.C:
		}
	}
}

var scanCmd = &cobra.Command{
	Use:   "scan",
	Short: "Passively scan for BLE advertisements until interrupted",
	Long: `Scans the selected HCI device and admits every captured
advertisement into the Stream Store (see bonding, resolve_rpa, track).
Runs until interrupted with Ctrl-C.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if app.hciDevice == "" {
			return &bonderr.DeviceError{Op: "scan", Err: errNoDeviceSelected}
		}

		s, err := hciradio.OpenScanner(app.hciDevice, hciradio.ScanParams{
			IntervalMs: app.eng.Config.ScanIntervalMs,
			WindowMs:   app.eng.Config.ScanWindowMs,
		})
		if err != nil {
			return err
		}
		defer s.Close()

		ctx, cancel := signal.NotifyContext(cmd.Context(), os.Interrupt)
		defer cancel()

		var wg sync.WaitGroup
		var admitted, rejected int

		wg.Add(1)
		groutine.Go(ctx, "scan-admit-loop", func(ctx context.Context) {
			defer wg.Done()
			drainLoop(ctx, s.Queue, func(r packet.RawReport) bool {
				p := packet.Decode(r)
				if _, err := app.eng.Admit(p); err != nil {
					rejected++
				} else {
					admitted++
				}
				return true
			})
		})

		printf(cmd, "Scanning on %s, Ctrl-C to stop\n", app.hciDevice)
		runErr := s.Run(ctx)
		cancel()
		wg.Wait()

		printf(cmd, "admitted %d report(s), rejected %d\n", admitted, rejected)

		if runErr != nil && !errors.Is(runErr, context.Canceled) {
			return runErr
		}
		return nil
	},
}

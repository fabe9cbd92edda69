package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/tournevent/pochta/internal/server"
	"github.com/tournevent/pochta/pkg/tracking"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// maxParallelHistory bounds concurrent single-tracking calls.
const maxParallelHistory = 4

func newTrackCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "track",
		Short: "Track postal items",
	}

	cmd.AddCommand(
		newTrackHistoryCmd(),
		newTrackEventsCmd(),
		newTrackTicketCmd(),
		newTrackAnswerCmd(),
		newTrackWatchCmd(),
	)
	return cmd
}

// itemHistory is the output of track history for one barcode.
type itemHistory struct {
	Barcode string                   `json:"barcode"`
	Records []tracking.HistoryRecord `json:"records,omitempty"`
	Error   string                   `json:"error,omitempty"`
}

func newTrackHistoryCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "history BARCODE...",
		Short: "Show the operation history of one or more postal items",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withTracking(cmd, func(ctx context.Context, a *app, c *tracking.Client) (any, error) {
				return fetchHistories(ctx, c, args), nil
			})
		},
	}
}

// fetchHistories queries barcodes concurrently. A failed barcode is reported
// in its own entry and does not cancel the others.
func fetchHistories(ctx context.Context, c *tracking.Client, barcodes []string) []itemHistory {
	results := make([]itemHistory, len(barcodes))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(maxParallelHistory)

	for i, barcode := range barcodes {
		g.Go(func() error {
			records, err := c.History(gctx, barcode)
			results[i] = itemHistory{Barcode: barcode, Records: records}
			if err != nil {
				results[i].Error = err.Error()
			}
			return nil
		})
	}

	_ = g.Wait()
	return results
}

func newTrackEventsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "events BARCODE",
		Short: "Show cash-on-delivery money order events of a postal item",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withTracking(cmd, func(ctx context.Context, a *app, c *tracking.Client) (any, error) {
				return c.PostalOrderEvents(ctx, args[0])
			})
		},
	}
}

func newTrackTicketCmd() *cobra.Command {
	var file string

	cmd := &cobra.Command{
		Use:   "ticket [BARCODE...]",
		Short: "Submit barcodes for batch tracking and print the ticket",
		RunE: func(cmd *cobra.Command, args []string) error {
			barcodes, err := collectBarcodes(args, file)
			if err != nil {
				return err
			}
			return withTracking(cmd, func(ctx context.Context, a *app, c *tracking.Client) (any, error) {
				ticket, err := c.Ticket(ctx, barcodes)
				if err != nil {
					return nil, err
				}
				return map[string]any{
					"ticket":     ticket,
					"barcodes":   len(barcodes),
					"ready_at":   time.Now().Add(tracking.TicketPollInterval).Format(time.RFC3339),
					"expires_at": time.Now().Add(tracking.TicketRetention).Format(time.RFC3339),
				}, nil
			})
		},
	}

	cmd.Flags().StringVarP(&file, "file", "f", "", "Read barcodes from a file, one per line")
	return cmd
}

func newTrackAnswerCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "answer TICKET",
		Short: "Collect the batch tracking answer of a ticket",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withTracking(cmd, func(ctx context.Context, a *app, c *tracking.Client) (any, error) {
				return c.ResponseByTicket(ctx, args[0])
			})
		},
	}
}

func newTrackWatchCmd() *cobra.Command {
	var (
		file     string
		interval time.Duration
		attempts int
		serve    bool
	)

	cmd := &cobra.Command{
		Use:   "watch [BARCODE...]",
		Short: "Submit a ticket, wait for the answer and print it",
		Long: "Submits barcodes for batch tracking, waits the poll interval and asks for the\n" +
			"answer until it is ready. While waiting, health and metrics are served on\n" +
			"METRICS_PORT when --serve is set.",
		RunE: func(cmd *cobra.Command, args []string) error {
			barcodes, err := collectBarcodes(args, file)
			if err != nil {
				return err
			}
			return withTracking(cmd, func(ctx context.Context, a *app, c *tracking.Client) (any, error) {
				var srv *server.Server
				if serve {
					srv = server.New(server.Config{Port: a.cfg.MetricsPort, Gatherer: a.registry}, a.logger)
					srvCtx, stop := context.WithCancel(ctx)
					defer stop()
					go func() {
						if err := srv.Run(srvCtx); err != nil {
							a.logger.Error("Metrics server failed", zap.Error(err))
						}
					}()
				}

				onTicket := func(string) {}
				if srv != nil {
					onTicket = func(string) { srv.SetReady(true) }
				}
				return watchTicket(ctx, a, c, barcodes, interval, attempts, onTicket)
			})
		},
	}

	cmd.Flags().StringVarP(&file, "file", "f", "", "Read barcodes from a file, one per line")
	cmd.Flags().DurationVar(&interval, "interval", tracking.TicketPollInterval, "Delay before each answer request")
	cmd.Flags().IntVar(&attempts, "attempts", 4, "Answer requests before giving up")
	cmd.Flags().BoolVar(&serve, "serve", false, "Serve /health, /ready and /metrics while waiting; /ready turns 200 once the ticket is issued")
	return cmd
}

// watchTicket submits barcodes and polls for the answer. The service answers
// with an error until the ticket is processed, so every failed ask is
// followed by another wait. onTicket, if set, runs once the ticket is issued.
func watchTicket(ctx context.Context, a *app, c *tracking.Client, barcodes []string, interval time.Duration, attempts int, onTicket func(ticket string)) ([]tracking.TicketItem, error) {
	if attempts < 1 {
		return nil, fmt.Errorf("--attempts must be at least 1, got %d", attempts)
	}

	ticket, err := c.Ticket(ctx, barcodes)
	if err != nil {
		return nil, err
	}
	if onTicket != nil {
		onTicket(ticket)
	}

	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		timer := time.NewTimer(interval)
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil, ctx.Err()
		case <-timer.C:
		}

		items, err := c.ResponseByTicket(ctx, ticket)
		if err == nil {
			return items, nil
		}

		var apiErr *tracking.APIError
		if !errors.As(err, &apiErr) {
			return nil, err
		}
		lastErr = err
		a.logger.Ctx(ctx).Info("Ticket answer not ready",
			zap.String("ticket", ticket),
			zap.Int("attempt", attempt),
			zap.String("code", apiErr.Code),
		)
	}

	return nil, fmt.Errorf("ticket %s: no answer after %d attempts: %w", ticket, attempts, lastErr)
}

// collectBarcodes merges command line barcodes with those read from path.
func collectBarcodes(args []string, path string) ([]string, error) {
	barcodes := append([]string(nil), args...)
	if path == "" {
		return barcodes, nil
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		if line := strings.TrimSpace(scanner.Text()); line != "" {
			barcodes = append(barcodes, line)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	return barcodes, nil
}

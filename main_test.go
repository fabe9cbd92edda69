package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"testing/iotest"
	"time"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tournevent/pochta/internal/config"
	"github.com/tournevent/pochta/pkg/tracking"
	"github.com/uptrace/opentelemetry-go-extra/otelzap"
	"go.uber.org/zap"
)

func runCLI(t *testing.T, args ...string) (string, error) {
	t.Helper()
	t.Setenv("POCHTA_USE_MOCK", "true")
	t.Setenv("TRACKING_USE_MOCK", "true")
	t.Setenv("LOG_LEVEL", "error")

	var out bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func TestCLI_Tariff(t *testing.T) {
	out, err := runCLI(t, "tariff", "--from", "101000", "--to", "190000", "--mass", "500")
	require.NoError(t, err)

	var result map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &result))
	assert.EqualValues(t, 24800, result["total-rate"])
}

func TestCLI_Tariff_RequiresIndexes(t *testing.T) {
	_, err := runCLI(t, "tariff", "--from", "101000")
	assert.Error(t, err)
}

func TestCLI_TrackHistory(t *testing.T) {
	out, err := runCLI(t, "track", "history", "80102030405060", "RA123456789RU")
	require.NoError(t, err)

	var result []itemHistory
	require.NoError(t, json.Unmarshal([]byte(out), &result))
	require.Len(t, result, 2)
	assert.Equal(t, "80102030405060", result[0].Barcode)
	assert.Equal(t, "RA123456789RU", result[1].Barcode)
	assert.Len(t, result[1].Records, 2)
}

func TestCLI_TrackTicket_TooManyBarcodes(t *testing.T) {
	path := filepath.Join(t.TempDir(), "barcodes.txt")
	lines := make([]string, tracking.MaxTicketBarcodes+1)
	for i := range lines {
		lines[i] = "80102030405060"
	}
	require.NoError(t, os.WriteFile(path, []byte(strings.Join(lines, "\n")), 0o600))

	_, err := runCLI(t, "track", "ticket", "--file", path)

	assert.ErrorIs(t, err, tracking.ErrInvalidArgument)
}

func TestCLI_DocsToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "f103.pdf")

	_, err := runCLI(t, "docs", "f103", "batch-1", "-o", path)
	require.NoError(t, err)

	_, statErr := os.Stat(path)
	assert.NoError(t, statErr)
}

func TestCLI_DocsInvalidDate(t *testing.T) {
	_, err := runCLI(t, "docs", "f7", "order-1", "--sending-date", "tomorrow")
	assert.ErrorContains(t, err, "invalid --sending-date")
}

func TestCollectBarcodes(t *testing.T) {
	path := filepath.Join(t.TempDir(), "barcodes.txt")
	require.NoError(t, os.WriteFile(path, []byte("A\n\n  B  \nC\n"), 0o600))

	barcodes, err := collectBarcodes([]string{"X"}, path)

	require.NoError(t, err)
	assert.Equal(t, []string{"X", "A", "B", "C"}, barcodes)
}

func TestWatchTicket_RetriesUntilReady(t *testing.T) {
	asks := 0
	mockAPI := tracking.NewMockAPIClient()
	mockAPI.OnResponseByTicket = func(ctx context.Context, ticket string) ([]tracking.TicketItem, error) {
		asks++
		if asks < 3 {
			return nil, &tracking.APIError{Code: "6", Message: "answer not ready"}
		}
		return []tracking.TicketItem{{Barcode: "80102030405060"}}, nil
	}
	logger := otelzap.New(zap.NewNop())
	a := &app{cfg: &config.Config{}, logger: logger}
	client := tracking.NewWithAPIClient(tracking.Config{}, mockAPI, logger, nil)

	items, err := watchTicket(context.Background(), a, client, []string{"80102030405060"}, time.Millisecond, 5, nil)

	require.NoError(t, err)
	assert.Equal(t, 3, asks)
	require.Len(t, items, 1)
}

func TestWatchTicket_GivesUp(t *testing.T) {
	mockAPI := tracking.NewMockAPIClient()
	mockAPI.OnResponseByTicket = func(ctx context.Context, ticket string) ([]tracking.TicketItem, error) {
		return nil, &tracking.APIError{Code: "6", Message: "answer not ready"}
	}
	logger := otelzap.New(zap.NewNop())
	a := &app{cfg: &config.Config{}, logger: logger}
	client := tracking.NewWithAPIClient(tracking.Config{}, mockAPI, logger, nil)

	_, err := watchTicket(context.Background(), a, client, []string{"80102030405060"}, time.Millisecond, 2, nil)

	var apiErr *tracking.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Contains(t, err.Error(), "no answer after 2 attempts")
}

func TestWatchTicket_ReportsIssuedTicket(t *testing.T) {
	mockAPI := tracking.NewMockAPIClient()
	mockAPI.OnTicket = func(ctx context.Context, barcodes []string) (string, error) {
		return "20260301093000abcd", nil
	}
	logger := otelzap.New(zap.NewNop())
	a := &app{cfg: &config.Config{}, logger: logger}
	client := tracking.NewWithAPIClient(tracking.Config{}, mockAPI, logger, nil)

	var issued []string
	_, err := watchTicket(context.Background(), a, client, []string{"80102030405060"}, time.Millisecond, 1,
		func(ticket string) { issued = append(issued, ticket) })

	require.NoError(t, err)
	assert.Equal(t, []string{"20260301093000abcd"}, issued)
}

func TestWatchTicket_RejectsNoAttempts(t *testing.T) {
	tickets := 0
	mockAPI := tracking.NewMockAPIClient()
	mockAPI.OnTicket = func(ctx context.Context, barcodes []string) (string, error) {
		tickets++
		return "20260301093000abcd", nil
	}
	logger := otelzap.New(zap.NewNop())
	a := &app{cfg: &config.Config{}, logger: logger}
	client := tracking.NewWithAPIClient(tracking.Config{}, mockAPI, logger, nil)

	for _, attempts := range []int{0, -1} {
		_, err := watchTicket(context.Background(), a, client, []string{"80102030405060"}, time.Millisecond, attempts, nil)

		require.Error(t, err)
		assert.Contains(t, err.Error(), "--attempts must be at least 1")
		assert.NotContains(t, err.Error(), "%!")
	}
	assert.Zero(t, tickets, "no ticket may be requested")
}

func TestCLI_TrackWatch_RejectsNoAttempts(t *testing.T) {
	_, err := runCLI(t, "track", "watch", "80102030405060", "--attempts", "0", "--interval", "1ms")
	assert.ErrorContains(t, err, "--attempts must be at least 1")
}

func TestSaveStream_RemovesPartialFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "f103.pdf")
	boom := errors.New("connection reset")
	stream := io.MultiReader(strings.NewReader("%PDF-1.4 partial"), iotest.ErrReader(boom))

	err := saveStream(io.Discard, path, stream)

	require.ErrorIs(t, err, boom)
	_, statErr := os.Stat(path)
	assert.True(t, os.IsNotExist(statErr), "partial file must be removed")
}

func TestSaveStream_WritesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "f103.pdf")

	require.NoError(t, saveStream(io.Discard, path, strings.NewReader("%PDF-1.4")))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "%PDF-1.4", string(data))
}

func TestAddPageFlags_OnlyChangedAreSet(t *testing.T) {
	cmd := &cobra.Command{Use: "list"}
	build := addPageFlags(cmd)

	require.NoError(t, cmd.ParseFlags([]string{"--page", "0"}))
	p := build()

	require.NotNil(t, p.Page)
	assert.Equal(t, 0, *p.Page)
	assert.Nil(t, p.Size)
	assert.Empty(t, p.Sort)
}

package commands

import (
	"bufio"
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/oyaguma3/go-supplicant/internal/config"
	"github.com/oyaguma3/go-supplicant/internal/telemetry"
	"github.com/oyaguma3/go-supplicant/supplicant"
)

// shutdownTimeout bounds how long the metrics HTTP server is given to drain
// in-flight requests on SIGINT/SIGTERM.
const shutdownTimeout = 5 * time.Second

func runCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "run",
		Short: "Run the supplicant against EAPOL-Key frames read from stdin",
		Long: "run loads configuration, derives the PMK, and feeds hex-encoded " +
			"EAPOL-Key frames read one per line from stdin into the handshake " +
			"state machine. It is a demonstration host: replace the loopback " +
			"Radio/KeyInstaller adapters with real driver bindings for production use.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return run(cmd.Context(), configPath)
		},
	}
}

func run(ctx context.Context, path string) error {
	cfg, err := loadConfig(path)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	logger := newLogger(cfg.Log)
	logger.Info("supplicantd starting",
		"ssid", cfg.Network.SSID,
		"interface", cfg.Network.Interface,
		"metrics_addr", cfg.Metrics.Addr,
	)

	sa, err := config.ParseMAC(cfg.Network.StationMAC)
	if err != nil {
		return fmt.Errorf("station MAC: %w", err)
	}
	aa, err := config.ParseMAC(cfg.Network.APMAC)
	if err != nil {
		return fmt.Errorf("AP MAC: %w", err)
	}

	reg := prometheus.NewRegistry()
	collector := telemetry.NewCollector(reg)

	radio := newLoopbackRadio(logger)
	keys := &loggingKeyInstaller{logger: logger}
	entropy := cryptoRandEntropy{}

	sup := supplicant.NewSupplicant(radio, keys, entropy, logger, collector)

	pmkInput, err := pmkInputFromConfig(cfg.Network)
	if err != nil {
		return fmt.Errorf("pmk source: %w", err)
	}

	start := nowFunc()
	tickCount := 0
	sup.Init(pmkInput, aa, sa, func() { tickCount++ })
	if _, ok := pmkInput.(supplicant.PassphrasePMK); ok {
		collector.ObservePMKDerivation(sinceSeconds(start))
	}
	logger.Debug("PMK derived", "pbkdf2_ticks", tickCount)

	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, gCtx := errgroup.WithContext(ctx)

	metricsSrv := newMetricsServer(cfg.Metrics, reg)
	g.Go(func() error {
		return serveMetrics(gCtx, metricsSrv, logger)
	})

	g.Go(func() error {
		return readFrames(gCtx, os.Stdin, sup, logger)
	})

	g.Go(func() error {
		<-gCtx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(gCtx), shutdownTimeout)
		defer cancel()
		return metricsSrv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil && ctx.Err() == nil {
		return err
	}
	logger.Info("supplicantd stopped")
	return nil
}

// readFrames reads one hex-encoded EAPOL-Key frame per line from r and feeds
// each into sup.Input. A frame rejected by Input is logged and skipped; it
// never stops the loop, matching the handshake's silent-drop policy.
func readFrames(ctx context.Context, r *os.File, sup *supplicant.Supplicant, logger *slog.Logger) error {
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		line := scanner.Text()
		if line == "" {
			continue
		}
		frame, err := hex.DecodeString(line)
		if err != nil {
			logger.Debug("skipping unparsable input line", "error", err)
			continue
		}
		if err := sup.Input(frame); err != nil {
			logger.Debug("frame dropped", "error", err, "state", sup.State())
			continue
		}
		logger.Info("handshake advanced", "state", sup.State())
	}
	return scanner.Err()
}

func pmkInputFromConfig(n config.NetworkConfig) (supplicant.PMKInput, error) {
	if n.PMKHex != "" {
		pmk, err := config.DecodePMKHex(n.PMKHex)
		if err != nil {
			return nil, err
		}
		return supplicant.RawPMK{PMK: pmk}, nil
	}
	return supplicant.PassphrasePMK{Passphrase: n.Passphrase, SSID: []byte(n.SSID)}, nil
}

func newMetricsServer(cfg config.MetricsConfig, reg *prometheus.Registry) *http.Server {
	mux := http.NewServeMux()
	mux.Handle(cfg.Path, promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
	return &http.Server{
		Addr:              cfg.Addr,
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}
}

func serveMetrics(ctx context.Context, srv *http.Server, logger *slog.Logger) error {
	lc := net.ListenConfig{}
	ln, err := lc.Listen(ctx, "tcp", srv.Addr)
	if err != nil {
		return fmt.Errorf("listen on %s: %w", srv.Addr, err)
	}
	logger.Info("metrics server listening", "addr", srv.Addr)
	if err := srv.Serve(ln); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("serve metrics: %w", err)
	}
	return nil
}

func loadConfig(path string) (*config.Config, error) {
	if path != "" {
		return config.Load(path)
	}
	return config.DefaultConfig(), nil
}

func newLogger(cfg config.LogConfig) *slog.Logger {
	opts := &slog.HandlerOptions{Level: config.ParseLogLevel(cfg.Level)}
	var handler slog.Handler
	if cfg.Format == "text" {
		handler = slog.NewTextHandler(os.Stderr, opts)
	} else {
		handler = slog.NewJSONHandler(os.Stderr, opts)
	}
	return slog.New(handler)
}

// cryptoRandEntropy draws SNonce from crypto/rand, the only source the
// handshake spec permits for a CSPRNG that must never repeat output.
type cryptoRandEntropy struct{}

func (cryptoRandEntropy) SNonce() [32]byte {
	var n [32]byte
	if _, err := rand.Read(n[:]); err != nil {
		panic(err)
	}
	return n
}

// loopbackRadio logs every frame it is asked to transmit instead of driving
// real hardware; a production deployment replaces this with a binding onto
// the wireless NIC's transmit path.
type loopbackRadio struct {
	logger *slog.Logger
}

func newLoopbackRadio(logger *slog.Logger) *loopbackRadio {
	return &loopbackRadio{logger: logger}
}

func (r *loopbackRadio) Send(frame []byte, dst [6]byte, encrypted, eapolFrame bool) error {
	r.logger.Debug("tx EAPOL-Key frame",
		"dst", hex.EncodeToString(dst[:]),
		"bytes", len(frame),
		"encrypted", encrypted,
	)
	return nil
}

// loggingKeyInstaller logs key installation calls instead of programming a
// real cipher engine.
type loggingKeyInstaller struct {
	logger *slog.Logger
}

func (k *loggingKeyInstaller) InstallPairwise(tk [16]byte, txMIC, rxMIC [8]byte) error {
	k.logger.Info("installing pairwise key")
	return nil
}

func (k *loggingKeyInstaller) InstallGroup(index uint8, gtk [16]byte, txMIC, rxMIC [8]byte) error {
	k.logger.Info("installing group key", "index", index)
	return nil
}

func (k *loggingKeyInstaller) Invalidate() error {
	k.logger.Info("invalidating installed keys")
	return nil
}

func sinceSeconds(start time.Time) float64 {
	return time.Since(start).Seconds()
}

func nowFunc() time.Time {
	return time.Now()
}

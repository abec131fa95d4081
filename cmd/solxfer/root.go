package main

import (
	"io"
	"net/http"
	"os"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/common/expfmt"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/Abdullah1738/solana-esp-go/internal/config"
	"github.com/Abdullah1738/solana-esp-go/internal/logging"
	"github.com/Abdullah1738/solana-esp-go/offchain/httpjson"
	"github.com/Abdullah1738/solana-esp-go/offchain/solana"
	"github.com/Abdullah1738/solana-esp-go/offchain/solanarpc"
)

// skipSetup marks commands that run without loading the config file.
const skipSetup = "solxfer/skip-setup"

type app struct {
	configPath   string
	printMetrics bool
	overrides    struct {
		cluster    string
		url        string
		keypair    string
		commitment string
		logLevel   string
	}

	cfg      *config.Config
	log      zerolog.Logger
	logFile  io.Closer
	registry *prometheus.Registry
	metrics  *httpjson.Metrics
}

func newRootCmd() *cobra.Command {
	a := &app{log: zerolog.Nop()}
	root := &cobra.Command{
		Use:           "solxfer",
		Short:         "Build, sign and send Solana transfers",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if cmd.Annotations[skipSetup] == "true" {
				return nil
			}
			return a.setup(cmd)
		},
		PersistentPostRunE: func(cmd *cobra.Command, _ []string) error {
			return a.teardown(cmd)
		},
	}

	f := root.PersistentFlags()
	f.StringVar(&a.configPath, "config", config.DefaultPath(), "config file (YAML)")
	f.StringVar(&a.overrides.cluster, "cluster", "", "devnet, testnet, mainnet-beta or localnet")
	f.StringVarP(&a.overrides.url, "url", "u", "", "JSON-RPC URL (overrides the cluster)")
	f.StringVarP(&a.overrides.keypair, "keypair", "k", "", "keypair file in the Solana CLI format")
	f.StringVar(&a.overrides.commitment, "commitment", "", "processed, confirmed or finalized")
	f.StringVar(&a.overrides.logLevel, "log-level", "", "trace, debug, info, warn or error")
	f.BoolVar(&a.printMetrics, "metrics", false, "print RPC metrics to stderr on exit")

	root.AddCommand(
		keygenCmd(a),
		pubkeyCmd(a),
		blockhashCmd(a),
		transferCmd(a),
		tokenTransferCmd(a),
		decodeCmd(a),
		configCmd(a),
	)
	return root
}

func (a *app) setup(cmd *cobra.Command) error {
	path := a.configPath
	if !cmd.Flags().Changed("config") {
		if _, err := os.Stat(path); err != nil {
			path = ""
		}
	}
	cfg, err := config.Load(path)
	if err != nil {
		return err
	}

	o := a.overrides
	if o.cluster != "" {
		cfg.RPC.Cluster = config.Cluster(o.cluster)
		cfg.RPC.URL = ""
	}
	if o.url != "" {
		cfg.RPC.URL = o.url
	}
	if o.keypair != "" {
		cfg.Keypair = o.keypair
	}
	if o.commitment != "" {
		cfg.RPC.Commitment = o.commitment
	}
	if o.logLevel != "" {
		cfg.Log.Level = o.logLevel
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	log, closer, err := logging.New(cfg.Log.ToLogOptions(), cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	a.cfg = cfg
	a.log = log
	a.logFile = closer
	a.registry = prometheus.NewRegistry()
	a.metrics = httpjson.NewMetrics(a.registry)
	return nil
}

func (a *app) teardown(cmd *cobra.Command) error {
	if a.printMetrics && a.registry != nil {
		families, err := a.registry.Gather()
		if err != nil {
			return err
		}
		for _, mf := range families {
			if _, err := expfmt.MetricFamilyToText(cmd.ErrOrStderr(), mf); err != nil {
				return err
			}
		}
	}
	if a.logFile != nil {
		return a.logFile.Close()
	}
	return nil
}

func (a *app) transport() *httpjson.Transport {
	opts := []httpjson.Option{
		httpjson.WithHTTPClient(&http.Client{Timeout: a.cfg.RPC.Timeout()}),
		httpjson.WithLogger(a.log),
		httpjson.WithMetrics(a.metrics),
	}
	for k, v := range a.cfg.RPC.Headers {
		opts = append(opts, httpjson.WithHeader(k, v))
	}
	return httpjson.New(opts...)
}

func (a *app) clientOptions(skipPreflight bool) []solanarpc.Option {
	return []solanarpc.Option{
		solanarpc.WithLogger(a.log),
		solanarpc.WithSkipPreflight(skipPreflight || a.cfg.RPC.SkipPreflight),
	}
}

func (a *app) client(skipPreflight bool) (*solanarpc.Client, error) {
	url, err := a.cfg.RPC.Endpoint()
	if err != nil {
		return nil, err
	}
	return solanarpc.New(url, a.transport(), a.clientOptions(skipPreflight)...), nil
}

func (a *app) asyncClient(skipPreflight bool) (*solanarpc.AsyncClient, error) {
	url, err := a.cfg.RPC.Endpoint()
	if err != nil {
		return nil, err
	}
	async := httpjson.NewAsync(a.transport(), a.cfg.RPC.AsyncSlots)
	return solanarpc.NewAsync(url, async, a.clientOptions(skipPreflight)...), nil
}

func (a *app) commitment() (solanarpc.Commitment, error) {
	return solanarpc.ParseCommitment(a.cfg.RPC.Commitment)
}

func (a *app) keypair() (*solana.Keypair, error) {
	return solana.LoadKeypairFile(a.cfg.Keypair)
}

package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ammadhh/blockdate/app/services/blockdate/handlers"
	"github.com/ammadhh/blockdate/business/core/account"
	"github.com/ammadhh/blockdate/business/core/profile"
	"github.com/ammadhh/blockdate/foundation/events"
	"github.com/ammadhh/blockdate/foundation/logger"
	"github.com/ammadhh/blockdate/foundation/registry"
	"github.com/ammadhh/blockdate/foundation/wallet"
	"github.com/ardanlabs/conf/v3"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/ethclient"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

// build is the git version of this program. It is set using build flags in the makefile.
var build = "develop"

func main() {

	// Construct the application logger.
	log, err := logger.New("BLOCKDATE")
	if err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
	defer log.Sync()

	// Perform the startup and shutdown sequence.
	if err := run(log); err != nil {
		log.Errorw("startup", "ERROR", err)
		log.Sync()
		os.Exit(1)
	}
}

func run(log *zap.SugaredLogger) error {

	// =========================================================================
	// Configuration

	// The wallet service credentials are usually kept in a .env file next
	// to the binary during development. Missing file is fine, the values
	// can come from the environment directly.
	godotenv.Load()

	cfg := struct {
		conf.Version
		Web struct {
			ReadTimeout     time.Duration `conf:"default:5s"`
			WriteTimeout    time.Duration `conf:"default:300s"`
			IdleTimeout     time.Duration `conf:"default:120s"`
			ShutdownTimeout time.Duration `conf:"default:20s"`
			APIHost         string        `conf:"default:0.0.0.0:8080"`
			DebugHost       string        `conf:"default:0.0.0.0:7080"`
		}
		Wallet struct {
			URL          string        `conf:"default:https://api.wallet.coinbase.com"`
			APIKeyID     string        `conf:"env:CDP_API_KEY_ID"`
			APIKeySecret string        `conf:"env:CDP_API_KEY_SECRET,mask"`
			Secret       string        `conf:"env:CDP_WALLET_SECRET,mask"`
			PollInterval time.Duration `conf:"default:2s"`
		}
		Registry struct {
			NodeURL      string        `conf:"default:https://sepolia.base.org"`
			ContractID   string        `conf:"default:0x1b14db9335e9f6ef02877e685472aaa459b544db"`
			Network      string        `conf:"default:base-sepolia"`
			FaucetToken  string        `conf:"default:eth"`
			PollInterval time.Duration `conf:"default:2s"`
		}
		Action struct {
			Timeout time.Duration `conf:"default:4m"`
		}
	}{
		Version: conf.Version{
			Build: build,
			Desc:  "copyright information here",
		},
	}

	const prefix = "BLOCKDATE"
	help, err := conf.Parse(prefix, &cfg)
	if err != nil {
		if errors.Is(err, conf.ErrHelpWanted) {
			fmt.Println(help)
			return nil
		}
		return fmt.Errorf("parsing config: %w", err)
	}

	// =========================================================================
	// App Starting

	log.Infow("starting service", "version", build)
	defer log.Infow("shutdown complete")

	out, err := conf.String(&cfg)
	if err != nil {
		return fmt.Errorf("generating config for output: %w", err)
	}
	log.Infow("startup", "config", out)

	// =========================================================================
	// Chain And Wallet Support

	// The events value is used to push activity messages to any websocket
	// client connected into the system. The ev function doubles as the
	// event handler the cores log through.
	evts := events.New()
	defer evts.Shutdown()

	ev := func(v string, args ...any) {
		s := fmt.Sprintf(v, args...)
		log.Infow(s, "traceid", "00000000-0000-0000-0000-000000000000")
		evts.Send(s)
	}

	// Dial the public chain node for registry reads and receipt polling.
	client, err := ethclient.Dial(cfg.Registry.NodeURL)
	if err != nil {
		return fmt.Errorf("dialing chain node: %w", err)
	}
	defer client.Close()

	reg, err := registry.New(registry.Config{
		Caller:       client,
		Receipts:     client,
		ContractID:   common.HexToAddress(cfg.Registry.ContractID),
		PollInterval: cfg.Registry.PollInterval,
		EvHandler:    ev,
	})
	if err != nil {
		return fmt.Errorf("constructing registry: %w", err)
	}

	// The wallet client is constructed once here and injected into the
	// cores that need it. Constructing it is not cheap, don't do it per
	// request.
	wlt := wallet.New(wallet.Config{
		URL:          cfg.Wallet.URL,
		APIKeyID:     cfg.Wallet.APIKeyID,
		APIKeySecret: cfg.Wallet.APIKeySecret,
		WalletSecret: cfg.Wallet.Secret,
		PollInterval: cfg.Wallet.PollInterval,
	})

	accountCore := account.New(account.Config{
		Provider:  wlt,
		Waiter:    reg,
		Network:   cfg.Registry.Network,
		Token:     cfg.Registry.FaucetToken,
		EvHandler: ev,
	})

	profileCore := profile.New(profile.Config{
		Provisioner: accountCore,
		Submitter:   wlt,
		Ledger:      reg,
		Network:     cfg.Registry.Network,
		EvHandler:   ev,
	})

	// =========================================================================
	// Start Debug Service

	log.Infow("startup", "status", "debug router started", "host", cfg.Web.DebugHost)

	// The Debug function returns a mux to listen and serve on for all the debug
	// related endpoints. This includes the standard library endpoints.
	debugMux := handlers.DebugMux(build, log)

	// Start the service listening for debug requests.
	// Not concerned with shutting this down with load shedding.
	go func() {
		if err := http.ListenAndServe(cfg.Web.DebugHost, debugMux); err != nil {
			log.Errorw("shutdown", "status", "debug router closed", "host", cfg.Web.DebugHost, "ERROR", err)
		}
	}()

	// =========================================================================
	// Start API Service

	log.Infow("startup", "status", "initializing V1 API support")

	// Make a channel to listen for an interrupt or terminate signal from the OS.
	// Use a buffered channel because the signal package requires it.
	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, syscall.SIGINT, syscall.SIGTERM)

	// Construct the mux for the API calls.
	apiMux := handlers.PublicMux(handlers.MuxConfig{
		Shutdown:      shutdown,
		Log:           log,
		Profile:       profileCore,
		Account:       accountCore,
		Registry:      reg,
		Evts:          evts,
		ActionTimeout: cfg.Action.Timeout,
	})

	// Construct a server to service the requests against the mux.
	api := http.Server{
		Addr:         cfg.Web.APIHost,
		Handler:      apiMux,
		ReadTimeout:  cfg.Web.ReadTimeout,
		WriteTimeout: cfg.Web.WriteTimeout,
		IdleTimeout:  cfg.Web.IdleTimeout,
		ErrorLog:     zap.NewStdLog(log.Desugar()),
	}

	// Make a channel to listen for errors coming from the listener. Use a
	// buffered channel so the goroutine can exit if we don't collect this error.
	serverErrors := make(chan error, 1)

	// Start the service listening for api requests.
	go func() {
		log.Infow("startup", "status", "api router started", "host", api.Addr)
		serverErrors <- api.ListenAndServe()
	}()

	// =========================================================================
	// Shutdown

	// Blocking main and waiting for shutdown.
	select {
	case err := <-serverErrors:
		return fmt.Errorf("server error: %w", err)

	case sig := <-shutdown:
		log.Infow("shutdown", "status", "shutdown started", "signal", sig)
		defer log.Infow("shutdown", "status", "shutdown complete", "signal", sig)

		// Release any web sockets that are currently active.
		log.Infow("shutdown", "status", "shutdown web socket channels")
		evts.Shutdown()

		// Give outstanding requests a deadline for completion.
		ctx, cancel := context.WithTimeout(context.Background(), cfg.Web.ShutdownTimeout)
		defer cancel()

		// Asking listener to shut down and shed load.
		if err := api.Shutdown(ctx); err != nil {
			api.Close()
			return fmt.Errorf("could not stop api service gracefully: %w", err)
		}
	}

	return nil
}

package main

import (
	"fmt"
	"log"
	"os"

	"github.com/urfave/cli/v2"
	"go.uber.org/zap"

	"github.com/keysmith-labs/substrate-signer-go/internal/commands"
	"github.com/keysmith-labs/substrate-signer-go/pkg/chain"
	"github.com/keysmith-labs/substrate-signer-go/pkg/config"
	"github.com/keysmith-labs/substrate-signer-go/pkg/keys"
	"github.com/keysmith-labs/substrate-signer-go/pkg/keystore"
)

func main() {
	app := &cli.App{
		Name:  "subsigner",
		Usage: "Offline transaction signer for Substrate-based chains",
		Description: `Signs a SCALE-encoded runtime call without ever touching the network.

Given a secret URI, a nonce and a prior block hash, the signer derives the
key pair for the selected scheme, assembles the signed payload together with
the chain's signed extensions and prints the signed extrinsic as hex.`,
		Version: "1.0.0",
		Commands: []*cli.Command{
			signTransactionCommand(),
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatalf("Application error: %v", err)
	}
}

func signTransactionCommand() *cli.Command {
	return &cli.Command{
		Name:  "sign-transaction",
		Usage: "Sign a transaction from an encoded call; prints the signed extrinsic as hex",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:     "suri",
				Usage:    "Secret key URI (mnemonic, 0x-seed or //derivation path)",
				EnvVars:  []string{config.EnvSuri},
				Required: true,
			},
			&cli.StringFlag{
				Name:     "nonce",
				Usage:    "Account nonce as a decimal number",
				Required: true,
			},
			&cli.StringFlag{
				Name:     "prior-block-hash",
				Usage:    "Hex-encoded block hash anchoring the signed extensions",
				Required: true,
			},
			&cli.StringFlag{
				Name:     "call",
				Usage:    "The call to sign, hex-encoded",
				Required: true,
			},
			&cli.StringFlag{
				Name:    "scheme",
				Usage:   "Signature scheme: " + keys.GetSupportedSchemesString(),
				EnvVars: []string{config.EnvScheme},
				Value:   keys.SchemeSr25519.String(),
			},
			&cli.StringFlag{
				Name:    "network",
				Usage:   "Target network: " + config.GetSupportedNetworksString(),
				EnvVars: []string{config.EnvNetwork},
				Value:   config.Network_Substrate.String(),
			},
			&cli.UintFlag{
				Name:    "spec-version",
				Usage:   "Runtime spec version covered by the signature",
				EnvVars: []string{config.EnvSpecVersion},
			},
			&cli.UintFlag{
				Name:    "transaction-version",
				Usage:   "Runtime transaction version covered by the signature",
				EnvVars: []string{config.EnvTransactionVersion},
			},
			&cli.StringFlag{
				Name:    "genesis-hash",
				Usage:   "Hex-encoded genesis hash (overrides the network preset)",
				EnvVars: []string{config.EnvGenesisHash},
			},
			&cli.Uint64Flag{
				Name:  "tip",
				Usage: "Optional tip paid to the block author",
			},
			&cli.Uint64Flag{
				Name:  "era-period",
				Usage: "Mortal era period in blocks (0 = immortal)",
			},
			&cli.Uint64Flag{
				Name:  "current-block",
				Usage: "Current block number, required for mortal eras",
			},
			&cli.StringFlag{
				Name:    "password",
				Usage:   "Key password (prefer --password-filename or the prompt)",
				EnvVars: []string{config.EnvPassword},
			},
			&cli.StringFlag{
				Name:    "password-filename",
				Usage:   "File containing the key password",
				EnvVars: []string{config.EnvPasswordFilename},
			},
			&cli.BoolFlag{
				Name:  "password-interactive",
				Usage: "Prompt for the key password",
			},
			&cli.BoolFlag{
				Name:    "verbose",
				Usage:   "Enable verbose logging on stderr",
				EnvVars: []string{config.EnvVerbose},
			},
		},
		Action: runSignTransaction,
	}
}

func runSignTransaction(c *cli.Context) error {
	logger := zap.NewNop()
	if c.Bool("verbose") {
		l, err := zap.NewDevelopment()
		if err != nil {
			return fmt.Errorf("failed to build logger: %w", err)
		}
		logger = l
	}

	scheme, err := keys.ParseScheme(c.String("scheme"))
	if err != nil {
		return err
	}

	cfg, err := parseChainConfig(c)
	if err != nil {
		return fmt.Errorf("configuration error: %w", err)
	}
	provider, err := chain.NewSubstrateProvider(cfg, logger)
	if err != nil {
		return fmt.Errorf("configuration error: %w", err)
	}

	cmd := &commands.SignTransactionCmd{
		Suri:           c.String("suri"),
		Nonce:          c.String("nonce"),
		PriorBlockHash: c.String("prior-block-hash"),
		Call:           c.String("call"),
		Scheme:         scheme,
		Keystore: keystore.Params{
			Password:         c.String("password"),
			PasswordFilename: c.String("password-filename"),
			Interactive:      c.Bool("password-interactive"),
		},
		Provider: provider,
		Logger:   logger,
	}

	out, err := cmd.Run()
	if err != nil {
		return fmt.Errorf("sign-transaction failed: %w", err)
	}

	// The hex extrinsic is the command's sole stdout output.
	fmt.Println(out)
	return nil
}

func parseChainConfig(c *cli.Context) (config.ChainConfig, error) {
	cfg, err := config.NewChainConfig(config.Network(c.String("network")))
	if err != nil {
		return config.ChainConfig{}, err
	}

	cfg.SpecVersion = uint32(c.Uint("spec-version"))
	cfg.TransactionVersion = uint32(c.Uint("transaction-version"))
	cfg.Tip = c.Uint64("tip")
	cfg.EraPeriod = c.Uint64("era-period")
	cfg.CurrentBlock = c.Uint64("current-block")
	if genesis := c.String("genesis-hash"); genesis != "" {
		cfg.GenesisHash = genesis
	}

	return cfg, nil
}

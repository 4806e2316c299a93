// Copyright (c) 2024 The ModChain developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/btcsuite/btclog"
	"github.com/jessevdk/go-flags"
	"github.com/pkg/errors"
)

const (
	generateSubCmd = "generate"
	addressSubCmd  = "address"
	signSubCmd     = "sign"
	verifySubCmd   = "verify"
	encode58SubCmd = "encode58"
	decode58SubCmd = "decode58"
	midstateSubCmd = "midstate"
)

const (
	defaultLogLevel       = "info"
	defaultLogFilename    = "btckey.log"
	defaultMaxLogFiles    = 3
	defaultMaxLogFileSize = 10
)

// configFlags holds the options shared by every sub-command.
type configFlags struct {
	LogDir         string `long:"logdir" description:"Directory to write a rotated log file to; logs only go to stderr when unset"`
	DebugLevel     string `short:"d" long:"debuglevel" description:"Logging level {trace, debug, info, warn, error, critical, off}"`
	MaxLogFiles    int    `long:"maxlogfiles" description:"Maximum logfiles to keep (0 for no rotation)"`
	MaxLogFileSize int    `long:"maxlogfilesize" description:"Maximum logfile size in MB"`
	Workers        int    `long:"workers" description:"Number of background verification workers (0 for one per CPU)"`
	TestNet        bool   `long:"testnet" description:"Derive testnet addresses instead of mainnet ones"`
}

type generateConfig struct {
	DER bool `long:"der" description:"Also print the DER encoded key pair"`
}

type addressConfig struct {
	PublicKey  string `long:"public-key" short:"p" description:"The public key to derive the address of (encoded in hex)"`
	PrivateKey string `long:"private-key" short:"k" description:"A private key whose public key is derived first (encoded in hex)"`
	DER        string `long:"der" description:"A DER encoded key pair (encoded in hex)"`
}

type signConfig struct {
	PrivateKey string `long:"private-key" short:"k" description:"The private key of the signer (encoded in hex)"`
	DER        string `long:"der" description:"A DER encoded key pair to sign with (encoded in hex)"`
	Digest     string `long:"digest" description:"The 32 byte digest to sign (encoded in hex)"`
	Message    string `long:"message" short:"m" description:"A message whose double SHA-256 digest is signed"`
}

type verifyConfig struct {
	PublicKey string   `long:"public-key" short:"p" description:"The public key of the signer (encoded in hex)" required:"true"`
	Digest    string   `long:"digest" description:"The 32 byte digest that was signed (encoded in hex)"`
	Message   string   `long:"message" short:"m" description:"A message whose double SHA-256 digest was signed"`
	Signature []string `long:"signature" short:"s" description:"A DER encoded signature to check (encoded in hex); may be repeated" required:"true"`
}

type encode58Config struct {
	Args struct {
		Data string `positional-arg-name:"hex" description:"The data to encode (encoded in hex)"`
	} `positional-args:"yes" required:"yes"`
}

type decode58Config struct {
	Address bool `long:"address" short:"a" description:"Decode the input as a checksummed address"`
	Args    struct {
		Text string `positional-arg-name:"base58" description:"The base58 text to decode"`
	} `positional-args:"yes" required:"yes"`
}

type midstateConfig struct {
	Words bool `long:"words" description:"Print the eight state words instead of the raw midstate"`
	Args  struct {
		Data string `positional-arg-name:"hex" description:"The data whose first block is hashed (encoded in hex)"`
	} `positional-args:"yes" required:"yes"`
}

// parseCommandLine parses args into the shared options and the options of
// the selected sub-command.
func parseCommandLine(args []string) (*configFlags, string, interface{}, error) {
	cfg := &configFlags{
		DebugLevel:     defaultLogLevel,
		MaxLogFiles:    defaultMaxLogFiles,
		MaxLogFileSize: defaultMaxLogFileSize,
	}
	parser := flags.NewParser(cfg, flags.HelpFlag|flags.PassDoubleDash)

	generateConf := &generateConfig{}
	parser.AddCommand(generateSubCmd, "Generates a new key pair",
		"Generates a new key pair and prints both components and the address", generateConf)

	addressConf := &addressConfig{}
	parser.AddCommand(addressSubCmd, "Derives the address of a public key",
		"Derives the Base58Check address of a public key, private key or DER encoded key pair", addressConf)

	signConf := &signConfig{}
	parser.AddCommand(signSubCmd, "Signs a digest",
		"Signs a 32 byte digest, or the double SHA-256 of a message, with a private key", signConf)

	verifyConf := &verifyConfig{}
	parser.AddCommand(verifySubCmd, "Verifies signatures",
		"Verifies one or more signatures in the background and reports each result", verifyConf)

	encode58Conf := &encode58Config{}
	parser.AddCommand(encode58SubCmd, "Encodes data as base58",
		"Encodes hex encoded data with the base58 alphabet", encode58Conf)

	decode58Conf := &decode58Config{}
	parser.AddCommand(decode58SubCmd, "Decodes base58 text",
		"Decodes base58 text, optionally checking it as an address", decode58Conf)

	midstateConf := &midstateConfig{}
	parser.AddCommand(midstateSubCmd, "Computes a SHA-256 midstate",
		"Computes the SHA-256 state after the first 64 byte block of the data", midstateConf)

	_, err := parser.ParseArgs(args)
	if err != nil {
		return nil, "", nil, err
	}

	err = validateConfig(cfg)
	if err != nil {
		return nil, "", nil, err
	}

	var subCfg interface{}
	subCmd := parser.Command.Active.Name
	switch subCmd {
	case generateSubCmd:
		subCfg = generateConf
	case addressSubCmd:
		if countSet(addressConf.PublicKey, addressConf.PrivateKey, addressConf.DER) != 1 {
			return nil, "", nil, errors.New("exactly one of --public-key, --private-key and --der is required")
		}
		subCfg = addressConf
	case signSubCmd:
		if countSet(signConf.PrivateKey, signConf.DER) != 1 {
			return nil, "", nil, errors.New("exactly one of --private-key and --der is required")
		}
		if countSet(signConf.Digest, signConf.Message) != 1 {
			return nil, "", nil, errors.New("exactly one of --digest and --message is required")
		}
		subCfg = signConf
	case verifySubCmd:
		if countSet(verifyConf.Digest, verifyConf.Message) != 1 {
			return nil, "", nil, errors.New("exactly one of --digest and --message is required")
		}
		subCfg = verifyConf
	case encode58SubCmd:
		subCfg = encode58Conf
	case decode58SubCmd:
		subCfg = decode58Conf
	case midstateSubCmd:
		subCfg = midstateConf
	default:
		return nil, "", nil, errors.Errorf("unknown sub-command '%s'", subCmd)
	}

	return cfg, subCmd, subCfg, nil
}

// validateConfig checks the shared options and expands the log directory.
func validateConfig(cfg *configFlags) error {
	if _, ok := btclog.LevelFromString(cfg.DebugLevel); !ok {
		return errors.Errorf("invalid debug level %q", cfg.DebugLevel)
	}
	if cfg.MaxLogFiles < 0 {
		return errors.Errorf("--maxlogfiles must not be negative, got %d",
			cfg.MaxLogFiles)
	}
	if cfg.MaxLogFileSize < 1 {
		return errors.Errorf("--maxlogfilesize must be positive, got %d",
			cfg.MaxLogFileSize)
	}
	if cfg.Workers < 0 {
		return errors.Errorf("--workers must not be negative, got %d",
			cfg.Workers)
	}
	if cfg.LogDir != "" {
		cfg.LogDir = cleanAndExpandPath(cfg.LogDir)
	}

	return nil
}

// countSet returns how many of the passed options were given.
func countSet(opts ...string) int {
	n := 0
	for _, opt := range opts {
		if opt != "" {
			n++
		}
	}
	return n
}

// cleanAndExpandPath expands environment variables and leading ~ in the
// passed path, cleans the result, and returns it.
func cleanAndExpandPath(path string) string {
	// Expand initial ~ to OS specific home directory.
	if strings.HasPrefix(path, "~") {
		homeDir, err := os.UserHomeDir()
		if err == nil {
			path = strings.Replace(path, "~", homeDir, 1)
		}
	}

	// NOTE: The os.ExpandEnv doesn't work with Windows-style %VARIABLE%,
	// but they variables can still be expanded via POSIX-style $VARIABLE.
	return filepath.Clean(os.ExpandEnv(path))
}

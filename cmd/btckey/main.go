// Copyright (c) 2024 The ModChain developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/jessevdk/go-flags"
	"github.com/pkg/errors"
)

func main() {
	err := run(os.Args[1:], os.Stdout)
	if err == nil {
		return
	}

	var flagsErr *flags.Error
	if errors.As(err, &flagsErr) && flagsErr.Type == flags.ErrHelp {
		fmt.Fprintln(os.Stdout, err)
		os.Exit(0)
	}
	printErrorAndExit(err)
}

func printErrorAndExit(err error) {
	fmt.Fprintf(os.Stderr, "%s\n", err)
	os.Exit(1)
}

// run parses args, sets up logging and executes the selected sub-command,
// writing its output to w.
func run(args []string, w io.Writer) error {
	cfg, subCmd, subCfg, err := parseCommandLine(args)
	if err != nil {
		return err
	}

	setLogLevels(cfg.DebugLevel)
	if cfg.LogDir != "" {
		logFile := filepath.Join(cfg.LogDir, defaultLogFilename)
		err := initLogRotator(logFile, cfg.MaxLogFileSize, cfg.MaxLogFiles)
		if err != nil {
			return err
		}
		defer closeLogRotator()
	}

	btckLog.Debugf("Running %s", subCmd)

	switch subCmd {
	case generateSubCmd:
		err = generate(cfg, subCfg.(*generateConfig), w)
	case addressSubCmd:
		err = showAddress(cfg, subCfg.(*addressConfig), w)
	case signSubCmd:
		err = sign(subCfg.(*signConfig), w)
	case verifySubCmd:
		err = verify(cfg, subCfg.(*verifyConfig), w)
	case encode58SubCmd:
		err = encode58(subCfg.(*encode58Config), w)
	case decode58SubCmd:
		err = decode58(subCfg.(*decode58Config), w)
	case midstateSubCmd:
		err = computeMidstate(subCfg.(*midstateConfig), w)
	default:
		err = errors.Errorf("Unknown sub-command '%s'", subCmd)
	}
	if err != nil {
		btckLog.Debugf("%s failed: %v", subCmd, err)
	}

	return err
}

// Copyright (c) 2024 The ModChain developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"encoding/hex"
	"fmt"
	"io"

	"github.com/ModChain/bitcoinkey"
	"github.com/ModChain/bitcoinkey/address"
	"github.com/ModChain/bitcoinkey/base58"
	"github.com/ModChain/bitcoinkey/midstate"
	"github.com/pkg/errors"
)

// networkVersion returns the address version selected by --testnet.
func networkVersion(cfg *configFlags) address.Version {
	if cfg.TestNet {
		return address.TestNet
	}
	return address.MainNet
}

// decodeHex decodes a hex encoded option, naming it in the error.
func decodeHex(name, s string) ([]byte, error) {
	b, err := hex.DecodeString(s)
	if err != nil {
		return nil, errors.Wrapf(err, "invalid hex in %s", name)
	}
	return b, nil
}

// loadPrivateKey builds a key from either a hex private key, whose public key
// is derived, or a hex DER encoded key pair.
func loadPrivateKey(privKeyHex, derHex string) (*bitcoinkey.Key, error) {
	if derHex != "" {
		der, err := decodeHex("--der", derHex)
		if err != nil {
			return nil, err
		}
		key, err := bitcoinkey.ParseDER(der)
		if err != nil {
			return nil, errors.Wrap(err, "failed to parse DER key")
		}
		return key, nil
	}

	priv, err := decodeHex("--private-key", privKeyHex)
	if err != nil {
		return nil, err
	}
	key := bitcoinkey.NewKey()
	if err := key.SetPrivate(priv); err != nil {
		return nil, errors.Wrap(err, "failed to import private key")
	}
	if err := key.Regenerate(); err != nil {
		return nil, errors.Wrap(err, "failed to derive public key")
	}
	return key, nil
}

// messageDigest returns the digest given in hex or, when absent, the double
// SHA-256 of message.
func messageDigest(digestHex, message string) ([]byte, error) {
	if digestHex != "" {
		return decodeHex("--digest", digestHex)
	}
	digest := address.DoubleSHA256([]byte(message))
	return digest[:], nil
}

func generate(cfg *configFlags, conf *generateConfig, w io.Writer) error {
	key, err := bitcoinkey.GenerateKey()
	if err != nil {
		return errors.Wrap(err, "failed to generate key")
	}
	btckLog.Debugf("Generated key pair")

	priv := key.Private().UnwrapOr(nil)
	pub := key.Public().UnwrapOr(nil)
	fmt.Fprintf(w, "private key: %x\n", priv)
	fmt.Fprintf(w, "public key:  %x\n", pub)
	fmt.Fprintf(w, "address:     %s\n",
		address.DeriveWithVersion(pub, networkVersion(cfg)))

	if conf.DER {
		der, err := key.ToDER()
		if err != nil {
			return errors.Wrap(err, "failed to encode key")
		}
		der.WhenSome(func(b []byte) {
			fmt.Fprintf(w, "der:         %x\n", b)
		})
	}
	return nil
}

func showAddress(cfg *configFlags, conf *addressConfig, w io.Writer) error {
	var key *bitcoinkey.Key
	if conf.PublicKey != "" {
		pub, err := decodeHex("--public-key", conf.PublicKey)
		if err != nil {
			return err
		}
		key = bitcoinkey.NewKey()
		if err := key.SetPublic(pub); err != nil {
			return errors.Wrap(err, "failed to import public key")
		}
	} else {
		var err error
		key, err = loadPrivateKey(conf.PrivateKey, conf.DER)
		if err != nil {
			return err
		}
	}

	pub, err := key.Public().UnwrapOrErr(errors.New("key has no public component"))
	if err != nil {
		return err
	}
	fmt.Fprintln(w, address.DeriveWithVersion(pub, networkVersion(cfg)))
	return nil
}

func sign(conf *signConfig, w io.Writer) error {
	key, err := loadPrivateKey(conf.PrivateKey, conf.DER)
	if err != nil {
		return err
	}
	digest, err := messageDigest(conf.Digest, conf.Message)
	if err != nil {
		return err
	}

	sig, err := key.Sign(digest)
	if err != nil {
		return errors.Wrap(err, "failed to sign")
	}
	fmt.Fprintf(w, "%x\n", sig)
	return nil
}

func verify(cfg *configFlags, conf *verifyConfig, w io.Writer) error {
	pub, err := decodeHex("--public-key", conf.PublicKey)
	if err != nil {
		return err
	}
	key := bitcoinkey.NewKey()
	if err := key.SetPublic(pub); err != nil {
		return errors.Wrap(err, "failed to import public key")
	}
	digest, err := messageDigest(conf.Digest, conf.Message)
	if err != nil {
		return err
	}

	sigs := make([][]byte, len(conf.Signature))
	for i, s := range conf.Signature {
		sigs[i], err = decodeHex("--signature", s)
		if err != nil {
			return err
		}
	}

	verifierCfg := bitcoinkey.DefaultAsyncVerifierConfig()
	if cfg.Workers > 0 {
		verifierCfg.NumWorkers = cfg.Workers
	}
	verifier := bitcoinkey.NewAsyncVerifier(verifierCfg)
	if err := verifier.Start(); err != nil {
		return errors.Wrap(err, "failed to start verifier")
	}

	// Callbacks run one at a time and Stop waits for all of them.
	results := make([]string, len(sigs))
	invalid := 0
	for i, sig := range sigs {
		i := i
		err := verifier.Verify(key, digest, sig, func(err error, valid bool) {
			switch {
			case err != nil:
				results[i] = "error: " + err.Error()
				invalid++
			case valid:
				results[i] = "valid"
			default:
				results[i] = "invalid"
				invalid++
			}
		})
		if err != nil {
			verifier.Stop()
			return errors.Wrapf(err, "failed to schedule signature %d", i)
		}
	}
	if err := verifier.Stop(); err != nil {
		return errors.Wrap(err, "failed to stop verifier")
	}

	for i, result := range results {
		fmt.Fprintf(w, "signature %d: %s\n", i, result)
	}
	if invalid > 0 {
		return errors.Errorf("%d of %d signatures did not verify",
			invalid, len(sigs))
	}
	return nil
}

func encode58(conf *encode58Config, w io.Writer) error {
	data, err := decodeHex("input", conf.Args.Data)
	if err != nil {
		return err
	}
	fmt.Fprintln(w, base58.Encode(data))
	return nil
}

func decode58(conf *decode58Config, w io.Writer) error {
	if conf.Address {
		payload, err := address.Decode(conf.Args.Text)
		if err != nil {
			return errors.Wrap(err, "failed to decode address")
		}
		hash := payload.Hash160()
		fmt.Fprintf(w, "version: %s\n", payload.Version())
		fmt.Fprintf(w, "hash160: %x\n", hash[:])
		return nil
	}

	data, err := base58.Decode(conf.Args.Text)
	if err != nil {
		return errors.Wrap(err, "failed to decode base58")
	}
	fmt.Fprintf(w, "%x\n", data)
	return nil
}

func computeMidstate(conf *midstateConfig, w io.Writer) error {
	data, err := decodeHex("input", conf.Args.Data)
	if err != nil {
		return err
	}

	mid := midstate.Compute(data)
	if conf.Words {
		for _, word := range midstate.Words(mid) {
			fmt.Fprintf(w, "%08x\n", word)
		}
		return nil
	}
	fmt.Fprintf(w, "%x\n", mid[:])
	return nil
}

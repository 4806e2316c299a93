// Copyright (c) 2024 The ModChain developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package bitcoinkey

import (
	encasn1 "encoding/asn1"
	"fmt"
	"math/big"

	"github.com/decred/dcrd/dcrec/secp256k1/v4"
	"github.com/lightningnetwork/lnd/fn/v2"
	"golang.org/x/crypto/cryptobyte"
	"golang.org/x/crypto/cryptobyte/asn1"
)

const (
	// ecPrivKeyVersion is the only ECPrivateKey structure version defined by
	// RFC 5915.
	ecPrivKeyVersion = 1

	// ecParamsVersion is the version of an explicit SEC 1 ECParameters
	// structure.
	ecParamsVersion = 1
)

var (
	// oidSecp256k1 names the secp256k1 curve (SEC 2, 1.3.132.0.10).
	oidSecp256k1 = encasn1.ObjectIdentifier{1, 3, 132, 0, 10}

	// oidPrimeField is the field type of a curve over a prime field
	// (X9.62, 1.2.840.10045.1.1).
	oidPrimeField = encasn1.ObjectIdentifier{1, 2, 840, 10045, 1, 1}

	tagParameters = asn1.Tag(0).Constructed().ContextSpecific()
	tagPublicKey  = asn1.Tag(1).Constructed().ContextSpecific()
)

// ToDER serializes a full key as an RFC 5915 ECPrivateKey carrying the named
// secp256k1 curve and the public point in the form it is held.  None is
// returned unless the key holds both components.
func (k *Key) ToDER() (fn.Option[[]byte], error) {
	full, ok := k.current().(fullState)
	if !ok {
		return fn.None[[]byte](), nil
	}

	der, err := marshalECPrivateKey(full.priv, full.pub)
	if err != nil {
		return fn.None[[]byte](), err
	}
	return fn.Some(der), nil
}

// marshalECPrivateKey builds the ECPrivateKey SEQUENCE for the given pair.
func marshalECPrivateKey(priv *secp256k1.PrivateKey,
	pub publicComponent) ([]byte, error) {

	var b cryptobyte.Builder
	b.AddASN1(asn1.SEQUENCE, func(b *cryptobyte.Builder) {
		b.AddASN1Int64(ecPrivKeyVersion)
		b.AddASN1OctetString(priv.Serialize())
		b.AddASN1(tagParameters, func(b *cryptobyte.Builder) {
			b.AddASN1ObjectIdentifier(oidSecp256k1)
		})
		b.AddASN1(tagPublicKey, func(b *cryptobyte.Builder) {
			b.AddASN1BitString(pub.serialize())
		})
	})

	der, err := b.Bytes()
	if err != nil {
		str := fmt.Sprintf("unable to serialize EC private key: %v", err)
		return nil, makeError(ErrEncoding, str)
	}
	return der, nil
}

// derError logs and returns a malformed DER error.
func derError(str string) error {
	log.Debugf("Rejecting EC private key: %s", str)
	return makeError(ErrMalformedDER, str)
}

// ParseDER parses an RFC 5915 ECPrivateKey into a full key.
//
// Both the named curve form and the explicit parameters form written by old
// wallets are accepted, as long as the parameters describe secp256k1.  When
// the optional public key field is missing the public point is derived from
// the private scalar.
func ParseDER(der []byte) (*Key, error) {
	input := cryptobyte.String(der)

	var (
		seq       cryptobyte.String
		version   int64
		privBytes []byte
		params    cryptobyte.String
		hasParams bool
		pubField  cryptobyte.String
		hasPubKey bool
	)

	if !input.ReadASN1(&seq, asn1.SEQUENCE) {
		return nil, derError("invalid EC private key sequence")
	}
	if !input.Empty() {
		return nil, derError("trailing data after EC private key")
	}
	if !seq.ReadASN1Integer(&version) {
		return nil, derError("invalid EC private key version")
	}
	if version != ecPrivKeyVersion {
		str := fmt.Sprintf("unsupported EC private key version %d", version)
		return nil, derError(str)
	}
	if !seq.ReadASN1Bytes(&privBytes, asn1.OCTET_STRING) {
		return nil, derError("invalid EC private key scalar")
	}
	if !seq.ReadOptionalASN1(&params, &hasParams, tagParameters) {
		return nil, derError("invalid EC private key parameters")
	}
	if !seq.ReadOptionalASN1(&pubField, &hasPubKey, tagPublicKey) {
		return nil, derError("invalid EC private key public field")
	}
	if !seq.Empty() {
		return nil, derError("trailing data in EC private key sequence")
	}

	if hasParams {
		if err := checkCurveParameters(params); err != nil {
			return nil, err
		}
	}

	if len(privBytes) == 0 || len(privBytes) > PrivKeyBytesLen {
		str := fmt.Sprintf("EC private key scalar is %d bytes",
			len(privBytes))
		return nil, derError(str)
	}
	var padded [PrivKeyBytesLen]byte
	copy(padded[PrivKeyBytesLen-len(privBytes):], privBytes)

	var scalar secp256k1.ModNScalar
	if overflow := scalar.SetBytes(&padded); overflow != 0 || scalar.IsZero() {
		return nil, derError("EC private key scalar is out of range")
	}
	priv := secp256k1.NewPrivateKey(&scalar)

	pub := publicComponent{key: priv.PubKey()}
	if hasPubKey {
		var bits encasn1.BitString
		if !pubField.ReadASN1BitString(&bits) || !pubField.Empty() {
			return nil, derError("invalid EC public key bit string")
		}
		parsed, err := parsePublicComponent(bits.Bytes)
		if err != nil {
			return nil, derError(err.Error())
		}
		pub = parsed
	}

	return &Key{state: fullState{priv: priv, pub: pub}}, nil
}

// checkCurveParameters accepts either the secp256k1 OID or an explicit
// ECParameters structure whose values are those of secp256k1.
func checkCurveParameters(params cryptobyte.String) error {
	switch {
	case params.PeekASN1Tag(asn1.OBJECT_IDENTIFIER):
		var oid encasn1.ObjectIdentifier
		if !params.ReadASN1ObjectIdentifier(&oid) || !params.Empty() {
			return derError("invalid named curve")
		}
		if !oid.Equal(oidSecp256k1) {
			return derError(fmt.Sprintf("unsupported named curve %v", oid))
		}
		return nil

	case params.PeekASN1Tag(asn1.SEQUENCE):
		return checkSpecifiedCurve(params)
	}

	return derError("unsupported curve parameters")
}

// checkSpecifiedCurve validates an explicit SEC 1 ECParameters structure:
//
//	ECParameters ::= SEQUENCE {
//	  version   INTEGER { ecpVer1(1) },
//	  fieldID   SEQUENCE { fieldType OID, prime INTEGER },
//	  curve     SEQUENCE { a OCTET STRING, b OCTET STRING, seed BIT STRING OPTIONAL },
//	  base      OCTET STRING,
//	  order     INTEGER,
//	  cofactor  INTEGER OPTIONAL
//	}
func checkSpecifiedCurve(params cryptobyte.String) error {
	var (
		ecParams     cryptobyte.String
		fieldID      cryptobyte.String
		curve        cryptobyte.String
		version      int64
		fieldType    encasn1.ObjectIdentifier
		prime, order big.Int
		a, b, base   []byte
	)

	if !params.ReadASN1(&ecParams, asn1.SEQUENCE) || !params.Empty() ||
		!ecParams.ReadASN1Integer(&version) ||
		!ecParams.ReadASN1(&fieldID, asn1.SEQUENCE) ||
		!fieldID.ReadASN1ObjectIdentifier(&fieldType) ||
		!fieldID.ReadASN1Integer(&prime) ||
		!ecParams.ReadASN1(&curve, asn1.SEQUENCE) ||
		!curve.ReadASN1Bytes(&a, asn1.OCTET_STRING) ||
		!curve.ReadASN1Bytes(&b, asn1.OCTET_STRING) ||
		!ecParams.ReadASN1Bytes(&base, asn1.OCTET_STRING) ||
		!ecParams.ReadASN1Integer(&order) {

		return derError("invalid explicit curve parameters")
	}

	curveParams := secp256k1.S256().Params()
	switch {
	case version != ecParamsVersion:
		return derError(fmt.Sprintf("unsupported curve parameters "+
			"version %d", version))

	case !fieldType.Equal(oidPrimeField):
		return derError(fmt.Sprintf("unsupported field type %v",
			fieldType))

	case prime.Cmp(curveParams.P) != 0:
		return derError("curve prime is not secp256k1")

	case new(big.Int).SetBytes(a).Sign() != 0:
		return derError("curve coefficient a is not secp256k1")

	case new(big.Int).SetBytes(b).Cmp(curveParams.B) != 0:
		return derError("curve coefficient b is not secp256k1")

	case order.Cmp(curveParams.N) != 0:
		return derError("curve order is not secp256k1")
	}

	gen, err := secp256k1.ParsePubKey(base)
	if err != nil {
		return derError(fmt.Sprintf("invalid curve generator: %v", err))
	}
	if gen.X().Cmp(curveParams.Gx) != 0 || gen.Y().Cmp(curveParams.Gy) != 0 {
		return derError("curve generator is not secp256k1")
	}

	return nil
}

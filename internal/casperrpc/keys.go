package casperrpc

import (
	"crypto/ed25519"
	"crypto/sha256"
	"crypto/x509"
	"encoding/asn1"
	"encoding/hex"
	"encoding/pem"
	"os"
	"strings"

	"github.com/decred/dcrd/dcrec/secp256k1/v4"
	"github.com/decred/dcrd/dcrec/secp256k1/v4/ecdsa"
	"github.com/pkg/errors"
	"golang.org/x/crypto/blake2b"
)

const (
	AlgorithmEd25519   = "ed25519"
	AlgorithmSecp256k1 = "secp256k1"

	tagEd25519   byte = 0x01
	tagSecp256k1 byte = 0x02
)

type PublicKey struct {
	tag byte
	raw []byte
}

// ParsePublicKey reads a tagged public key hex such as "01<32 bytes>" or "02<33 bytes>".
func ParsePublicKey(s string) (PublicKey, error) {
	b, err := hex.DecodeString(strings.TrimPrefix(strings.ToLower(s), "0x"))
	if err != nil {
		return PublicKey{}, errors.Wrap(err, "decode public key")
	}
	if len(b) == 0 {
		return PublicKey{}, errors.New("empty public key")
	}
	switch {
	case b[0] == tagEd25519 && len(b) == 1+ed25519.PublicKeySize:
	case b[0] == tagSecp256k1 && len(b) == 1+secp256k1.PubKeyBytesLenCompressed:
	default:
		return PublicKey{}, errors.Errorf("unsupported public key %q", s)
	}
	return PublicKey{tag: b[0], raw: b[1:]}, nil
}

func (k PublicKey) Bytes() []byte {
	return append([]byte{k.tag}, k.raw...)
}

func (k PublicKey) Hex() string {
	return hexEncode(k.Bytes())
}

func (k PublicKey) algorithm() string {
	if k.tag == tagSecp256k1 {
		return AlgorithmSecp256k1
	}
	return AlgorithmEd25519
}

// AccountHash is blake2b256(algorithm || 0x00 || raw key).
func (k PublicKey) AccountHash() [32]byte {
	preimage := append([]byte(k.algorithm()), 0)
	preimage = append(preimage, k.raw...)
	return blake2b.Sum256(preimage)
}

type Signer interface {
	PublicKey() PublicKey
	// Sign returns the tagged signature of a deploy hash.
	Sign(deployHash []byte) ([]byte, error)
}

type ed25519Signer struct {
	key ed25519.PrivateKey
}

func (s ed25519Signer) PublicKey() PublicKey {
	return PublicKey{tag: tagEd25519, raw: []byte(s.key.Public().(ed25519.PublicKey))}
}

func (s ed25519Signer) Sign(msg []byte) ([]byte, error) {
	return append([]byte{tagEd25519}, ed25519.Sign(s.key, msg)...), nil
}

type secp256k1Signer struct {
	key *secp256k1.PrivateKey
}

func (s secp256k1Signer) PublicKey() PublicKey {
	return PublicKey{tag: tagSecp256k1, raw: s.key.PubKey().SerializeCompressed()}
}

// Sign produces the 64-byte r||s form over sha256(msg), which is what the
// node's k256 verifier expects.
func (s secp256k1Signer) Sign(msg []byte) ([]byte, error) {
	digest := sha256.Sum256(msg)
	compact := ecdsa.SignCompact(s.key, digest[:], false)
	return append([]byte{tagSecp256k1}, compact[1:]...), nil
}

// ParsePrivateKeyHex reads a raw secret key. ed25519 accepts the 32-byte seed
// or the 64-byte expanded key.
func ParsePrivateKeyHex(s, algorithm string) (Signer, error) {
	b, err := hex.DecodeString(strings.TrimPrefix(strings.TrimSpace(s), "0x"))
	if err != nil {
		return nil, errors.Wrap(err, "decode casper private key")
	}

	switch strings.ToLower(algorithm) {
	case AlgorithmEd25519, "":
		switch len(b) {
		case ed25519.SeedSize:
			return ed25519Signer{key: ed25519.NewKeyFromSeed(b)}, nil
		case ed25519.PrivateKeySize:
			return ed25519Signer{key: ed25519.PrivateKey(b)}, nil
		}
		return nil, errors.Errorf("ed25519 key must be %d or %d bytes, got %d", ed25519.SeedSize, ed25519.PrivateKeySize, len(b))
	case AlgorithmSecp256k1:
		if len(b) != secp256k1.PrivKeyBytesLen {
			return nil, errors.Errorf("secp256k1 key must be %d bytes, got %d", secp256k1.PrivKeyBytesLen, len(b))
		}
		return secp256k1Signer{key: secp256k1.PrivKeyFromBytes(b)}, nil
	}
	return nil, errors.Errorf("unsupported key algorithm %q", algorithm)
}

// sec1PrivateKey is the RFC 5915 structure written by casper-client for secp256k1 keys.
type sec1PrivateKey struct {
	Version       int
	PrivateKey    []byte
	NamedCurveOID asn1.ObjectIdentifier `asn1:"optional,explicit,tag:0"`
	PublicKey     asn1.BitString        `asn1:"optional,explicit,tag:1"`
}

// ParsePrivateKeyPEM reads a secret_key.pem as written by casper-client keygen.
func ParsePrivateKeyPEM(data []byte) (Signer, error) {
	block, _ := pem.Decode(data)
	if block == nil {
		return nil, errors.New("no PEM block found")
	}

	switch block.Type {
	case "PRIVATE KEY":
		parsed, err := x509.ParsePKCS8PrivateKey(block.Bytes)
		if err != nil {
			return nil, errors.Wrap(err, "parse pkcs8 key")
		}
		key, ok := parsed.(ed25519.PrivateKey)
		if !ok {
			return nil, errors.Errorf("unsupported pkcs8 key type %T", parsed)
		}
		return ed25519Signer{key: key}, nil
	case "EC PRIVATE KEY":
		var sec1 sec1PrivateKey
		if _, err := asn1.Unmarshal(block.Bytes, &sec1); err != nil {
			return nil, errors.Wrap(err, "parse sec1 key")
		}
		if len(sec1.PrivateKey) != secp256k1.PrivKeyBytesLen {
			return nil, errors.Errorf("secp256k1 key must be %d bytes, got %d", secp256k1.PrivKeyBytesLen, len(sec1.PrivateKey))
		}
		return secp256k1Signer{key: secp256k1.PrivKeyFromBytes(sec1.PrivateKey)}, nil
	}
	return nil, errors.Errorf("unsupported PEM block %q", block.Type)
}

func LoadPrivateKeyPEM(path string) (Signer, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "read casper key file")
	}
	return ParsePrivateKeyPEM(data)
}

func hexEncode(b []byte) string {
	return hex.EncodeToString(b)
}

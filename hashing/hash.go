// Package hashing provides the content-address functions used to name cached icons.
package hashing

import (
	"context"
	"crypto/md5"  //nolint:gosec // only used for naming, not for security
	"crypto/sha1" //nolint:gosec // only used for naming, not for security
	"crypto/sha256"
	"encoding/hex"
	"hash"
	"io"
	"regexp"
	"strings"

	"github.com/OneOfOne/xxhash"
	"github.com/dolmen-go/contextio"
	"github.com/spaolacci/murmur3"
	"golang.org/x/crypto/blake2b"

	"github.com/PandrPi/ProgramViewer3.0/commonerrors"
)

const (
	HashMd5     = "MD5"
	HashSha256  = "SHA256"
	HashSha1    = "SHA1"
	HashMurmur  = "Murmur"
	HashXXHash  = "xxhash" // https://github.com/OneOfOne/xxhash
	HashBlake2b = "blake2b"
	// DefaultHash is the algorithm used for icon digests unless configured otherwise.
	DefaultHash = HashSha256
)

var (
	// SupportedHashes lists the algorithms accepted by NewHashingAlgorithm.
	SupportedHashes = []string{HashMd5, HashSha1, HashSha256, HashMurmur, HashXXHash, HashBlake2b}
	hexRegex        = regexp.MustCompile("^[[:xdigit:]]+$")
)

type hashingAlgo struct {
	Hash hash.Hash
	Type string
}

func (h *hashingAlgo) Calculate(r io.Reader) (string, error) {
	return h.CalculateWithContext(context.Background(), r)
}

func (h *hashingAlgo) CalculateWithContext(ctx context.Context, r io.Reader) (hashN string, err error) {
	if r == nil {
		err = commonerrors.UndefinedVariable("reader")
		return
	}
	h.Hash.Reset()
	_, err = io.Copy(h.Hash, contextio.NewReader(ctx, r))
	if err != nil {
		err = commonerrors.ConvertContextError(err)
		return
	}
	hashN = hex.EncodeToString(h.Hash.Sum(nil))
	h.Hash.Reset()
	return
}

func (h *hashingAlgo) GetType() string {
	return h.Type
}

// NewHashingAlgorithm returns a hashing algorithm of type `htype`. The returned value is not safe for concurrent use.
func NewHashingAlgorithm(htype string) (IHash, error) {
	var hash hash.Hash
	switch htype {
	case HashMd5:
		hash = md5.New() //nolint:gosec
	case HashSha1:
		hash = sha1.New() //nolint:gosec
	case HashSha256:
		hash = sha256.New()
	case HashMurmur:
		hash = murmur3.New64()
	case HashXXHash:
		hash = xxhash.New64()
	case HashBlake2b:
		hash, _ = blake2b.New256(nil)
	}

	if hash == nil {
		return nil, commonerrors.Newf(commonerrors.ErrNotFound, "could not find hashing algorithm '%v'", htype)
	}
	return &hashingAlgo{
		Hash: hash,
		Type: htype,
	}, nil
}

// NewBespokeHashingAlgorithm wraps any hash.Hash implementation.
func NewBespokeHashingAlgorithm(algorithm hash.Hash) (IHash, error) {
	if algorithm == nil {
		return nil, commonerrors.UndefinedVariable("hashing algorithm")
	}
	return &hashingAlgo{
		Hash: algorithm,
		Type: "bespoke",
	}, nil
}

// CalculateMD5Hash returns the MD5 digest of `text`.
func CalculateMD5Hash(text string) string {
	return CalculateHash(text, HashMd5)
}

// CalculateHash returns the digest of `text` using the `htype` algorithm, or an empty string if the algorithm is unknown.
func CalculateHash(text, htype string) string {
	hashing, err := NewHashingAlgorithm(htype)
	if err != nil {
		return ""
	}
	return CalculateStringHash(hashing, text)
}

// CalculateStringHash returns the digest of `text` using `hashingAlgo`.
func CalculateStringHash(hashingAlgo IHash, text string) string {
	if hashingAlgo == nil {
		return ""
	}
	hash, err := hashingAlgo.Calculate(strings.NewReader(text))
	if err != nil {
		return ""
	}
	return hash
}

// IsHexString states whether `input` is a non-empty string only made of hexadecimal characters.
func IsHexString(input string) bool {
	return input != "" && hexRegex.MatchString(input)
}

// IsLikelyHexHashString determines whether `input` looks like a cryptographic digest (MD5 or longer).
func IsLikelyHexHashString(input string) bool {
	if len(input) < 32 || len(input)%2 != 0 {
		return false
	}
	return IsHexString(input)
}

// IsValidDigest checks that `input` has the shape of a digest produced by the `htype` algorithm.
func IsValidDigest(input, htype string) bool {
	if !IsHexString(input) {
		return false
	}
	expected := len(CalculateHash("", htype))
	return expected == 0 || len(input) == expected
}

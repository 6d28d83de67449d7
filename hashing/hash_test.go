package hashing

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/go-faker/faker/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/blake2b"

	"github.com/PandrPi/ProgramViewer3.0/commonerrors"
	"github.com/PandrPi/ProgramViewer3.0/commonerrors/errortest"
)

func TestHasher(t *testing.T) {
	// values given by https://md5calc.com/hash/md5/test
	hasher, err := NewHashingAlgorithm(HashMd5)
	require.NoError(t, err)
	testCases := []struct {
		Input string
		Hash  string
	}{{
		Input: "test",
		Hash:  "098f6bcd4621d373cade4e832627b4f6",
	}, {
		Input: "CMSIS",
		Hash:  "c61d595888f85f6d30e99ef6cacfcb7d",
	}}
	for _, testCase := range testCases {
		hash, err := hasher.Calculate(strings.NewReader(testCase.Input))
		require.NoError(t, err)
		assert.Equal(t, testCase.Hash, hash)
	}
}

func TestSha256OfPath(t *testing.T) {
	// digest of the empty string
	assert.Equal(t, "e3b0c44298fc1c149afbf4c8996fb92427ae41e4649b934ca495991b7852b855", CalculateHash("", HashSha256))
	path := `C:\foo\bar.txt`
	first := CalculateHash(path, HashSha256)
	second := CalculateHash(path, HashSha256)
	assert.Equal(t, first, second)
	assert.Len(t, first, 64)
	assert.NotEqual(t, first, CalculateHash(path+" ", HashSha256))
}

func TestAllSupportedHashes(t *testing.T) {
	for i := range SupportedHashes {
		htype := SupportedHashes[i]
		t.Run(htype, func(t *testing.T) {
			algo, err := NewHashingAlgorithm(htype)
			require.NoError(t, err)
			assert.Equal(t, htype, algo.GetType())
			text := faker.Paragraph()
			hash := CalculateStringHash(algo, text)
			require.NotEmpty(t, hash)
			assert.True(t, IsHexString(hash))
			assert.True(t, IsValidDigest(hash, htype))
			// the algorithm must be reusable
			assert.Equal(t, hash, CalculateStringHash(algo, text))
		})
	}
}

func TestUnknownHash(t *testing.T) {
	_, err := NewHashingAlgorithm(faker.Word())
	errortest.AssertError(t, err, commonerrors.ErrNotFound)
	assert.Empty(t, CalculateHash(faker.Word(), "unknown"))
	_, err = NewBespokeHashingAlgorithm(nil)
	errortest.AssertError(t, err, commonerrors.ErrUndefined)
}

func TestCalculateWithCancelledContext(t *testing.T) {
	algo, err := NewHashingAlgorithm(HashSha256)
	require.NoError(t, err)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = algo.CalculateWithContext(ctx, strings.NewReader(faker.Paragraph()))
	errortest.AssertError(t, err, commonerrors.ErrCancelled)
	_, err = algo.Calculate(nil)
	errortest.AssertError(t, err, commonerrors.ErrUndefined)
}

func TestIsLikelyHexHashString(t *testing.T) {
	tests := []struct {
		input  string
		isHash bool
	}{
		{input: "", isHash: false},
		{input: faker.Word(), isHash: false},
		{input: faker.Sentence(), isHash: false},
		{input: faker.UUIDHyphenated(), isHash: false},
		{input: "1.0.1", isHash: false},
		{input: CalculateMD5Hash(faker.Paragraph()), isHash: true},
		{input: CalculateHash(faker.Paragraph(), HashSha256), isHash: true},
		{input: "85817ddeed66c3e3805c73dbc7082de2674e349c", isHash: true},
	}
	for i := range tests {
		test := tests[i]
		t.Run(fmt.Sprintf("%v_isHash(%v)", i, test.input), func(t *testing.T) {
			require.Equal(t, test.isHash, IsLikelyHexHashString(test.input))
		})
	}
}

func TestIsValidDigest(t *testing.T) {
	assert.True(t, IsValidDigest(CalculateHash(faker.Word(), HashSha256), HashSha256))
	assert.False(t, IsValidDigest(CalculateHash(faker.Word(), HashMd5), HashSha256))
	assert.False(t, IsValidDigest("../../etc/passwd", HashSha256))
	assert.True(t, IsValidDigest(CalculateHash(faker.Word(), HashXXHash), HashXXHash))
}

func TestBespokeHash(t *testing.T) {
	random, err := faker.RandomInt(1, 64, 1)
	require.NoError(t, err)
	size := random[0]
	algo, err := blake2b.New(size, nil)
	require.NoError(t, err)
	hashing, err := NewBespokeHashingAlgorithm(algo)
	require.NoError(t, err)
	hash := CalculateStringHash(hashing, faker.Paragraph())
	require.NotEmpty(t, hash)
	assert.Equal(t, size*2, len(hash))
}

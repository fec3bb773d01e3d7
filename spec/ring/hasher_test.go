package ring

import (
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/zeebo/xxh3"
)

func TestXXH3Hasher(t *testing.T) {
	as := require.New(t)

	b := []byte("test key")
	var h XXH3Hasher
	as.Equal(xxh3.Hash(b), h.Sum64(b))
	as.Equal(h.Sum64(b), h.Sum64([]byte("test key")))
}

func TestHashersDisagree(t *testing.T) {
	as := require.New(t)

	// both must be stable, but they are different functions
	b := []byte("test key")
	as.NotEqual(XXH3Hasher{}.Sum64(b), Murmur3Hasher{}.Sum64(b))
}

func TestMurmur3HasherDeterminism(t *testing.T) {
	as := require.New(t)

	var h Murmur3Hasher
	as.Equal(h.Sum64([]byte("a")), h.Sum64([]byte("a")))
	as.NotEqual(h.Sum64([]byte("a")), h.Sum64([]byte("b")))
}

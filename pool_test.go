package abx

import (
	"testing"

	"github.com/abxcodec/abx/internal/wire"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
)

func TestWritePoolInternsOnce(t *testing.T) {
	p := newWritePool()
	w := wire.NewWriter()

	require.NoError(t, p.intern(w, "foo"))
	require.NoError(t, p.intern(w, "foo"))
	require.NoError(t, p.intern(w, "bar"))

	r := wire.NewReader(w.Bytes())
	rp := &readPool{}

	s1, err := rp.resolve(r)
	require.NoError(t, err)
	require.Equal(t, "foo", s1)

	s2, err := rp.resolve(r)
	require.NoError(t, err)
	require.Equal(t, "foo", s2)

	s3, err := rp.resolve(r)
	require.NoError(t, err)
	require.Equal(t, "bar", s3)
}

func TestWritePoolEntryOrderMatchesInsertion(t *testing.T) {
	p := newWritePool()
	w := wire.NewWriter()
	require.NoError(t, p.intern(w, "one"))
	require.NoError(t, p.intern(w, "two"))
	require.NoError(t, p.intern(w, "one"))

	if diff := cmp.Diff([]string{"one", "two"}, p.entries); diff != "" {
		t.Fatalf("pool entry order mismatch (-want +got):\n%s", diff)
	}
}

func TestReadPoolBadIndex(t *testing.T) {
	w := wire.NewWriter()
	w.AppendUint16(0) // index 0 into an empty pool
	r := wire.NewReader(w.Bytes())

	_, err := (&readPool{}).resolve(r)
	require.ErrorIs(t, err, ErrBadInternIndex)
}

func TestReadPoolRejectsRefIntoEmptyPool(t *testing.T) {
	w := wire.NewWriter()
	w.AppendUint16(0xFFFE)
	r := wire.NewReader(w.Bytes())

	_, err := (&readPool{}).resolve(r)
	require.ErrorIs(t, err, ErrBadInternIndex)
}

func TestWritePoolOverflow(t *testing.T) {
	p := newWritePool()
	w := wire.NewWriter()
	p.index = make(map[string]uint16, maxPoolSize)
	for i := 0; i < maxPoolSize; i++ {
		p.entries = append(p.entries, "")
	}
	require.ErrorIs(t, p.intern(w, "one-too-many"), ErrPoolOverflow)
}

// TestWritePoolMaxSizeNeverAssignsSentinelIndex exercises the exact boundary
// from SPEC_FULL.md §8: the 65535th distinct string succeeds, and since
// 0xFFFF is reserved as the "new entry" sentinel, no entry is ever assigned
// that index.
func TestWritePoolMaxSizeNeverAssignsSentinelIndex(t *testing.T) {
	p := newWritePool()
	w := wire.NewWriter()
	p.index = make(map[string]uint16, maxPoolSize)
	for i := 0; i < maxPoolSize-1; i++ {
		p.entries = append(p.entries, "")
	}
	require.Equal(t, maxPoolSize-1, len(p.entries))

	require.NoError(t, p.intern(w, "last-valid-entry"))
	idx, ok := p.index["last-valid-entry"]
	require.True(t, ok)
	require.NotEqual(t, uint16(internNewEntry), idx)
	require.Equal(t, maxPoolSize, len(p.entries))

	require.ErrorIs(t, p.intern(w, "one-too-many"), ErrPoolOverflow)
}

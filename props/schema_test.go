package props

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/openseis/javaseis/endian"
	"github.com/openseis/javaseis/errs"
)

func TestBuildAssignsOffsets(t *testing.T) {
	engine := endian.GetLittleEndianEngine()
	s := Build(engine, StockDefs())

	// 5 int32 + 10 float32 + 3 int32, all 4 bytes each.
	require.Equal(t, 18*4, s.Length())

	list := s.Properties()
	require.Len(t, list, 18)

	offset := 0
	for _, p := range list {
		require.Equal(t, offset, p.ByteOffset)
		offset += p.SizeBytes()
	}
}

func TestBuildDeduplicatesByLabel(t *testing.T) {
	engine := endian.GetLittleEndianEngine()

	user := []Def{
		{Label: "CDP", Format: FormatInt32, Count: 1},
		{Label: LabelSeqNo, Format: FormatInt64, Count: 1}, // duplicate of stock, first wins
	}
	s := Build(engine, StockDefs(), user)

	require.Equal(t, 18*4+4, s.Length())

	p, err := s.Lookup(LabelSeqNo)
	require.NoError(t, err)
	require.Equal(t, FormatInt32, p.Format)
	require.Equal(t, 0, p.ByteOffset)
}

func TestSchemaDisjointness(t *testing.T) {
	engine := endian.GetLittleEndianEngine()
	s := Build(engine, StockDefs(), []Def{
		{Label: "CDP_X", Format: FormatFloat64, Count: 1},
		{Label: "COMMENT", Format: FormatByteString, Count: 16},
	})

	// Every pair of properties occupies disjoint ranges and the union covers
	// [0, Length()).
	covered := make([]bool, s.Length())
	for _, p := range s.Properties() {
		for b := p.ByteOffset; b < p.ByteOffset+p.SizeBytes(); b++ {
			require.False(t, covered[b], "byte %d covered twice", b)
			covered[b] = true
		}
	}
	for b, c := range covered {
		require.True(t, c, "byte %d uncovered", b)
	}
}

func TestLoadValidation(t *testing.T) {
	engine := endian.GetLittleEndianEngine()

	t.Run("Valid unordered input", func(t *testing.T) {
		s, err := Load(engine, []Property{
			{Def: Def{Label: "B", Format: FormatInt32, Count: 1}, ByteOffset: 4},
			{Def: Def{Label: "A", Format: FormatInt32, Count: 1}, ByteOffset: 0},
		})
		require.NoError(t, err)
		require.Equal(t, 8, s.Length())
		require.Equal(t, "A", s.Properties()[0].Label)
	})

	t.Run("Gap", func(t *testing.T) {
		_, err := Load(engine, []Property{
			{Def: Def{Label: "A", Format: FormatInt32, Count: 1}, ByteOffset: 0},
			{Def: Def{Label: "B", Format: FormatInt32, Count: 1}, ByteOffset: 8},
		})
		require.Error(t, err)
		require.ErrorIs(t, err, errs.ErrMalformedMetadata)
	})

	t.Run("Overlap", func(t *testing.T) {
		_, err := Load(engine, []Property{
			{Def: Def{Label: "A", Format: FormatInt64, Count: 1}, ByteOffset: 0},
			{Def: Def{Label: "B", Format: FormatInt32, Count: 1}, ByteOffset: 4},
		})
		require.Error(t, err)
	})

	t.Run("Duplicate label", func(t *testing.T) {
		_, err := Load(engine, []Property{
			{Def: Def{Label: "A", Format: FormatInt32, Count: 1}, ByteOffset: 0},
			{Def: Def{Label: "A", Format: FormatInt32, Count: 1}, ByteOffset: 4},
		})
		require.Error(t, err)
	})
}

func TestLookup(t *testing.T) {
	s := Build(endian.GetLittleEndianEngine(), StockDefs())

	p, err := s.Lookup(LabelTrcType)
	require.NoError(t, err)
	require.Equal(t, LabelTrcType, p.Label)

	_, err = s.Lookup("NO_SUCH")
	require.Error(t, err)
	require.ErrorIs(t, err, errs.ErrPropertyNotFound)
	require.ErrorIs(t, err, errs.ErrNotFound)
}

func TestRemoveDefs(t *testing.T) {
	defs := StockDefs()

	kept := RemoveDefs(defs, []string{LabelSkewStat})
	require.Len(t, kept, len(defs)-1)
	for _, d := range kept {
		require.NotEqual(t, LabelSkewStat, d.Label)
	}

	// Removal by a label with no match is an exact set difference: no-op.
	same := RemoveDefs(defs, []string{"NO_SUCH"})
	require.Equal(t, defs, same)
}

func TestParseFormat(t *testing.T) {
	for name, want := range map[string]Format{
		"SHORT": FormatInt16, "INTEGER": FormatInt32, "LONG": FormatInt64,
		"FLOAT": FormatFloat32, "DOUBLE": FormatFloat64, "BYTESTRING": FormatByteString,
	} {
		f, err := ParseFormat(name)
		require.NoError(t, err)
		require.Equal(t, want, f)
		require.Equal(t, name, f.String())
	}

	_, err := ParseFormat("COMPLEX")
	require.Error(t, err)
	require.ErrorIs(t, err, errs.ErrMalformedMetadata)
}

package bus

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAllocateStatic(t *testing.T) {
	slices := Allocate([]Signal{
		{Name: "valid", Width: Bits(1)},
		{Name: "data", Width: Bits(8)},
		{Name: "tag", Width: Bits(3)},
	})
	require.Len(t, slices, 3)

	assert.Equal(t, "[0]", slices[0].Range.String())
	assert.Equal(t, "[8:1]", slices[1].Range.String())
	assert.Equal(t, "[11:9]", slices[2].Range.String())
}

func TestAllocateStaticCoversContiguousBits(t *testing.T) {
	for _, widths := range [][3]int{{1, 1, 1}, {4, 1, 7}, {16, 32, 2}} {
		signals := []Signal{
			{Name: "a", Width: Bits(widths[0])},
			{Name: "b", Width: Bits(widths[1])},
			{Name: "c", Width: Bits(widths[2])},
		}
		slices := Allocate(signals)
		require.Len(t, slices, 3)

		covered := map[int]string{}
		for _, s := range slices {
			for bit := s.Range.Low; bit <= s.Range.High; bit++ {
				owner, taken := covered[bit]
				require.False(t, taken, "bit %d claimed by %s and %s", bit, owner, s.Name)
				covered[bit] = s.Name
			}
		}
		total := widths[0] + widths[1] + widths[2]
		assert.Len(t, covered, total)
		for bit := 0; bit < total; bit++ {
			assert.Contains(t, covered, bit)
		}
		assert.Equal(t, 0, slices[0].Range.Low)
		assert.Equal(t, slices[0].Range.High+1, slices[1].Range.Low)
		assert.Equal(t, slices[1].Range.High+1, slices[2].Range.Low)
	}
}

func TestAllocateMixed(t *testing.T) {
	slices := Allocate([]Signal{
		{Name: "hdr", Width: Bits(4)},
		{Name: "payload", Width: Expr("DATA_W")},
		{Name: "crc", Width: Bits(8)},
		{Name: "last", Width: Bits(1)},
	})
	require.Len(t, slices, 4)

	assert.Equal(t, "[0 +: 4]", slices[0].Range.String())
	assert.Equal(t, "[4 +: DATA_W]", slices[1].Range.String())
	assert.Equal(t, "[4+DATA_W +: 8]", slices[2].Range.String())
	assert.Equal(t, "[4+DATA_W+8 +: 1]", slices[3].Range.String())
}

func TestAllocateEmpty(t *testing.T) {
	assert.Empty(t, Allocate(nil))
	assert.Empty(t, Pack("bus", nil, nil))
	assert.Empty(t, Unpack("bus", []Signal{}, nil))
}

func TestAllocateDoesNotValidateWidths(t *testing.T) {
	assert.NotPanics(t, func() {
		Allocate([]Signal{{Name: "z", Width: Bits(0)}, {Name: "n", Width: Bits(-3)}})
	})
}

func TestPackUnpackShareRanges(t *testing.T) {
	signals := []Signal{
		{Name: "a", Width: Bits(2)},
		{Name: "b", Width: Bits(1)},
		{Name: "c", Width: Bits(5)},
	}
	upper := func(s string) string { return "s_" + s }

	packed := Pack("bus", signals, upper)
	unpacked := Unpack("bus", signals, upper)

	assert.Equal(t, []string{
		"assign bus[1:0] = s_a;",
		"assign bus[2] = s_b;",
		"assign bus[7:3] = s_c;",
	}, packed)
	assert.Equal(t, []string{
		"assign s_a = bus[1:0];",
		"assign s_b = bus[2];",
		"assign s_c = bus[7:3];",
	}, unpacked)
}

func TestTotalWidth(t *testing.T) {
	assert.Equal(t, "11", TotalWidth([]Signal{{Width: Bits(3)}, {Width: Bits(8)}}).String())
	assert.Equal(t, "3+W", TotalWidth([]Signal{{Width: Bits(3)}, {Width: Expr("W")}}).String())
	assert.Equal(t, "0", TotalWidth(nil).String())
}

func TestWidthJSON(t *testing.T) {
	var signals []Signal
	require.NoError(t, json.Unmarshal([]byte(`[{"name":"a","width":4},{"name":"b","width":"N"},{"name":"c","width":"12"}]`), &signals))

	assert.True(t, signals[0].Width.IsStatic())
	assert.Equal(t, 4, signals[0].Width.N())
	assert.False(t, signals[1].Width.IsStatic())
	assert.True(t, signals[2].Width.IsStatic(), "decimal strings fold into numeric widths")

	out, err := json.Marshal(signals)
	require.NoError(t, err)
	assert.JSONEq(t, `[{"name":"a","width":4},{"name":"b","width":"N"},{"name":"c","width":12}]`, string(out))
}

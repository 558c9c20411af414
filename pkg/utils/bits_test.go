package utils

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBitView_WriteKeepsOtherBits(t *testing.T) {
	value := uint32(0xFFFFFFFF)
	view := CreateBitView(&value)

	view.ClearBits(12, 10)
	assert.Equal(t, uint32(0xFFC00FFF), value)

	view.Write(0x5, 0, 4)
	assert.Equal(t, uint32(0xFFC00FF5), value)
	assert.Equal(t, uint32(0x5), view.Read(0, 4))
}

func TestBitView_SetAndTest(t *testing.T) {
	var value uint32
	view := CreateBitView(&value)

	view.SetBit(22)
	view.SetBit(23)
	assert.True(t, view.Test(22))
	assert.True(t, view.Test(23))
	assert.False(t, view.Test(21))
	assert.Equal(t, uint32(0x00C00000), value)

	view.ClearBit(22)
	assert.Equal(t, uint32(0x00800000), value)
}

func TestAllOnes_FullWidth(t *testing.T) {
	assert.Equal(t, uint32(0xFFFFFFFF), AllOnes[uint32](32))
	assert.Equal(t, uint8(0x0F), AllOnes[uint8](4))
	assert.Equal(t, uint32(0x003FF000), Mask[uint32](12, 10))
}

func TestParseUint32(t *testing.T) {
	tests := []struct {
		text     string
		expected uint32
		wantErr  bool
	}{
		{text: "42", expected: 42},
		{text: "0x1000", expected: 0x1000},
		{text: "0b1010", expected: 10},
		{text: " 0xdeadbeef ", expected: 0xDEADBEEF},
		{text: "0x100000000", wantErr: true},
		{text: "pc", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			value, err := ParseUint32(tt.text)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.expected, value)
		})
	}
}

func TestWrapError(t *testing.T) {
	kind := errors.New("kind")
	cause := errors.New("cause")

	err := WrapError(kind, cause, "reading %v", "npc")
	assert.ErrorIs(t, err, kind)
	assert.ErrorIs(t, err, cause)
	assert.Equal(t, "kind: reading npc: cause", err.Error())
}

func TestDistinct(t *testing.T) {
	input := []string{"group0", "", "group1", "group0", "group2", "group1"}
	assert.Equal(t, []string{"group0", "", "group1", "group2"}, Distinct(input, func(s string) string { return s }))
}

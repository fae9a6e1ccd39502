package mm_test

import (
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	amm "github.com/viant/stride/model/mm"
	"github.com/viant/stride/service/mm"
)

func TestAddressSpace_WriteUserAcrossFrames(t *testing.T) {
	space, machine := newSpace(8)
	require.NoError(t, space.Map(base, 4096, 3))
	require.NoError(t, space.Map(base+64*4096, 4096, 3))
	require.NoError(t, space.Map(base+4096, 4096, 3))

	first, _ := space.Translate(base.Floor())
	second, _ := space.Translate((base + 4096).Floor())
	require.NotEqual(t, first.PPN+1, second.PPN, "pages must sit on non-adjacent frames")

	va := base + 4096 - 8
	payload := make([]byte, 16)
	binary.LittleEndian.PutUint64(payload, 0x1122334455667788)
	binary.LittleEndian.PutUint64(payload[8:], 42)
	require.NoError(t, space.WriteUser(va, payload))

	assert.Equal(t, payload[:8], machine.Frame(first.PPN)[4088:])
	assert.Equal(t, payload[8:], machine.Frame(second.PPN)[:8])

	segments, err := space.TranslatedByteBuffer(va, 16, amm.PermRead)
	require.NoError(t, err)
	assert.Len(t, segments, 2)

	read, err := space.ReadUser(va, 16)
	require.NoError(t, err)
	assert.Equal(t, payload, read)
}

func TestAddressSpace_UserFaults(t *testing.T) {
	var testCases = []struct {
		description string
		va          amm.VirtAddr
		size        int
	}{
		{description: "unmapped page", va: base + 32*4096, size: 8},
		{description: "tail crosses into unmapped page", va: base + 4096 - 4, size: 8},
		{description: "read only page", va: base + 2*4096, size: 8},
		{description: "kernel page", va: base + 3*4096, size: 8},
	}

	for _, testCase := range testCases {
		t.Run(testCase.description, func(t *testing.T) {
			space, machine := newSpace(8)
			require.NoError(t, space.Map(base, 4096, 3))
			require.NoError(t, space.Map(base+4096, 4096, 3))
			require.NoError(t, space.Map(base+2*4096, 4096, 1))
			require.NoError(t, space.MapArea(mm.Area{Range: amm.NewRange(base+3*4096, 4096), Perm: amm.PermRead | amm.PermWrite, Kind: mm.KindImage}))
			if testCase.description == "tail crosses into unmapped page" {
				require.NoError(t, space.Unmap(base+4096, 4096))
			}
			head, _ := space.Translate(base.Floor())
			before := append([]byte(nil), machine.Frame(head.PPN)...)

			err := space.WriteUser(testCase.va, make([]byte, testCase.size))
			assert.ErrorIs(t, err, mm.ErrFault)
			assert.Equal(t, before, machine.Frame(head.PPN))
		})
	}
}

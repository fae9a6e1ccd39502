package mm

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestVirtAddr(t *testing.T) {
	testCases := []struct {
		name    string
		addr    VirtAddr
		floor   VirtPageNum
		ceil    VirtPageNum
		aligned bool
	}{
		{name: "zero", addr: 0, floor: 0, ceil: 0, aligned: true},
		{name: "page boundary", addr: 0x10000, floor: 0x10, ceil: 0x10, aligned: true},
		{name: "inside page", addr: 0x10001, floor: 0x10, ceil: 0x11, aligned: false},
		{name: "last byte", addr: 0x10fff, floor: 0x10, ceil: 0x11, aligned: false},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.floor, tc.addr.Floor())
			assert.Equal(t, tc.ceil, tc.addr.Ceil())
			assert.Equal(t, tc.aligned, tc.addr.Aligned())
		})
	}
}

func TestRange(t *testing.T) {
	r := NewRange(0x10000, 4096)
	assert.Equal(t, Range{Start: 0x10, End: 0x11}, r)
	assert.Equal(t, 1, r.Len())

	r = NewRange(0x10000, 4097)
	assert.Equal(t, 2, r.Len())

	a := Range{Start: 10, End: 20}
	assert.True(t, a.Overlaps(Range{Start: 19, End: 25}))
	assert.False(t, a.Overlaps(Range{Start: 20, End: 25}))
	assert.Equal(t, Range{Start: 15, End: 20}, a.Intersect(Range{Start: 15, End: 30}))
	assert.True(t, a.Intersect(Range{Start: 30, End: 40}).Empty())
}

func TestPort(t *testing.T) {
	testCases := []struct {
		port  uint64
		valid bool
		perm  Permission
	}{
		{port: 0x0, valid: false},
		{port: 0x1, valid: true, perm: PermRead},
		{port: 0x3, valid: true, perm: PermRead | PermWrite},
		{port: 0x7, valid: true, perm: PermRead | PermWrite | PermExecute},
		{port: 0x8, valid: false},
		{port: 0xf, valid: false},
	}
	for _, tc := range testCases {
		assert.Equal(t, tc.valid, ValidPort(tc.port), "port %#x", tc.port)
		if tc.valid {
			assert.Equal(t, tc.perm, FromPort(tc.port))
		}
	}
	assert.Equal(t, "-RW-U", (PermRead | PermWrite | PermUser).String())
}

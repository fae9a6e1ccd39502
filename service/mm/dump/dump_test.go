package dump

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/viant/afs"
	amm "github.com/viant/stride/model/mm"
	"github.com/viant/stride/service/mm"
	"github.com/viant/stride/service/mm/memory"
)

func TestService_Dump(t *testing.T) {
	ctx := context.Background()
	space := mm.New(memory.New(8))
	base := amm.VirtAddr(0x10000)
	require.NoError(t, space.Map(base, 2*amm.PageSize, 3))
	require.NoError(t, space.Map(base+8*amm.PageSize, amm.PageSize, 3))
	require.NoError(t, space.WriteUser(base+amm.PageSize, []byte("stride")))
	require.NoError(t, space.WriteUser(base+8*amm.PageSize+1, []byte{0xEE}))

	fs := afs.New()
	service := New(t.TempDir(), WithFS(fs))
	URL, err := service.Dump(ctx, 7, space)
	require.NoError(t, err)
	assert.Contains(t, URL, "/7-")

	data, err := fs.DownloadWithURL(ctx, URL)
	require.NoError(t, err)
	require.Len(t, data, 3*amm.PageSize)
	assert.Equal(t, []byte("stride"), data[amm.PageSize:amm.PageSize+6])
	assert.Equal(t, byte(0xEE), data[2*amm.PageSize+1])
}

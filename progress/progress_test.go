package progress

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestProgress_Update(t *testing.T) {
	p := New("boot", time.Unix(0, 0))
	var seen []Progress
	p.OnChange(func(snapshot Progress) { seen = append(seen, snapshot) })

	p.Update(Delta{Spawned: 2})
	p.Update(Delta{Dispatched: 1, Syscalls: 3})
	p.Update(Delta{Exited: 1, Faulted: 1})

	snapshot := p.Snapshot()
	assert.Equal(t, 2, snapshot.Spawned)
	assert.Equal(t, 1, snapshot.Dispatched)
	assert.Equal(t, 3, snapshot.Syscalls)
	assert.Equal(t, 1, snapshot.Faulted)
	assert.Len(t, seen, 3)
	assert.Equal(t, 2, seen[0].Spawned)
	assert.Equal(t, "boot", seen[2].BootID)
}

func TestProgress_Nil(t *testing.T) {
	var p *Progress
	p.Update(Delta{Spawned: 1})
	p.OnChange(nil)
	assert.Equal(t, 0, p.Snapshot().Spawned)
}

package memory

import (
	"fmt"

	amm "github.com/viant/stride/model/mm"
	"github.com/viant/stride/service/mm"
)

// PageTable is a single-level map from virtual page to entry.
type PageTable struct {
	entries map[amm.VirtPageNum]mm.Entry
}

// NewPageTable creates an empty table.
func NewPageTable() *PageTable {
	return &PageTable{entries: make(map[amm.VirtPageNum]mm.Entry)}
}

// Map installs vpn -> ppn. Mapping a page twice panics.
func (t *PageTable) Map(vpn amm.VirtPageNum, ppn amm.PhysPageNum, flags amm.Permission) {
	if _, ok := t.entries[vpn]; ok {
		panic(fmt.Sprintf("memory: page %s mapped twice", vpn.Addr()))
	}
	t.entries[vpn] = mm.Entry{PPN: ppn, Flags: flags | amm.PermValid}
}

// Unmap removes vpn. Unmapping an absent page panics.
func (t *PageTable) Unmap(vpn amm.VirtPageNum) {
	if _, ok := t.entries[vpn]; !ok {
		panic(fmt.Sprintf("memory: page %s not mapped", vpn.Addr()))
	}
	delete(t.entries, vpn)
}

// Translate looks up vpn.
func (t *PageTable) Translate(vpn amm.VirtPageNum) (mm.Entry, bool) {
	entry, ok := t.entries[vpn]
	return entry, ok
}

// Len returns the number of mapped pages.
func (t *PageTable) Len() int { return len(t.entries) }

// Package route implements the host-provided routing-table write path
// named in SPEC_FULL.md §4.8/§6 (rtable: clear_rtable, init_rtable,
// new_rtable_entry, add_rt_entry, print_rtable). The table's read path —
// how the data-plane forwarding loop consults it — is out of scope.
package route

import (
	"fmt"
	"strings"
	"sync"

	"github.com/WuGodLittleBad/code-for-CI/iface"
)

// Entry is one routing-table row: a destination subnet reachable via a
// next-hop router ID (0 for a directly-attached stub subnet) out of a
// local interface.
type Entry struct {
	Dest  IP4
	Mask  IP4
	GW    IP4 // 0 for a directly-attached subnet
	Dist  int
	Iface *iface.Interface
}

// IP4 aliases iface.IP4 so callers don't need two imports for the same
// concept.
type IP4 = iface.IP4

// Table is the routing table SPF writes into. It is guarded by its own
// mutex (rtable_lock in SPEC_FULL.md §5), acquired only after
// mospfLock, never the reverse.
type Table struct {
	mu      sync.Mutex
	entries []*Entry
}

// NewTable returns an empty routing table.
func NewTable() *Table {
	return &Table{}
}

// Clear empties the table (clear_rtable).
func (t *Table) Clear() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.entries = nil
}

// Init is a no-op placeholder for the reference implementation's
// init_rtable (e.g. seeding a default route); this module has none to
// seed, but keeps the call for parity with the host contract.
func (t *Table) Init() {}

// NewEntry constructs a row without inserting it (new_rtable_entry).
func (t *Table) NewEntry(dest, mask, gw IP4, ifc *iface.Interface) *Entry {
	return &Entry{Dest: dest, Mask: mask, GW: gw, Iface: ifc}
}

// Add inserts a row (add_rt_entry).
func (t *Table) Add(e *Entry) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.entries = append(t.entries, e)
}

// Lookup returns the existing row for an exact destination match, or
// nil. Used by SPF's "present? replace-if-better : insert" reconciliation
// (SPEC_FULL.md §4.5 step 6).
func (t *Table) Lookup(dest IP4) *Entry {
	t.mu.Lock()
	defer t.mu.Unlock()
	for _, e := range t.entries {
		if e.Dest == dest {
			return e
		}
	}
	return nil
}

// Entries returns a snapshot copy of the table's rows.
func (t *Table) Entries() []*Entry {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := make([]*Entry, len(t.entries))
	copy(out, t.entries)
	return out
}

// String renders the table, the Go analogue of print_rtable.
func (t *Table) String() string {
	t.mu.Lock()
	defer t.mu.Unlock()

	var sb strings.Builder
	for _, e := range t.entries {
		ifaceName := "-"
		if e.Iface != nil {
			ifaceName = e.Iface.Name
		}
		fmt.Fprintf(&sb, "%s/%s via %s dist %d dev %s\n", e.Dest, e.Mask, e.GW, e.Dist, ifaceName)
	}
	return sb.String()
}

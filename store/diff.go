package store

// ChangeKind classifies a row-level difference between two snapshots.
type ChangeKind string

const (
	ChangeAdded   ChangeKind = "added"
	ChangeRemoved ChangeKind = "removed"
	ChangeCount   ChangeKind = "count_changed"
)

// Change is one merge key whose total count differs between snapshots.
type Change struct {
	Kind   ChangeKind `json:"kind"`
	Key    string     `json:"key"`
	Brand  string     `json:"brand"`
	Color  string     `json:"color"`
	Size   string     `json:"size"`
	Before int        `json:"before"`
	After  int        `json:"after"`
}

// Delta returns After - Before.
func (c Change) Delta() int { return c.After - c.Before }

type tally struct {
	entry Entry
	count int
}

// Diff compares two snapshots by merge key. Counts of rows sharing a key
// are summed. Added and changed keys come first in the order of after,
// followed by removed keys in the order of before.
func Diff(before, after []Entry) []Change {
	old, oldOrder := tallies(before)
	cur, curOrder := tallies(after)

	var changes []Change
	for _, key := range curOrder {
		c := cur[key]
		o, existed := old[key]
		switch {
		case !existed:
			changes = append(changes, change(ChangeAdded, key, c.entry, 0, c.count))
		case o.count != c.count:
			changes = append(changes, change(ChangeCount, key, c.entry, o.count, c.count))
		}
	}
	for _, key := range oldOrder {
		if _, ok := cur[key]; !ok {
			o := old[key]
			changes = append(changes, change(ChangeRemoved, key, o.entry, o.count, 0))
		}
	}
	return changes
}

func change(kind ChangeKind, key string, e Entry, before, after int) Change {
	return Change{
		Kind:   kind,
		Key:    key,
		Brand:  e.Brand,
		Color:  e.Color,
		Size:   e.Size,
		Before: before,
		After:  after,
	}
}

func tallies(entries []Entry) (map[string]*tally, []string) {
	m := make(map[string]*tally, len(entries))
	var order []string
	for _, e := range entries {
		key := MergeKey(e)
		if t, ok := m[key]; ok {
			t.count = addCount(t.count, e.Count)
			continue
		}
		m[key] = &tally{entry: e, count: e.Count}
		order = append(order, key)
	}
	return m, order
}

package core

import "strconv"

// OptionalIndex is a queue family index that may not be assigned yet.
// The zero value is unset.
type OptionalIndex struct {
	index uint32
	set   bool
}

// Index returns an OptionalIndex set to i.
func Index(i uint32) OptionalIndex {
	return OptionalIndex{index: i, set: true}
}

// Get returns the index and whether it is set.
func (o OptionalIndex) Get() (uint32, bool) {
	return o.index, o.set
}

// IsSet reports whether the index has been assigned.
func (o OptionalIndex) IsSet() bool {
	return o.set
}

// Value returns the index. It panics when the index is unset.
func (o OptionalIndex) Value() uint32 {
	if !o.set {
		panic("core: value of unset queue family index")
	}
	return o.index
}

func (o OptionalIndex) String() string {
	if !o.set {
		return "none"
	}
	return strconv.FormatUint(uint64(o.index), 10)
}

// MarshalJSON encodes an unset index as null.
func (o OptionalIndex) MarshalJSON() ([]byte, error) {
	if !o.set {
		return []byte("null"), nil
	}
	return []byte(strconv.FormatUint(uint64(o.index), 10)), nil
}

// QueueFamilyIndices are the queue families a device renders and presents with.
type QueueFamilyIndices struct {
	Graphics OptionalIndex `json:"graphics"`
	Present  OptionalIndex `json:"present"`
}

// IsComplete reports whether both families were found.
func (q QueueFamilyIndices) IsComplete() bool {
	return q.Graphics.IsSet() && q.Present.IsSet()
}

// Shared reports whether one family does both jobs.
func (q QueueFamilyIndices) Shared() bool {
	return q.IsComplete() && q.Graphics.Value() == q.Present.Value()
}

// Unique returns the distinct set family indices, graphics first.
func (q QueueFamilyIndices) Unique() []uint32 {
	var families []uint32
	if g, ok := q.Graphics.Get(); ok {
		families = append(families, g)
	}
	if p, ok := q.Present.Get(); ok && !q.Shared() {
		families = append(families, p)
	}
	return families
}

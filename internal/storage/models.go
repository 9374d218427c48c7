package storage

// Persisted keys. The names match the payload format exported to users, so
// they must not change.
const (
	EntriesKey = "smartTasksEntries"
	WeekKeyKey = "smartTasksWeekKey"
)

// PersistedRecord is the serialized form of one occupied slot.
type PersistedRecord struct {
	Idx   int      `json:"idx"`
	Desc  string   `json:"desc"`
	Types []string `json:"types"`
}

// Mutation is one write in an atomic batch. Delete wins over Value.
type Mutation struct {
	Key    string
	Value  string
	Delete bool
}

// SlotCount is the number of weekday slots a record index may address.
const SlotCount = 7

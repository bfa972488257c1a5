package form

// The mutation helpers below are pure: they return a new ValueMap and leave
// the input untouched. Every entry not targeted by the mutation is carried
// over as-is, so its backing storage stays reference-equal to the previous
// map's and cheap equality checks upstream keep working.

// SetScalar replaces the value at key.
func SetScalar(values ValueMap, key string, value Value) ValueMap {
	next := cloneMap(values)
	next[key] = value
	return next
}

// SetListItem replaces slot index of the string list at key. Out-of-range
// indices and non-list values leave the map unchanged.
func SetListItem(values ValueMap, key string, index int, item string) ValueMap {
	list, ok := values[key].(StringList)
	if !ok || index < 0 || index >= len(list) {
		return values
	}
	next := cloneMap(values)
	replaced := make(StringList, len(list))
	copy(replaced, list)
	replaced[index] = item
	next[key] = replaced
	return next
}

// AppendListItem adds one empty element to the list at key: "" for string
// lists, an empty record for record lists.
func AppendListItem(values ValueMap, key string) ValueMap {
	next := cloneMap(values)
	switch list := values[key].(type) {
	case StringList:
		grown := make(StringList, len(list)+1)
		copy(grown, list)
		next[key] = grown
	case RecordList:
		grown := make(RecordList, len(list), len(list)+1)
		copy(grown, list)
		next[key] = append(grown, Record{})
	default:
		return values
	}
	return next
}

// RemoveListItem excises slot index from the list at key, shifting later
// elements down by one.
func RemoveListItem(values ValueMap, key string, index int) ValueMap {
	next := cloneMap(values)
	switch list := values[key].(type) {
	case StringList:
		if index < 0 || index >= len(list) {
			return values
		}
		shrunk := make(StringList, 0, len(list)-1)
		shrunk = append(shrunk, list[:index]...)
		shrunk = append(shrunk, list[index+1:]...)
		next[key] = shrunk
	case RecordList:
		if index < 0 || index >= len(list) {
			return values
		}
		shrunk := make(RecordList, 0, len(list)-1)
		shrunk = append(shrunk, list[:index]...)
		shrunk = append(shrunk, list[index+1:]...)
		next[key] = shrunk
	default:
		return values
	}
	return next
}

// SetRecordField replaces subKey within the record at index of the record
// list at key. Sibling fields of that record and every other record keep
// their previous storage.
func SetRecordField(values ValueMap, key string, index int, subKey string, value Value) ValueMap {
	list, ok := values[key].(RecordList)
	if !ok || index < 0 || index >= len(list) {
		return values
	}
	next := cloneMap(values)

	replaced := make(RecordList, len(list))
	copy(replaced, list)

	record := make(Record, len(list[index])+1)
	for k, v := range list[index] {
		record[k] = v
	}
	record[subKey] = value
	replaced[index] = record

	next[key] = replaced
	return next
}

func cloneMap(values ValueMap) ValueMap {
	next := make(ValueMap, len(values)+1)
	for k, v := range values {
		next[k] = v
	}
	return next
}

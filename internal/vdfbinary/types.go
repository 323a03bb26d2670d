package vdfbinary

import "strings"

const (
	vdfMarkerMap         byte = 0x00
	vdfMarkerString      byte = 0x01
	vdfMarkerNumber      byte = 0x02
	vdfMarkerEndOfMap    byte = 0x08
	vdfMarkerEndOfString byte = 0x00
)

// VdfMap is a parsed binary VDF object. Keys are lowercased during
// parsing, so lookups are case-insensitive by construction.
type VdfMap map[string]VdfValue

// VdfValue is one parsed VDF node: a nested map, a string, or a uint32.
type VdfValue interface {
	AsMap() (VdfMap, bool)
	AsString() (string, bool)
	AsUint() (uint32, bool)
	AsBool() (bool, bool)
	GetMap(key string) (VdfMap, bool)
	GetString(key string) (string, bool)
	GetUint(key string) (uint32, bool)
	GetBool(key string) (bool, bool)
}

type vdfValue struct {
	value any
}

func (v vdfValue) AsMap() (VdfMap, bool) {
	m, ok := v.value.(VdfMap)
	return m, ok
}

func (v vdfValue) AsString() (string, bool) {
	s, ok := v.value.(string)
	return s, ok
}

func (v vdfValue) AsUint() (uint32, bool) {
	n, ok := v.value.(uint32)
	return n, ok
}

// AsBool interprets a number node as a boolean flag.
func (v vdfValue) AsBool() (bool, bool) {
	n, ok := v.value.(uint32)
	return n != 0, ok
}

func (v vdfValue) get(key string) (VdfValue, bool) {
	m, ok := v.AsMap()
	if !ok {
		return nil, false
	}
	val, ok := m[strings.ToLower(key)]
	return val, ok
}

func (v vdfValue) GetMap(key string) (VdfMap, bool) {
	val, ok := v.get(key)
	if !ok {
		return nil, false
	}
	return val.AsMap()
}

func (v vdfValue) GetString(key string) (string, bool) {
	val, ok := v.get(key)
	if !ok {
		return "", false
	}
	return val.AsString()
}

func (v vdfValue) GetUint(key string) (uint32, bool) {
	val, ok := v.get(key)
	if !ok {
		return 0, false
	}
	return val.AsUint()
}

func (v vdfValue) GetBool(key string) (bool, bool) {
	val, ok := v.get(key)
	if !ok {
		return false, false
	}
	return val.AsBool()
}

package edit

import (
	"fmt"
	"regexp"

	"github.com/matzehuels/binpatch/pkg/bin"
	"github.com/matzehuels/binpatch/pkg/errors"
)

// items is the ordered item list behind a subject. Exactly one of the three
// backing stores is set.
type items struct {
	fields *[]*bin.Node
	list   *bin.List
	m      *bin.Map
}

// itemsOf resolves the item list of s. Field wrappers and map entries are
// unwrapped to their payload; bare containers and raw field lists are used
// directly.
func itemsOf(s Subject) (items, error) {
	switch v := s.(type) {
	case nil:
		return items{}, errors.New(errors.ErrCodeStructuralLookup, "subject is undefined")
	case *bin.Node:
		if v == nil {
			return items{}, errors.New(errors.ErrCodeStructuralLookup, "subject is undefined")
		}
		it, err := payloadItems(v.Value)
		if err != nil {
			return items{}, fmt.Errorf("field %q (%s): %w", v.Key, v.Type, err)
		}
		return it, nil
	case *bin.MapEntry:
		if v == nil {
			return items{}, errors.New(errors.ErrCodeStructuralLookup, "subject is undefined")
		}
		it, err := payloadItems(v.Value)
		if err != nil {
			return items{}, fmt.Errorf("entry %v: %w", v.Key, err)
		}
		return it, nil
	case *bin.Fields:
		if v == nil {
			return items{}, errors.New(errors.ErrCodeStructuralLookup, "subject is undefined")
		}
		return items{fields: (*[]*bin.Node)(v)}, nil
	}
	return payloadItems(s)
}

func payloadItems(p any) (items, error) {
	switch v := p.(type) {
	case *bin.Struct:
		if v == nil {
			return items{}, errors.New(errors.ErrCodeStructuralLookup, "null pointer has no items")
		}
		return items{fields: &v.Items}, nil
	case *bin.List:
		if v == nil {
			return items{}, errors.New(errors.ErrCodeStructuralLookup, "nil list")
		}
		return items{list: v}, nil
	case *bin.Map:
		if v == nil {
			return items{}, errors.New(errors.ErrCodeStructuralLookup, "nil map")
		}
		return items{m: v}, nil
	}
	return items{}, errors.New(errors.ErrCodeStructuralLookup, "%T has no items", p)
}

func (it items) len() int {
	switch {
	case it.fields != nil:
		return len(*it.fields)
	case it.list != nil:
		return len(it.list.Items)
	default:
		return len(it.m.Items)
	}
}

// key returns the key of item i. List elements carry no key.
func (it items) key(i int) (string, bool) {
	switch {
	case it.fields != nil:
		return (*it.fields)[i].Key, true
	case it.m != nil:
		return fmt.Sprint(it.m.Items[i].Key), true
	}
	return "", false
}

// find returns the index of the first item whose key satisfies match, or -1.
func (it items) find(match func(string) bool) int {
	for i := 0; i < it.len(); i++ {
		if k, ok := it.key(i); ok && match(k) {
			return i
		}
	}
	return -1
}

func (it items) index(key string) int {
	return it.find(func(k string) bool { return k == key })
}

func (it items) matching(re *regexp.Regexp) int {
	return it.find(re.MatchString)
}

// at returns item i as a subject. Container elements of a list are returned
// as themselves; scalar elements are presented as a keyless node of the
// list's value type whose changes are not written back.
func (it items) at(i int) Subject {
	switch {
	case it.fields != nil:
		return (*it.fields)[i]
	case it.m != nil:
		return it.m.Items[i]
	}
	return element(it.list.ValueType, it.list.Items[i])
}

func element(t bin.Type, p any) Subject {
	switch v := p.(type) {
	case *bin.Struct:
		if v != nil {
			return v
		}
	case *bin.List:
		return v
	case *bin.Map:
		return v
	}
	return &bin.Node{Type: t, Value: p}
}

func (it items) remove(i int) {
	switch {
	case it.fields != nil:
		*it.fields = append((*it.fields)[:i], (*it.fields)[i+1:]...)
	case it.m != nil:
		it.m.Items = append(it.m.Items[:i], it.m.Items[i+1:]...)
	default:
		it.list.Items = append(it.list.Items[:i], it.list.Items[i+1:]...)
	}
}

// push appends a deep copy of field. On a map the field key becomes the
// entry key and the field type must equal the map's value type.
func (it items) push(field *bin.Node) error {
	switch {
	case it.fields != nil:
		*it.fields = append(*it.fields, field.Clone())
		return nil
	case it.m != nil:
		if field.Type != it.m.ValueType {
			return errors.New(errors.ErrCodeStructuralLookup, "cannot append %s field %q to map of %s", field.Type, field.Key, it.m.ValueType)
		}
		key, err := bin.Coerce(it.m.KeyType, field.Key)
		if err != nil {
			return err
		}
		it.m.Items = append(it.m.Items, &bin.MapEntry{Key: key, Value: bin.ClonePayload(field.Value)})
		return nil
	}
	return errors.New(errors.ErrCodeStructuralLookup, "cannot append field %q to a list of %s", field.Key, it.list.ValueType)
}

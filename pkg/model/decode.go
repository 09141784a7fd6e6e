package model

import (
	"fmt"

	jsoniter "github.com/json-iterator/go"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// node is a decoded JSON object, remembering its qualified path for error reporting.
type node struct {
	path   string
	fields map[string]interface{}
}

func parseDescriptor(data []byte) (node, error) {
	var fields map[string]interface{}
	if err := json.Unmarshal(data, &fields); err != nil {
		return node{}, ErrMalformedDescriptor.Wrapf("invalid JSON: %v", err)
	}
	if fields == nil {
		return node{}, ErrMalformedDescriptor.Wrapf("descriptor must be a JSON object")
	}
	return node{fields: fields}, nil
}

func (n node) qualify(key string) string {
	if n.path == "" {
		return key
	}
	return n.path + "::" + key
}

func (n node) object(key string) (node, error) {
	p := n.qualify(key)
	v, ok := n.fields[key]
	if !ok {
		return node{}, missingField(p)
	}
	m, ok := v.(map[string]interface{})
	if !ok {
		return node{}, mistypedField(p, "an object")
	}
	return node{path: p, fields: m}, nil
}

func (n node) str(key string) (string, error) {
	p := n.qualify(key)
	v, ok := n.fields[key]
	if !ok {
		return "", missingField(p)
	}
	s, ok := v.(string)
	if !ok {
		return "", mistypedField(p, "a string")
	}
	return s, nil
}

func (n node) optionalStr(key string) (string, error) {
	if _, ok := n.fields[key]; !ok {
		return "", nil
	}
	return n.str(key)
}

func (n node) array(key string) ([]interface{}, string, error) {
	p := n.qualify(key)
	v, ok := n.fields[key]
	if !ok {
		return nil, p, missingField(p)
	}
	a, ok := v.([]interface{})
	if !ok {
		return nil, p, mistypedField(p, "an array")
	}
	return a, p, nil
}

// names decodes an array of unique names, e.g. _DATASETS or _VERSIONS
func (n node) names(key string, validate func(string) error) ([]string, error) {
	items, p, err := n.array(key)
	if err != nil {
		return nil, err
	}
	res := make([]string, 0, len(items))
	seen := make(map[string]struct{}, len(items))
	for i, item := range items {
		ip := fmt.Sprintf("%s[%d]", p, i)
		s, ok := item.(string)
		if !ok {
			return nil, mistypedField(ip, "a string")
		}
		if err := validate(s); err != nil {
			return nil, ErrMalformedDescriptor.Wrapf("%s: %v", ip, err)
		}
		if _, dup := seen[s]; dup {
			return nil, ErrMalformedDescriptor.Wrapf("%s: duplicate name %q", ip, s)
		}
		seen[s] = struct{}{}
		res = append(res, s)
	}
	return res, nil
}

func (n node) objects(key string) ([]node, error) {
	items, p, err := n.array(key)
	if err != nil {
		return nil, err
	}
	res := make([]node, 0, len(items))
	for i, item := range items {
		ip := fmt.Sprintf("%s[%d]", p, i)
		m, ok := item.(map[string]interface{})
		if !ok {
			return nil, mistypedField(ip, "an object")
		}
		res = append(res, node{path: ip, fields: m})
	}
	return res, nil
}

func marshalDescriptor(v interface{}) ([]byte, error) {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, err
	}
	return append(b, '\n'), nil
}

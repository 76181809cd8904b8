package employee

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// Patch is a field mask: a key is present only when the caller supplied it.
// An empty value means "clear" for optional fields.
type Patch map[string]string

// DecodePatch reads a flat JSON object. Numbers and booleans are kept as
// their literal text; null becomes an empty value.
func DecodePatch(data []byte) (Patch, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	raw := map[string]any{}
	if err := dec.Decode(&raw); err != nil {
		return nil, err
	}
	out := make(Patch, len(raw))
	for key, value := range raw {
		key = strings.ToLower(strings.TrimSpace(key))
		switch v := value.(type) {
		case nil:
			out[key] = ""
		case string:
			out[key] = v
		case json.Number:
			out[key] = v.String()
		case bool:
			out[key] = strconv.FormatBool(v)
		default:
			return nil, fmt.Errorf("field %q must be a scalar value", key)
		}
	}
	return out, nil
}

// PatchFromRow pairs a header row with one record of a tabular file.
// Cells beyond the header are dropped; missing trailing cells are absent.
func PatchFromRow(header, row []string) Patch {
	out := make(Patch, len(header))
	for i, name := range header {
		key := strings.ToLower(strings.TrimSpace(name))
		if key == "" || i >= len(row) {
			continue
		}
		out[key] = row[i]
	}
	return out
}

func (p Patch) Has(field string) bool {
	_, ok := p[field]
	return ok
}

func (p Patch) Get(field string) string {
	return strings.TrimSpace(p[field])
}

// Only keeps the named fields.
func (p Patch) Only(fields []string) Patch {
	out := Patch{}
	for _, field := range fields {
		if value, ok := p[field]; ok {
			out[field] = value
		}
	}
	return out
}

func (p Patch) Without(field string) Patch {
	out := make(Patch, len(p))
	for key, value := range p {
		if key != field {
			out[key] = value
		}
	}
	return out
}

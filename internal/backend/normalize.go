package backend

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// normalizeIDs rewrites every object's "_id" into "id" so the rest of the
// panel only ever sees one identifier field. Non-string ids are stringified.
func normalizeIDs(v interface{}) interface{} {
	switch value := v.(type) {
	case map[string]interface{}:
		if raw, ok := value["_id"]; ok {
			if _, has := value["id"]; !has {
				value["id"] = raw
			}
			delete(value, "_id")
		}
		if id, ok := value["id"]; ok && id != nil {
			if _, isString := id.(string); !isString {
				value["id"] = fmt.Sprint(id)
			}
		}
		for k, child := range value {
			value[k] = normalizeIDs(child)
		}
		return value
	case []interface{}:
		for i, child := range value {
			value[i] = normalizeIDs(child)
		}
		return value
	default:
		return v
	}
}

// normalizeJSON decodes raw, normalises ids and re-encodes it.
func normalizeJSON(raw []byte) ([]byte, error) {
	if len(bytes.TrimSpace(raw)) == 0 {
		return raw, nil
	}
	decoder := json.NewDecoder(bytes.NewReader(raw))
	decoder.UseNumber()
	var v interface{}
	if err := decoder.Decode(&v); err != nil {
		return nil, err
	}
	return json.Marshal(normalizeIDs(v))
}

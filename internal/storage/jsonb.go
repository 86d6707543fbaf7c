package storage

import "encoding/json"

// marshalJSONB сериализует карту для записи в колонку JSONB.
// nil превращается в пустой объект.
func marshalJSONB(m map[string]any) ([]byte, error) {
	if m == nil {
		m = map[string]any{}
	}
	return json.Marshal(m)
}

// unmarshalJSONB десериализует колонку JSONB в карту. NULL даёт nil.
func unmarshalJSONB(raw []byte) (map[string]any, error) {
	if len(raw) == 0 {
		return nil, nil
	}
	var m map[string]any
	if err := json.Unmarshal(raw, &m); err != nil {
		return nil, err
	}
	return m, nil
}

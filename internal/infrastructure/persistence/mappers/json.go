package mappers

import (
	"encoding/json"
	"fmt"

	"gorm.io/datatypes"
)

func mapToJSON(m map[string]interface{}) (datatypes.JSON, error) {
	if len(m) == 0 {
		return datatypes.JSON("{}"), nil
	}
	data, err := json.Marshal(m)
	if err != nil {
		return nil, fmt.Errorf("failed to encode json column: %w", err)
	}
	return datatypes.JSON(data), nil
}

func jsonToMap(raw datatypes.JSON) (map[string]interface{}, error) {
	m := make(map[string]interface{})
	if len(raw) == 0 {
		return m, nil
	}
	if err := json.Unmarshal(raw, &m); err != nil {
		return nil, fmt.Errorf("failed to decode json column: %w", err)
	}
	return m, nil
}

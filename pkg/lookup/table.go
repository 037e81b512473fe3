// pkg/lookup/table.go
package lookup

import (
	"encoding/json"
	"os"
)

func LoadTable(path string) (*Table, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var tab Table
	err = json.Unmarshal(data, &tab)
	return &tab, err
}

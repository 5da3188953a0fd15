package dto

import (
	"bytes"
	"encoding/json"
	"strconv"

	"paytrack/internal/app/contracttree"
)

// NullableID - ссылка на родительский договор в запросе.
// Принимает число, строку с числом, "null", null; отсутствие поля оставляет Set = false.
type NullableID struct {
	ID  *uint
	Set bool
}

func (n *NullableID) UnmarshalJSON(data []byte) error {
	n.Set = true

	var raw interface{}
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	if err := dec.Decode(&raw); err != nil {
		return err
	}

	id, err := contracttree.NormalizeParentID(raw)
	if err != nil {
		return err
	}
	n.ID = id
	return nil
}

func (n NullableID) MarshalJSON() ([]byte, error) {
	if n.ID == nil {
		return []byte("null"), nil
	}
	return []byte(strconv.FormatUint(uint64(*n.ID), 10)), nil
}

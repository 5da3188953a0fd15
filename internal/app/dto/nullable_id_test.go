package dto

import (
	"encoding/json"
	"errors"
	"testing"

	"paytrack/internal/app/contracttree"
)

func TestNullableIDUnmarshal(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		wantSet bool
		wantID  uint // 0 - nil
		wantErr bool
	}{
		{name: "absent", body: `{}`},
		{name: "null", body: `{"parent_contract_id": null}`, wantSet: true},
		{name: "null string", body: `{"parent_contract_id": "null"}`, wantSet: true},
		{name: "number", body: `{"parent_contract_id": 5}`, wantSet: true, wantID: 5},
		{name: "numeric string", body: `{"parent_contract_id": "5"}`, wantSet: true, wantID: 5},
		{name: "garbage", body: `{"parent_contract_id": "five"}`, wantErr: true},
		{name: "fraction", body: `{"parent_contract_id": 1.5}`, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var req struct {
				Parent NullableID `json:"parent_contract_id"`
			}
			err := json.Unmarshal([]byte(tt.body), &req)
			if tt.wantErr {
				if !errors.Is(err, contracttree.ErrInvalidParentID) {
					t.Fatalf("err = %v, want ErrInvalidParentID", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if req.Parent.Set != tt.wantSet {
				t.Errorf("Set = %v, want %v", req.Parent.Set, tt.wantSet)
			}
			switch {
			case tt.wantID == 0 && req.Parent.ID != nil:
				t.Errorf("ID = %d, want nil", *req.Parent.ID)
			case tt.wantID != 0 && (req.Parent.ID == nil || *req.Parent.ID != tt.wantID):
				t.Errorf("ID = %v, want %d", req.Parent.ID, tt.wantID)
			}
		})
	}
}

func TestNullableIDMarshal(t *testing.T) {
	id := uint(7)
	out, err := json.Marshal(struct {
		A NullableID `json:"a"`
		B NullableID `json:"b"`
	}{A: NullableID{ID: &id, Set: true}})
	if err != nil {
		t.Fatal(err)
	}
	if string(out) != `{"a":7,"b":null}` {
		t.Fatalf("got %s", out)
	}
}

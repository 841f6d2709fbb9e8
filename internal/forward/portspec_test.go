package forward

import (
	"errors"
	"testing"
)

func TestExpand(t *testing.T) {
	tests := []struct {
		name string
		spec PortSpec
		op   Op
		want []int
	}{
		{name: "single port", spec: "8080", op: OpAdd, want: []int{8080}},
		{name: "single port trimmed", spec: "  443 ", op: OpAdd, want: []int{443}},
		{name: "range", spec: "8000-8002", op: OpAdd, want: []int{8000, 8001, 8002}},
		{name: "range of one", spec: "22-22", op: OpDelete, want: []int{22}},
		{name: "lowest port", spec: "1", op: OpAdd, want: []int{1}},
		{name: "highest port", spec: "65535", op: OpAdd, want: []int{65535}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.spec.Expand(tt.op, &MemStore{})
			if err != nil {
				t.Fatalf("Expand() error = %v", err)
			}
			if len(got) != len(tt.want) {
				t.Fatalf("Expand() = %v, want %v", got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("Expand()[%d] = %d, want %d", i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestExpandInvalid(t *testing.T) {
	tests := []struct {
		name string
		spec PortSpec
		op   Op
	}{
		{name: "zero", spec: "0", op: OpAdd},
		{name: "above max", spec: "70000", op: OpAdd},
		{name: "reversed range", spec: "500-100", op: OpAdd},
		{name: "range above max", spec: "65000-70000", op: OpAdd},
		{name: "not a number", spec: "http", op: OpAdd},
		{name: "empty", spec: "", op: OpAdd},
		{name: "double dash", spec: "1-2-3", op: OpAdd},
		{name: "negative", spec: "-80", op: OpDelete},
		{name: "all outside delete", spec: "all", op: OpAdd},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tt.spec.Expand(tt.op, &MemStore{})
			if err == nil {
				t.Fatal("Expand() expected error")
			}
			if !errors.Is(err, ErrInvalidPortSpec) {
				t.Errorf("error should wrap ErrInvalidPortSpec, got: %v", err)
			}
		})
	}
}

func TestExpandAll(t *testing.T) {
	store := &MemStore{Ports: []int{22, 8080}}
	got, err := PortSpec("all").Expand(OpDelete, store)
	if err != nil {
		t.Fatalf("Expand() error = %v", err)
	}
	want := map[int]bool{22: true, 8080: true}
	if len(got) != len(want) {
		t.Fatalf("Expand() = %v, want ports 22 and 8080", got)
	}
	for _, p := range got {
		if !want[p] {
			t.Errorf("unexpected port %d", p)
		}
	}
}

func TestExpandAllStoreFailure(t *testing.T) {
	store := &MemStore{Err: errors.New("query failed")}
	if _, err := PortSpec("all").Expand(OpDelete, store); err == nil {
		t.Fatal("Expand() expected error when the port listing fails")
	}
}

func TestIsAll(t *testing.T) {
	if !PortSpec(" all ").IsAll() {
		t.Error("IsAll() = false for padded all")
	}
	if PortSpec("8080").IsAll() {
		t.Error("IsAll() = true for port")
	}
}

package flow

import (
	"encoding/json"
	"strings"
	"testing"

	ferrors "github.com/matzehuels/flowcanvas/pkg/errors"
)

func TestNodeIDJSON(t *testing.T) {
	tests := []struct {
		id   NodeID
		want string
	}{
		{"12", `12`},
		{"0b7c5a52-2d7e-4f7b-9f55-6f0e8f0c1a11", `"0b7c5a52-2d7e-4f7b-9f55-6f0e8f0c1a11"`},
		{"007", `"007"`},
	}
	for _, tt := range tests {
		got, err := json.Marshal(tt.id)
		if err != nil {
			t.Fatalf("Marshal(%q) error = %v", tt.id, err)
		}
		if string(got) != tt.want {
			t.Errorf("Marshal(%q) = %s, want %s", tt.id, got, tt.want)
		}
		var back NodeID
		if err := json.Unmarshal(got, &back); err != nil || back != tt.id {
			t.Errorf("Unmarshal(%s) = %q, %v; want %q", got, back, err, tt.id)
		}
	}

	var id NodeID
	if err := json.Unmarshal([]byte(`1.5`), &id); err == nil {
		t.Errorf("Unmarshal(1.5) = %q, want error", id)
	}
}

func TestPortNames(t *testing.T) {
	tests := []struct {
		side Side
		name string
		want int
	}{
		{Input, "input_1", 1},
		{Input, "input_12", 12},
		{Output, "output_3", 3},
		{Input, "output_1", 0},
		{Input, "input_0", 0},
		{Input, "input_01", 0},
		{Output, "output_", 0},
	}
	for _, tt := range tests {
		if got := PortIndex(tt.side, tt.name); got != tt.want {
			t.Errorf("PortIndex(%s, %q) = %d, want %d", tt.side, tt.name, got, tt.want)
		}
	}
	if got := PortName(Output, 4); got != "output_4" {
		t.Errorf("PortName(Output, 4) = %q, want output_4", got)
	}
}

func TestNodeJSONShape(t *testing.T) {
	n := Node{
		ID:      "1",
		Name:    "n",
		Content: TemplateRef("card"),
		Inputs:  []Port{{}},
		Outputs: []Port{{Connections: []Endpoint{{Node: "2", Port: "input_1", Points: []Point{{X: 1, Y: 2}}}}}},
	}
	data, err := json.Marshal(n)
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}
	for _, want := range []string{
		`"id":1`,
		`"contentKind":"template"`,
		`"content":"card"`,
		`"inputs":{"input_1":{"connections":[]}}`,
		`"outputs":{"output_1":{"connections":[{"node":2,"port":"input_1","points":[{"x":1,"y":2}]}]}}`,
		`"data":{}`,
	} {
		if !strings.Contains(string(data), want) {
			t.Errorf("JSON %s missing %s", data, want)
		}
	}
}

func TestNodeJSONRejectsGappedPorts(t *testing.T) {
	var n Node
	err := json.Unmarshal([]byte(`{"id":1,"inputs":{"input_1":{},"input_3":{}}}`), &n)
	if !ferrors.Is(err, ferrors.ErrCodeInvalidFormat) {
		t.Errorf("Unmarshal() error = %v, want INVALID_FORMAT", err)
	}
}

func TestNodeJSONDefaultsContentKind(t *testing.T) {
	var n Node
	if err := json.Unmarshal([]byte(`{"id":"x","content":"<p>hi</p>"}`), &n); err != nil {
		t.Fatal(err)
	}
	if n.Content != Plain("<p>hi</p>") {
		t.Errorf("Content = %+v, want plain", n.Content)
	}
}

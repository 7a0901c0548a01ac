package hxbind

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestSplitList(t *testing.T) {
	tests := []struct {
		in   string
		want []string
	}{
		{"", nil},
		{"a", []string{"a"}},
		{" a , b;c ", []string{"a", "b", "c"}},
		{"a,,b;;", []string{"a", "b"}},
		{";,", nil},
		{"x[1,2],y", []string{"x[1,2]", "y"}},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			if diff := cmp.Diff(tt.want, SplitList(tt.in)); diff != "" {
				t.Errorf("SplitList(%q) mismatch (-want +got):\n%s", tt.in, diff)
			}
		})
	}
}

func TestParsePairs(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want []Pair
	}{
		{"two pairs", "k1=v1;k2=v2", []Pair{{"k1", "v1"}, {"k2", "v2"}}},
		{"comma separated", "a=1, b=2", []Pair{{"a", "1"}, {"b", "2"}}},
		{"trailing separator", "a=1;", []Pair{{"a", "1"}}},
		{"empty segments", ";;a=1,,;b=2", []Pair{{"a", "1"}, {"b", "2"}}},
		{"segment without equals", "flag;a=1", []Pair{{"a", "1"}}},
		{"empty key", "=x;a=1", []Pair{{"a", "1"}}},
		{"first equals splits", "expr=a=b", []Pair{{"expr", "a=b"}}},
		{"empty value", "title=", []Pair{{"title", ""}}},
		{"trimmed", "  a  =  spaced value  ", []Pair{{"a", "spaced value"}}},
		{"quoted value with separators", `label="a,b;c";n=1`, []Pair{{"label", "a,b;c"}, {"n", "1"}}},
		{"nested JSON value", `cfg={"a":1,"b":[1,2]};x=y`, []Pair{{"cfg", `{"a":1,"b":[1,2]}`}, {"x", "y"}}},
		{"quoted JSON with separators", `data={"msg":"hi; there, you"},z=1`, []Pair{{"data", `{"msg":"hi; there, you"}`}, {"z", "1"}}},
		{"escaped quote", `q="say \"a;b\""`, []Pair{{"q", `say "a;b"`}}},
		{"empty", "", nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if diff := cmp.Diff(tt.want, ParsePairs(tt.in)); diff != "" {
				t.Errorf("ParsePairs(%q) mismatch (-want +got):\n%s", tt.in, diff)
			}
		})
	}
}

func TestParseJSON(t *testing.T) {
	tests := []struct {
		in     string
		want   any
		wantOK bool
	}{
		{`{"a":1}`, map[string]any{"a": float64(1)}, true},
		{` [1,"x"] `, []any{float64(1), "x"}, true},
		{`{"a":`, nil, false},
		{`{a=1}`, nil, false},
		{`"str"`, nil, false},
		{`a=1`, nil, false},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, ok := ParseJSON(tt.in)
			if ok != tt.wantOK {
				t.Fatalf("ParseJSON(%q) ok = %v, want %v", tt.in, ok, tt.wantOK)
			}
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("ParseJSON(%q) mismatch (-want +got):\n%s", tt.in, diff)
			}
		})
	}
}

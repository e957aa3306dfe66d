package protocol

import (
	"reflect"
	"testing"
)

func TestParse(t *testing.T) {
	cmd, err := Parse("  link 1 2 \n")
	if err != nil {
		t.Fatal(err)
	}
	if cmd.Name != "LINK" {
		t.Errorf("Name = %q, want LINK", cmd.Name)
	}
	if !reflect.DeepEqual(cmd.Args, []string{"1", "2"}) {
		t.Errorf("Args = %v, want [1 2]", cmd.Args)
	}

	if _, err := Parse("   \t "); err == nil {
		t.Error("blank line should be an error")
	}
}

func TestParseLiterals(t *testing.T) {
	cases := []struct {
		in   string
		want []int
	}{
		{"1 2 3", []int{1, 2, 3}},
		{"1,2,3", []int{1, 2, 3}},
		{"1, -2  3", []int{-2, 1, 3}},
		{"", nil},
		{"  ,  ", nil},
		{"1 1 1", []int{1}},
		// Malformed tokens are skipped, valid ones survive.
		{"1 x -2 3.5", []int{-2, 1}},
	}
	for _, tc := range cases {
		got := ParseLiterals(tc.in)
		if len(got) == 0 && len(tc.want) == 0 {
			continue
		}
		if !reflect.DeepEqual(got, tc.want) {
			t.Errorf("ParseLiterals(%q) = %v, want %v", tc.in, got, tc.want)
		}
	}
}

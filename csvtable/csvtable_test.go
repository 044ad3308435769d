package csvtable

import (
	"reflect"
	"testing"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  [][]string
	}{
		{"empty", "", [][]string{}},
		{"simple", "a,b,c\n1,2,3", [][]string{{"a", "b", "c"}, {"1", "2", "3"}}},
		{"crlf and trailing newline", "a,b\r\n1,2\r\n", [][]string{{"a", "b"}, {"1", "2"}}},
		{"bare cr", "a\rb", [][]string{{"a"}, {"b"}}},
		{"quoted separator", `"x,y",z`, [][]string{{"x,y", "z"}}},
		{"escaped quotes", `"he said ""hi""",2`, [][]string{{`he said "hi"`, "2"}}},
		{"quoted newline", "\"multi\nline\",2", [][]string{{"multi\nline", "2"}}},
		{"garbage after quote", `"ab"cd,e`, [][]string{{"ab", "e"}}},
		{"unterminated quote", `"open,still`, [][]string{{"open,still"}}},
		{"empty line", "a\n\nb", [][]string{{"a"}, {}, {"b"}}},
		{"empty fields", ",a,,b", [][]string{{"", "a", "", "b"}}},
		{"trailing separator", "a,\nb", [][]string{{"a"}, {"b"}}},
		{"empty quoted", `"",x`, [][]string{{"", "x"}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Parse(tt.input)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Parse(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestRecords(t *testing.T) {
	input := "Date,Symbol\n1/1/2025,MSFT,extra\n1/2/2025\n\n\"1/3/2025\",\"A,B\""
	want := []map[string]string{
		{"Date": "1/1/2025", "Symbol": "MSFT"},
		{"Date": "1/2/2025"},
		{},
		{"Date": "1/3/2025", "Symbol": "A,B"},
	}
	got := Records(input)
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Records() = %v, want %v", got, want)
	}
}

func TestRecordsHeaderOnly(t *testing.T) {
	if got := Records("Date,Symbol\n"); len(got) != 0 {
		t.Errorf("Records() = %v, want no records", got)
	}
	if got := Records(""); got != nil {
		t.Errorf("Records(\"\") = %v, want nil", got)
	}
}

package csvline

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name string
		line string
		want []string
	}{
		{"plain", "a,b,c", []string{"a", "b", "c"}},
		{"quoted comma", `Jane Doe,"West, Side",LUNAS`, []string{"Jane Doe", "West, Side", "LUNAS"}},
		{"currency cell", `Janji Iman,"Rp120,000,000","Rp2,704,000"`, []string{"Janji Iman", "Rp120,000,000", "Rp2,704,000"}},
		{"trims unquoted", "  a , b  ,c ", []string{"a", "b", "c"}},
		{"trims quoted too", `" a ",b`, []string{"a", "b"}},
		{"escaped quote", `"say ""hi""",x`, []string{`say "hi"`, "x"}},
		{"empty fields", ",,", []string{"", "", ""}},
		{"empty line", "", []string{""}},
		{"unterminated quote swallows rest", `a,"b,c`, []string{"a", "b,c"}},
		{"multibyte", "Sæmund,Wilayah Ⅱ", []string{"Sæmund", "Wilayah Ⅱ"}},
		{"invalid utf-8 kept", "a\xffb,\"c\xfe, d\"", []string{"a\xffb", "c\xfe, d"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Parse(tt.line)
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("Parse(%q) mismatch (-want +got):\n%s", tt.line, diff)
			}
		})
	}
}

func TestParseFieldCountMatchesCommas(t *testing.T) {
	lines := []string{"x", "x,y", "1,2,3,4,5", ",", "a, b ,c,,d"}
	for _, l := range lines {
		want := strings.Count(l, ",") + 1
		if got := len(Parse(l)); got != want {
			t.Errorf("Parse(%q) returned %d fields, want %d", l, got, want)
		}
	}
}

func TestParseBody(t *testing.T) {
	body := "Nama,Wilayah,Status\r\nA,North,LUNAS\r\n\r\nB,South,BELUM\r\n"

	got := ParseBody(body, 1)
	want := [][]string{
		{"A", "North", "LUNAS"},
		{"B", "South", "BELUM"},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("ParseBody mismatch (-want +got):\n%s", diff)
	}

	if rows := ParseBody("header only", 1); rows != nil {
		t.Errorf("ParseBody(header only) = %v, want nil", rows)
	}
	if lines := SplitLines("   \n  "); lines != nil {
		t.Errorf("SplitLines(blank) = %v, want nil", lines)
	}
}

package headers

import (
	"reflect"
	"testing"
)

func TestParseHeaders(t *testing.T) {
	in := []string{"User-Agent: Bot", "Accept: text/html", "Cookie: a=b: c"}
	out, err := ParseHeaders(in)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	expected := map[string]string{"User-Agent": "Bot", "Accept": "text/html", "Cookie": "a=b: c"}
	if !reflect.DeepEqual(out, expected) {
		t.Fatalf("unexpected parse result: %#v", out)
	}
}

func TestParseHeadersRejectsMalformed(t *testing.T) {
	for _, in := range []string{"BadHeader", ": value", "Bad Name: x"} {
		if _, err := ParseHeaders([]string{in}); err == nil {
			t.Errorf("expected error for %q", in)
		}
	}
}

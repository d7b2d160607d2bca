package intel

import (
	"reflect"
	"testing"
)

func TestNormalizeSpokenDigits(t *testing.T) {
	found := Extract("call me on nine eight seven six five four three two one zero")
	if got := found[CategoryPhones]; !reflect.DeepEqual(got, []string{"9876543210"}) {
		t.Fatalf("phones = %v, want [9876543210]", got)
	}
}

func TestNormalizeHindiDigitWords(t *testing.T) {
	found := Extract("number hai nau aath saat chhe paanch chaar teen do ek shunya")
	if got := found[CategoryPhones]; !reflect.DeepEqual(got, []string{"9876543210"}) {
		t.Fatalf("phones = %v, want [9876543210]", got)
	}
}

func TestNormalizeSeparatorObfuscation(t *testing.T) {
	found := Extract("try 9-8-7-6-5-4-3-2-1-0 ok")
	if got := found[CategoryPhones]; !reflect.DeepEqual(got, []string{"9876543210"}) {
		t.Fatalf("phones = %v, want [9876543210]", got)
	}
}

func TestNormalizeKeepsAdjacentFullNumbersDistinct(t *testing.T) {
	// Two complete numbers side by side must not merge into one giant run,
	// whatever the separator.
	cases := []struct {
		name string
		text string
	}{
		{"space", "9876543210 9123456780"},
		{"hyphen", "call 9876543210-9123456780 any time"},
		{"dot", "9876543210.9123456780"},
	}
	want := []string{"9876543210", "9123456780"}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			found := Extract(tc.text)
			if got := found[CategoryPhones]; !reflect.DeepEqual(got, want) {
				t.Fatalf("phones = %v, want %v", got, want)
			}
		})
	}
}

func TestNormalizeJoinsShortHyphenGroups(t *testing.T) {
	found := Extract("it is 98765-43210, note it down")
	if got := found[CategoryPhones]; !reflect.DeepEqual(got, []string{"9876543210"}) {
		t.Fatalf("phones = %v, want [9876543210]", got)
	}
}

func TestNormalizeLeavesSingleNumberWordsAlone(t *testing.T) {
	if got := NormalizeNumerals("give me one moment"); got != "give me one moment" {
		t.Fatalf("normalized = %q, want unchanged", got)
	}
}

package weather

import "testing"

func TestNormalize(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{name: "short alias", input: "台北", expected: "臺北市"},
		{name: "alternate character alias", input: "臺北", expected: "臺北市"},
		{name: "full name with common character", input: "台北市", expected: "臺北市"},
		{name: "canonical name passes through", input: "新北市", expected: "新北市"},
		{name: "county alias", input: "苗栗", expected: "苗栗縣"},
		{name: "city and county share prefix", input: "新竹縣", expected: "新竹縣"},
		{name: "city default for ambiguous prefix", input: "新竹", expected: "新竹市"},
		{name: "chiayi city default", input: "嘉義", expected: "嘉義市"},
		{name: "matsu maps to lienchiang", input: "馬祖", expected: "連江縣"},
		{name: "unknown input passes through", input: "火星", expected: "火星"},
		{name: "empty input passes through", input: "", expected: ""},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			if got := Normalize(tc.input); got != tc.expected {
				t.Errorf("Normalize(%q) = %q, want %q", tc.input, got, tc.expected)
			}
		})
	}
}

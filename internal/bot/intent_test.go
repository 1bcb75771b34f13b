package bot

import "testing"

func TestClassify(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name         string
		input        string
		wantKind     IntentKind
		wantLocation string
		wantText     string
	}{
		{
			name:         "weather query with location",
			input:        "天氣 台北",
			wantKind:     IntentWeather,
			wantLocation: "台北",
		},
		{
			name:         "weather query with extra whitespace",
			input:        "天氣   高雄市  ",
			wantKind:     IntentWeather,
			wantLocation: "高雄市",
		},
		{
			name:         "weather prefix without location",
			input:        "天氣 ",
			wantKind:     IntentWeather,
			wantLocation: "",
		},
		{
			name:     "weather word without trailing space is general",
			input:    "天氣",
			wantKind: IntentGeneral,
			wantText: "天氣",
		},
		{
			name:     "weather word embedded in sentence is general",
			input:    "今天天氣 如何",
			wantKind: IntentGeneral,
			wantText: "今天天氣 如何",
		},
		{
			name:     "free-form question",
			input:    "什麼是黑洞？",
			wantKind: IntentGeneral,
			wantText: "什麼是黑洞？",
		},
		{
			name:     "empty message",
			input:    "",
			wantKind: IntentGeneral,
			wantText: "",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			intent := Classify(tc.input)
			if intent.Kind != tc.wantKind {
				t.Errorf("Kind = %v, want %v", intent.Kind, tc.wantKind)
			}
			if intent.Location != tc.wantLocation {
				t.Errorf("Location = %q, want %q", intent.Location, tc.wantLocation)
			}
			if intent.Text != tc.wantText {
				t.Errorf("Text = %q, want %q", intent.Text, tc.wantText)
			}
		})
	}
}

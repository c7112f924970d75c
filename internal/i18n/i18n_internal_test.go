package i18n

import (
	"testing"
)

func TestNewLocalizer(t *testing.T) {
	localizer, err := NewLocalizer()
	if err != nil {
		t.Fatalf("Failed to create localizer: %v", err)
	}

	for _, lang := range SupportedLanguages {
		if len(localizer.translations[lang]) == 0 {
			t.Errorf("%s translations not loaded", lang)
		}
	}
}

func TestCatalogsHaveSameKeys(t *testing.T) {
	localizer, err := NewLocalizer()
	if err != nil {
		t.Fatalf("Failed to create localizer: %v", err)
	}

	reference := localizer.translations[DefaultLanguage]
	for _, lang := range SupportedLanguages {
		for key := range reference {
			if _, ok := localizer.translations[lang][key]; !ok {
				t.Errorf("key %q missing in %s", key, lang)
			}
		}
		if len(localizer.translations[lang]) != len(reference) {
			t.Errorf("%s has %d keys, want %d", lang, len(localizer.translations[lang]), len(reference))
		}
	}
}

func TestGet(t *testing.T) {
	localizer, err := NewLocalizer()
	if err != nil {
		t.Fatalf("Failed to create localizer: %v", err)
	}

	tests := []struct {
		name     string
		lang     string
		key      string
		expected string
	}{
		{
			name:     "English message",
			lang:     "en",
			key:      "equipment.not_found",
			expected: "❌ Equipment not found.",
		},
		{
			name:     "Russian message",
			lang:     "ru",
			key:      "equipment.not_found",
			expected: "❌ Оборудование не найдено.",
		},
		{
			name:     "Fallback to English",
			lang:     "unknown",
			key:      "equipment.not_found",
			expected: "❌ Equipment not found.",
		},
		{
			name:     "Non-existent key returns key itself",
			lang:     "en",
			key:      "non.existent.key",
			expected: "non.existent.key",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := localizer.Get(tt.lang, tt.key)
			if result != tt.expected {
				t.Errorf("Get(%q, %q) = %q, want %q", tt.lang, tt.key, result, tt.expected)
			}
		})
	}
}

func TestGetWithData(t *testing.T) {
	localizer, err := NewLocalizer()
	if err != nil {
		t.Fatalf("Failed to create localizer: %v", err)
	}

	tests := []struct {
		name     string
		lang     string
		key      string
		data     map[string]any
		expected string
	}{
		{
			name:     "Replace single placeholder in English",
			lang:     "en",
			key:      "category.empty",
			data:     map[string]any{"category": "Servers"},
			expected: "😔 There is no equipment in 'Servers' yet.",
		},
		{
			name:     "Replace single placeholder in Russian",
			lang:     "ru",
			key:      "admin.stats.total",
			data:     map[string]any{"count": 8},
			expected: "🔧 Всего оборудования: 8",
		},
		{
			name:     "Replace multiple placeholders",
			lang:     "en",
			key:      "search.results",
			data:     map[string]any{"count": 3, "query": "iphone"},
			expected: "🔍 Found 3 results for 'iphone':",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := localizer.GetWithData(tt.lang, tt.key, tt.data)
			if result != tt.expected {
				t.Errorf("GetWithData(%q, %q, %v) = %q, want %q", tt.lang, tt.key, tt.data, result, tt.expected)
			}
		})
	}
}

func TestNormalizeLanguageCode(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{name: "English", input: "en", expected: "en"},
		{name: "English with region", input: "en-US", expected: "en"},
		{name: "Russian", input: "ru", expected: "ru"},
		{name: "Russian with region", input: "RU-ru", expected: "ru"},
		{name: "Belarusian maps to Russian", input: "be", expected: "ru"},
		{name: "Unknown language defaults to English", input: "de", expected: "en"},
		{name: "Empty string defaults to English", input: "", expected: "en"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := NormalizeLanguageCode(tt.input)
			if result != tt.expected {
				t.Errorf("NormalizeLanguageCode(%q) = %q, want %q", tt.input, result, tt.expected)
			}
		})
	}
}

package reflectpause

import "testing"

func TestDetectLanguage(t *testing.T) {
	tests := []struct {
		name     string
		text     string
		expected string
	}{
		{"chinese", "这个消息可能有问题", "zh"},
		{"japanese kana", "これはひどいメッセージです", "ja"},
		{"japanese with kanji", "私は東京に住んでいます", "ja"},
		{"korean", "이 메시지는 문제가 있을 수 있습니다", "ko"},
		{"arabic", "هذه الرسالة قد تكون مسيئة", "ar"},
		{"hindi", "यह संदेश आपत्तिजनक हो सकता है", "hi"},
		{"russian", "это сообщение может быть оскорбительным", "ru"},
		{"english", "this message might be a problem", "en"},
		{"spanish text is still latin", "este mensaje puede ser un problema", "en"},
		{"empty", "", "en"},
		{"punctuation only", "!?... 123 :-)", "en"},
		{"two letters below threshold", "ab", "en"},
		{"emoji only", "\U0001F600\U0001F4A9", "en"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DetectLanguage(tt.text); got != tt.expected {
				t.Errorf("DetectLanguage(%q) = %q, want %q", tt.text, got, tt.expected)
			}
		})
	}
}

func TestDetectLanguage_MixedContent(t *testing.T) {
	// Latin loanwords and URLs must not dominate a non-Latin message.
	text := "посмотри на github.com это просто ужасно"
	if got := DetectLanguage(text); got != "ru" {
		t.Errorf("DetectLanguage(mixed ru/latin) = %q, want ru", got)
	}

	// Kana presence pulls Han-heavy text to Japanese.
	text = "漢字が多いですが、これは日本語です"
	if got := DetectLanguage(text); got != "ja" {
		t.Errorf("DetectLanguage(kanji-heavy ja) = %q, want ja", got)
	}
}

func TestDetectLanguage_Deterministic(t *testing.T) {
	text := "hello мир 世界"
	first := DetectLanguage(text)
	for i := 0; i < 10; i++ {
		if got := DetectLanguage(text); got != first {
			t.Fatalf("DetectLanguage not deterministic: %q then %q", first, got)
		}
	}
}

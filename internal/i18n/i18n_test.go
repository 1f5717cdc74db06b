package i18n

import (
	"testing"
	"testing/fstest"
)

func TestResolveHonorsQValues(t *testing.T) {
	b, err := LoadDefault("ko")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if got := b.Resolve("ko;q=0.8, en;q=0.9"); got != "en" {
		t.Fatalf("expected en, got %s", got)
	}
	if got := b.Resolve("ko-KR,ko;q=0.9"); got != "ko" {
		t.Fatalf("expected ko, got %s", got)
	}
	if got := b.Resolve("fr-FR"); got != "ko" {
		t.Fatalf("expected fallback ko for unsupported language, got %s", got)
	}
	if got := b.Resolve(""); got != "ko" {
		t.Fatalf("expected fallback ko for empty header, got %s", got)
	}
}

func TestTranslationFallsBackToDefaultThenKey(t *testing.T) {
	fsys := fstest.MapFS{
		"ko.yaml": {Data: []byte("greeting: \"안녕\"\nonly.ko: \"한국어\"\n")},
		"en.yaml": {Data: []byte("greeting: \"hello\"\n")},
	}
	b, err := Load(fsys, "ko", []string{"ko", "en"})
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if got := b.T("en", "greeting"); got != "hello" {
		t.Errorf("expected hello, got %s", got)
	}
	if got := b.T("en", "only.ko"); got != "한국어" {
		t.Errorf("expected fallback translation, got %s", got)
	}
	if got := b.T("en", "missing.key"); got != "missing.key" {
		t.Errorf("expected key echo, got %s", got)
	}
	if got := b.For("de").Lang(); got != "ko" {
		t.Errorf("expected unsupported language to bind fallback, got %s", got)
	}
}

func TestLoadRequiresFallbackLocale(t *testing.T) {
	fsys := fstest.MapFS{"en.yaml": {Data: []byte("a: b\n")}}
	if _, err := Load(fsys, "ko", []string{"ko", "en"}); err == nil {
		t.Fatal("expected error when fallback locale is missing")
	}
}

func TestDefaultMessagesFormat(t *testing.T) {
	b, err := LoadDefault("ko")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	m := b.For("ko")
	if got := m.Tf("items.count", 3); got != "3 items" {
		t.Errorf("unexpected count label %q", got)
	}
	if got := m.Tf("status.failed", "HTTP 500"); got != "데이터 로드 실패: HTTP 500" {
		t.Errorf("unexpected failure line %q", got)
	}
}

func TestLabelFallsBackToRawCode(t *testing.T) {
	labels := DefaultLabels()
	if got := Label(labels.Tags, "Untradeable"); got != "거래불가" {
		t.Errorf("expected mapped tag, got %s", got)
	}
	if got := Label(labels.Tags, "FooBar"); got != "FooBar" {
		t.Errorf("expected raw tag, got %s", got)
	}
	if got := Label(labels.Stats, "AP"); got != "공격력" {
		t.Errorf("expected mapped stat, got %s", got)
	}
	if got := Label(Map{"X": ""}, "X"); got != "X" {
		t.Errorf("expected empty mapping to fall back, got %s", got)
	}
	if got := Label(nil, "AP"); got != "AP" {
		t.Errorf("expected nil dictionary to fall back, got %s", got)
	}
}

func TestParseLabelsMergesOverrides(t *testing.T) {
	labels, err := ParseLabels([]byte("tags:\n  FooBar: \"푸바\"\nstats:\n  AP: \"Attack\"\n"))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if got := Label(labels.Tags, "FooBar"); got != "푸바" {
		t.Errorf("expected override, got %s", got)
	}
	if got := Label(labels.Tags, "Untradeable"); got != "거래불가" {
		t.Errorf("expected default kept, got %s", got)
	}
	if got := Label(labels.Stats, "AP"); got != "Attack" {
		t.Errorf("expected stat override, got %s", got)
	}
	if got := Label(DefaultLabels().Stats, "AP"); got != "공격력" {
		t.Errorf("defaults must not be mutated, got %s", got)
	}
}

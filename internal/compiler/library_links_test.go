package compiler

import (
	"testing"

	"github.com/goodnatureofminers/sourceverify/internal/metadata"
)

func TestAddLibraryLinks(t *testing.T) {
	doc := &metadata.Document{
		Settings: metadata.Settings{
			CompilationTarget: map[string]string{"Main.sol": "Main"},
		},
	}

	err := AddLibraryLinks(doc, map[string]string{"Library": "0xAABBCCDDEEFF00112233445566778899AABBCCDD"})
	if err != nil {
		t.Fatalf("AddLibraryLinks() error: %v", err)
	}

	got := doc.Settings.Libraries["Library"]
	want := "0xaabbccddeeff00112233445566778899aabbccdd"
	if got != want {
		t.Fatalf("linked address = %q, want %q", got, want)
	}
}

func TestAddLibraryLinks_RejectsShortAddress(t *testing.T) {
	doc := &metadata.Document{
		Settings: metadata.Settings{CompilationTarget: map[string]string{"Main.sol": "Main"}},
	}

	if err := AddLibraryLinks(doc, map[string]string{"Library": "0x1234"}); err == nil {
		t.Fatalf("expected error for short address")
	}
}

func TestAddLibraryLinks_NoOpWhenEmpty(t *testing.T) {
	doc := &metadata.Document{
		Settings: metadata.Settings{CompilationTarget: map[string]string{"Main.sol": "Main"}},
	}
	if err := AddLibraryLinks(doc, nil); err != nil {
		t.Fatalf("AddLibraryLinks() error: %v", err)
	}
	if doc.Settings.Libraries != nil {
		t.Fatalf("expected no libraries map to be created for empty links")
	}
}

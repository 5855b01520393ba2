package gateway

import (
	"testing"

	"github.com/fxamacker/cbor/v2"
)

func appendCBORTail(t *testing.T, body []byte, fields map[string]interface{}) []byte {
	t.Helper()

	encoded, err := cbor.Marshal(fields)
	if err != nil {
		t.Fatalf("marshal cbor fields: %v", err)
	}

	length := len(encoded)
	tail := append([]byte{}, encoded...)
	tail = append(tail, byte(length>>8), byte(length))

	return append(append([]byte{}, body...), tail...)
}

func TestExtractSourceAddress_IPFS(t *testing.T) {
	multihash := []byte{0x12, 0x20, 0x01, 0x02, 0x03}
	bytecode := appendCBORTail(t, []byte{0x60, 0x60, 0x60}, map[string]interface{}{
		"ipfs": multihash,
	})

	got, err := ExtractSourceAddress(bytecode)
	if err != nil {
		t.Fatalf("ExtractSourceAddress() error: %v", err)
	}
	want := NewIPFSAddress(multihash)
	if got != want {
		t.Fatalf("ExtractSourceAddress() = %+v, want %+v", got, want)
	}
}

func TestExtractSourceAddress_Bzzr1(t *testing.T) {
	hash := []byte{0xde, 0xad, 0xbe, 0xef}
	bytecode := appendCBORTail(t, []byte{0x60}, map[string]interface{}{
		"bzzr1": hash,
		"solc":  []byte{0x00, 0x08, 0x1e},
	})

	got, err := ExtractSourceAddress(bytecode)
	if err != nil {
		t.Fatalf("ExtractSourceAddress() error: %v", err)
	}
	if got.Origin != OriginBzzr1 {
		t.Fatalf("Origin = %v, want %v", got.Origin, OriginBzzr1)
	}
	if got.ID != "deadbeef" {
		t.Fatalf("ID = %v, want deadbeef", got.ID)
	}
}

func TestExtractSourceAddress_NoRecognizedField(t *testing.T) {
	bytecode := appendCBORTail(t, []byte{0x60}, map[string]interface{}{
		"solc": []byte{0x00, 0x08, 0x1e},
	})

	_, err := ExtractSourceAddress(bytecode)
	if err == nil {
		t.Fatalf("expected error for missing ipfs/bzzr field")
	}
}

func TestExtractSourceAddress_MalformedLength(t *testing.T) {
	bytecode := []byte{0x60, 0x60, 0xff, 0xff} // length far exceeds available bytes
	if _, err := ExtractSourceAddress(bytecode); err == nil {
		t.Fatalf("expected error for malformed length")
	}
}

func TestExtractSourceAddress_TooShort(t *testing.T) {
	if _, err := ExtractSourceAddress([]byte{0x01}); err == nil {
		t.Fatalf("expected error for too-short bytecode")
	}
}

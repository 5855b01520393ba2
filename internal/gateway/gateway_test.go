package gateway

import "testing"

func TestSimpleGateway_WorksWith(t *testing.T) {
	g := NewSimpleGateway("https://swarm.example/bzz:/", OriginBzzr0, OriginBzzr1)

	if !g.WorksWith(OriginBzzr0) {
		t.Fatalf("expected gateway to serve bzzr0")
	}
	if !g.WorksWith(OriginBzzr1) {
		t.Fatalf("expected gateway to serve bzzr1")
	}
	if g.WorksWith(OriginIPFS) {
		t.Fatalf("did not expect gateway to serve ipfs")
	}
}

func TestSimpleGateway_CreateURL(t *testing.T) {
	g := NewSimpleGateway("https://ipfs.example/cat?arg=", OriginIPFS)

	got := g.CreateURL("QmHash")
	want := "https://ipfs.example/cat?arg=QmHash"
	if got != want {
		t.Fatalf("CreateURL() = %q, want %q", got, want)
	}
}

func TestSet_URLFor(t *testing.T) {
	ipfs := NewSimpleGateway("https://ipfs.example/cat?arg=", OriginIPFS)
	swarm := NewSimpleGateway("https://swarm.example/bzz:/", OriginBzzr0, OriginBzzr1)
	set := NewSet(ipfs, swarm)

	tests := []struct {
		name    string
		addr    SourceAddress
		want    string
		wantErr bool
	}{
		{
			name: "ipfs resolved by first gateway",
			addr: SourceAddress{Origin: OriginIPFS, ID: "QmHash"},
			want: "https://ipfs.example/cat?arg=QmHash",
		},
		{
			name: "bzzr1 resolved by second gateway",
			addr: SourceAddress{Origin: OriginBzzr1, ID: "deadbeef"},
			want: "https://swarm.example/bzz:/deadbeef",
		},
		{
			name:    "unknown origin fails",
			addr:    SourceAddress{Origin: "arweave", ID: "x"},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := set.URLFor(tt.addr)
			if (err != nil) != tt.wantErr {
				t.Fatalf("URLFor() error = %v, wantErr %v", err, tt.wantErr)
			}
			if !tt.wantErr && got != tt.want {
				t.Fatalf("URLFor() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestSourceAddress_UniqueID(t *testing.T) {
	a := SourceAddress{Origin: OriginIPFS, ID: "QmHash"}
	if got, want := a.UniqueID(), "ipfs:QmHash"; got != want {
		t.Fatalf("UniqueID() = %q, want %q", got, want)
	}
}

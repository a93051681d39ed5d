package wizard

import (
	"strings"
	"testing"
)

func TestExtractMintReference(t *testing.T) {
	t.Parallel()

	const mint = "7vfCXTUXx5WJV5JADk17DUJ4ksgau7utNKj4b963voxs"

	tests := []struct {
		name string
		in   string
		want string
		ok   bool
	}{
		{
			name: "bare address",
			in:   mint,
			want: mint,
			ok:   true,
		},
		{
			name: "bare address with whitespace",
			in:   "  " + mint + "\n",
			want: mint,
			ok:   true,
		},
		{
			name: "forty char base58 passes through",
			in:   strings.Repeat("A", 40),
			want: strings.Repeat("A", 40),
			ok:   true,
		},
		{
			name: "explorer token url",
			in:   "https://solscan.io/token/" + mint,
			want: mint,
			ok:   true,
		},
		{
			name: "explorer url with query",
			in:   "https://explorer.solana.com/token/" + mint + "?cluster=mainnet",
			want: mint,
			ok:   true,
		},
		{
			name: "address inside sentence",
			in:   "please wrap " + mint + " thanks",
			want: mint,
			ok:   true,
		},
		{
			name: "trailing punctuation",
			in:   "wrap " + mint + ".",
			want: mint,
			ok:   true,
		},
		{
			name: "url without token path is not a bare mint",
			in:   "https://example.com/" + mint,
			want: "",
			ok:   false,
		},
		{
			name: "too short",
			in:   "7vfCXTUXx5WJV5JADk17",
			want: "",
			ok:   false,
		},
		{
			name: "forbidden base58 characters",
			in:   strings.Repeat("0", 44),
			want: "",
			ok:   false,
		},
		{
			name: "plain words",
			in:   "hello there",
			want: "",
			ok:   false,
		},
		{
			name: "empty",
			in:   "",
			want: "",
			ok:   false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got, ok := ExtractMintReference(tt.in)
			if ok != tt.ok {
				t.Fatalf("ExtractMintReference(%q) ok = %v, want %v", tt.in, ok, tt.ok)
			}
			if got != tt.want {
				t.Fatalf("ExtractMintReference(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

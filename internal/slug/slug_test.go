package slug

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
)

func TestMake(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"simple name", "Monstera", "monstera"},
		{"words separated by spaces", "Indoor Plants", "indoor-plants"},
		{"punctuation collapses into one separator", "Fiddle-Leaf  Fig!", "fiddle-leaf-fig"},
		{"leading and trailing junk dropped", "  ~Snake Plant~  ", "snake-plant"},
		{"digits kept", "Ficus 3000", "ficus-3000"},
		{"uppercase lowered", "ALOE VERA", "aloe-vera"},
		{"empty input", "", ""},
		{"only junk", "!!!", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Make(tt.in); got != tt.want {
				t.Errorf("Make(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestMakeTruncates(t *testing.T) {
	long := strings.Repeat("monstera ", 40)
	got := Make(long)

	if len(got) > MaxLength {
		t.Errorf("Make produced %d characters, max is %d", len(got), MaxLength)
	}
	if strings.HasSuffix(got, Separator) {
		t.Errorf("Make left a trailing separator after truncation: %q", got)
	}
}

func TestProperty_SlugsAreURLSafe(t *testing.T) {
	properties := gopter.NewProperties(nil)

	properties.Property("slugs contain only lowercase alphanumerics and single separators", prop.ForAll(
		func(name string) bool {
			s := Make(name)

			if len(s) > MaxLength {
				t.Logf("slug too long: %d", len(s))
				return false
			}
			if strings.HasPrefix(s, Separator) || strings.HasSuffix(s, Separator) {
				t.Logf("slug has boundary separator: %q", s)
				return false
			}
			if strings.Contains(s, Separator+Separator) {
				t.Logf("slug has doubled separator: %q", s)
				return false
			}
			for _, r := range s {
				if (r < 'a' || r > 'z') && (r < '0' || r > '9') && string(r) != Separator {
					t.Logf("slug has invalid character %q: %q", r, s)
					return false
				}
			}
			return true
		},
		gen.RegexMatch(`[ -~]{0,200}`), // printable ASCII, including junk
	))

	properties.TestingRun(t, gopter.ConsoleReporter(false))
}

func TestUnique(t *testing.T) {
	ctx := context.Background()

	t.Run("free base slug is used as-is", func(t *testing.T) {
		got, err := Unique(ctx, "Monstera Deliciosa", func(ctx context.Context, s string) (bool, error) {
			return false, nil
		})
		if err != nil {
			t.Fatalf("Unique returned error: %v", err)
		}
		if got != "monstera-deliciosa" {
			t.Errorf("Unique = %q, want %q", got, "monstera-deliciosa")
		}
	})

	t.Run("collisions get numeric suffixes", func(t *testing.T) {
		taken := map[string]bool{"monstera": true, "monstera-2": true}
		got, err := Unique(ctx, "Monstera", func(ctx context.Context, s string) (bool, error) {
			return taken[s], nil
		})
		if err != nil {
			t.Fatalf("Unique returned error: %v", err)
		}
		if got != "monstera-3" {
			t.Errorf("Unique = %q, want %q", got, "monstera-3")
		}
	})

	t.Run("exhaustion returns ErrExhausted", func(t *testing.T) {
		_, err := Unique(ctx, "Monstera", func(ctx context.Context, s string) (bool, error) {
			return true, nil
		})
		if !errors.Is(err, ErrExhausted) {
			t.Errorf("Unique error = %v, want ErrExhausted", err)
		}
	})

	t.Run("store errors propagate", func(t *testing.T) {
		storeErr := errors.New("connection reset")
		_, err := Unique(ctx, "Monstera", func(ctx context.Context, s string) (bool, error) {
			return false, storeErr
		})
		if !errors.Is(err, storeErr) {
			t.Errorf("Unique error = %v, want wrapped %v", err, storeErr)
		}
	})
}

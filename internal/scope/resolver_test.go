package scope

import (
	"errors"
	"testing"

	m "github.com/SeanPesce/JSRETK/internal/model"
)

// bindingsByName groups resolved bindings for assertion convenience.
func bindingsByName(bindings []m.Binding) map[string][]m.Binding {
	out := make(map[string][]m.Binding)
	for _, b := range bindings {
		out[b.Name] = append(out[b.Name], b)
	}

	return out
}

func TestASTResolverBindings(t *testing.T) {
	t.Run("ranges point at the spelled name", func(t *testing.T) {
		src := "var count = 1; count += 2; use(count);"

		bindings, err := NewASTResolver().Bindings(src)
		if err != nil {
			t.Fatalf("Bindings failed: %v", err)
		}

		for _, b := range bindings {
			for _, r := range b.Ranges {
				if got := src[r.Start:r.End]; got != b.Name {
					t.Errorf("range [%d,%d) spells %q, want %q", r.Start, r.End, got, b.Name)
				}
			}
		}
	})

	t.Run("groups every occurrence of one binding", func(t *testing.T) {
		src := "var count = 1; count += 2; count++;"

		bindings, err := NewASTResolver().Bindings(src)
		if err != nil {
			t.Fatalf("Bindings failed: %v", err)
		}

		byName := bindingsByName(bindings)
		if got := len(byName["count"]); got != 1 {
			t.Fatalf("expected one binding for count, got %d", got)
		}

		if got := len(byName["count"][0].Ranges); got != 3 {
			t.Errorf("expected 3 occurrences of count, got %d", got)
		}
	})

	t.Run("shadowed names are distinct bindings", func(t *testing.T) {
		src := "var x = 1;\nfunction f(x) { return x; }\nx = f(x);"

		bindings, err := NewASTResolver().Bindings(src)
		if err != nil {
			t.Fatalf("Bindings failed: %v", err)
		}

		byName := bindingsByName(bindings)
		if got := len(byName["x"]); got != 2 {
			t.Fatalf("expected 2 distinct bindings for x, got %d", got)
		}

		// The parameter binding covers the declaration and the return; the
		// outer binding covers the other three occurrences.
		counts := map[int]bool{}
		for _, b := range byName["x"] {
			counts[len(b.Ranges)] = true
		}

		if !counts[2] || !counts[3] {
			t.Errorf("expected occurrence counts {2, 3} across the two bindings, got %v", byName["x"])
		}
	})

	t.Run("property names are not occurrences", func(t *testing.T) {
		src := "var a = 1; obj.a = a; var o2 = {a: a};"

		bindings, err := NewASTResolver().Bindings(src)
		if err != nil {
			t.Fatalf("Bindings failed: %v", err)
		}

		byName := bindingsByName(bindings)
		if got := len(byName["a"]); got != 1 {
			t.Fatalf("expected one binding for a, got %d", got)
		}

		// Declaration plus the two value reads; obj.a and the object key
		// must stay untouched.
		if got := len(byName["a"][0].Ranges); got != 3 {
			t.Errorf("expected 3 variable occurrences of a, got %d", got)
		}
	})
}

func TestASTResolverResolveAt(t *testing.T) {
	resolver := NewASTResolver()

	t.Run("resolves an occurrence start offset", func(t *testing.T) {
		src := "var ab = 1; ab += 2;"

		bindings, err := resolver.Bindings(src)
		if err != nil {
			t.Fatalf("Bindings failed: %v", err)
		}

		byName := bindingsByName(bindings)
		if len(byName["ab"]) != 1 {
			t.Fatalf("expected one binding for ab, got %v", bindings)
		}

		want := byName["ab"][0]

		for _, r := range want.Ranges {
			got, err := resolver.ResolveAt(src, r.Start)
			if err != nil {
				t.Fatalf("ResolveAt(%d) failed: %v", r.Start, err)
			}

			if got.Name != "ab" {
				t.Errorf("ResolveAt(%d) resolved %q, want ab", r.Start, got.Name)
			}

			if len(got.Ranges) != len(want.Ranges) {
				t.Errorf("ResolveAt(%d) returned %d ranges, want %d", r.Start, len(got.Ranges), len(want.Ranges))
			}
		}
	})

	t.Run("reports ErrNoBinding elsewhere", func(t *testing.T) {
		src := "var ab = 1;"

		// Offset 0 is the var keyword.
		_, err := resolver.ResolveAt(src, 0)
		if !errors.Is(err, ErrNoBinding) {
			t.Fatalf("expected ErrNoBinding, got %v", err)
		}
	})

	t.Run("fails on unparsable input", func(t *testing.T) {
		if _, err := resolver.ResolveAt("var = = ;", 0); err == nil {
			t.Fatal("expected a parse error")
		}
	})
}

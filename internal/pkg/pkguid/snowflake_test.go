package pkguid

import "testing"

func TestSnowflakeRandomNode(t *testing.T) {
	for range 20 {
		gen, err := NewSnowflake(-1)
		if err != nil {
			t.Fatalf("NewSnowflake: %v", err)
		}
		if n := gen.Node(); n < 0 || n > 1023 {
			t.Fatalf("node %d outside 0..1023", n)
		}
	}
}

func TestSnowflakeIncreasing(t *testing.T) {
	gen, err := NewSnowflake(7)
	if err != nil {
		t.Fatalf("NewSnowflake: %v", err)
	}
	if gen.Node() != 7 {
		t.Fatalf("Node() = %d", gen.Node())
	}

	prev := gen.Generate()
	for range 100 {
		next := gen.Generate()
		if next <= prev {
			t.Fatalf("ids not increasing: %d then %d", prev, next)
		}
		prev = next
	}
}

func TestSnowflakeNodeOutOfRange(t *testing.T) {
	if _, err := NewSnowflake(4096); err == nil {
		t.Fatal("expected error for node 4096")
	}
}

package fsm

import "testing"

func TestShortenExtendsByOneChar(t *testing.T) {
	got := Shorten("s", "short")
	if got != "sh" {
		t.Fatalf("got %q, want %q", got, "sh")
	}
}

func TestShortenSentinelAtFullWord(t *testing.T) {
	got := Shorten("short", "short")
	if got != "short" {
		t.Fatalf("got %q, want unchanged %q", got, "short")
	}
}

func TestShortenPanicsPastFullWord(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic expanding past full word")
		}
	}()
	Shorten("short", "sh")
}

// Scenario 5: prefix-conflict disambiguation between "signed" and "short".
func TestConflictResolverDisambiguatesSignedShort(t *testing.T) {
	root := NewNull()
	signed := NewKeyword("signed")
	short := NewKeyword("short")

	AddChildCycleSafe(root, signed)
	AddChildCycleSafe(root, short)

	if signed.Short != "si" {
		t.Fatalf("signed.Short = %q, want %q", signed.Short, "si")
	}
	if short.Short != "sh" {
		t.Fatalf("short.Short = %q, want %q", short.Short, "sh")
	}
}

func TestNodeAppendChildDedups(t *testing.T) {
	root := NewNull()
	k := NewKeyword("int")
	root.AppendChild(k)
	root.AppendChild(k)
	if root.ChildCount() != 1 {
		t.Fatalf("ChildCount = %d, want 1 (I2)", root.ChildCount())
	}
}

func TestLeavesNoChildren(t *testing.T) {
	root := NewNull()
	k := NewKeyword("int")
	root.AppendChild(k)
	leaves := Leaves(root)
	if len(leaves) != 1 || leaves[0].ID != k.ID {
		t.Fatalf("Leaves = %v, want [%d]", leaves, k.ID)
	}
}

func TestAddChildToAllLeaves(t *testing.T) {
	root := NewNull()
	a := NewKeyword("a")
	b := NewKeyword("b")
	root.AppendChild(a)
	root.AppendChild(b)

	x := NewKeyword("x")
	AddChildToAllLeaves(root, x)

	if a.ChildCount() != 1 || a.Children()[0].ID != x.ID {
		t.Fatalf("a's children = %v, want [x]", a.Children())
	}
	if b.ChildCount() != 1 || b.Children()[0].ID != x.ID {
		t.Fatalf("b's children = %v, want [x]", b.Children())
	}
}

func TestDeepCloneFreshIDsSameShape(t *testing.T) {
	root := NewNull()
	a := NewKeyword("a")
	root.AppendChild(a)

	clone := DeepClone(root)
	if clone.ID == root.ID {
		t.Fatal("clone got same ID as original root")
	}
	if clone.ChildCount() != 1 {
		t.Fatalf("clone ChildCount = %d, want 1", clone.ChildCount())
	}
	cc := clone.Children()[0]
	if cc.ID == a.ID {
		t.Fatal("cloned child got same ID as original")
	}
	if cc.Kind != KKeyword || cc.Expanded != "a" {
		t.Fatalf("cloned child = %+v, want Keyword(a)", cc)
	}
}

func TestDeepClonePreservesCycle(t *testing.T) {
	root := NewNull()
	loop := NewNull()
	root.AppendChild(loop)
	loop.AppendChild(root) // cycle: loop -> root

	clone := DeepClone(root)
	cloneLoop := clone.Children()[0]
	if cloneLoop.ChildCount() != 1 {
		t.Fatalf("cloned loop ChildCount = %d, want 1", cloneLoop.ChildCount())
	}
	if cloneLoop.Children()[0].ID != clone.ID {
		t.Fatal("cloned cycle does not point back to cloned root")
	}
}

func TestMinifyCollapsesNullChain(t *testing.T) {
	root := NewNull()
	mid := NewNull()
	leaf := NewKeyword("int")
	root.AppendChild(mid)
	mid.AppendChild(leaf)

	Minify(root)

	if root.ChildCount() != 1 {
		t.Fatalf("root ChildCount after minify = %d, want 1", root.ChildCount())
	}
	if root.Children()[0].ID != leaf.ID {
		t.Fatalf("root's only child after minify = %+v, want the keyword leaf", root.Children()[0])
	}
}

func TestMinifyCollapsesChainEndingInChildlessNull(t *testing.T) {
	// Mirrors the lowerer's own output shape: keyword -> exit(Null) ->
	// finalNull(Null-leaf). exit has a single Null child (finalNull) which
	// itself has no children at all.
	signed := NewKeyword("signed")
	exit := NewNull()
	finalNull := NewNull()
	signed.AppendChild(exit)
	exit.AppendChild(finalNull)

	root := NewNull()
	root.AppendChild(signed)

	Minify(root)

	if exit.ChildCount() != 0 {
		t.Fatalf("exit ChildCount after minify = %d, want 0", exit.ChildCount())
	}
}

func TestMinifyDedupesDirectChildren(t *testing.T) {
	root := NewNull()
	k := NewKeyword("int")
	root.AppendChild(k)
	Minify(root)
	if root.ChildCount() != 1 {
		t.Fatalf("ChildCount after minify = %d, want 1", root.ChildCount())
	}
}

func TestComputeFollowers(t *testing.T) {
	combo, err := NewUserDefinedCombo("[0-9]+")
	if err != nil {
		t.Fatal(err)
	}
	uwu := NewKeyword("uwu")
	combo.AppendChild(uwu)

	ComputeFollowers(combo)

	if !combo.HasFollower('u') {
		t.Fatalf("followers = %q, want to contain 'u'", combo.Followers())
	}
}

func TestNodeCount(t *testing.T) {
	root := NewNull()
	a := NewKeyword("a")
	b := NewKeyword("b")
	root.AppendChild(a)
	root.AppendChild(b)
	if got := root.NodeCount(); got != 3 {
		t.Fatalf("NodeCount = %d, want 3", got)
	}
}

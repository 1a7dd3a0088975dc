package bvh

import (
	"context"
	"testing"
)

func TestRotateDisabledIsNoop(t *testing.T) {
	scene, pool := gridTriangleScene(64)
	p := DefaultParams()
	p.UseRotations = false

	root, _, _, err := Build(context.Background(), scene, pool, p, nil, nil)
	if err != nil {
		t.Fatal(err)
	}
	before := root.Visit(StatNodeCount)
	Rotate(p, root)
	after := root.Visit(StatNodeCount)
	if before != after {
		t.Errorf("disabled Rotate changed node count: %d -> %d", before, after)
	}
}

func TestRotateNeverIncreasesSAHCost(t *testing.T) {
	scene, pool := gridTriangleScene(128)
	p := DefaultParams()
	p.UseRotations = true

	root, _, _, err := Build(context.Background(), scene, pool, p, nil, nil)
	if err != nil {
		t.Fatal(err)
	}

	before := root.SubtreeSAHCost(p, 1)
	Rotate(p, root)
	after := root.SubtreeSAHCost(p, 1)

	if after > before+1e-3 {
		t.Errorf("Rotate increased SAH cost: %v -> %v", before, after)
	}
}

func TestRotatePreservesPrimitiveCount(t *testing.T) {
	scene, pool := gridTriangleScene(128)
	p := DefaultParams()

	root, out, _, err := Build(context.Background(), scene, pool, p, nil, nil)
	if err != nil {
		t.Fatal(err)
	}
	before := root.Visit(StatPrimitiveCount)
	Rotate(p, root)
	after := root.Visit(StatPrimitiveCount)

	if before != after {
		t.Errorf("Rotate changed total leaf primitive count: %d -> %d", before, after)
	}
	if after != len(out.PrimIndex) {
		t.Errorf("leaf primitive count %d does not match output length %d", after, len(out.PrimIndex))
	}
}

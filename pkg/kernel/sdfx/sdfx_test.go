package sdfx

import (
	"math"
	"testing"
)

func TestBox(t *testing.T) {
	k := New(4)
	box := k.Box(1, 1, 1)
	mesh, err := k.ToMesh(box)
	if err != nil {
		t.Fatalf("ToMesh failed: %v", err)
	}
	if mesh.IsEmpty() {
		t.Fatal("mesh is empty")
	}
	if mesh.TriangleCount() == 0 {
		t.Fatal("expected non-zero triangle count")
	}
	// Verify vertex and index array sizes are consistent.
	if len(mesh.Vertices) != len(mesh.Normals) {
		t.Fatalf("vertices length %d != normals length %d", len(mesh.Vertices), len(mesh.Normals))
	}
	if len(mesh.Indices) != mesh.TriangleCount()*3 {
		t.Fatalf("indices length %d != triCount*3 %d", len(mesh.Indices), mesh.TriangleCount()*3)
	}
	t.Logf("unit box triangle count: %d", mesh.TriangleCount())
}

func TestBoxMinCornerAtOrigin(t *testing.T) {
	k := New(0)
	min, max := k.Box(1, 2, 3).BoundingBox()

	const tol = 0.01
	expectMin := [3]float64{0, 0, 0}
	expectMax := [3]float64{1, 2, 3}
	for i := 0; i < 3; i++ {
		if math.Abs(min[i]-expectMin[i]) > tol {
			t.Errorf("min[%d] = %f, expected %f", i, min[i], expectMin[i])
		}
		if math.Abs(max[i]-expectMax[i]) > tol {
			t.Errorf("max[%d] = %f, expected %f", i, max[i], expectMax[i])
		}
	}
}

func TestTranslate(t *testing.T) {
	k := New(0)
	translated := k.Translate(k.Box(1, 1, 1), -1, 0, 2)
	min, max := translated.BoundingBox()

	const tol = 0.01
	expectMin := [3]float64{-1, 0, 2}
	expectMax := [3]float64{0, 1, 3}
	for i := 0; i < 3; i++ {
		if math.Abs(min[i]-expectMin[i]) > tol {
			t.Errorf("min[%d] = %f, expected ~%f", i, min[i], expectMin[i])
		}
		if math.Abs(max[i]-expectMax[i]) > tol {
			t.Errorf("max[%d] = %f, expected ~%f", i, max[i], expectMax[i])
		}
	}
}

func TestUnion(t *testing.T) {
	k := New(4)
	box1 := k.Box(1, 1, 1)
	box2 := k.Translate(k.Box(1, 1, 1), 1, 0, 0)
	u := k.Union(box1, box2)

	min, max := u.BoundingBox()
	if math.Abs(min[0]) > 0.01 || math.Abs(max[0]-2) > 0.01 {
		t.Errorf("union X extent = [%f, %f], expected [0, 2]", min[0], max[0])
	}

	mesh, err := k.ToMesh(u)
	if err != nil {
		t.Fatalf("ToMesh failed: %v", err)
	}
	if mesh.IsEmpty() {
		t.Fatal("union mesh is empty")
	}
	t.Logf("union triangle count: %d", mesh.TriangleCount())
}

func TestMeshCellsScalesWithSize(t *testing.T) {
	k := New(5)
	small := k.meshCells(unwrap(k.Box(1, 1, 1)))
	large := k.meshCells(unwrap(k.Box(3, 1, 1)))
	if small != 5 {
		t.Errorf("unit box cells = %d, want 5", small)
	}
	if large != 15 {
		t.Errorf("3-long box cells = %d, want 15", large)
	}
}

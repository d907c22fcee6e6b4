package storage

import (
	"testing"
	"time"
)

func TestStoreSaveLoad(t *testing.T) {
	st := New(t.TempDir())
	if err := st.Init(); err != nil {
		t.Fatalf("init failed: %v", err)
	}

	meta := RunMetadata{
		Input:     "/data/collision.lammpstrj",
		OutputDir: "frames",
		Format:    "png",
		Rotation:  [3]float64{0, 45, 30},
		Scale:     10,
		Workers:   2,
	}
	frames := []FrameRecord{
		{Index: 0, Timestep: 0, File: "frames/frame.0000.png", Width: 200, Height: 180, Particles: 10, Drawn: 8},
		{Index: 1, Timestep: 100, File: "", Width: 0, Height: 180, Particles: 10, Drawn: 10},
	}

	runID, err := st.Save(meta, frames)
	if err != nil {
		t.Fatalf("save failed: %v", err)
	}
	if runID == "" {
		t.Fatal("expected non-empty run id")
	}

	got, err := st.Load(runID)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if got.Input != meta.Input || got.Frames != 2 || got.Rotation[1] != 45 {
		t.Errorf("unexpected metadata %+v", got)
	}

	loaded, err := st.LoadFrames(runID)
	if err != nil {
		t.Fatalf("load frames failed: %v", err)
	}
	if len(loaded) != 2 {
		t.Fatalf("expected 2 frames, got %d", len(loaded))
	}
	if loaded[0] != frames[0] || loaded[1] != frames[1] {
		t.Errorf("frames changed: %+v", loaded)
	}
}

func TestStoreList(t *testing.T) {
	st := New(t.TempDir())
	if err := st.Init(); err != nil {
		t.Fatal(err)
	}

	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	for i, name := range []string{"b.lammpstrj", "a.lammpstrj"} {
		meta := RunMetadata{Input: name, Timestamp: base.Add(time.Duration(i) * time.Minute)}
		if _, err := st.Save(meta, nil); err != nil {
			t.Fatalf("save: %v", err)
		}
	}

	runs, err := st.List()
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(runs) != 2 {
		t.Fatalf("expected 2 runs, got %d", len(runs))
	}
	if runs[0].Input != "b.lammpstrj" {
		t.Errorf("expected oldest run first, got %s", runs[0].Input)
	}
}

func TestListMissingDir(t *testing.T) {
	runs, err := New(t.TempDir() + "/missing").List()
	if err != nil || len(runs) != 0 {
		t.Errorf("expected empty list, got %v, %v", runs, err)
	}
}

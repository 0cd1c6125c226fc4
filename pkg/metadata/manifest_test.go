package metadata

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func writeFiles(t *testing.T, dir string, files map[string][]byte) {
	t.Helper()

	for name, content := range files {
		if err := os.WriteFile(filepath.Join(dir, name), content, 0o644); err != nil {
			t.Fatalf("failed to write %s: %v", name, err)
		}
	}
}

func TestCalculateHash(t *testing.T) {
	// sha256("abc")
	expected := "ba7816bf8f01cfea414140de5dae2223b00361a396177a9cb410ff61f20015ad"

	if got := CalculateHash([]byte("abc")); got != expected {
		t.Errorf("CalculateHash() = %s, want %s", got, expected)
	}
}

func TestSignSaveVerify(t *testing.T) {
	dir := t.TempDir()
	files := map[string][]byte{
		"fact_bookings.csv": []byte("fact_id\n1\n"),
		"dim_guest.csv":     []byte("guest_key\n1\n"),
	}
	writeFiles(t, dir, files)

	m := Sign(files, "run-1")
	if err := m.Save(dir); err != nil {
		t.Fatalf("Save returned unexpected error: %v", err)
	}

	got, err := Verify(dir)
	if err != nil {
		t.Fatalf("Verify returned unexpected error: %v", err)
	}

	if got.RunID != "run-1" || got.Version != Version {
		t.Errorf("manifest = %+v", got)
	}

	names := got.Names()
	if len(names) != 2 || names[0] != "dim_guest.csv" || names[1] != "fact_bookings.csv" {
		t.Errorf("Names() = %v", names)
	}
}

func TestVerify_Errors(t *testing.T) {
	t.Run("missing manifest", func(t *testing.T) {
		if _, err := Verify(t.TempDir()); !errors.Is(err, ErrNoManifest) {
			t.Errorf("Verify() error = %v, want ErrNoManifest", err)
		}
	})

	t.Run("tampered table", func(t *testing.T) {
		dir := t.TempDir()
		files := map[string][]byte{"dim_room.csv": []byte("room_key\n1\n")}
		writeFiles(t, dir, files)

		if err := Sign(files, "run").Save(dir); err != nil {
			t.Fatalf("Save returned unexpected error: %v", err)
		}

		writeFiles(t, dir, map[string][]byte{"dim_room.csv": []byte("room_key\n2\n")})

		if _, err := Verify(dir); !errors.Is(err, ErrHashMismatch) {
			t.Errorf("Verify() error = %v, want ErrHashMismatch", err)
		}
	})

	t.Run("missing hash", func(t *testing.T) {
		dir := t.TempDir()
		m := &Manifest{Version: Version, Tables: map[string]string{"dim_date.csv": ""}}

		if err := m.Save(dir); err != nil {
			t.Fatalf("Save returned unexpected error: %v", err)
		}

		if _, err := Verify(dir); !errors.Is(err, ErrNoHashFound) {
			t.Errorf("Verify() error = %v, want ErrNoHashFound", err)
		}
	})

	t.Run("empty manifest", func(t *testing.T) {
		dir := t.TempDir()
		if err := (&Manifest{Version: Version}).Save(dir); err != nil {
			t.Fatalf("Save returned unexpected error: %v", err)
		}

		if _, err := Verify(dir); !errors.Is(err, ErrEmptyTables) {
			t.Errorf("Verify() error = %v, want ErrEmptyTables", err)
		}
	})
}

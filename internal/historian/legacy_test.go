package historian

import (
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

func TestLoadLegacyFile(t *testing.T) {
	dir := t.TempDir()

	tests := []struct {
		name      string
		content   *string
		want      []int
		malformed bool
	}{
		{name: "Missing", content: nil, want: nil},
		{name: "Valid", content: ptr("[15, 15, 9, 0, 23]"), want: []int{15, 15, 9, 0, 23}},
		{name: "EmptyArray", content: ptr("[]"), want: []int{}},
		{name: "NotJSON", content: ptr("15,16"), malformed: true},
		{name: "Truncated", content: ptr("[15, 1"), malformed: true},
		{name: "OutOfRange", content: ptr("[3, 24]"), malformed: true},
		{name: "WrongType", content: ptr(`{"hours": [1]}`), malformed: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(dir, tt.name+".json")
			if tt.content != nil {
				if err := os.WriteFile(path, []byte(*tt.content), 0o600); err != nil {
					t.Fatal(err)
				}
			}

			got, err := LoadLegacyFile(path)
			if tt.malformed {
				if !errors.Is(err, ErrMalformedHistory) {
					t.Errorf("expected ErrMalformedHistory, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("LoadLegacyFile() error = %v", err)
			}
			if len(got) != len(tt.want) || (len(got) > 0 && !reflect.DeepEqual(got, tt.want)) {
				t.Errorf("LoadLegacyFile() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestSaveLegacyFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "export", "upload_history.json")

	if err := SaveLegacyFile(path, []int{15, 9}); err != nil {
		t.Fatalf("SaveLegacyFile() error = %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "[15,9]" {
		t.Errorf("file content = %s, want [15,9]", data)
	}
	if _, err := os.Stat(path + ".tmp"); !os.IsNotExist(err) {
		t.Error("temp file should be renamed away")
	}

	if err := SaveLegacyFile(path, nil); err != nil {
		t.Fatal(err)
	}
	data, _ = os.ReadFile(path)
	if string(data) != "[]" {
		t.Errorf("nil history should be written as [], got %s", data)
	}
}

func ptr(s string) *string { return &s }

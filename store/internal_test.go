package store

import (
	"errors"
	"testing"
)

func TestConfigValidate(t *testing.T) {
	var cfg Config
	cfg.Validate()

	if cfg.KeyFunc == nil {
		t.Fatal("expected Validate to default KeyFunc")
	}
	if cfg.KeyFunc() == "" {
		t.Error("expected default KeyFunc to produce non-empty keys")
	}
	if cfg.AssignKeys {
		t.Error("expected AssignKeys to default to false")
	}
}

func TestConfigResolveKey(t *testing.T) {
	tests := []struct {
		name       string
		assignKeys bool
		in         string
		want       string
		wantErr    error
	}{
		{"caller key kept", false, "abc", "abc", nil},
		{"caller key kept when assigning", true, "abc", "abc", nil},
		{"empty rejected", false, "", "", ErrEmptyKey},
		{"empty assigned", true, "", "generated", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Config{
				AssignKeys: tt.assignKeys,
				KeyFunc:    func() string { return "generated" },
			}
			got, err := cfg.ResolveKey(tt.in)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("expected error %v, got %v", tt.wantErr, err)
			}
			if got != tt.want {
				t.Errorf("expected key %q, got %q", tt.want, got)
			}
		})
	}
}

func TestEntityClone(t *testing.T) {
	original := Entity{
		Key:    "1",
		Fields: map[string]any{"title": "A"},
	}

	copied := original.clone()
	copied.Fields["title"] = "B"

	if original.Fields["title"] != "A" {
		t.Error("clone shares the fields map with the original")
	}

	empty := Entity{Key: "2"}
	if got := empty.clone(); got.Key != "2" || got.Fields != nil {
		t.Errorf("expected clone of fieldless entity to stay fieldless, got %+v", got)
	}
}

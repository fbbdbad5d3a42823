package errors

import (
	"testing"
)

func TestValidatePath(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"valid wad", "Champions/Xerath.wad.client", false},
		{"valid nested", "DATA/FINAL/Maps/Shipping/Map11.wad.client", false},
		{"valid dots in name", "a..b/c", false},

		{"empty", "", true},
		{"too long", string(make([]byte, 600)), true},
		{"absolute", "/etc/passwd", true},
		{"drive letter", "C:/Riot Games", true},
		{"traversal", "Champions/../../secret", true},
		{"backslash", "Champions\\Xerath.wad.client", true},
		{"null byte", "foo\x00bar", true},
		{"newline", "foo\nbar", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidatePath(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidatePath(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if err != nil && !Is(err, ErrCodeInvalidPath) {
				t.Errorf("ValidatePath(%q) code = %v, want %v", tt.input, GetCode(err), ErrCodeInvalidPath)
			}
		})
	}
}

func TestValidateFilename(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"hashed bin", "a120033c1ad32987.json", false},
		{"named bin", "skin5.bin.json", false},

		{"empty", "", true},
		{"slash", "data/skin.json", true},
		{"backslash", "data\\skin.json", true},
		{"dotdot", "..", true},
		{"control", "skin\x07.json", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateFilename(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateFilename(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
		})
	}
}

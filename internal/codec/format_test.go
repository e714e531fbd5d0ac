package codec

import "testing"

func TestParseFormat(t *testing.T) {
	cases := []struct {
		input   string
		want    Format
		wantErr bool
	}{
		{"heic", FormatHEIC, false},
		{"HEIF", FormatHEIC, false},
		{"jpeg", FormatJPEG, false},
		{"jpg", FormatJPEG, false},
		{" JPEG ", FormatJPEG, false},
		{"webp", 0, true},
		{"", 0, true},
	}
	for _, tc := range cases {
		got, err := ParseFormat(tc.input)
		if tc.wantErr {
			if err == nil {
				t.Errorf("ParseFormat(%q): expected error", tc.input)
			}
			continue
		}
		if err != nil {
			t.Errorf("ParseFormat(%q): %v", tc.input, err)
			continue
		}
		if got != tc.want {
			t.Errorf("ParseFormat(%q) = %v, want %v", tc.input, got, tc.want)
		}
	}
}

func TestFormatExtension(t *testing.T) {
	if got := FormatHEIC.Extension(); got != ".heic" {
		t.Errorf("heic extension = %q", got)
	}
	if got := FormatJPEG.Extension(); got != ".jpg" {
		t.Errorf("jpeg extension = %q", got)
	}
}

func TestAcceptsInput(t *testing.T) {
	if !FormatHEIC.AcceptsInput(".JPG") {
		t.Error("heic mode should accept .jpg sources case-insensitively")
	}
	if FormatHEIC.AcceptsInput(".heic") {
		t.Error("heic mode should not accept .heic sources")
	}
	if !FormatJPEG.AcceptsInput(".heic") {
		t.Error("jpeg mode should accept .heic sources")
	}
	if FormatJPEG.AcceptsInput(".png") {
		t.Error("jpeg mode should not accept .png sources")
	}
}

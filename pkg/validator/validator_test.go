package validator

import "testing"

type langRequest struct {
	Language string `validate:"required,langcode"`
}

func TestLangcodeTag(t *testing.T) {
	v := New()
	tests := []struct {
		code    string
		wantErr bool
	}{
		{"fr", false},
		{"pt-BR", false},
		{"zh_hant", false},
		{"yue", false},
		{"", true},
		{"f", true},
		{"french!", true},
		{"en us", true},
	}

	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			err := v.Validate(langRequest{Language: tt.code})
			if (err != nil) != tt.wantErr {
				t.Fatalf("Validate(%q) error = %v, wantErr %v", tt.code, err, tt.wantErr)
			}
		})
	}
}

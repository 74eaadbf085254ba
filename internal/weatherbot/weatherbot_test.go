package weatherbot

import "testing"

func TestParseModelString(t *testing.T) {
	tests := []struct {
		name         string
		input        string
		wantProvider string
		wantModel    string
		wantErr      bool
	}{
		{
			name:         "valid openai model",
			input:        "openai:gpt-4o-mini",
			wantProvider: "openai",
			wantModel:    "gpt-4o-mini",
			wantErr:      false,
		},
		{
			name:         "model with colon",
			input:        "openai:ft:gpt-4o-mini:acme",
			wantProvider: "openai",
			wantModel:    "ft:gpt-4o-mini:acme",
			wantErr:      false,
		},
		{
			name:         "with whitespace",
			input:        " openai : gpt-4o ",
			wantProvider: "openai",
			wantModel:    "gpt-4o",
			wantErr:      false,
		},
		{
			name:    "missing colon",
			input:   "openai-gpt-4o",
			wantErr: true,
		},
		{
			name:    "empty provider",
			input:   ":gpt-4o",
			wantErr: true,
		},
		{
			name:    "empty model",
			input:   "openai:",
			wantErr: true,
		},
		{
			name:    "empty string",
			input:   "",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			provider, model, err := ParseModelString(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ParseModelString() error = %v, wantErr %v", err, tt.wantErr)
				return
			}
			if provider != tt.wantProvider {
				t.Errorf("ParseModelString() provider = %v, want %v", provider, tt.wantProvider)
			}
			if model != tt.wantModel {
				t.Errorf("ParseModelString() model = %v, want %v", model, tt.wantModel)
			}
		})
	}
}

func TestFormatModelString(t *testing.T) {
	got := FormatModelString("openai", "gpt-4o-mini")
	if got != "openai:gpt-4o-mini" {
		t.Errorf("FormatModelString() = %q, want %q", got, "openai:gpt-4o-mini")
	}

	provider, model, err := ParseModelString(got)
	if err != nil || provider != "openai" || model != "gpt-4o-mini" {
		t.Errorf("ParseModelString(FormatModelString()) = %q, %q, %v", provider, model, err)
	}
}

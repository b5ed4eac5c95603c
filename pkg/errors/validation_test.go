package errors

import "testing"

func TestValidatePythonPackageName(t *testing.T) {
	tests := []struct {
		name    string
		wantErr bool
	}{
		{"torchmetrics", false},
		{"pytorch-lightning", false},
		{"typing_extensions", false},
		{"Flask", false},
		{"a", false},
		{"", true},
		{"-leading-dash", true},
		{"trailing-dash-", true},
		{"has space", true},
		{"../etc/passwd", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidatePythonPackageName(tt.name)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidatePythonPackageName(%q) error = %v, wantErr %v", tt.name, err, tt.wantErr)
			}
		})
	}
}

func TestValidateManifestFilename(t *testing.T) {
	tests := []struct {
		name    string
		wantErr bool
	}{
		{"pyproject.toml", false},
		{"poetry.lock", false},
		{"", true},
		{"dir/pyproject.toml", true},
		{".hidden", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateManifestFilename(tt.name)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateManifestFilename(%q) error = %v, wantErr %v", tt.name, err, tt.wantErr)
			}
		})
	}
}

func TestValidatePath(t *testing.T) {
	if err := ValidatePath("configs/pyproject.toml"); err != nil {
		t.Errorf("ValidatePath failed: %v", err)
	}
	if err := ValidatePath("../secret"); err == nil {
		t.Error("ValidatePath accepted path traversal")
	}
	if err := ValidatePath(""); err == nil {
		t.Error("ValidatePath accepted empty path")
	}
}

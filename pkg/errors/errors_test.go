package errors

import (
	"errors"
	"testing"
)

func TestPipelineError(t *testing.T) {
	tests := []struct {
		name       string
		category   ErrorCategory
		code       ErrorCode
		message    string
		cause      error
		expectCode int
	}{
		{
			name:       "file error",
			category:   CategoryFile,
			code:       CodeFileNotFound,
			message:    "file not found",
			cause:      errors.New("no such file"),
			expectCode: 2,
		},
		{
			name:       "parse error",
			category:   CategoryParse,
			code:       CodeInvalidFormat,
			message:    "invalid format",
			cause:      nil,
			expectCode: 3,
		},
		{
			name:       "configuration error",
			category:   CategoryConfiguration,
			code:       CodeInvalidConfig,
			message:    "invalid config",
			cause:      errors.New("missing field"),
			expectCode: 4,
		},
		{
			name:       "network error",
			category:   CategoryNetwork,
			code:       CodeConnectionFailed,
			message:    "connection failed",
			cause:      errors.New("refused"),
			expectCode: 6,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var err *PipelineError
			if tt.cause != nil {
				err = Wrap(tt.cause, tt.category, tt.code, tt.message)
			} else {
				err = New(tt.category, tt.code, tt.message)
			}

			// Test basic properties
			if err.Category != tt.category {
				t.Errorf("expected category %s, got %s", tt.category, err.Category)
			}
			if err.Code != tt.code {
				t.Errorf("expected code %s, got %s", tt.code, err.Code)
			}
			if err.Message != tt.message {
				t.Errorf("expected message %s, got %s", tt.message, err.Message)
			}

			// Test exit code
			if err.GetExitCode() != tt.expectCode {
				t.Errorf("expected exit code %d, got %d", tt.expectCode, err.GetExitCode())
			}

			// Test error interface
			if err.Error() != tt.message {
				t.Errorf("expected error string %s, got %s", tt.message, err.Error())
			}

			// Test unwrapping
			if tt.cause != nil && err.Unwrap() != tt.cause {
				t.Errorf("expected to unwrap to %v, got %v", tt.cause, err.Unwrap())
			}
		})
	}
}

func TestPipelineErrorWithContext(t *testing.T) {
	err := New(CategoryFile, CodeFileNotFound, "test error").
		WithContext("file", "/path/to/file").
		WithContext("line", 42).
		WithSuggestion("check file path")

	// Test context
	if err.Context["file"] != "/path/to/file" {
		t.Errorf("expected file context '/path/to/file', got %v", err.Context["file"])
	}
	if err.Context["line"] != 42 {
		t.Errorf("expected line context 42, got %v", err.Context["line"])
	}

	// Test suggestion
	if err.Suggestion != "check file path" {
		t.Errorf("expected suggestion 'check file path', got %s", err.Suggestion)
	}

	// Test error string with suggestion
	expected := "test error (suggestion: check file path)"
	if err.Error() != expected {
		t.Errorf("expected error string '%s', got '%s'", expected, err.Error())
	}
}

func TestSpecificErrorConstructors(t *testing.T) {
	t.Run("FileError", func(t *testing.T) {
		cause := errors.New("permission denied")
		err := FileError(CodeFilePermission, "/test/sales_data.txt", cause)

		if err.Category != CategoryFile {
			t.Errorf("expected file category, got %s", err.Category)
		}
		if err.Code != CodeFilePermission {
			t.Errorf("expected permission code, got %s", err.Code)
		}
		if err.Context["file_path"] != "/test/sales_data.txt" {
			t.Errorf("expected file_path context, got %v", err.Context["file_path"])
		}
		if err.Suggestion == "" {
			t.Error("expected suggestion to be set")
		}
		if err.Cause != cause {
			t.Errorf("expected cause to be %v, got %v", cause, err.Cause)
		}
	})

	t.Run("ParseError", func(t *testing.T) {
		err := ParseError(CodeEncodingError, "sales_data.txt", nil)

		if err.Category != CategoryParse {
			t.Errorf("expected parse category, got %s", err.Category)
		}
		if err.Context["file"] != "sales_data.txt" {
			t.Errorf("expected file context, got %v", err.Context["file"])
		}
	})

	t.Run("ValidationError", func(t *testing.T) {
		err := ValidationError(CodeInvalidAmount, "unit_price", "invalid", nil)

		if err.Category != CategoryValidation {
			t.Errorf("expected validation category, got %s", err.Category)
		}
		if err.Context["field"] != "unit_price" {
			t.Errorf("expected field context, got %v", err.Context["field"])
		}
		if err.Context["value"] != "invalid" {
			t.Errorf("expected value context, got %v", err.Context["value"])
		}
	})

	t.Run("NetworkError", func(t *testing.T) {
		err := NetworkError(CodeTimeout, "https://dummyjson.com/products", errors.New("deadline exceeded"))

		if err.Category != CategoryNetwork {
			t.Errorf("expected network category, got %s", err.Category)
		}
		if err.Context["endpoint"] != "https://dummyjson.com/products" {
			t.Errorf("expected endpoint context, got %v", err.Context["endpoint"])
		}
		if err.GetExitCode() != 6 {
			t.Errorf("expected exit code 6, got %d", err.GetExitCode())
		}
	})
}

func TestIsPipelineError(t *testing.T) {
	pipelineErr := New(CategoryFile, CodeFileNotFound, "test")
	genericErr := errors.New("generic error")

	if !IsPipelineError(pipelineErr) {
		t.Error("expected IsPipelineError to return true for PipelineError")
	}
	if IsPipelineError(genericErr) {
		t.Error("expected IsPipelineError to return false for generic error")
	}
	if IsPipelineError(nil) {
		t.Error("expected IsPipelineError to return false for nil")
	}
}

func TestAsPipelineError(t *testing.T) {
	pipelineErr := New(CategoryFile, CodeFileNotFound, "test")
	genericErr := errors.New("generic error")

	// Test with PipelineError
	if extracted, ok := AsPipelineError(pipelineErr); !ok || extracted != pipelineErr {
		t.Error("expected AsPipelineError to extract PipelineError")
	}

	// Test with generic error
	if _, ok := AsPipelineError(genericErr); ok {
		t.Error("expected AsPipelineError to return false for generic error")
	}

	// Test with nil
	if _, ok := AsPipelineError(nil); ok {
		t.Error("expected AsPipelineError to return false for nil")
	}
}

func TestWrapIfNeeded(t *testing.T) {
	pipelineErr := New(CategoryFile, CodeFileNotFound, "test")
	genericErr := errors.New("generic error")

	// Test with PipelineError (should return as-is)
	result1 := WrapIfNeeded(pipelineErr, CategoryParse, CodeInvalidFormat, "wrapped")
	if result1 != pipelineErr {
		t.Error("expected WrapIfNeeded to return original PipelineError")
	}

	// Test with generic error (should wrap)
	result2 := WrapIfNeeded(genericErr, CategoryParse, CodeInvalidFormat, "wrapped")
	if result2.Cause != genericErr {
		t.Error("expected WrapIfNeeded to wrap generic error")
	}
	if result2.Category != CategoryParse {
		t.Error("expected wrapped error to have correct category")
	}

	// Test with nil (should return nil)
	result3 := WrapIfNeeded(nil, CategoryParse, CodeInvalidFormat, "wrapped")
	if result3 != nil {
		t.Error("expected WrapIfNeeded to return nil for nil input")
	}
}

func TestExitCodes(t *testing.T) {
	tests := []struct {
		category     ErrorCategory
		expectedCode int
	}{
		{CategoryFile, 2},
		{CategoryParse, 3},
		{CategoryValidation, 3},
		{CategoryConfiguration, 4},
		{CategoryAnalytics, 5},
		{CategoryInternal, 5},
		{CategoryNetwork, 6},
	}

	for _, tt := range tests {
		t.Run(string(tt.category), func(t *testing.T) {
			err := New(tt.category, "test_code", "test message")
			if err.GetExitCode() != tt.expectedCode {
				t.Errorf("expected exit code %d for category %s, got %d",
					tt.expectedCode, tt.category, err.GetExitCode())
			}
		})
	}
}

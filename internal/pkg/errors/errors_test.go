package errors

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"testing"
)

func TestNew(t *testing.T) {
	err := New(CodeValidation, "invalid input")

	if err.Code != CodeValidation {
		t.Errorf("expected code=%s, got %s", CodeValidation, err.Code)
	}
	if err.Message != "invalid input" {
		t.Errorf("expected message='invalid input', got %s", err.Message)
	}
	if len(err.Stack) == 0 {
		t.Error("expected stack trace to be captured")
	}
}

func TestNewf(t *testing.T) {
	err := Newf(CodeNotFound, "endpoint %s not found", "/audio/x")

	if err.Code != CodeNotFound {
		t.Errorf("expected code=%s, got %s", CodeNotFound, err.Code)
	}
	if err.Message != "endpoint /audio/x not found" {
		t.Errorf("expected formatted message, got %s", err.Message)
	}
}

func TestErrorString(t *testing.T) {
	tests := []struct {
		name     string
		err      *Error
		contains []string
	}{
		{
			name:     "simple error",
			err:      New(CodeUpload, "file is required"),
			contains: []string{"UPLOAD_ERROR", "file is required"},
		},
		{
			name: "error with op",
			err: &Error{
				Code:    CodeEngine,
				Message: "Invalid argument",
				Op:      "engine.run",
			},
			contains: []string{"engine.run", "ENGINE_ERROR", "Invalid argument"},
		},
		{
			name: "error with underlying",
			err: &Error{
				Code:    CodeInternal,
				Message: "wrapper",
				Err:     fmt.Errorf("underlying error"),
			},
			contains: []string{"wrapper", "underlying error"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			str := tt.err.Error()
			for _, c := range tt.contains {
				if !strings.Contains(str, c) {
					t.Errorf("expected error string to contain %q, got: %s", c, str)
				}
			}
		})
	}
}

func TestWrap(t *testing.T) {
	original := fmt.Errorf("original error")
	wrapped := Wrap(original, "processor.save", "save upload failed")

	if wrapped == nil {
		t.Fatal("expected wrapped error to be non-nil")
	}
	if wrapped.Code != CodeInternal {
		t.Errorf("expected code=%s, got %s", CodeInternal, wrapped.Code)
	}
	if wrapped.Op != "processor.save" {
		t.Errorf("expected op='processor.save', got %s", wrapped.Op)
	}
	if errors.Unwrap(wrapped) != original {
		t.Error("Unwrap should return original error")
	}
}

func TestWrapNil(t *testing.T) {
	if Wrap(nil, "op", "message") != nil {
		t.Error("Wrap(nil) should return nil")
	}
	if Filesystem(nil, "op", "/tmp/x") != nil {
		t.Error("Filesystem(nil) should return nil")
	}
}

func TestWrapPreservesCode(t *testing.T) {
	original := Engine("engine.run", "Unknown encoder 'libfoo'", nil)
	wrapped := Wrap(original, "processor.run", "engine run failed")

	if wrapped.Code != CodeEngine {
		t.Errorf("expected code to be preserved as %s, got %s", CodeEngine, wrapped.Code)
	}
}

func TestWithFields(t *testing.T) {
	err := New(CodeValidation, "invalid").
		WithFields(map[string]any{
			"field1": "value1",
			"field2": "value2",
		}).
		WithField("field3", "value3")

	if len(err.Fields) != 3 {
		t.Errorf("expected 3 fields, got %d", len(err.Fields))
	}
}

func TestHTTPStatus(t *testing.T) {
	tests := []struct {
		code   Code
		status int
	}{
		{CodeValidation, 400},
		{CodeUpload, 400},
		{CodeNotFound, 404},
		{CodeTooLarge, 413},
		{CodeEngine, 500},
		{CodeFilesystem, 500},
		{CodeInternal, 500},
		{CodeUnavailable, 503},
		{CodeTimeout, 504},
	}

	for _, tt := range tests {
		t.Run(string(tt.code), func(t *testing.T) {
			err := New(tt.code, "test")
			if err.HTTPStatus() != tt.status {
				t.Errorf("expected status=%d, got %d", tt.status, err.HTTPStatus())
			}
		})
	}
}

func TestConvenienceConstructors(t *testing.T) {
	t.Run("UploadField", func(t *testing.T) {
		err := UploadField("audio2", "audio2 is required")
		if err.Code != CodeUpload {
			t.Errorf("expected code=%s, got %s", CodeUpload, err.Code)
		}
		if err.Fields["field"] != "audio2" {
			t.Errorf("expected field='audio2', got %v", err.Fields["field"])
		}
	})

	t.Run("TooLarge", func(t *testing.T) {
		err := TooLarge(1024)
		if err.HTTPStatus() != 413 {
			t.Errorf("expected 413, got %d", err.HTTPStatus())
		}
	})

	t.Run("Filesystem", func(t *testing.T) {
		cause := &fs.PathError{Op: "open", Path: "/srv/scratch/a.wav", Err: fs.ErrNotExist}
		err := Filesystem(cause, "scratch.put", "/srv/scratch/a.wav")
		if err.Code != CodeFilesystem {
			t.Errorf("expected code=%s, got %s", CodeFilesystem, err.Code)
		}
		if want := "scratch file access failed: a.wav: file does not exist"; err.Message != want {
			t.Errorf("Message = %q, want %q", err.Message, want)
		}
		if len(err.Fields) != 0 {
			t.Errorf("scratch path must not reach public details, got %v", err.Fields)
		}
		if !errors.Is(err, fs.ErrNotExist) {
			t.Error("expected the OS cause to stay in the chain")
		}
	})

	t.Run("NotFound", func(t *testing.T) {
		err := NotFound("endpoint", "/nope")
		if err.Fields["resource"] != "endpoint" || err.Fields["id"] != "/nope" {
			t.Errorf("unexpected fields: %v", err.Fields)
		}
	})

	t.Run("Timeout", func(t *testing.T) {
		if Timeout("ffmpeg").Code != CodeTimeout {
			t.Error("expected timeout code")
		}
	})

	t.Run("Unavailable", func(t *testing.T) {
		err := Unavailable("engine.probe", "ffprobe", fmt.Errorf("executable file not found"))
		if err.Code != CodeUnavailable || err.HTTPStatus() != 503 {
			t.Errorf("unexpected error %v", err)
		}
		if err.Fields["binary"] != "ffprobe" {
			t.Errorf("expected binary field, got %v", err.Fields)
		}
	})
}

func TestGetCode(t *testing.T) {
	t.Run("from typed error", func(t *testing.T) {
		if GetCode(New(CodeEngine, "boom")) != CodeEngine {
			t.Error("expected engine code")
		}
	})

	t.Run("from standard error", func(t *testing.T) {
		if GetCode(fmt.Errorf("standard error")) != CodeInternal {
			t.Error("expected internal code for standard error")
		}
	})

	t.Run("from wrapped error", func(t *testing.T) {
		wrapped := fmt.Errorf("ctx: %w", Validation("invalid"))
		if GetCode(wrapped) != CodeValidation {
			t.Errorf("expected code=%s, got %s", CodeValidation, GetCode(wrapped))
		}
	})
}

func TestGetHTTPStatusAndFields(t *testing.T) {
	err := UploadField("file", "file is required")
	if GetHTTPStatus(err) != 400 {
		t.Errorf("expected status=400, got %d", GetHTTPStatus(err))
	}
	if GetFields(err)["field"] != "file" {
		t.Errorf("expected field='file', got %v", GetFields(err))
	}

	stdErr := fmt.Errorf("standard")
	if GetHTTPStatus(stdErr) != 500 {
		t.Errorf("expected status=500 for standard error, got %d", GetHTTPStatus(stdErr))
	}
	if GetFields(stdErr) != nil {
		t.Error("expected nil fields for standard error")
	}
}

func TestPublicMessage(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"nil", nil, ""},
		{"plain", fmt.Errorf("disk full"), "disk full"},
		{"typed", UploadField("file", "file is required"), "file is required"},
		{
			name: "wrapped engine diagnostic",
			err:  Wrap(Engine("engine.run", "Invalid data found when processing input", nil), "processor.run", "engine run failed"),
			want: "Invalid data found when processing input",
		},
		{
			name: "typed over std cause",
			err:  Filesystem(fmt.Errorf("permission denied"), "scratch.put", "/x"),
			want: "scratch file access failed: x: permission denied",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := PublicMessage(tt.err); got != tt.want {
				t.Errorf("PublicMessage() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestIsHelpers(t *testing.T) {
	if !IsCode(NotFound("endpoint", "x"), CodeNotFound) {
		t.Error("expected IsCode to match not found")
	}
	if !IsValidation(Validation("bad")) {
		t.Error("expected IsValidation to return true")
	}
	if !IsEngine(Engine("engine.run", "bad", nil)) {
		t.Error("expected IsEngine to return true")
	}
	if IsEngine(Validation("bad")) {
		t.Error("expected IsEngine to return false")
	}
}

func TestStackTrace(t *testing.T) {
	stack := New(CodeInternal, "test error").StackTrace()
	if !strings.Contains(stack, ".go:") {
		t.Errorf("expected stack trace to contain file references, got: %s", stack)
	}
}

func TestErrorIs(t *testing.T) {
	err1 := New(CodeEngine, "error 1")
	err2 := New(CodeEngine, "error 2")
	err3 := New(CodeValidation, "error 3")

	if !errors.Is(err1, err2) {
		t.Error("expected errors with same code to match with Is")
	}
	if errors.Is(err1, err3) {
		t.Error("expected errors with different codes to not match")
	}
}

func TestAsAndIs(t *testing.T) {
	original := New(CodeNotFound, "not found")
	wrapped := fmt.Errorf("wrapped: %w", original)

	var target *Error
	if !As(wrapped, &target) {
		t.Fatal("expected As to find Error in chain")
	}
	if target.Code != CodeNotFound {
		t.Errorf("expected code=%s, got %s", CodeNotFound, target.Code)
	}
	if !Is(wrapped, original) {
		t.Error("expected Is to match original error")
	}
}

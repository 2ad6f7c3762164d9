package shared

import (
	"bytes"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
)

type languagePayload struct {
	Language string `json:"language" validate:"required,max=32"`
}

func TestDecodeJSON(t *testing.T) {
	tests := []struct {
		name        string
		body        string
		wantErr     bool
		errContains string
	}{
		{name: "valid json", body: `{"language": "Inglês"}`},
		{name: "invalid json", body: `{"language": "x",}`, wantErr: true, errContains: "invalid character"},
		{name: "empty body", body: "", wantErr: true, errContains: "EOF"},
		{name: "unknown field", body: `{"lang": "x"}`, wantErr: true, errContains: "unknown field"},
		{name: "trailing object", body: `{"language": "x"}{"language": "y"}`, wantErr: true, errContains: "single JSON object"},
		{name: "oversized", body: `{"language": "` + strings.Repeat("a", MaxRequestBodyBytes) + `"}`, wantErr: true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/test", bytes.NewBufferString(tc.body))
			var payload languagePayload

			err := DecodeJSON(req, &payload)
			if !tc.wantErr {
				assert.NoError(t, err)
				assert.Equal(t, "Inglês", payload.Language)
				return
			}
			assert.Error(t, err)
			if tc.errContains != "" {
				assert.Contains(t, err.Error(), tc.errContains)
			}
		})
	}
}

type selfValidating struct {
	err error
}

func (s selfValidating) Validate() error { return s.err }

func TestValidateRequest(t *testing.T) {
	t.Run("struct tags", func(t *testing.T) {
		assert.NoError(t, ValidateRequest(languagePayload{Language: "Inglês"}))

		err := ValidateRequest(languagePayload{})
		var verrs validator.ValidationErrors
		assert.True(t, errors.As(err, &verrs))
	})

	t.Run("validate method wins", func(t *testing.T) {
		want := errors.New("custom")
		assert.Equal(t, want, ValidateRequest(selfValidating{err: want}))
		assert.NoError(t, ValidateRequest(selfValidating{}))
	})
}

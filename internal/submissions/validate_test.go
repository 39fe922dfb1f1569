package submissions

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"exitlayer/internal/audit"
)

func TestValidate(t *testing.T) {
	cases := []struct {
		name    string
		answers audit.Response
		fields  []string
	}{
		{
			name:    "complete",
			answers: audit.Response{"company_name": "Acme", "full_name": "Jo Smith", "email": "jo@acme.test"},
		},
		{
			name:    "aliases",
			answers: audit.Response{"company_name": "Acme", "contact_name": "Jo", "contact_email": "JO@Acme.test"},
		},
		{
			name:    "empty",
			answers: audit.Response{},
			fields:  []string{"company_name", "contact_name", "email"},
		},
		{
			name:    "short company",
			answers: audit.Response{"company_name": "A", "full_name": "Jo", "email": "jo@acme.test"},
			fields:  []string{"company_name"},
		},
		{
			name:    "long company",
			answers: audit.Response{"company_name": strings.Repeat("a", 161), "full_name": "Jo", "email": "jo@acme.test"},
			fields:  []string{"company_name"},
		},
		{
			name:    "bad email",
			answers: audit.Response{"company_name": "Acme", "full_name": "Jo", "email": "not-an-email"},
			fields:  []string{"email"},
		},
		{
			name:    "display name email",
			answers: audit.Response{"company_name": "Acme", "full_name": "Jo", "email": "Jo <jo@acme.test>"},
			fields:  []string{"email"},
		},
		{
			name:    "whitespace name",
			answers: audit.Response{"company_name": "Acme", "full_name": "   ", "email": "jo@acme.test"},
			fields:  []string{"contact_name"},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := Validate(tc.answers)
			if len(tc.fields) == 0 {
				require.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrValidation))

			var verr *ValidationError
			require.True(t, errors.As(err, &verr))
			var got []string
			for _, f := range verr.Fields {
				got = append(got, f.Field)
				assert.NotEmpty(t, f.Message)
			}
			assert.Equal(t, tc.fields, got)
			assert.Equal(t, verr.Fields[0].Message, err.Error())
		})
	}
}

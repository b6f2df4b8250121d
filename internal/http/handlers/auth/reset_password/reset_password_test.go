package resetpassword

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"phonereset/internal/core/brokers/passwordreset"
	c "phonereset/internal/core/domain/common"
	"phonereset/internal/core/domain/token"
	"phonereset/internal/core/domain/user"
	service "phonereset/internal/core/services/reset_password"

	"github.com/stretchr/testify/assert"
)

type stubService struct {
	status passwordreset.Status
	err    error
	input  *service.Input
}

func (s *stubService) Run(ctx context.Context, input service.Input) (result service.Result, err error) {
	if s.err != nil {
		return result, s.err
	}
	s.input = &input
	result.Status = s.status
	return result, nil
}

func TestResetPasswordHandler(t *testing.T) {
	cases := []struct {
		id             string
		body           string
		status         passwordreset.Status
		expectedStatus int
		expectedInput  *service.Input
	}{
		{
			id:             "reset",
			body:           `{"phone": "+15550001", "token": "test-token", "otp": "4821", "password": "new-password"}`,
			status:         passwordreset.StatusPasswordReset,
			expectedStatus: http.StatusOK,
			expectedInput: &service.Input{
				Phone:       c.Phone("+15550001"),
				Token:       token.Token("test-token"),
				OTP:         token.OneTimePassword("4821"),
				NewPassword: user.RawPassword("new-password"),
			},
		},
		{
			id:             "invalid-user",
			body:           `{"phone": "+15550001", "token": "test-token", "otp": "4821", "password": "new-password"}`,
			status:         passwordreset.StatusInvalidUser,
			expectedStatus: http.StatusUnprocessableEntity,
			expectedInput: &service.Input{
				Phone:       c.Phone("+15550001"),
				Token:       token.Token("test-token"),
				OTP:         token.OneTimePassword("4821"),
				NewPassword: user.RawPassword("new-password"),
			},
		},
		{
			id:             "invalid-token",
			body:           `{"phone": "+15550001", "token": "test-token", "otp": "4821", "password": "new-password"}`,
			status:         passwordreset.StatusInvalidToken,
			expectedStatus: http.StatusUnprocessableEntity,
			expectedInput: &service.Input{
				Phone:       c.Phone("+15550001"),
				Token:       token.Token("test-token"),
				OTP:         token.OneTimePassword("4821"),
				NewPassword: user.RawPassword("new-password"),
			},
		},
		{
			id:             "missing-token",
			body:           `{"phone": "+15550001", "otp": "4821", "password": "new-password"}`,
			expectedStatus: http.StatusBadRequest,
			expectedInput:  nil,
		},
		{
			id:             "missing-otp",
			body:           `{"phone": "+15550001", "token": "test-token", "password": "new-password"}`,
			expectedStatus: http.StatusBadRequest,
			expectedInput:  nil,
		},
		{
			id:             "short-password",
			body:           `{"phone": "+15550001", "token": "test-token", "otp": "4821", "password": "short"}`,
			expectedStatus: http.StatusBadRequest,
			expectedInput:  nil,
		},
		{
			id:             "invalid-json",
			body:           `{"phone": }`,
			expectedStatus: http.StatusBadRequest,
			expectedInput:  nil,
		},
	}

	for _, testcase := range cases {
		t.Run(testcase.id, func(t *testing.T) {
			req, err := http.NewRequest("POST", "/auth/password_reset", strings.NewReader(testcase.body))
			if err != nil {
				t.Fatal(err)
			}

			service := &stubService{status: testcase.status}
			rr := httptest.NewRecorder()
			handler := New(service)
			handler.ServeHTTP(rr, req)

			assert.Equal(t, testcase.expectedStatus, rr.Code)
			assert.Equal(t, testcase.expectedInput, service.input)
		})
	}
}

package resetpassword

import (
	"encoding/json"
	"io"
	"net/http"

	"phonereset/internal/core/brokers/passwordreset"
	c "phonereset/internal/core/domain/common"
	e "phonereset/internal/core/domain/errors"
	"phonereset/internal/core/domain/token"
	"phonereset/internal/core/domain/user"
	"phonereset/internal/core/services"
	service "phonereset/internal/core/services/reset_password"
	"phonereset/internal/http/handlers/response"

	validation "github.com/go-ozzo/ozzo-validation"
)

type Handler struct {
	service services.Service[service.Input, service.Result]
}

func New(
	service services.Service[service.Input, service.Result],
) *Handler {
	if service == nil {
		panic(e.NewNilArgumentError("service"))
	}
	return &Handler{service: service}
}

type Input struct {
	Phone    string `json:"phone"`
	Token    string `json:"token"`
	Otp      string `json:"otp"`
	Password string `json:"password"`
}

func (i *Input) FromJSON(r io.Reader) error {
	e := json.NewDecoder(r)
	return e.Decode(i)
}

func (i Input) Validate() error {
	return validation.ValidateStruct(&i,
		validation.Field(&i.Phone, validation.Required, validation.Length(0, 32)),
		validation.Field(&i.Token, validation.Required, validation.Length(0, 1024)),
		validation.Field(&i.Otp, validation.Required, validation.Length(0, 16)),
		validation.Field(&i.Password, validation.Required, validation.Length(8, 256)),
	)
}

type result struct {
	Status string `json:"status"`
}

func (h *Handler) ServeHTTP(rw http.ResponseWriter, r *http.Request) {
	input := Input{}
	if err := input.FromJSON(r.Body); err != nil {
		response.RenderError(rw, "invalid request data", http.StatusBadRequest)
		return
	}
	if err := input.Validate(); err != nil {
		response.Render(rw, err, http.StatusBadRequest)
		return
	}

	res, err := h.service.Run(
		r.Context(),
		service.Input{
			Phone:       c.NewPhone(input.Phone),
			Token:       token.Token(input.Token),
			OTP:         token.OneTimePassword(input.Otp),
			NewPassword: user.RawPassword(input.Password),
		},
	)
	if err != nil {
		response.RenderInternalError(rw)
		return
	}

	switch res.Status {
	case passwordreset.StatusPasswordReset:
		response.Render(rw, result{Status: string(res.Status)}, http.StatusOK)
	case passwordreset.StatusInvalidUser:
		response.RenderError(rw, "user does not exist", http.StatusUnprocessableEntity)
	case passwordreset.StatusInvalidToken:
		response.RenderError(rw, "invalid token", http.StatusUnprocessableEntity)
	default:
		response.RenderInternalError(rw)
	}
}

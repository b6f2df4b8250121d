package sendpasswordresetotp

import (
	"encoding/json"
	"io"
	"net/http"

	"phonereset/internal/core/brokers/passwordreset"
	c "phonereset/internal/core/domain/common"
	e "phonereset/internal/core/domain/errors"
	"phonereset/internal/core/services"
	service "phonereset/internal/core/services/send_password_reset_otp"
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
	Phone string `json:"phone"`
}

func (i *Input) FromJSON(r io.Reader) error {
	e := json.NewDecoder(r)
	return e.Decode(i)
}

func (i Input) Validate() error {
	return validation.ValidateStruct(&i,
		validation.Field(&i.Phone, validation.Required, validation.Length(0, 32)),
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
		service.Input{Phone: c.NewPhone(input.Phone)},
	)
	if err != nil {
		response.RenderInternalError(rw)
		return
	}

	switch res.Status {
	case passwordreset.StatusResetLinkSent:
		response.Render(rw, result{Status: string(res.Status)}, http.StatusOK)
	case passwordreset.StatusInvalidUser:
		response.RenderError(rw, "user does not exist", http.StatusUnprocessableEntity)
	case passwordreset.StatusResetThrottled:
		response.RenderError(rw, "reset throttled", http.StatusTooManyRequests)
	default:
		response.RenderInternalError(rw)
	}
}

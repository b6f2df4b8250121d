package deleteexpiredtokens

import (
	"net/http"

	e "phonereset/internal/core/domain/errors"
	"phonereset/internal/core/services"
	service "phonereset/internal/core/services/delete_expired_tokens"
	"phonereset/internal/http/handlers/response"
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

func (h *Handler) ServeHTTP(rw http.ResponseWriter, r *http.Request) {
	_, err := h.service.Run(r.Context(), service.Input{})
	if err != nil {
		response.RenderInternalError(rw)
		return
	}
	response.Render(rw, struct{}{}, http.StatusOK)
}

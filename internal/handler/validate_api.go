package handler

import (
	"encoding/json"
	"net/http"

	"github.com/mtlprog/nexa/internal/form"
	"github.com/mtlprog/nexa/internal/handler/dto"
)

// handleValidateForm validates a record against a named form without submitting it.
// @Summary Validate a form record
// @Description Runs the form's validation rules. With "field" set, only that field is checked (on-blur validation).
// @Tags forms
// @Accept json
// @Produce json
// @Param form path string true "Form name" Enums(login, forget-password, reset-password, register, agent)
// @Param request body dto.ValidateFormRequest true "Values to check"
// @Success 200 {object} dto.ValidationResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /forms/{form}/validate [post]
func (h *Handler) handleValidateForm(w http.ResponseWriter, r *http.Request) {
	schema, err := form.Lookup(r.PathValue("form"))
	if err != nil {
		respondDomainError(w, err)
		return
	}

	var req dto.ValidateFormRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, 64<<10)).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "INVALID_JSON", "Invalid request body")
		return
	}

	rec := form.Record(req.Values)
	if rec == nil {
		rec = form.Record{}
	}

	errs := map[string]string{}
	if req.Field != "" {
		msg, err := schema.ValidateField(rec, req.Field)
		if err != nil {
			respondError(w, http.StatusBadRequest, "UNKNOWN_FIELD", err.Error())
			return
		}
		if msg != "" {
			errs[req.Field] = msg
		}
	} else {
		for name, msg := range schema.Validate(rec) {
			errs[name] = msg
		}
	}

	respondJSON(w, http.StatusOK, dto.ValidationResponse{
		Form:   schema.Name,
		Valid:  len(errs) == 0,
		Errors: errs,
	})
}

package http

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	inErrors "github.com/Alturino/storefront/internal/errors"
)

func PathUUID(r *http.Request, name string) (uuid.UUID, error) {
	raw := mux.Vars(r)[name]
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed parsing %s=%q with error=%w", name, raw, inErrors.ErrInvalidID)
	}
	return id, nil
}

func DecodeJson(r *http.Request, v interface{}) error {
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(v); err != nil {
		return BodyError{Err: err}
	}
	return nil
}

package http

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/go-playground/validator/v10"

	apperrors "github.com/forgelabs/forge/pkg/app/errors"
)

// maxBodySize caps request bodies at 10MB; proof images arrive as data URLs.
const maxBodySize = 10 << 20

var validate = validator.New()

// DecodeAndValidate reads the JSON request body into dst and checks its
// validate tags. Returns a BadRequest ServiceError on any failure.
func DecodeAndValidate(r *http.Request, dst any) error {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxBodySize))
	if err != nil {
		return apperrors.BadRequestError(err, "failed to read request")
	}

	if err := json.Unmarshal(body, dst); err != nil {
		return apperrors.BadRequestError(err, "invalid JSON")
	}

	if err := validate.Struct(dst); err != nil {
		return apperrors.BadRequestError(err, "validation failed: "+err.Error())
	}

	return nil
}

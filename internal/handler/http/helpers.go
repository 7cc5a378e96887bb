package http

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/cmlabs-hris/productivity-backend-go/internal/domain/auth"
	"github.com/cmlabs-hris/productivity-backend-go/internal/domain/upload"
	"github.com/cmlabs-hris/productivity-backend-go/internal/domain/user"
	"github.com/cmlabs-hris/productivity-backend-go/internal/handler/http/middleware"
	"github.com/cmlabs-hris/productivity-backend-go/internal/handler/http/response"
	"github.com/cmlabs-hris/productivity-backend-go/internal/pkg/validator"
)

// selfAlias lets callers address their own records without knowing their id.
const selfAlias = "me"

// currentUser writes a 401 and returns false when no user was loaded.
func currentUser(w http.ResponseWriter, r *http.Request) (user.User, bool) {
	u, ok := middleware.UserFromContext(r.Context())
	if !ok {
		response.HandleError(w, auth.ErrInvalidToken)
		return user.User{}, false
	}
	return u, true
}

// subject resolves the user a request is about and checks the actor may see them.
func subject(ctx context.Context, users user.UserRepository, actor user.User, id string) (user.User, error) {
	if id == "" || id == selfAlias || id == actor.ID {
		return actor, nil
	}
	u, err := users.GetByID(ctx, id)
	if err != nil {
		return user.User{}, err
	}
	if !user.CanView(actor, u) {
		return user.User{}, user.ErrInsufficientPermissions
	}
	return u, nil
}

// windowDays reads ?days=, falling back to def.
func windowDays(r *http.Request, def int) (int, error) {
	raw := r.URL.Query().Get("days")
	if raw == "" {
		return def, nil
	}
	days, err := strconv.Atoi(raw)
	if err != nil || days < 1 || days > 366 {
		return 0, validator.ValidationErrors{{Field: "days", Message: "days must be between 1 and 366"}}
	}
	return days, nil
}

// readUpload returns the bytes and name of the multipart "file" field, capped at maxBytes.
func readUpload(w http.ResponseWriter, r *http.Request, maxBytes int64) ([]byte, string, error) {
	r.Body = http.MaxBytesReader(w, r.Body, maxBytes+(1<<20))
	if err := r.ParseMultipartForm(maxBytes); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return nil, "", upload.ErrFileTooLarge
		}
		slog.Error("Failed to parse multipart form", "error", err)
		return nil, "", validator.ValidationErrors{{Field: "file", Message: "failed to parse form data"}}
	}

	file, fileHeader, err := r.FormFile("file")
	if err != nil {
		return nil, "", validator.ValidationErrors{{Field: "file", Message: "file is required"}}
	}
	defer file.Close()

	if fileHeader.Size > maxBytes {
		return nil, "", upload.ErrFileTooLarge
	}

	content, err := io.ReadAll(file)
	if err != nil {
		return nil, "", err
	}
	return content, fileHeader.Filename, nil
}

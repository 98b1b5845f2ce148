package handlers

import (
	"encoding/json"
	"errors"
	"mime"
	"net/http"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/hongminglow/backoffice/internal/auth"
	"github.com/hongminglow/backoffice/internal/http/respond"
	"github.com/hongminglow/backoffice/internal/models/dto"
)

// MinPasswordLength is the shortest password the bridge accepts.
const MinPasswordLength = 6

var (
	usernamePattern = regexp.MustCompile(`^[A-Za-z0-9_]{3,20}$`)
	emailPattern    = regexp.MustCompile(`^[A-Za-z0-9+_.-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,6}$`)
	phonePattern    = regexp.MustCompile(`^[0-9]{10}$|^\+[0-9]{1,3}[0-9]{10}$`)
	phoneNoise      = strings.NewReplacer(" ", "", "(", "", ")", "", "-", "")
)

var (
	errInvalidJSON      = errors.New("invalid JSON payload")
	errUnsupportedMedia = errors.New("content type must be application/json")
)

// decode reads a JSON body. Bodies not declared as application/json are
// refused so that simple cross-site form posts never reach a handler.
func decode(w http.ResponseWriter, r *http.Request, into any) error {
	mediaType, _, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if err != nil || mediaType != "application/json" {
		return errUnsupportedMedia
	}
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, 1<<20))
	if err := dec.Decode(into); err != nil {
		return errInvalidJSON
	}
	return nil
}

// bind decodes the body into into and answers 415 or 400 on failure.
func bind(out *respond.Responder, w http.ResponseWriter, r *http.Request, into any) bool {
	err := decode(w, r, into)
	switch {
	case err == nil:
		return true
	case errors.Is(err, errUnsupportedMedia):
		out.Error(w, http.StatusUnsupportedMediaType, err.Error())
	default:
		out.Error(w, http.StatusBadRequest, err.Error())
	}
	return false
}

func validUsername(username string) bool {
	return usernamePattern.MatchString(username)
}

func validEmail(email string) bool {
	return emailPattern.MatchString(email)
}

// validPhone accepts an empty value; spaces, dashes, and parentheses are ignored.
func validPhone(phone string) bool {
	if phone == "" {
		return true
	}
	return phonePattern.MatchString(phoneNoise.Replace(phone))
}

func validatePassword(password string) error {
	if !utf8.ValidString(password) || utf8.RuneCountInString(password) < MinPasswordLength {
		return errors.New("password must be at least 6 characters")
	}
	if len(password) > auth.MaxPasswordBytes {
		return auth.ErrPasswordTooLong
	}
	return nil
}

func validateRegister(req dto.RegisterRequest) error {
	switch {
	case !validUsername(strings.TrimSpace(req.Username)):
		return errors.New("username must be 3-20 letters, digits, or underscores")
	case !validEmail(strings.TrimSpace(req.Email)):
		return errors.New("email is not valid")
	case strings.TrimSpace(req.FullName) == "":
		return errors.New("full name is required")
	case !validPhone(strings.TrimSpace(req.Phone)):
		return errors.New("phone is not valid")
	}
	return validatePassword(req.Password)
}

func validateProfile(req dto.ProfileRequest) error {
	switch {
	case strings.TrimSpace(req.FullName) == "":
		return errors.New("full name is required")
	case req.Email != "" && !validEmail(strings.TrimSpace(req.Email)):
		return errors.New("email is not valid")
	case !validPhone(strings.TrimSpace(req.Phone)):
		return errors.New("phone is not valid")
	}
	return nil
}

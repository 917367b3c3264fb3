// internal/api/handler/request.go
package handler

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"

	"finledger/internal/domain"
	"finledger/internal/util"
)

// maxBodyBytes caps request bodies, batches included.
const maxBodyBytes = 1 << 20

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	// Report fields by their JSON names.
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name, _, _ := strings.Cut(field.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// CreateUserRequest represents the request body for creating a user.
type CreateUserRequest struct {
	Name  string `json:"name" validate:"required,max=255"`
	Email string `json:"email" validate:"required,email,max=254"`
	Age   *int   `json:"age" validate:"required"`
}

func (req *CreateUserRequest) normalize() {
	req.Name = strings.TrimSpace(req.Name)
	req.Email = strings.TrimSpace(req.Email)
}

// CreateTransactionRequest represents one transaction in a create request.
// Type is accepted for compatibility and ignored; it is derived from Amount.
type CreateTransactionRequest struct {
	Reference string           `json:"reference" validate:"required,max=255"`
	Account   string           `json:"account" validate:"required,max=255"`
	Date      string           `json:"date" validate:"required,datetime=2006-01-02"`
	Amount    *decimal.Decimal `json:"amount" validate:"required"`
	Type      string           `json:"type,omitempty"`
	Category  string           `json:"category" validate:"required,max=255"`
	UserID    *int64           `json:"user_id" validate:"required,gt=0"`
}

func (req *CreateTransactionRequest) normalize() {
	req.Reference = strings.TrimSpace(req.Reference)
	req.Account = strings.TrimSpace(req.Account)
	req.Date = strings.TrimSpace(req.Date)
	req.Category = strings.TrimSpace(req.Category)
}

// draft validates the request and converts it. prefix is prepended to field names.
func (req *CreateTransactionRequest) draft(prefix string) (domain.TransactionDraft, error) {
	req.normalize()
	if err := validateStruct(req, prefix); err != nil {
		return domain.TransactionDraft{}, err
	}

	date, err := domain.ParseDate(domain.DateLayout, req.Date)
	if err != nil {
		return domain.TransactionDraft{}, util.NewValidationError(prefix+"date", "date has wrong format, use YYYY-MM-DD")
	}
	if err := domain.ValidateAmount(*req.Amount); err != nil {
		return domain.TransactionDraft{}, util.NewValidationError(prefix+"amount", err.Error())
	}

	return domain.TransactionDraft{
		Reference: req.Reference,
		Account:   req.Account,
		Date:      date,
		Amount:    *req.Amount,
		Category:  req.Category,
		UserID:    *req.UserID,
	}, nil
}

// readBody reads the request body, returning util.ErrInvalidInput for empty or oversized bodies.
func readBody(w http.ResponseWriter, r *http.Request) ([]byte, error) {
	data, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return nil, fmt.Errorf("%w: request body too large", util.ErrInvalidInput)
		}
		return nil, fmt.Errorf("read request body: %w", err)
	}
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return nil, fmt.Errorf("%w: request body is empty", util.ErrInvalidInput)
	}
	return data, nil
}

// isJSONArray reports whether a trimmed JSON document is an array.
func isJSONArray(data []byte) bool {
	return len(data) > 0 && data[0] == '['
}

// decodeJSON unmarshals data into dst, turning decoding failures into validation
// errors. prefix is prepended to field names.
func decodeJSON(data []byte, dst interface{}, prefix string) error {
	err := json.Unmarshal(data, dst)
	if err == nil {
		return nil
	}

	var typeErr *json.UnmarshalTypeError
	var syntaxErr *json.SyntaxError
	switch {
	case errors.As(err, &typeErr) && typeErr.Field != "":
		return util.NewValidationError(prefix+typeErr.Field, fmt.Sprintf("expected %s, got %s", typeErr.Type, typeErr.Value))
	case errors.As(err, &syntaxErr):
		return util.NewValidationError(prefix+"body", fmt.Sprintf("malformed JSON at offset %d", syntaxErr.Offset))
	default:
		return util.NewValidationError(prefix+"body", err.Error())
	}
}

// decodeTransactionRequests decodes a single object or an array of objects.
// Every item is checked; field errors of all items come back together,
// keyed "[i].field" for arrays.
func decodeTransactionRequests(data []byte) (drafts []domain.TransactionDraft, batch bool, err error) {
	var items []json.RawMessage
	if isJSONArray(data) {
		batch = true
		if err := decodeJSON(data, &items, ""); err != nil {
			return nil, true, err
		}
	} else {
		items = []json.RawMessage{data}
	}

	verr := &util.ValidationError{}
	drafts = make([]domain.TransactionDraft, 0, len(items))
	for i, item := range items {
		prefix := ""
		if batch {
			prefix = fmt.Sprintf("[%d].", i)
		}

		draft, itemErr := decodeTransactionRequest(item, prefix)
		if itemErr != nil {
			var fieldErr *util.ValidationError
			if !errors.As(itemErr, &fieldErr) {
				return nil, batch, itemErr
			}
			for field, msg := range fieldErr.Fields {
				verr.Add(field, msg)
			}
			continue
		}
		drafts = append(drafts, draft)
	}

	if !verr.Empty() {
		return nil, batch, verr
	}
	return drafts, batch, nil
}

func decodeTransactionRequest(item json.RawMessage, prefix string) (domain.TransactionDraft, error) {
	var req CreateTransactionRequest
	if err := decodeJSON(item, &req, prefix); err != nil {
		return domain.TransactionDraft{}, err
	}
	return req.draft(prefix)
}

// validateStruct runs the validate tags of s and collects every failing field.
func validateStruct(s interface{}, prefix string) error {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return fmt.Errorf("validate request: %w", err)
	}

	verr := &util.ValidationError{}
	for _, fe := range fieldErrs {
		verr.Add(prefix+fe.Field(), fieldMessage(fe))
	}
	return verr
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "this field is required"
	case "email":
		return "enter a valid email address"
	case "max":
		return fmt.Sprintf("ensure this field has no more than %s characters", fe.Param())
	case "gt":
		return fmt.Sprintf("ensure this value is greater than %s", fe.Param())
	case "datetime":
		return "date has wrong format, use YYYY-MM-DD"
	default:
		return fmt.Sprintf("failed on %q", fe.Tag())
	}
}

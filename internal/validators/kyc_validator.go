package validators

import (
	stderrors "errors"
	"fmt"
	"net/http"
	"strings"

	"onchain-re-lending/internal/errors"
	"onchain-re-lending/internal/models"

	"github.com/go-playground/validator/v10"
)

var allowedDocumentTypes = map[string]bool{
	"image/jpeg": true,
	"image/jpg":  true,
	"image/png":  true,
}

type kycValidator struct {
	validate *validator.Validate
	maxBytes int64
}

func NewKYCValidator(maxBytes int64) KYCValidator {
	return &kycValidator{validate: validator.New(), maxBytes: maxBytes}
}

func (v *kycValidator) ValidateForm(form *models.TraditionalKYCForm) error {
	form.FullName = strings.TrimSpace(form.FullName)
	form.IDType = strings.TrimSpace(form.IDType)
	form.IDNumber = strings.TrimSpace(form.IDNumber)
	form.BirthDate = strings.TrimSpace(form.BirthDate)

	err := v.validate.Struct(form)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if stderrors.As(err, &fieldErrs) {
		for _, fe := range fieldErrs {
			if fe.Field() == "BirthDate" && fe.Tag() == "datetime" {
				return invalid(fmt.Sprintf("invalid birth date %q", form.BirthDate), errors.MsgKYCInvalidBirth, err)
			}
		}
	}
	return invalid("missing or oversized kyc form fields", errors.MsgKYCMissingFields, err)
}

func (v *kycValidator) ValidateDocuments(idDocument, selfie *models.UploadedFile) error {
	if idDocument == nil || selfie == nil {
		return invalid("id document and selfie are required", errors.MsgKYCMissingFiles, nil)
	}
	for _, f := range []*models.UploadedFile{idDocument, selfie} {
		if v.maxBytes > 0 && f.Size > v.maxBytes {
			return invalid(fmt.Sprintf("file %s is %d bytes, limit %d", f.Filename, f.Size, v.maxBytes), errors.MsgKYCFileTooLarge, nil)
		}
		if !allowedDocumentTypes[strings.ToLower(f.ContentType)] {
			return invalid(fmt.Sprintf("file %s has content type %q", f.Filename, f.ContentType), errors.MsgKYCFileType, nil)
		}
	}
	return nil
}

func invalid(technical, user string, err error) error {
	return errors.NewAppError(technical, user, errors.ErrCodeInvalidParameters, http.StatusBadRequest, err)
}

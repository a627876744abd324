package validators

import (
	"onchain-re-lending/internal/models"
)

type SessionValidator interface {
	ValidateWallet(address string) error
}

type KYCValidator interface {
	ValidateForm(form *models.TraditionalKYCForm) error
	ValidateDocuments(idDocument, selfie *models.UploadedFile) error
}

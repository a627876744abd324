package transformers

import (
	"onchain-re-lending/internal/models"
)

type PropertyTransformer interface {
	ToRecentTransaction(record models.PropertyRecord) models.RecentTransaction
	UnitPrice(record models.PropertyRecord) (float64, bool)
	TotalPrice(record models.PropertyRecord) (float64, bool)
	TransactionDateKey(record models.PropertyRecord) int64
}

type AddressTransformer interface {
	ParseAddress(address string) models.AddressComponents
	MainStreet(street string) string
}

type MetadataTransformer interface {
	BuildNFTMetadata(input NFTMetadataInput) models.NFTMetadata
}

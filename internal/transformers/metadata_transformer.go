package transformers

import (
	"strconv"
	"time"

	"onchain-re-lending/internal/models"
)

type NFTMetadataInput struct {
	Name           string
	Description    string
	Image          string
	AssetType      string
	Address        string
	PropertyValue  int64
	MintedAt       time.Time
}

type metadataTransformer struct{}

func NewMetadataTransformer() MetadataTransformer {
	return &metadataTransformer{}
}

func (t *metadataTransformer) BuildNFTMetadata(in NFTMetadataInput) models.NFTMetadata {
	name := orDefault(in.Name, "Property Asset")
	assetType := orDefault(in.AssetType, "Real Estate")

	attrs := []models.NFTAttribute{
		{TraitType: "Asset Type", Value: assetType},
		{TraitType: "Location", Value: orDefault(in.Address, "Unknown")},
	}
	if in.PropertyValue > 0 {
		attrs = append(attrs, models.NFTAttribute{
			TraitType: "Estimated Value",
			Value:     strconv.FormatInt(in.PropertyValue, 10),
		})
	}

	return models.NFTMetadata{
		Name:        name,
		Description: orDefault(in.Description, "Tokenized real-world asset"),
		Image:       in.Image,
		Attributes:  attrs,
		Properties: map[string]interface{}{
			"address":   in.Address,
			"assetType": assetType,
			"mintedAt":  in.MintedAt.UTC().Format(time.RFC3339),
		},
	}
}

func orDefault(v, def string) string {
	if v == "" {
		return def
	}
	return v
}

package services

import (
	"context"
	"errors"
	"io"
	"time"

	apperrors "onchain-re-lending/internal/errors"
	"onchain-re-lending/internal/models"
	"onchain-re-lending/internal/repositories"
	"onchain-re-lending/internal/transformers"
	"onchain-re-lending/pkg/chain"
	"onchain-re-lending/pkg/logger"
	"onchain-re-lending/pkg/metrics"
	"onchain-re-lending/pkg/pinata"
)

// Minter sends the on-chain mint.
type Minter interface {
	Mint(ctx context.Context, to, tokenURI string) (*chain.MintResult, error)
	ExplorerURL(kind, hash string) string
	Contract() string
}

type MintService struct {
	sessions  *SessionService
	assets    repositories.AssetRepository
	pinner    pinata.Pinner
	minter    Minter
	metaTrans transformers.MetadataTransformer
	chainID   int64
	now       func() time.Time
}

func NewMintService(
	sessions *SessionService,
	assets repositories.AssetRepository,
	pinner pinata.Pinner,
	minter Minter,
	metaTrans transformers.MetadataTransformer,
	chainID int64,
) *MintService {
	return &MintService{
		sessions:  sessions,
		assets:    assets,
		pinner:    pinner,
		minter:    minter,
		metaTrans: metaTrans,
		chainID:   chainID,
		now:       time.Now,
	}
}

const mintOperation = "mint"

// Mint pins the certificate metadata, mints it to the session wallet and records
// the asset. Concurrent mints of one session are refused with
// OPERATION_IN_PROGRESS. Once a transaction has been accepted by the node the
// claim is kept on failure, so the session cannot mint a second certificate.
func (s *MintService) Mint(ctx context.Context, sessionID string, req models.MintRequest) (*models.MintResponse, error) {
	if _, err := s.mintable(ctx, sessionID); err != nil {
		return nil, err
	}
	release, err := s.sessions.Claim(ctx, sessionID, mintOperation)
	if err != nil {
		return nil, err
	}
	// Re-read under the claim: a mint that finished in between has moved the stage on.
	session, err := s.mintable(ctx, sessionID)
	if err != nil {
		release()
		return nil, err
	}

	resp, sent, err := s.mint(ctx, session, req)
	if err != nil && sent {
		logger.GlobalLogger.Errorf("Mint outcome not recorded, session stays locked: session=%s, error=%v", session.ID, err)
		return nil, err
	}
	release()
	return resp, err
}

func (s *MintService) mintable(ctx context.Context, sessionID string) (*models.Session, error) {
	session, err := s.sessions.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if err := CheckTransition(session.Stage, models.StageMinted); err != nil {
		return nil, err
	}
	if session.Valuation == nil {
		return nil, apperrors.InvalidStage(session.Stage, models.StageMinted)
	}
	return session, nil
}

// mint reports sent=true once the chain may hold the certificate.
func (s *MintService) mint(ctx context.Context, session *models.Session, req models.MintRequest) (*models.MintResponse, bool, error) {
	valuation := session.Valuation
	name := firstNonEmpty(req.Name, valuation.AssetName)
	assetType := firstNonEmpty(req.AssetType, valuation.AssetType)
	mintedAt := s.now().UTC()
	metadata := s.metaTrans.BuildNFTMetadata(transformers.NFTMetadataInput{
		Name:          name,
		Description:   req.Description,
		Image:         req.Image,
		AssetType:     assetType,
		Address:       valuation.Address,
		PropertyValue: valuation.PropertyValue,
		MintedAt:      mintedAt,
	})

	tokenURI, err := s.pinner.PinJSON(ctx, metadata.Name, metadata)
	if err != nil {
		logger.GlobalLogger.Errorf("Failed to pin NFT metadata: session=%s, error=%v", session.ID, err)
		return nil, false, apperrors.StorageUnavailable(err)
	}

	result, err := s.minter.Mint(ctx, session.WalletAddress, tokenURI)
	if err != nil {
		appErr := apperrors.MintFailed(err)
		metrics.MintsTotal.WithLabelValues(appErr.Code).Inc()
		return nil, errors.Is(err, chain.ErrUnconfirmed), appErr
	}
	metrics.MintsTotal.WithLabelValues("success").Inc()

	asset := &models.Asset{
		SessionID:       session.ID,
		OwnerAddress:    session.WalletAddress,
		Name:            metadata.Name,
		Description:     metadata.Description,
		AssetType:       assetType,
		Address:         valuation.Address,
		EstimatedValue:  valuation.EstimatedValue,
		PropertyValue:   valuation.PropertyValue,
		TokenID:         result.TokenID,
		TxHash:          result.TransactionHash,
		TokenURI:        tokenURI,
		ImageURI:        req.Image,
		ChainID:         s.chainID,
		ContractAddress: s.minter.Contract(),
		MintedAt:        mintedAt,
	}
	if err := s.assets.Create(ctx, asset); err != nil {
		logger.GlobalLogger.Errorf("Minted asset could not be recorded: tx=%s, token_id=%s, error=%v", result.TransactionHash, result.TokenID, err)
		return nil, true, apperrors.Internal("failed to record minted asset", err).With("transactionHash", result.TransactionHash)
	}

	explorerURL := s.minter.ExplorerURL("tx", result.TransactionHash)
	session.Asset = &models.SessionAsset{
		AssetID:     asset.ID.Hex(),
		TokenID:     result.TokenID,
		TxHash:      result.TransactionHash,
		TokenURI:    tokenURI,
		ExplorerURL: explorerURL,
		MintedAt:    mintedAt,
	}
	if err := s.sessions.Advance(ctx, session, models.StageMinted); err != nil {
		return nil, true, err
	}

	logger.GlobalLogger.Printf("Asset minted: asset_id=%s, token_id=%s, tx=%s", asset.ID.Hex(), result.TokenID, result.TransactionHash)
	return &models.MintResponse{
		Success:         true,
		AssetID:         asset.ID.Hex(),
		TokenID:         result.TokenID,
		TransactionHash: result.TransactionHash,
		TokenURI:        tokenURI,
		ExplorerURL:     explorerURL,
	}, true, nil
}

// PinImage stores an asset picture for later use as the NFT image.
func (s *MintService) PinImage(ctx context.Context, sessionID, filename string, r io.Reader) (*models.PinResponse, error) {
	if _, err := s.sessions.Get(ctx, sessionID); err != nil {
		return nil, err
	}
	uri, err := s.pinner.PinFile(ctx, filename, r)
	if err != nil {
		return nil, apperrors.StorageUnavailable(err)
	}
	return &models.PinResponse{URI: uri, GatewayURL: s.pinner.GatewayURL(uri)}, nil
}

func (s *MintService) GetAsset(ctx context.Context, id string) (*models.Asset, error) {
	asset, err := s.assets.FindByID(ctx, id)
	if err != nil {
		return nil, apperrors.Internal("failed to load asset", err)
	}
	if asset == nil {
		return nil, apperrors.AssetNotFound(id)
	}
	return asset, nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/foxxcyber/nfe-feed/internal/models"
)

// Pipeline failures. The cause is wrapped alongside for logging.
var (
	ErrLoadFailed   = errors.New("failed to load nfe page")
	ErrExportFailed = errors.New("failed to export nfe items")
)

// NFEService runs the load, parse and export pipeline for one invoice URL
type NFEService struct {
	loader   PageLoader
	parser   *InvoiceParser
	exporter Exporter
	archive  SnapshotArchiver
}

// NewNFEService creates the pipeline. archive may be nil.
func NewNFEService(loader PageLoader, parser *InvoiceParser, exporter Exporter, archive SnapshotArchiver) *NFEService {
	return &NFEService{
		loader:   loader,
		parser:   parser,
		exporter: exporter,
		archive:  archive,
	}
}

// Process loads url, parses the invoice and appends it to the spreadsheet
func (s *NFEService) Process(ctx context.Context, url string) (*models.InvoiceResult, error) {
	page, err := s.loader.Load(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLoadFailed, err)
	}

	if s.archive != nil {
		if key, err := s.archive.Archive(ctx, page.HTML()); err != nil {
			log.Warn().Err(err).Str("url", url).Msg("failed to archive page snapshot")
		} else {
			log.Debug().Str("url", url).Str("key", key).Msg("archived page snapshot")
		}
	}

	result := s.parser.Parse(page)
	log.Info().
		Str("url", url).
		Int("items", len(result.Items)).
		Str("date", result.Date).
		Str("key", result.Key).
		Msg("parsed nfe page")

	if err := s.exporter.Export(ctx, result); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrExportFailed, err)
	}

	return result, nil
}

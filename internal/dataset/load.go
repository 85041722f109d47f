package dataset

import (
	"context"
	"time"

	"github.com/igusev/cfl/internal/logger"
	"github.com/igusev/cfl/internal/model"
)

// Load fetches and parses the company list from src
func Load(ctx context.Context, src Source) (model.CompanyList, error) {
	start := time.Now()
	logger.Debug("Fetching company list from %s...", describe(src))

	data, err := src.Fetch(ctx)
	if err != nil {
		return model.CompanyList{}, err
	}

	list, invalid, err := Parse(string(data))
	if err != nil {
		return model.CompanyList{}, err
	}

	if len(invalid) > 0 {
		logger.Warn("%d of %d records are missing required fields", len(invalid), list.Len())
		for _, rec := range invalid {
			logger.Debug("Invalid record: %v", rec)
		}
	}

	logger.Debug("Loaded %d companies (updated %s) in %v", list.Len(), list.UpdateTime, time.Since(start))
	return list, nil
}

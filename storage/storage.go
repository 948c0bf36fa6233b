package storage

import (
	"context"
	"errors"

	"github.com/tnicklin/screambot/logger"
)

// Params holds configuration for creating an Accessor.
type Params struct {
	Config Config
	Logger logger.Logger
	// S3Client overrides the client built from Config.S3.
	S3Client ObjectGetter
}

// New returns the accessor selected by Config.Local.
func New(ctx context.Context, p Params) (Accessor, error) {
	p.Config.Defaults()

	log := p.Logger
	if log == nil {
		log = logger.NewNop()
	}

	if p.Config.Local {
		return NewLocal(LocalParams{
			BaseDir:  p.Config.BaseDir,
			Debounce: p.Config.Debounce,
			Logger:   log,
		}), nil
	}

	if p.Config.S3.Bucket == "" {
		return nil, errors.New("storage: s3 bucket is required in remote mode")
	}

	client := p.S3Client
	if client == nil {
		c, err := NewS3Client(ctx, p.Config.S3)
		if err != nil {
			return nil, err
		}
		client = c
	}

	return NewS3(S3Params{
		Bucket: p.Config.S3.Bucket,
		Client: client,
		Logger: log,
	}), nil
}

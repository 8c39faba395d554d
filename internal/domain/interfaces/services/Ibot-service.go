package Iservices

import (
	"context"

	"expert-finder/internal/domain/dto"
)

// IBotService is the per-turn entry point. The returned value, when
// non-nil, is the invoke response body the webhook writes back to the
// transport.
type IBotService interface {
	ProcessActivity(ctx context.Context, activity *dto.Activity) (any, error)
}
